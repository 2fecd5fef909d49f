// Package repository 提供数据访问层的具体实现
// 本文件实现 FriendRequestRepository 接口，处理好友申请相关的数据库操作
package repository

import (
	"huddle_social_server/internal/model"
	"huddle_social_server/pkg/enum/friend_request_status_enum"
	"huddle_social_server/pkg/errorx"

	"gorm.io/gorm"
)

// friendRequestRepository FriendRequestRepository 接口的实现
type friendRequestRepository struct {
	db *gorm.DB
}

// NewFriendRequestRepository 创建 FriendRequestRepository 实例
func NewFriendRequestRepository(db *gorm.DB) FriendRequestRepository {
	return &friendRequestRepository{db: db}
}

// FindByUuid 根据 UUID 查找申请记录
func (r *friendRequestRepository) FindByUuid(uuid string) (*model.FriendRequest, error) {
	var request model.FriendRequest
	if err := r.db.First(&request, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询好友申请 uuid=%s", uuid)
	}
	return &request, nil
}

// FindPendingByPair 查找无序对上的待处理申请（任一方向）
// 用于 sendRequest 前的查重
func (r *friendRequestRepository) FindPendingByPair(pairKey string) (*model.FriendRequest, error) {
	var request model.FriendRequest
	if err := r.db.Where("pair_key = ? AND status = ?", pairKey, friend_request_status_enum.PENDING).
		First(&request).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询待处理申请 pair_key=%s", pairKey)
	}
	return &request, nil
}

// FindPendingByFromAndTo 查找指定方向的待处理申请
// cancel 操作只允许申请方撤回自己发出的申请
func (r *friendRequestRepository) FindPendingByFromAndTo(fromId, toId string) (*model.FriendRequest, error) {
	var request model.FriendRequest
	if err := r.db.Where("from_id = ? AND to_id = ? AND status = ?", fromId, toId, friend_request_status_enum.PENDING).
		First(&request).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询待处理申请 from=%s to=%s", fromId, toId)
	}
	return &request, nil
}

// FindPendingByTo 查找发给某用户的待处理申请列表
func (r *friendRequestRepository) FindPendingByTo(toId string) ([]model.FriendRequest, error) {
	var requests []model.FriendRequest
	if err := r.db.Where("to_id = ? AND status = ?", toId, friend_request_status_enum.PENDING).
		Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询待处理申请 to=%s", toId)
	}
	return requests, nil
}

// FindPendingByFrom 查找某用户发出的待处理申请列表
func (r *friendRequestRepository) FindPendingByFrom(fromId string) ([]model.FriendRequest, error) {
	var requests []model.FriendRequest
	if err := r.db.Where("from_id = ? AND status = ?", fromId, friend_request_status_enum.PENDING).
		Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询发出的申请 from=%s", fromId)
	}
	return requests, nil
}

// Create 创建新的申请记录
func (r *friendRequestRepository) Create(request *model.FriendRequest) error {
	if err := r.db.Create(request).Error; err != nil {
		return wrapDBError(err, "创建好友申请")
	}
	return nil
}

// UpdateStatus 将待处理申请转移到终态
// 条件更新只命中 pending 行，0 行命中说明已被并发处理，返回状态非法；
// 终态一经写入不可再被覆盖
func (r *friendRequestRepository) UpdateStatus(uuid string, status int8) error {
	result := r.db.Model(&model.FriendRequest{}).
		Where("uuid = ? AND status = ?", uuid, friend_request_status_enum.PENDING).
		Update("status", status)
	if result.Error != nil {
		return wrapDBErrorf(result.Error, "更新申请状态 uuid=%s", uuid)
	}
	if result.RowsAffected == 0 {
		return errorx.New(errorx.CodeInvalidState, "申请已被处理")
	}
	return nil
}

// Delete 删除待处理的申请记录（cancel 操作，软删除）
// 只命中 pending 行，申请刚被并发处理时不删除终态记录
func (r *friendRequestRepository) Delete(uuid string) error {
	result := r.db.Where("uuid = ? AND status = ?", uuid, friend_request_status_enum.PENDING).
		Delete(&model.FriendRequest{})
	if result.Error != nil {
		return wrapDBErrorf(result.Error, "删除申请 uuid=%s", uuid)
	}
	if result.RowsAffected == 0 {
		return errorx.New(errorx.CodeNotFound, "待处理的申请不存在")
	}
	return nil
}
