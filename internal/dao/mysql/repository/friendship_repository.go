package repository

import (
	"errors"

	"huddle_social_server/internal/model"

	"gorm.io/gorm"
)

// friendshipRepository FriendshipRepository 接口的实现
type friendshipRepository struct {
	db *gorm.DB
}

// NewFriendshipRepository 创建 FriendshipRepository 实例
func NewFriendshipRepository(db *gorm.DB) FriendshipRepository {
	return &friendshipRepository{db: db}
}

// Create 创建单向好友行
// 对称的另一行由 Service 层在同一事务中创建
func (r *friendshipRepository) Create(friendship *model.Friendship) error {
	if err := r.db.Create(friendship).Error; err != nil {
		return wrapDBError(err, "创建好友关系")
	}
	return nil
}

// Exists 判断 friendId 是否在 userId 的好友集合中
func (r *friendshipRepository) Exists(userId, friendId string) (bool, error) {
	var friendship model.Friendship
	err := r.db.Where("user_id = ? AND friend_id = ?", userId, friendId).First(&friendship).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, wrapDBErrorf(err, "查询好友关系 user=%s friend=%s", userId, friendId)
	}
	return true, nil
}

// FindFriendIds 查找用户的全部好友 UUID
func (r *friendshipRepository) FindFriendIds(userId string) ([]string, error) {
	var friendIds []string
	if err := r.db.Model(&model.Friendship{}).Where("user_id = ?", userId).
		Pluck("friend_id", &friendIds).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询好友列表 user=%s", userId)
	}
	return friendIds, nil
}
