package repository

import (
	"time"

	"huddle_social_server/internal/model"

	"gorm.io/gorm"
)

// userRepository UserRepository 接口的实现
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindByUuid 根据 UUID 查找用户
func (r *userRepository) FindByUuid(uuid string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.First(&user, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 uuid=%s", uuid)
	}
	return &user, nil
}

// FindByUuids 批量根据 UUID 查找用户
func (r *userRepository) FindByUuids(uuids []string) ([]model.UserInfo, error) {
	if len(uuids) == 0 {
		return []model.UserInfo{}, nil
	}
	var users []model.UserInfo
	if err := r.db.Where("uuid IN ?", uuids).Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "批量查询用户")
	}
	return users, nil
}

// FindByEmail 根据邮箱查找用户
func (r *userRepository) FindByEmail(email string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 email=%s", email)
	}
	return &user, nil
}

// Create 创建新用户
func (r *userRepository) Create(user *model.UserInfo) error {
	if err := r.db.Create(user).Error; err != nil {
		return wrapDBError(err, "创建用户")
	}
	return nil
}

// UpdateUserInfo 更新用户信息
func (r *userRepository) UpdateUserInfo(user *model.UserInfo) error {
	if err := r.db.Save(user).Error; err != nil {
		return wrapDBError(err, "更新用户信息")
	}
	return nil
}

// TouchPresence 记录用户最近上线/下线时间
func (r *userRepository) TouchPresence(uuid string, online bool, at time.Time) error {
	column := "last_offline_at"
	if online {
		column = "last_online_at"
	}
	if err := r.db.Model(&model.UserInfo{}).Where("uuid = ?", uuid).
		Update(column, at).Error; err != nil {
		return wrapDBErrorf(err, "更新在线时间 uuid=%s", uuid)
	}
	return nil
}

// IncrementFriendCount 好友计数增减
// delta 可为负数；使用表达式更新避免读-改-写竞态
func (r *userRepository) IncrementFriendCount(uuid string, delta int) error {
	if err := r.db.Model(&model.UserInfo{}).Where("uuid = ?", uuid).
		Update("friend_count", gorm.Expr("friend_count + ?", delta)).Error; err != nil {
		return wrapDBErrorf(err, "更新好友计数 uuid=%s", uuid)
	}
	return nil
}
