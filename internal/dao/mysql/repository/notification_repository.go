package repository

import (
	"errors"
	"time"

	"huddle_social_server/internal/model"

	"gorm.io/gorm"
)

// notificationRepository NotificationRepository 接口的实现
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository 创建 NotificationRepository 实例
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// FindByUuid 按 uuid 查找通知
func (r *notificationRepository) FindByUuid(uuid string) (*model.Notification, error) {
	var notification model.Notification
	if err := r.db.Where("uuid = ?", uuid).First(&notification).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询通知 uuid=%s", uuid)
	}
	return &notification, nil
}

// FindRecentDuplicate 在时间窗口内查找同 (接收者, 发送者, 类型, 关联帖子) 的通知
// 未找到返回 (nil, nil)，调用方据此判断是否需要新建
func (r *notificationRepository) FindRecentDuplicate(recipientId, senderId, notificationType, relatedPost string, since time.Time) (*model.Notification, error) {
	var notification model.Notification
	err := r.db.Where("recipient_id = ? AND sender_id = ? AND type = ? AND related_post = ? AND created_at > ?",
		recipientId, senderId, notificationType, relatedPost, since).
		Order("created_at DESC").
		First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, wrapDBError(err, "查询重复通知")
	}
	return &notification, nil
}

// FindPageByRecipient 按接收者分页查找通知，最新的在前，同时返回总数
func (r *notificationRepository) FindPageByRecipient(recipientId string, offset, limit int) ([]model.Notification, int64, error) {
	var notifications []model.Notification
	var total int64
	if err := r.db.Model(&model.Notification{}).
		Where("recipient_id = ?", recipientId).
		Count(&total).Error; err != nil {
		return nil, 0, wrapDBErrorf(err, "统计通知 recipient=%s", recipientId)
	}
	if err := r.db.Where("recipient_id = ?", recipientId).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, 0, wrapDBErrorf(err, "查询通知 recipient=%s", recipientId)
	}
	return notifications, total, nil
}

// Create 创建通知
func (r *notificationRepository) Create(notification *model.Notification) error {
	if err := r.db.Create(notification).Error; err != nil {
		return wrapDBError(err, "创建通知")
	}
	return nil
}

// MarkRead 将单条通知置为已读
func (r *notificationRepository) MarkRead(uuid string) error {
	if err := r.db.Model(&model.Notification{}).
		Where("uuid = ?", uuid).
		Update("is_read", true).Error; err != nil {
		return wrapDBErrorf(err, "通知置已读 uuid=%s", uuid)
	}
	return nil
}

// MarkAllRead 将接收者所有未读通知置为已读
func (r *notificationRepository) MarkAllRead(recipientId string) error {
	if err := r.db.Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientId, false).
		Update("is_read", true).Error; err != nil {
		return wrapDBErrorf(err, "通知全部置已读 recipient=%s", recipientId)
	}
	return nil
}

// Delete 删除单条通知
func (r *notificationRepository) Delete(uuid string) error {
	if err := r.db.Where("uuid = ?", uuid).
		Delete(&model.Notification{}).Error; err != nil {
		return wrapDBErrorf(err, "删除通知 uuid=%s", uuid)
	}
	return nil
}

// DeleteAllByRecipient 清空接收者的全部通知
func (r *notificationRepository) DeleteAllByRecipient(recipientId string) error {
	if err := r.db.Where("recipient_id = ?", recipientId).
		Delete(&model.Notification{}).Error; err != nil {
		return wrapDBErrorf(err, "清空通知 recipient=%s", recipientId)
	}
	return nil
}
