package repository

import (
	"time"

	"huddle_social_server/internal/model"

	"gorm.io/gorm"
)

// messageRepository MessageRepository 接口的实现
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建 MessageRepository 实例
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create 创建消息
func (r *messageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return wrapDBError(err, "创建消息")
	}
	return nil
}

// FindPageByConversation 按会话分页查找消息
// visibleSince 非空时只返回其后的消息（清空聊天语义）
// 按 (created_at, id) 升序排序，同一可见窗口内偏移分页结果稳定
func (r *messageRepository) FindPageByConversation(conversationUuid string, visibleSince *time.Time, offset, limit int) ([]model.Message, error) {
	var messages []model.Message
	query := r.db.Where("conversation_uuid = ?", conversationUuid)
	if visibleSince != nil {
		query = query.Where("created_at > ?", *visibleSince)
	}
	if err := query.Order("created_at ASC, id ASC").
		Offset(offset).Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询消息 conv=%s", conversationUuid)
	}
	return messages, nil
}

// MarkSeenByReceiver 将会话中发给 receiverId 的未读消息全部置为已读
// 重复调用不报错也不产生额外变更，幂等
func (r *messageRepository) MarkSeenByReceiver(conversationUuid, receiverId string) error {
	if err := r.db.Model(&model.Message{}).
		Where("conversation_uuid = ? AND receive_id = ? AND seen = ?", conversationUuid, receiverId, false).
		Update("seen", true).Error; err != nil {
		return wrapDBErrorf(err, "消息置已读 conv=%s receiver=%s", conversationUuid, receiverId)
	}
	return nil
}
