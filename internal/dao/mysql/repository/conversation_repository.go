// Package repository 提供数据访问层的具体实现
// 本文件实现 ConversationRepository 接口，会话实体与参与者可见性记录一并管理
package repository

import (
	"time"

	"huddle_social_server/internal/model"

	"gorm.io/gorm"
)

// conversationRepository ConversationRepository 接口的实现
type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository 创建 ConversationRepository 实例
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

// FindByUuid 根据 UUID 查找会话
func (r *conversationRepository) FindByUuid(uuid string) (*model.Conversation, error) {
	var conversation model.Conversation
	if err := r.db.First(&conversation, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询会话 uuid=%s", uuid)
	}
	return &conversation, nil
}

// FindByPairKey 根据无序对键查找会话
func (r *conversationRepository) FindByPairKey(pairKey string) (*model.Conversation, error) {
	var conversation model.Conversation
	if err := r.db.First(&conversation, "pair_key = ?", pairKey).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询会话 pair_key=%s", pairKey)
	}
	return &conversation, nil
}

// FindByUuids 批量根据 UUID 查找会话
func (r *conversationRepository) FindByUuids(uuids []string) ([]model.Conversation, error) {
	if len(uuids) == 0 {
		return []model.Conversation{}, nil
	}
	var conversations []model.Conversation
	if err := r.db.Where("uuid IN ?", uuids).Find(&conversations).Error; err != nil {
		return nil, wrapDBError(err, "批量查询会话")
	}
	return conversations, nil
}

// Create 创建会话
// pair_key 上有唯一索引，并发重复创建会得到数据库错误，由 Service 层重查兜底
func (r *conversationRepository) Create(conversation *model.Conversation) error {
	if err := r.db.Create(conversation).Error; err != nil {
		return wrapDBError(err, "创建会话")
	}
	return nil
}

// UpdateLastMessage 更新会话的最新消息摘要和时间
func (r *conversationRepository) UpdateLastMessage(uuid string, content string, at time.Time) error {
	if err := r.db.Model(&model.Conversation{}).Where("uuid = ?", uuid).
		Updates(map[string]interface{}{
			"last_message":    content,
			"last_message_at": at,
		}).Error; err != nil {
		return wrapDBErrorf(err, "更新会话最新消息 uuid=%s", uuid)
	}
	return nil
}

// FindMember 查找参与者可见性记录
func (r *conversationRepository) FindMember(conversationUuid, userId string) (*model.ConversationMember, error) {
	var member model.ConversationMember
	if err := r.db.Where("conversation_uuid = ? AND user_id = ?", conversationUuid, userId).
		First(&member).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询会话成员 conv=%s user=%s", conversationUuid, userId)
	}
	return &member, nil
}

// CreateMember 创建参与者可见性记录
func (r *conversationRepository) CreateMember(member *model.ConversationMember) error {
	if err := r.db.Create(member).Error; err != nil {
		return wrapDBError(err, "创建会话成员")
	}
	return nil
}

// UnhideMember 解除隐藏
// 只翻转 hidden，不触碰 visible_since：重新浮出的会话仍然只显示清空点之后的历史
func (r *conversationRepository) UnhideMember(conversationUuid, userId string) error {
	if err := r.db.Model(&model.ConversationMember{}).
		Where("conversation_uuid = ? AND user_id = ?", conversationUuid, userId).
		Update("hidden", false).Error; err != nil {
		return wrapDBErrorf(err, "解除会话隐藏 conv=%s user=%s", conversationUuid, userId)
	}
	return nil
}

// HideAndClearMember 隐藏会话并推进历史可见起点、未读归零
// 三个字段在同一条 UPDATE 中修改，"删除聊天"语义原子生效
func (r *conversationRepository) HideAndClearMember(conversationUuid, userId string, at time.Time) error {
	if err := r.db.Model(&model.ConversationMember{}).
		Where("conversation_uuid = ? AND user_id = ?", conversationUuid, userId).
		Updates(map[string]interface{}{
			"hidden":        true,
			"visible_since": at,
			"unread_count":  0,
		}).Error; err != nil {
		return wrapDBErrorf(err, "隐藏并清空会话 conv=%s user=%s", conversationUuid, userId)
	}
	return nil
}

// IncrementUnread 未读计数 +1
// 使用表达式更新避免读-改-写竞态
func (r *conversationRepository) IncrementUnread(conversationUuid, userId string) error {
	if err := r.db.Model(&model.ConversationMember{}).
		Where("conversation_uuid = ? AND user_id = ?", conversationUuid, userId).
		Update("unread_count", gorm.Expr("unread_count + 1")).Error; err != nil {
		return wrapDBErrorf(err, "递增未读计数 conv=%s user=%s", conversationUuid, userId)
	}
	return nil
}

// ResetUnread 未读计数归零
func (r *conversationRepository) ResetUnread(conversationUuid, userId string) error {
	if err := r.db.Model(&model.ConversationMember{}).
		Where("conversation_uuid = ? AND user_id = ?", conversationUuid, userId).
		Update("unread_count", 0).Error; err != nil {
		return wrapDBErrorf(err, "重置未读计数 conv=%s user=%s", conversationUuid, userId)
	}
	return nil
}

// FindVisibleMembersByUser 查找用户所有未隐藏的参与记录
// 用于会话列表
func (r *conversationRepository) FindVisibleMembersByUser(userId string) ([]model.ConversationMember, error) {
	var members []model.ConversationMember
	if err := r.db.Where("user_id = ? AND hidden = ?", userId, false).
		Find(&members).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询可见会话成员 user=%s", userId)
	}
	return members, nil
}
