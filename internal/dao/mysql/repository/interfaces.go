// Package repository 定义数据访问层接口和聚合结构
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"time"

	"huddle_social_server/internal/model"

	"gorm.io/gorm"
)

// ==================== Repository 接口定义 ====================

// UserRepository 用户数据访问接口
// 社交核心只消费身份与展示字段，注册登录等完整用户管理属于外部协作方
type UserRepository interface {
	// FindByUuid 根据 UUID 查找用户
	FindByUuid(uuid string) (*model.UserInfo, error)
	// FindByUuids 批量根据 UUID 查找用户
	FindByUuids(uuids []string) ([]model.UserInfo, error)
	// FindByEmail 根据邮箱查找用户
	FindByEmail(email string) (*model.UserInfo, error)
	// Create 创建新用户
	Create(user *model.UserInfo) error
	// UpdateUserInfo 更新用户信息
	UpdateUserInfo(user *model.UserInfo) error
	// IncrementFriendCount 好友计数增减
	IncrementFriendCount(uuid string, delta int) error
	// TouchPresence 记录用户最近上线/下线时间
	TouchPresence(uuid string, online bool, at time.Time) error
}

// FriendRequestRepository 好友申请数据访问接口
type FriendRequestRepository interface {
	// FindByUuid 根据 UUID 查找申请
	FindByUuid(uuid string) (*model.FriendRequest, error)
	// FindPendingByPair 查找无序对上的待处理申请（任一方向）
	FindPendingByPair(pairKey string) (*model.FriendRequest, error)
	// FindPendingByFromAndTo 查找指定方向的待处理申请
	FindPendingByFromAndTo(fromId, toId string) (*model.FriendRequest, error)
	// FindPendingByTo 查找发给某用户的待处理申请列表
	FindPendingByTo(toId string) ([]model.FriendRequest, error)
	// FindPendingByFrom 查找某用户发出的待处理申请列表
	FindPendingByFrom(fromId string) ([]model.FriendRequest, error)
	// Create 创建申请
	Create(request *model.FriendRequest) error
	// UpdateStatus 申请状态转移（pending -> accepted/rejected）
	// 条件更新，目标行已不是 pending 时返回 CodeInvalidState
	UpdateStatus(uuid string, status int8) error
	// Delete 删除待处理申请（cancel 操作，软删除）
	// 条件删除，目标行已不是 pending 时返回 CodeNotFound
	Delete(uuid string) error
}

// FriendshipRepository 好友关系数据访问接口
// 对称关系，成对维护 A→B 与 B→A 两行
type FriendshipRepository interface {
	// Create 创建单向好友行
	Create(friendship *model.Friendship) error
	// Exists 判断 friendId 是否在 userId 的好友集合中
	Exists(userId, friendId string) (bool, error)
	// FindFriendIds 查找用户的全部好友 UUID
	FindFriendIds(userId string) ([]string, error)
}

// ConversationRepository 会话数据访问接口
// 会话实体与两条参与者可见性记录一并管理
type ConversationRepository interface {
	// FindByUuid 根据 UUID 查找会话
	FindByUuid(uuid string) (*model.Conversation, error)
	// FindByPairKey 根据无序对键查找会话
	FindByPairKey(pairKey string) (*model.Conversation, error)
	// FindByUuids 批量根据 UUID 查找会话
	FindByUuids(uuids []string) ([]model.Conversation, error)
	// Create 创建会话
	Create(conversation *model.Conversation) error
	// UpdateLastMessage 更新会话的最新消息摘要和时间
	UpdateLastMessage(uuid string, content string, at time.Time) error

	// FindMember 查找参与者可见性记录
	FindMember(conversationUuid, userId string) (*model.ConversationMember, error)
	// CreateMember 创建参与者可见性记录
	CreateMember(member *model.ConversationMember) error
	// UnhideMember 解除隐藏（单条 UPDATE，不触碰 visible_since）
	UnhideMember(conversationUuid, userId string) error
	// HideAndClearMember 隐藏会话并推进历史可见起点、未读归零（单条 UPDATE 原子完成）
	HideAndClearMember(conversationUuid, userId string, at time.Time) error
	// IncrementUnread 未读计数 +1
	IncrementUnread(conversationUuid, userId string) error
	// ResetUnread 未读计数归零
	ResetUnread(conversationUuid, userId string) error
	// FindVisibleMembersByUser 查找用户所有未隐藏的参与记录
	FindVisibleMembersByUser(userId string) ([]model.ConversationMember, error)
}

// MessageRepository 消息数据访问接口
type MessageRepository interface {
	// Create 创建消息
	Create(message *model.Message) error
	// FindPageByConversation 按会话分页查找消息
	// visibleSince 非空时只返回其后的消息；按 (created_at, id) 升序，保证同一可见窗口内分页稳定
	FindPageByConversation(conversationUuid string, visibleSince *time.Time, offset, limit int) ([]model.Message, error)
	// MarkSeenByReceiver 将会话中发给 receiverId 的未读消息全部置为已读
	MarkSeenByReceiver(conversationUuid, receiverId string) error
}

// NotificationRepository 通知数据访问接口
type NotificationRepository interface {
	// FindByUuid 根据 UUID 查找通知
	FindByUuid(uuid string) (*model.Notification, error)
	// FindRecentDuplicate 查找去重窗口内的重复通知
	// 去重键为 (recipient, sender, type, related_post)
	FindRecentDuplicate(recipientId, senderId, notifType, relatedPost string, since time.Time) (*model.Notification, error)
	// FindPageByRecipient 按接收者分页查找通知，按创建时间倒序
	FindPageByRecipient(recipientId string, offset, limit int) ([]model.Notification, int64, error)
	// Create 创建通知
	Create(notification *model.Notification) error
	// MarkRead 单条置为已读
	MarkRead(uuid string) error
	// MarkAllRead 接收者的全部通知置为已读
	MarkAllRead(recipientId string) error
	// Delete 删除单条通知（软删除）
	Delete(uuid string) error
	// DeleteAllByRecipient 清空接收者的全部通知（软删除）
	DeleteAllByRecipient(recipientId string) error
}

// ==================== Repository 聚合 ====================

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db            *gorm.DB                // GORM 数据库实例
	User          UserRepository          // 用户 Repository
	FriendRequest FriendRequestRepository // 好友申请 Repository
	Friendship    FriendshipRepository    // 好友关系 Repository
	Conversation  ConversationRepository  // 会话 Repository
	Message       MessageRepository       // 消息 Repository
	Notification  NotificationRepository  // 通知 Repository
}

// NewRepositories 创建所有 Repository 实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:            db,
		User:          NewUserRepository(db),
		FriendRequest: NewFriendRequestRepository(db),
		Friendship:    NewFriendshipRepository(db),
		Conversation:  NewConversationRepository(db),
		Message:       NewMessageRepository(db),
		Notification:  NewNotificationRepository(db),
	}
}

// Transaction 在数据库事务中执行函数
// 事务内的所有操作要么全部成功，要么全部回滚
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// 使用事务 db 创建新的 Repositories 实例
		return fn(NewRepositories(tx))
	})
}
