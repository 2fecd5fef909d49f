// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
// 接口设计遵循依赖倒置原则，便于测试和解耦
package service

import (
	"huddle_social_server/internal/dto/request"
	"huddle_social_server/internal/dto/respond"
	"huddle_social_server/internal/service/notification"
)

// FriendService 好友关系业务接口
// 处理好友申请状态机、好友列表、关系状态查询等功能
type FriendService interface {
	// SendFriendRequest 发送好友申请
	SendFriendRequest(userId string, req request.SendFriendRequestRequest) (*respond.FriendRequestRespond, error)
	// AcceptFriendRequest 接受好友申请
	AcceptFriendRequest(userId, requestId string) error
	// RejectFriendRequest 拒绝好友申请
	RejectFriendRequest(userId, requestId string) error
	// CancelFriendRequest 撤回自己发出的好友申请
	CancelFriendRequest(userId, requestId string) error
	// GetPendingRequests 获取发给我的待处理申请列表
	GetPendingRequests(userId string) ([]respond.FriendRequestRespond, error)
	// GetSentRequests 获取我发出的待处理申请列表
	GetSentRequests(userId string) ([]respond.FriendRequestRespond, error)
	// GetRelationshipStatus 查询与另一用户的关系状态
	GetRelationshipStatus(userId, otherId string) (*respond.RelationshipStatusRespond, error)
	// GetMutualFriends 查询共同好友
	GetMutualFriends(userId, otherId string) ([]respond.UserSummaryRespond, error)
	// GetFriendList 获取好友列表
	GetFriendList(userId string) ([]respond.UserSummaryRespond, error)
	// GetUserProfile 获取用户资料投影
	GetUserProfile(userId string) (*respond.GetUserInfoRespond, error)
}

// ConversationService 会话业务接口
// 处理会话打开、消息收发、已读、删除、会话列表等功能
type ConversationService interface {
	// OpenConversation 打开（获取或创建）会话
	OpenConversation(userId, otherId string) (*respond.OpenConversationRespond, error)
	// SendMessage 发送消息
	SendMessage(userId string, req request.SendMessageRequest) (*respond.GetMessageListRespond, error)
	// GetMessageList 获取消息列表
	GetMessageList(userId string, req request.GetMessageListRequest) ([]respond.GetMessageListRespond, error)
	// MarkAsRead 会话内消息全部置为已读
	MarkAsRead(userId, conversationId string) error
	// DeleteConversation 删除（隐藏并清空）会话
	DeleteConversation(userId, otherId string) error
	// GetConversationList 获取会话列表
	GetConversationList(userId string) ([]respond.ConversationListRespond, error)
}

// NotificationService 通知业务接口
// 处理通知创建（含去重）、列表、已读、删除等功能
type NotificationService interface {
	// Create 创建通知（recipient==sender 时静默跳过，窗口内重复返回已有记录）
	Create(p notification.CreateParams) (*respond.NotificationRespond, error)
	// GetNotificationList 分页获取通知列表，limit 缺省取默认页大小
	GetNotificationList(userId string, page, limit int) (*respond.NotificationListRespond, error)
	// MarkRead 单条通知置为已读
	MarkRead(userId, notificationId string) error
	// MarkAllRead 全部通知置为已读
	MarkAllRead(userId string) error
	// Delete 删除单条通知
	Delete(userId, notificationId string) error
	// ClearAll 清空全部通知
	ClearAll(userId string) error
}

// LiveService 瞬时信号业务接口
// typing / 已读回执透传，不落库
type LiveService interface {
	// Typing 转发"正在输入"信号
	Typing(userId, receiverId string, isTyping bool) error
	// MarkAsRead 转发"已读"回执
	MarkAsRead(userId, conversationId, otherUserId string) error
}
