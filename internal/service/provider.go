// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"huddle_social_server/internal/dao/mysql/repository"
	myredis "huddle_social_server/internal/dao/redis"
	"huddle_social_server/internal/service/conversation"
	"huddle_social_server/internal/service/friend"
	"huddle_social_server/internal/service/live"
	"huddle_social_server/internal/service/notification"
	"huddle_social_server/internal/service/presence"
	"huddle_social_server/internal/service/push"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层通过 service.Svc 访问各个 Service
type Services struct {
	Friend       FriendService       // 好友 Service
	Conversation ConversationService // 会话 Service
	Notification NotificationService // 通知 Service
	Live         LiveService         // 瞬时信号 Service
	Registry     *presence.Registry  // 在线注册表
}

// NewServices 创建并注入所有 Service 实例
// 依赖注入流程：
//  1. 接收 Repository 聚合、缓存服务、事件总线、在线注册表
//  2. 先创建通知 Service（好友 Service 依赖它触发通知）
//  3. 创建其余 Service 并聚合返回
func NewServices(
	repos *repository.Repositories,
	cache myredis.AsyncCacheService,
	bus push.EventBus,
	registry *presence.Registry,
) *Services {
	notificationSvc := notification.NewNotificationService(repos, bus)
	friendSvc := friend.NewFriendService(repos, cache, bus, notificationSvc, registry)
	conversationSvc := conversation.NewConversationService(repos, cache, bus, registry)
	liveSvc := live.NewLiveService(bus)

	return &Services{
		Friend:       friendSvc,
		Conversation: conversationSvc,
		Notification: notificationSvc,
		Live:         liveSvc,
		Registry:     registry,
	}
}

// Svc 全局 Services 实例
// Handler 层通过 service.Svc.Friend.SendFriendRequest() 等方式调用
var Svc *Services

// InitServices 初始化全局 Services 实例
// 应在 main.go 中调用，在 Repository/Redis/事件总线初始化之后
func InitServices(
	repos *repository.Repositories,
	cache myredis.AsyncCacheService,
	bus push.EventBus,
	registry *presence.Registry,
) {
	Svc = NewServices(repos, cache, bus, registry)
}
