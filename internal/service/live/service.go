// Package live 实现瞬时信号分发
// typing 与对端已读回执两类信号不落库、不重试、不保证送达，
// 丢一个信号由下一个信号自愈
package live

import (
	"context"

	"go.uber.org/zap"

	"huddle_social_server/internal/service/push"
)

// liveService 瞬时信号业务逻辑实现
type liveService struct {
	bus push.EventBus
}

// NewLiveService 构造函数
func NewLiveService(bus push.EventBus) *liveService {
	return &liveService{bus: bus}
}

// Typing 向对方转发"正在输入"信号
func (l *liveService) Typing(userId, receiverId string, isTyping bool) error {
	l.publish(push.EventTyping, receiverId, map[string]interface{}{
		"userId":   userId,
		"isTyping": isTyping,
	})
	return nil
}

// MarkAsRead 向对方转发"已读"回执
// 持久化的已读状态由会话服务维护，这里只做实时信号透传
func (l *liveService) MarkAsRead(userId, conversationId, otherUserId string) error {
	l.publish(push.EventMarkAsRead, otherUserId, map[string]interface{}{
		"conversationId": conversationId,
		"userId":         userId,
	})
	return nil
}

// publish 发布推送事件，失败只记日志
func (l *liveService) publish(name, to string, payload interface{}) {
	if l.bus == nil {
		return
	}
	event := &push.Event{Name: name, To: to, Payload: payload}
	if err := l.bus.Publish(context.Background(), event); err != nil {
		zap.L().Warn("发布瞬时信号失败", zap.String("event", name), zap.String("to", to), zap.Error(err))
	}
}
