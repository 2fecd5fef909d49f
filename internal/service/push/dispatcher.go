// Package push 实现推送事件总线
// dispatcher.go
// 核心职责：把事件投递到接收者的连接
// 接收者不在线时静默丢弃（持久化副本已在业务层落库）
package push

import (
	"huddle_social_server/internal/service/presence"

	"go.uber.org/zap"
)

// Dispatcher 事件分发器
// 消费总线事件，查询在线注册表并向连接推送
type Dispatcher struct {
	registry *presence.Registry
}

// NewDispatcher 创建事件分发器
func NewDispatcher(registry *presence.Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch 投递单个事件
// 不在线或推送失败都不返回错误：实时推送是尽力而为的通知，
// 权威数据已由业务层持久化
func (d *Dispatcher) Dispatch(event *Event) {
	if event == nil || event.To == "" {
		return
	}

	conn := d.registry.Get(event.To)
	if conn == nil {
		zap.L().Debug("接收者不在线，跳过推送",
			zap.String("event", event.Name), zap.String("to", event.To))
		return
	}

	if err := conn.Push(event.Name, event.Payload); err != nil {
		zap.L().Warn("推送事件失败",
			zap.String("event", event.Name), zap.String("to", event.To), zap.Error(err))
	}
}
