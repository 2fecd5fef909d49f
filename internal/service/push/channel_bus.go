// Package push 实现推送事件总线
// channel_bus.go
// 核心职责：单机模式下的事件总线实现
// 事件经缓冲通道流转，由单个消费循环投递，不依赖外部消息队列
package push

import (
	"context"

	"huddle_social_server/pkg/constants"
	"huddle_social_server/pkg/errorx"

	"go.uber.org/zap"
)

// ChannelBus 基于 Go channel 的单机事件总线
type ChannelBus struct {
	events     chan *Event
	dispatcher *Dispatcher
	done       chan struct{}
}

// NewChannelBus 创建单机事件总线
func NewChannelBus(dispatcher *Dispatcher) *ChannelBus {
	return &ChannelBus{
		events:     make(chan *Event, constants.CHANNEL_SIZE),
		dispatcher: dispatcher,
		done:       make(chan struct{}),
	}
}

// Publish 发布事件到通道
// 通道已满时返回错误而不阻塞业务流程
func (b *ChannelBus) Publish(ctx context.Context, event *Event) error {
	select {
	case b.events <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		zap.L().Warn("推送事件通道已满，事件被丢弃", zap.String("event", event.Name), zap.String("to", event.To))
		return errorx.New(errorx.CodeServerBusy, "推送事件通道已满")
	}
}

// Start 启动事件消费循环
func (b *ChannelBus) Start() {
	zap.L().Info("ChannelBus started")
	for {
		select {
		case event, ok := <-b.events:
			if !ok {
				return
			}
			b.dispatcher.Dispatch(event)
		case <-b.done:
			return
		}
	}
}

// Close 关闭总线
func (b *ChannelBus) Close() {
	close(b.done)
}

var _ EventBus = (*ChannelBus)(nil)
