// Package push 实现推送事件总线
// bus.go
// 核心职责：定义推送事件与事件总线接口
// 业务服务先落库再发布事件，总线消费事件后按在线状态投递，
// 投递失败只记日志，不回滚业务结果
package push

import (
	"context"
	"encoding/json"
)

// 推送事件名
const (
	// EventNewMessage 新消息，负载 {conversationId, message}
	EventNewMessage = "newMessage"
	// EventFriendRequestReceived 收到好友申请，负载为申请记录
	EventFriendRequestReceived = "friendRequestReceived"
	// EventFriendRequestAccepted 好友申请被接受，负载为申请记录
	EventFriendRequestAccepted = "friendRequestAccepted"
	// EventFriendRequestRejected 好友申请被拒绝，负载为申请记录
	EventFriendRequestRejected = "friendRequestRejected"
	// EventNotification 新通知，负载为完整通知记录
	EventNotification = "notification"
	// EventTyping 正在输入，负载 {userId, isTyping}
	EventTyping = "typing"
	// EventMarkAsRead 对方已读，负载 {conversationId, userId}
	EventMarkAsRead = "markAsRead"
)

// Event 一次面向单个用户的推送
type Event struct {
	// Name 事件名，如 newMessage、friendRequestReceived、notification、typing
	Name string `json:"name"`
	// To 接收者用户 UUID
	To string `json:"to"`
	// Payload 事件负载，投递前序列化为 JSON
	Payload interface{} `json:"payload"`
}

// Encode 序列化事件（Kafka 模式的线上格式）
func (e *Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEvent 反序列化事件
func DecodeEvent(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// EventBus 推送事件总线接口
// 支持多种实现：ChannelBus (单机), KafkaBus (分布式)
type EventBus interface {
	// Publish 发布事件到总线
	Publish(ctx context.Context, event *Event) error
	// Start 启动事件消费循环
	Start()
	// Close 关闭总线资源
	Close()
}

// GlobalBus 全局事件总线实例
// 在 main.go 中根据配置初始化为 ChannelBus 或 KafkaBus
var GlobalBus EventBus
