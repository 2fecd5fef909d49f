// Package websocket 实现 WebSocket 网关
// 本文件定义网关与业务层之间的契约
package websocket

// Frame WebSocket 线上帧格式
// 出站推送和入站瞬时信号共用同一结构
type Frame struct {
	// Event 事件名
	Event string `json:"event"`
	// Data 事件负载
	Data interface{} `json:"data"`
}

// LiveSink 入站瞬时信号的受理方
// 由 live 服务实现；网关只解析帧并转交，不做业务
type LiveSink interface {
	// Typing 转发"正在输入"信号
	Typing(userId, receiverId string, isTyping bool) error
	// MarkAsRead 转发"已读"回执
	MarkAsRead(userId, conversationId, otherUserId string) error
}
