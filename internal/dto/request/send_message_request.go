package request

// SendMessageRequest 发送消息请求
// Content 的非空校验在 Service 层去除首尾空白后进行
// 使用位置:
//   - handler/conversation_handler.go: SendMessageHandler
type SendMessageRequest struct {
	// ReceiverId 接收者用户ID
	ReceiverId string `json:"receiver_id" binding:"required"`
	// Content 消息内容
	Content string `json:"content"`
}
