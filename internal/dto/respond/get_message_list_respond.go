package respond

// GetMessageListRespond 消息列表项响应
// 同一结构也作为 newMessage 推送事件的负载
// 使用位置:
//   - internal/service/conversation/service.go: SendMessage / GetMessageList
type GetMessageListRespond struct {
	MessageId      string `json:"message_id"`
	ConversationId string `json:"conversation_id"`
	SendId         string `json:"send_id"`
	ReceiveId      string `json:"receive_id"`
	Content        string `json:"content"`
	Seen           bool   `json:"seen"`
	CreatedAt      string `json:"created_at"`
}
