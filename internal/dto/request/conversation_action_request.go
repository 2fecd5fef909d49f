package request

// ConversationActionRequest 作用于单个会话的请求
// 使用位置:
//   - handler/conversation_handler.go: MarkAsReadHandler
type ConversationActionRequest struct {
	// ConversationId 会话ID
	ConversationId string `json:"conversation_id" binding:"required"`
}
