package request

// OpenConversationRequest 打开（获取或创建）会话请求
// 使用位置:
//   - handler/conversation_handler.go: OpenConversationHandler
type OpenConversationRequest struct {
	// OtherId 对方用户ID
	OtherId string `json:"other_id" binding:"required"`
}
