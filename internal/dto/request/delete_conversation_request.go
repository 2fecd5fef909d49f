package request

// DeleteConversationRequest 删除（隐藏并清空）与某用户会话的请求
// 使用位置:
//   - handler/conversation_handler.go: DeleteConversationHandler
type DeleteConversationRequest struct {
	// OtherId 对方用户ID
	OtherId string `json:"other_id" binding:"required"`
}
