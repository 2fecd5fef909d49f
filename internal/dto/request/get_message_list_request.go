package request

// GetMessageListRequest 获取与某用户会话的消息列表请求
// 使用位置:
//   - handler/conversation_handler.go: GetMessageListHandler
type GetMessageListRequest struct {
	// OtherId 对方用户ID
	OtherId string `json:"other_id" form:"other_id" binding:"required"`
	// Page 页码，从 1 开始，缺省为 1
	Page int `json:"page" form:"page"`
}
