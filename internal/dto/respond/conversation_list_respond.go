package respond

// ConversationListRespond 会话列表项响应
// 按对端用户投影 + 最新消息摘要 + 未读数组装
// 使用位置:
//   - internal/service/conversation/service.go: GetConversationList
type ConversationListRespond struct {
	ConversationId string `json:"conversation_id"`
	UserId         string `json:"user_id"`
	UserName       string `json:"user_name"`
	Avatar         string `json:"avatar"`
	LastMessage    string `json:"last_message"`
	LastMessageAt  string `json:"last_message_at"`
	UnreadCount    int    `json:"unread_count"`
	Online         bool   `json:"online"`
}
