package respond

// OpenConversationRespond 打开会话响应
type OpenConversationRespond struct {
	ConversationId string `json:"conversation_id"`
	// Created 本次调用是否新建了会话
	Created bool `json:"created"`
}
