package respond

// NotificationRespond 通知项响应
// 同一结构也作为 notification 推送事件的负载
type NotificationRespond struct {
	NotificationId string `json:"notification_id"`
	Type           string `json:"type"`
	Message        string `json:"message"`
	SenderId       string `json:"sender_id"`
	SenderName     string `json:"sender_name"`
	SenderAvatar   string `json:"sender_avatar"`
	RelatedPost    string `json:"related_post,omitempty"`
	RelatedComment string `json:"related_comment,omitempty"`
	RelatedRequest string `json:"related_request,omitempty"`
	IsRead         bool   `json:"is_read"`
	CreatedAt      string `json:"created_at"`
}

// NotificationListRespond 通知分页响应
type NotificationListRespond struct {
	Total         int64                 `json:"total"`
	Notifications []NotificationRespond `json:"notifications"`
}
