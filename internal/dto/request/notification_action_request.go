package request

// NotificationActionRequest 作用于单条通知的请求（已读/删除共用）
// 使用位置:
//   - handler/notification_handler.go: MarkNotificationReadHandler
//   - handler/notification_handler.go: DeleteNotificationHandler
type NotificationActionRequest struct {
	// NotificationId 通知ID
	NotificationId string `json:"notification_id" binding:"required"`
}
