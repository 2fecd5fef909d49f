package request

// NotificationPageRequest 分页获取通知列表请求
// 使用位置:
//   - handler/notification_handler.go: GetNotificationListHandler
type NotificationPageRequest struct {
	// Page 页码，从 1 开始，缺省为 1
	Page int `json:"page" form:"page"`

	// Limit 每页条数，缺省取默认页大小，超过上限截断
	Limit int `json:"limit" form:"limit"`
}
