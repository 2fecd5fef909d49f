package request

// CreateNotificationRequest 创建通知请求
// 供帖子/评论协作方触发 post_like、post_comment 类通知
// 使用位置:
//   - handler/notification_handler.go: CreateNotificationHandler
type CreateNotificationRequest struct {
	// RecipientId 接收者用户ID
	RecipientId string `json:"recipient_id" binding:"required"`
	// Type 通知类型，如 post_like、post_comment
	Type string `json:"type" binding:"required"`
	// Message 通知文案
	Message string `json:"message" binding:"required"`
	// RelatedPost 关联帖子ID（可空）
	RelatedPost string `json:"related_post"`
	// RelatedComment 关联评论ID（可空）
	RelatedComment string `json:"related_comment"`
}
