package respond

// UserSummaryRespond 用户轻量信息投影
// 好友列表、共同好友、通知发送者等场景共用
type UserSummaryRespond struct {
	UserId   string `json:"user_id"`
	UserName string `json:"user_name"`
	Avatar   string `json:"avatar"`
}
