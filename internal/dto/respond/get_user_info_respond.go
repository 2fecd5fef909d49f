package respond

// GetUserInfoRespond 用户资料响应
// 使用位置:
//   - internal/service/friend/service.go: GetUserProfile
type GetUserInfoRespond struct {
	UserId      string `json:"user_id"`
	UserName    string `json:"user_name"`
	Email       string `json:"email"`
	Avatar      string `json:"avatar"`
	Signature   string `json:"signature"`
	FriendCount int    `json:"friend_count"`
	Online      bool   `json:"online"`
}
