package request

// SendFriendRequestRequest 发送好友申请请求
// 使用位置:
//   - handler/friend_handler.go: SendFriendRequestHandler
type SendFriendRequestRequest struct {
	// ToId 被申请人用户ID
	ToId string `json:"to_id" binding:"required"`
}
