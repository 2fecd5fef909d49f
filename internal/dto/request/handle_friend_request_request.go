package request

// HandleFriendRequestRequest 处理好友申请请求（接受/拒绝/撤回共用）
// 使用位置:
//   - handler/friend_handler.go: AcceptFriendRequestHandler
//   - handler/friend_handler.go: RejectFriendRequestHandler
//   - handler/friend_handler.go: CancelFriendRequestHandler
type HandleFriendRequestRequest struct {
	// RequestId 好友申请ID
	RequestId string `json:"request_id" binding:"required"`
}
