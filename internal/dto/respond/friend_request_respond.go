package respond

// FriendRequestRespond 好友申请响应
// 使用位置:
//   - internal/service/friend/service.go: SendFriendRequest / GetPendingRequests
type FriendRequestRespond struct {
	RequestId string `json:"request_id"`
	FromId    string `json:"from_id"`
	ToId      string `json:"to_id"`
	// UserId/UserName/Avatar 为对端用户投影
	// 收到的申请里是申请人，发出的申请里是被申请人
	UserId    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Avatar    string `json:"avatar"`
	CreatedAt string `json:"created_at"`
}
