package request

// RelationshipStatusRequest 查询与另一用户关系状态的请求
// 使用位置:
//   - handler/friend_handler.go: GetRelationshipStatusHandler
//   - handler/friend_handler.go: GetMutualFriendsHandler
type RelationshipStatusRequest struct {
	// OtherId 对方用户ID
	OtherId string `json:"other_id" form:"other_id" binding:"required"`
}
