package respond

// 关系状态取值
const (
	// RelationshipFriends 双方已是好友
	RelationshipFriends = "friends"
	// RelationshipRequested 我方已发出待处理申请
	RelationshipRequested = "requested"
	// RelationshipAccept 对方发来待处理申请，等待我方处理
	RelationshipAccept = "accept"
	// RelationshipFollow 无任何关系，可发起申请
	RelationshipFollow = "follow"
)

// RelationshipStatusRespond 关系状态响应
type RelationshipStatusRespond struct {
	Status string `json:"status"`
}
