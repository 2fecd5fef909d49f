// Package notification_type_enum 定义通知类型枚举
package notification_type_enum

const (
	FriendRequest = "friend_request" // 收到好友申请
	FriendAccept  = "friend_accept"  // 好友申请被通过
	PostLike      = "post_like"      // 帖子被点赞（由帖子服务触发）
	PostComment   = "post_comment"   // 帖子被评论（由帖子服务触发）
)
