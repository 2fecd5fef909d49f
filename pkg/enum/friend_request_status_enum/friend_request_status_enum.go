// Package friend_request_status_enum 定义好友申请状态枚举
package friend_request_status_enum

const (
	PENDING  int8 = iota // 待处理，唯一可变状态
	ACCEPTED             // 已通过（终态）
	REJECTED             // 已拒绝（终态）
)
