// Package model 定义数据库实体模型
// 本文件定义好友申请模型，一条记录对应一个有向申请
package model

import (
	"gorm.io/gorm"
)

// FriendRequest 好友申请模型
// 对应数据库 friend_request 表
// 状态机：pending 是唯一可变状态；accepted/rejected 为终态，不再修改；
// cancel 操作直接删除 pending 记录而不做状态转移
type FriendRequest struct {
	gorm.Model

	// Uuid 申请唯一标识
	// 格式：F + 13位时间戳随机字符串
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:申请id"`

	// FromId 申请人 UUID
	FromId string `gorm:"column:from_id;index;type:char(20);not null;comment:申请人ID"`

	// ToId 被申请人 UUID
	ToId string `gorm:"column:to_id;index;type:char(20);not null;comment:被申请人ID"`

	// PairKey 无序对规范化键，min(from,to) + ":" + max(from,to)
	// 配合 pairlock 串行化"查重-插入"，保证同一对用户最多一条 pending 记录
	PairKey string `gorm:"column:pair_key;index;type:char(41);not null;comment:无序对键"`

	// Status 申请状态
	// 0=待处理, 1=已通过, 2=已拒绝
	Status int8 `gorm:"column:status;not null;comment:申请状态，0.待处理，1.通过，2.拒绝"`
}

// TableName 指定表名
func (FriendRequest) TableName() string {
	return "friend_request"
}
