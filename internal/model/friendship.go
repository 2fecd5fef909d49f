package model

import "gorm.io/gorm"

// Friendship 好友关系行
// 对称关系存两行：A→B 和 B→A，在同一事务中成对创建
// 对应数据库 friendship 表
type Friendship struct {
	gorm.Model
	UserId   string `gorm:"column:user_id;type:char(20);not null;uniqueIndex:idx_user_friend;comment:用户ID"`
	FriendId string `gorm:"column:friend_id;type:char(20);not null;uniqueIndex:idx_user_friend;comment:好友ID"`
}

func (Friendship) TableName() string {
	return "friendship"
}
