// Package model 定义数据库实体模型
// 本文件定义通知模型，持久化是通知投递的唯一事实来源，实时推送只是尽力而为
package model

import (
	"gorm.io/gorm"
)

// Notification 通知模型
// 对应数据库 notification 表
// 不变式：recipient == sender 的通知不会被创建；
// 5 分钟内相同 (recipient, sender, type, related_post) 的重复创建返回已有记录
type Notification struct {
	gorm.Model

	// Uuid 通知唯一标识
	// 格式：N + 13位时间戳随机字符串
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:通知id"`

	// RecipientId 接收者 UUID
	RecipientId string `gorm:"column:recipient_id;index;type:char(20);not null;comment:接收者uuid"`

	// SenderId 触发者 UUID
	SenderId string `gorm:"column:sender_id;index;type:char(20);not null;comment:触发者uuid"`

	// Type 通知类型
	// friend_request / friend_accept / post_like / post_comment
	Type string `gorm:"column:type;index;type:varchar(30);not null;comment:通知类型"`

	// Message 通知文案
	Message string `gorm:"column:message;type:varchar(255);comment:通知文案"`

	// RelatedPost 关联帖子 ID（点赞/评论通知），参与去重键
	RelatedPost string `gorm:"column:related_post;type:char(20);comment:关联帖子"`

	// RelatedComment 关联评论 ID（评论通知）
	RelatedComment string `gorm:"column:related_comment;type:char(20);comment:关联评论"`

	// RelatedRequest 关联好友申请 ID（好友类通知）
	RelatedRequest string `gorm:"column:related_request;type:char(20);comment:关联好友申请"`

	// IsRead 是否已读
	IsRead bool `gorm:"column:is_read;not null;default:false;comment:是否已读"`
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notification"
}
