// Package model 定义数据库实体模型
// 本文件定义私聊消息模型
package model

import (
	"gorm.io/gorm"
)

// Message 消息模型
// 对应数据库 message 表
// 消息一经创建不可变，唯一例外是 seen 标志；
// 单方"删除聊天"只推进对方不可见的 visible_since，不物理删除消息行
type Message struct {
	gorm.Model

	// Uuid 消息唯一标识
	// 使用雪花算法生成的 int64 类型 ID
	Uuid int64 `gorm:"column:uuid;uniqueIndex;type:bigint;not null;comment:消息雪花ID"`

	// ConversationUuid 所属会话
	ConversationUuid string `gorm:"column:conversation_uuid;index;type:char(20);not null;comment:会话uuid"`

	// SendId 发送者 UUID
	SendId string `gorm:"column:send_id;index;type:char(20);not null;comment:发送者uuid"`

	// ReceiveId 接收者 UUID
	ReceiveId string `gorm:"column:receive_id;index;type:char(20);not null;comment:接收者uuid"`

	// Content 消息文本内容
	Content string `gorm:"column:content;type:TEXT;not null;comment:消息内容"`

	// Seen 接收者是否已读
	Seen bool `gorm:"column:seen;not null;default:false;comment:是否已读"`
}

// TableName 指定表名
func (Message) TableName() string {
	return "message"
}
