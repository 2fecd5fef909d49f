// Package model 定义数据库实体模型
// 本文件定义会话模型，会话是一对用户消息历史和可见性状态的持久容器
package model

import (
	"database/sql"

	"gorm.io/gorm"
)

// Conversation 会话模型
// 对应数据库 conversation 表
// 每个无序用户对最多存在一个会话，由 pair_key 唯一索引保证
type Conversation struct {
	gorm.Model

	// Uuid 会话唯一标识
	// 格式：C + 13位时间戳随机字符串
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:会话uuid"`

	// PairKey 无序对规范化键，min(a,b) + ":" + max(a,b)
	// 唯一索引，防止并发首次发消息时创建出重复会话
	PairKey string `gorm:"column:pair_key;uniqueIndex;type:char(41);not null;comment:无序对键"`

	// UserAId 参与者之一（uuid 较小的一方）
	UserAId string `gorm:"column:user_a_id;index;type:char(20);not null;comment:参与者A"`

	// UserBId 参与者之二（uuid 较大的一方）
	UserBId string `gorm:"column:user_b_id;index;type:char(20);not null;comment:参与者B"`

	// LastMessage 最新消息内容摘要
	// 用于会话列表显示
	LastMessage string `gorm:"column:last_message;type:TEXT;comment:最新的消息"`

	// LastMessageAt 最后消息时间
	// 用于会话列表按最近活跃排序
	LastMessageAt sql.NullTime `gorm:"column:last_message_at;type:datetime;comment:最近消息时间"`
}

// TableName 指定表名
func (Conversation) TableName() string {
	return "conversation"
}

// OtherParticipant 返回会话中 userId 的对端
func (c *Conversation) OtherParticipant(userId string) string {
	if c.UserAId == userId {
		return c.UserBId
	}
	return c.UserAId
}

// HasParticipant 判断 userId 是否为会话参与者
func (c *Conversation) HasParticipant(userId string) bool {
	return c.UserAId == userId || c.UserBId == userId
}

// ConversationMember 会话参与者的可见性记录
// 对应数据库 conversation_member 表
// 每个会话固定两行；"对我隐藏"与"我能看到多早的历史"合并在一条记录里，
// 发消息解除隐藏时可以单条 UPDATE 原子完成
type ConversationMember struct {
	gorm.Model

	// ConversationUuid 所属会话
	ConversationUuid string `gorm:"column:conversation_uuid;type:char(20);not null;uniqueIndex:idx_conv_user;comment:会话uuid"`

	// UserId 参与者 UUID
	UserId string `gorm:"column:user_id;type:char(20);not null;uniqueIndex:idx_conv_user;index;comment:参与者uuid"`

	// Hidden 会话是否从该参与者的列表中隐藏（软删除）
	// 对端发来新消息或本人再次发消息/打开会话时自动解除
	Hidden bool `gorm:"column:hidden;not null;default:false;comment:是否隐藏"`

	// VisibleSince 历史可见起点
	// 清空聊天后只展示该时间之后的消息；零值表示全部可见
	VisibleSince sql.NullTime `gorm:"column:visible_since;type:datetime;comment:历史可见起点"`

	// UnreadCount 未读计数
	// 收到新消息 +1，markAsRead/deleteChat 归零
	UnreadCount int `gorm:"column:unread_count;not null;default:0;comment:未读计数"`
}

// TableName 指定表名
func (ConversationMember) TableName() string {
	return "conversation_member"
}
