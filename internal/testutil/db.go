// Package testutil 提供测试用的数据库初始化工具
package testutil

import (
	"testing"

	"huddle_social_server/internal/dao/mysql/repository"
	"huddle_social_server/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SetupTestDB 创建一个内存 sqlite 数据库并完成建表
// 每个测试用例各自独立，互不影响
func SetupTestDB(t *testing.T) *repository.Repositories {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// :memory: 数据库按连接隔离，连接池必须收敛到单连接
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&model.UserInfo{},
		&model.FriendRequest{},
		&model.Friendship{},
		&model.Conversation{},
		&model.ConversationMember{},
		&model.Message{},
		&model.Notification{},
	)
	require.NoError(t, err)

	return repository.NewRepositories(db)
}

// CreateTestUser 插入一个测试用户并返回
func CreateTestUser(t *testing.T, repos *repository.Repositories, uuid, nickname string) *model.UserInfo {
	t.Helper()

	user := &model.UserInfo{
		Uuid:     uuid,
		Nickname: nickname,
		Email:    nickname + "@test.com",
		Password: "test-password",
	}
	require.NoError(t, repos.User.Create(user))
	return user
}
