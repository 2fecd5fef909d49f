package notification

import (
	"testing"

	"huddle_social_server/internal/dao/mysql/repository"
	"huddle_social_server/internal/testutil"
	"huddle_social_server/pkg/constants"
	"huddle_social_server/pkg/enum/notification_type_enum"
	"huddle_social_server/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*notificationService, *repository.Repositories) {
	t.Helper()
	repos := testutil.SetupTestDB(t)
	testutil.CreateTestUser(t, repos, "U1", "alice")
	testutil.CreateTestUser(t, repos, "U2", "bob")
	return NewNotificationService(repos, nil), repos
}

func TestCreateNotification(t *testing.T) {
	svc, _ := newTestService(t)

	rsp, err := svc.Create(CreateParams{
		RecipientId: "U2",
		SenderId:    "U1",
		Type:        notification_type_enum.PostLike,
		Message:     "alice 赞了你的帖子",
		RelatedPost: "P1",
	})
	require.NoError(t, err)
	require.NotNil(t, rsp)
	assert.NotEmpty(t, rsp.NotificationId)
	assert.Equal(t, "U1", rsp.SenderId)
	assert.Equal(t, "alice", rsp.SenderName)
	assert.Equal(t, "P1", rsp.RelatedPost)
	assert.False(t, rsp.IsRead)
}

// TestCreateSelfNotification 自己触发的事件不通知自己，静默跳过
func TestCreateSelfNotification(t *testing.T) {
	svc, _ := newTestService(t)

	rsp, err := svc.Create(CreateParams{
		RecipientId: "U1",
		SenderId:    "U1",
		Type:        notification_type_enum.PostLike,
		Message:     "self",
	})
	require.NoError(t, err)
	assert.Nil(t, rsp)

	list, err := svc.GetNotificationList("U1", 1, 0)
	require.NoError(t, err)
	assert.Zero(t, list.Total)
}

func TestCreateNotificationUnknownRecipient(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(CreateParams{
		RecipientId: "U404",
		SenderId:    "U1",
		Type:        notification_type_enum.PostLike,
		Message:     "x",
	})
	require.Error(t, err)
	assert.Equal(t, errorx.CodeUserNotExist, errorx.GetCode(err))
}

// TestCreateDeduplicated 去重窗口内相同四元组返回已有记录，不重复插入
func TestCreateDeduplicated(t *testing.T) {
	svc, _ := newTestService(t)

	params := CreateParams{
		RecipientId: "U2",
		SenderId:    "U1",
		Type:        notification_type_enum.PostLike,
		Message:     "alice 赞了你的帖子",
		RelatedPost: "P1",
	}

	first, err := svc.Create(params)
	require.NoError(t, err)
	second, err := svc.Create(params)
	require.NoError(t, err)
	assert.Equal(t, first.NotificationId, second.NotificationId)

	list, err := svc.GetNotificationList("U2", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)

	// 关联帖子不同则不去重
	other, err := svc.Create(CreateParams{
		RecipientId: "U2",
		SenderId:    "U1",
		Type:        notification_type_enum.PostLike,
		Message:     "alice 赞了你的帖子",
		RelatedPost: "P2",
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.NotificationId, other.NotificationId)
}

func TestMarkReadOwnership(t *testing.T) {
	svc, _ := newTestService(t)

	rsp, err := svc.Create(CreateParams{
		RecipientId: "U2",
		SenderId:    "U1",
		Type:        notification_type_enum.PostComment,
		Message:     "x",
	})
	require.NoError(t, err)

	// 非接收者不能操作
	err = svc.MarkRead("U1", rsp.NotificationId)
	require.Error(t, err)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	// 不存在的通知
	err = svc.MarkRead("U2", "N404")
	require.Error(t, err)
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))

	require.NoError(t, svc.MarkRead("U2", rsp.NotificationId))

	list, err := svc.GetNotificationList("U2", 1, 0)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	assert.True(t, list.Notifications[0].IsRead)
}

func TestMarkAllRead(t *testing.T) {
	svc, _ := newTestService(t)

	for _, post := range []string{"P1", "P2", "P3"} {
		_, err := svc.Create(CreateParams{
			RecipientId: "U2",
			SenderId:    "U1",
			Type:        notification_type_enum.PostLike,
			Message:     "x",
			RelatedPost: post,
		})
		require.NoError(t, err)
	}

	require.NoError(t, svc.MarkAllRead("U2"))

	list, err := svc.GetNotificationList("U2", 1, 0)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 3)
	for _, item := range list.Notifications {
		assert.True(t, item.IsRead)
	}
}

func TestDeleteAndClearAll(t *testing.T) {
	svc, _ := newTestService(t)

	first, err := svc.Create(CreateParams{
		RecipientId: "U2", SenderId: "U1",
		Type: notification_type_enum.PostLike, Message: "x", RelatedPost: "P1",
	})
	require.NoError(t, err)
	_, err = svc.Create(CreateParams{
		RecipientId: "U2", SenderId: "U1",
		Type: notification_type_enum.PostLike, Message: "x", RelatedPost: "P2",
	})
	require.NoError(t, err)

	// 非接收者不能删除
	err = svc.Delete("U1", first.NotificationId)
	require.Error(t, err)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	require.NoError(t, svc.Delete("U2", first.NotificationId))
	list, err := svc.GetNotificationList("U2", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)

	require.NoError(t, svc.ClearAll("U2"))
	list, err = svc.GetNotificationList("U2", 1, 0)
	require.NoError(t, err)
	assert.Zero(t, list.Total)
	assert.Empty(t, list.Notifications)
}

// TestGetNotificationListCustomLimit 调用方自定义每页条数，0 走默认值，超上限收敛到上限
func TestGetNotificationListCustomLimit(t *testing.T) {
	svc, _ := newTestService(t)

	for _, post := range []string{"P1", "P2", "P3"} {
		_, err := svc.Create(CreateParams{
			RecipientId: "U2", SenderId: "U1",
			Type: notification_type_enum.PostLike, Message: "x", RelatedPost: post,
		})
		require.NoError(t, err)
	}

	list, err := svc.GetNotificationList("U2", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), list.Total)
	assert.Len(t, list.Notifications, 2)

	list, err = svc.GetNotificationList("U2", 2, 2)
	require.NoError(t, err)
	assert.Len(t, list.Notifications, 1)

	list, err = svc.GetNotificationList("U2", 1, 0)
	require.NoError(t, err)
	assert.Len(t, list.Notifications, 3)

	list, err = svc.GetNotificationList("U2", 1, constants.NOTIFICATION_MAX_PAGE_SIZE*10)
	require.NoError(t, err)
	assert.Len(t, list.Notifications, 3)
}
