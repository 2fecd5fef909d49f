package friend

import (
	"sync"
	"testing"

	"huddle_social_server/internal/dao/mysql/repository"
	"huddle_social_server/internal/dto/request"
	"huddle_social_server/internal/dto/respond"
	"huddle_social_server/internal/service/notification"
	"huddle_social_server/internal/testutil"
	"huddle_social_server/pkg/enum/friend_request_status_enum"
	"huddle_social_server/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestService 构造只依赖数据库的好友服务
// 通知引擎真实接入以覆盖"接受后产生 friend_accept 通知"的链路
func newTestService(t *testing.T) (*friendService, *repository.Repositories) {
	t.Helper()
	repos := testutil.SetupTestDB(t)
	notifier := notification.NewNotificationService(repos, nil)
	svc := NewFriendService(repos, nil, nil, notifier, nil)
	return svc, repos
}

func TestSendFriendRequest(t *testing.T) {
	svc, repos := newTestService(t)
	testutil.CreateTestUser(t, repos, "U1", "alice")
	testutil.CreateTestUser(t, repos, "U2", "bob")

	rsp, err := svc.SendFriendRequest("U1", request.SendFriendRequestRequest{ToId: "U2"})
	require.NoError(t, err)
	require.NotNil(t, rsp)
	assert.Equal(t, "U1", rsp.FromId)
	assert.Equal(t, "U2", rsp.ToId)
	// 返回给申请人的记录里投影的是对端
	assert.Equal(t, "U2", rsp.UserId)
	assert.Equal(t, "bob", rsp.UserName)

	// 被申请人收到 friend_request 持久化通知
	list, err := notification.NewNotificationService(repos, nil).GetNotificationList("U2", 1, 0)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, "friend_request", list.Notifications[0].Type)
	assert.Equal(t, rsp.RequestId, list.Notifications[0].RelatedRequest)
}

func TestSendFriendRequestToSelf(t *testing.T) {
	svc, repos := newTestService(t)
	testutil.CreateTestUser(t, repos, "U1", "alice")

	_, err := svc.SendFriendRequest("U1", request.SendFriendRequestRequest{ToId: "U1"})
	require.Error(t, err)
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}

func TestSendFriendRequestToUnknownUser(t *testing.T) {
	svc, repos := newTestService(t)
	testutil.CreateTestUser(t, repos, "U1", "alice")

	_, err := svc.SendFriendRequest("U1", request.SendFriendRequestRequest{ToId: "U404"})
	require.Error(t, err)
	assert.Equal(t, errorx.CodeUserNotExist, errorx.GetCode(err))
}

// TestSendFriendRequestDuplicatePending 同一无序对上任一方向已有待处理申请时冲突
func TestSendFriendRequestDuplicatePending(t *testing.T) {
	svc, repos := newTestService(t)
	testutil.CreateTestUser(t, repos, "U1", "alice")
	testutil.CreateTestUser(t, repos, "U2", "bob")

	_, err := svc.SendFriendRequest("U1", request.SendFriendRequestRequest{ToId: "U2"})
	require.NoError(t, err)

	// 同方向重复
	_, err = svc.SendFriendRequest("U1", request.SendFriendRequestRequest{ToId: "U2"})
	require.Error(t, err)
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))

	// 反方向也冲突
	_, err = svc.SendFriendRequest("U2", request.SendFriendRequestRequest{ToId: "U1"})
	require.Error(t, err)
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))
}

// TestAcceptFriendRequest 接受申请：对称好友行 + 双方计数 +1 + 终态
func TestAcceptFriendRequest(t *testing.T) {
	svc, repos := newTestService(t)
	testutil.CreateTestUser(t, repos, "U1", "alice")
	testutil.CreateTestUser(t, repos, "U2", "bob")

	rsp, err := svc.SendFriendRequest("U1", request.SendFriendRequestRequest{ToId: "U2"})
	require.NoError(t, err)

	require.NoError(t, svc.AcceptFriendRequest("U2", rsp.RequestId))

	// 好友关系对两个方向都成立
	exists, err := repos.Friendship.Exists("U1", "U2")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repos.Friendship.Exists("U2", "U1")
	require.NoError(t, err)
	assert.True(t, exists)

	// 双方的好友计数同时 +1
	u1, err := repos.User.FindByUuid("U1")
	require.NoError(t, err)
	assert.Equal(t, 1, u1.FriendCount)
	u2, err := repos.User.FindByUuid("U2")
	require.NoError(t, err)
	assert.Equal(t, 1, u2.FriendCount)

	// 申请进入终态
	stored, err := repos.FriendRequest.FindByUuid(rsp.RequestId)
	require.NoError(t, err)
	assert.Equal(t, friend_request_status_enum.ACCEPTED, stored.Status)

	// 原申请人收到 friend_accept 通知
	list, err := notification.NewNotificationService(repos, nil).GetNotificationList("U1", 1, 0)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, "friend_accept", list.Notifications[0].Type)
}

// TestAcceptOnlyByRecipient 申请人自己不能接受自己发出的申请
func TestAcceptOnlyByRecipient(t *testing.T) {
	svc, repos := newTestService(t)
	testutil.CreateTestUser(t, repos, "U1", "alice")
	testutil.CreateTestUser(t, repos, "U2", "bob")

	rsp, err := svc.SendFriendRequest("U1", request.SendFriendRequestRequest{ToId: "U2"})
	require.NoError(t, err)

	err = svc.AcceptFriendRequest("U1", rsp.RequestId)
	require.Error(t, err)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))
}

// TestTerminalStateImmutable 终态申请不可再次被处理
func TestTerminalStateImmutable(t *testing.T) {
	svc, repos := newTestService(t)
	testutil.CreateTestUser(t, repos, "U1", "alice")
	testutil.CreateTestUser(t, repos, "U2", "bob")

	rsp, err := svc.SendFriendRequest("U1", request.SendFriendRequestRequest{ToId: "U2"})
	require.NoError(t, err)
	require.NoError(t, svc.AcceptFriendRequest("U2", rsp.RequestId))

	// 重复接受
	err = svc.AcceptFriendRequest("U2", rsp.RequestId)
	require.Error(t, err)
	assert.Equal(t, errorx.CodeInvalidState, errorx.GetCode(err))

	// 接受后再拒绝
	err = svc.RejectFriendRequest("U2", rsp.RequestId)
	require.Error(t, err)
	assert.Equal(t, errorx.CodeInvalidState, errorx.GetCode(err))
}

// TestTerminalStateNotOverwrittenByStaleWrite 状态转移是条件更新：
// 预检之后才到达的写入（并发 accept/reject 的迟到一方）不能覆盖终态
func TestTerminalStateNotOverwrittenByStaleWrite(t *testing.T) {
	svc, repos := newTestService(t)
	testutil.CreateTestUser(t, repos, "U1", "alice")
	testutil.CreateTestUser(t, repos, "U2", "bob")

	rsp, err := svc.SendFriendRequest("U1", request.SendFriendRequestRequest{ToId: "U2"})
	require.NoError(t, err)
	require.NoError(t, svc.AcceptFriendRequest("U2", rsp.RequestId))

	// 模拟迟到的拒绝写入：预检已过，直接到达存储层
	err = repos.FriendRequest.UpdateStatus(rsp.RequestId, friend_request_status_enum.REJECTED)
	require.Error(t, err)
	assert.Equal(t, errorx.CodeInvalidState, errorx.GetCode(err))

	// 迟到的撤回删除同样不命中终态记录
	err = repos.FriendRequest.Delete(rsp.RequestId)
	require.Error(t, err)
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))

	stored, err := repos.FriendRequest.FindByUuid(rsp.RequestId)
	require.NoError(t, err)
	assert.Equal(t, friend_request_status_enum.ACCEPTED, stored.Status)
}

// TestConcurrentAcceptReject 并发接受与拒绝恰好一方生效
// 落败方收到状态非法，最终状态与好友关系相互一致
func TestConcurrentAcceptReject(t *testing.T) {
	svc, repos := newTestService(t)
	testutil.CreateTestUser(t, repos, "U1", "alice")
	testutil.CreateTestUser(t, repos, "U2", "bob")

	rsp, err := svc.SendFriendRequest("U1", request.SendFriendRequestRequest{ToId: "U2"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var acceptErr, rejectErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		acceptErr = svc.AcceptFriendRequest("U2", rsp.RequestId)
	}()
	go func() {
		defer wg.Done()
		rejectErr = svc.RejectFriendRequest("U2", rsp.RequestId)
	}()
	wg.Wait()

	// 恰好一方成功
	require.True(t, (acceptErr == nil) != (rejectErr == nil))

	stored, err := repos.FriendRequest.FindByUuid(rsp.RequestId)
	require.NoError(t, err)
	friends, err := repos.Friendship.Exists("U1", "U2")
	require.NoError(t, err)

	if acceptErr == nil {
		assert.Equal(t, friend_request_status_enum.ACCEPTED, stored.Status)
		assert.True(t, friends)
		assert.Equal(t, errorx.CodeInvalidState, errorx.GetCode(rejectErr))
	} else {
		assert.Equal(t, friend_request_status_enum.REJECTED, stored.Status)
		assert.False(t, friends)
		assert.Equal(t, errorx.CodeInvalidState, errorx.GetCode(acceptErr))
	}
}

func TestRejectFriendRequest(t *testing.T) {
	svc, repos := newTestService(t)
	testutil.CreateTestUser(t, repos, "U1", "alice")
	testutil.CreateTestUser(t, repos, "U2", "bob")

	rsp, err := svc.SendFriendRequest("U1", request.SendFriendRequestRequest{ToId: "U2"})
	require.NoError(t, err)
	require.NoError(t, svc.RejectFriendRequest("U2", rsp.RequestId))

	stored, err := repos.FriendRequest.FindByUuid(rsp.RequestId)
	require.NoError(t, err)
	assert.Equal(t, friend_request_status_enum.REJECTED, stored.Status)

	// 拒绝后不产生好友关系
	exists, err := repos.Friendship.Exists("U1", "U2")
	require.NoError(t, err)
	assert.False(t, exists)

	// 拒绝后同一对可以重新发起申请
	_, err = svc.SendFriendRequest("U1", request.SendFriendRequestRequest{ToId: "U2"})
	require.NoError(t, err)
}

// TestCancelFriendRequest 撤回只允许申请人，且记录被删除
func TestCancelFriendRequest(t *testing.T) {
	svc, repos := newTestService(t)
	testutil.CreateTestUser(t, repos, "U1", "alice")
	testutil.CreateTestUser(t, repos, "U2", "bob")

	rsp, err := svc.SendFriendRequest("U1", request.SendFriendRequestRequest{ToId: "U2"})
	require.NoError(t, err)

	// 被申请人不能撤回
	err = svc.CancelFriendRequest("U2", rsp.RequestId)
	require.Error(t, err)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	require.NoError(t, svc.CancelFriendRequest("U1", rsp.RequestId))

	_, err = repos.FriendRequest.FindByUuid(rsp.RequestId)
	require.Error(t, err)
	assert.True(t, errorx.IsNotFound(err))

	// 撤回后可重新申请
	_, err = svc.SendFriendRequest("U1", request.SendFriendRequestRequest{ToId: "U2"})
	require.NoError(t, err)
}

// TestGetRelationshipStatus 覆盖四种关系状态
func TestGetRelationshipStatus(t *testing.T) {
	svc, repos := newTestService(t)
	testutil.CreateTestUser(t, repos, "U1", "alice")
	testutil.CreateTestUser(t, repos, "U2", "bob")

	// 无任何关系
	status, err := svc.GetRelationshipStatus("U1", "U2")
	require.NoError(t, err)
	assert.Equal(t, respond.RelationshipFollow, status.Status)

	rsp, err := svc.SendFriendRequest("U1", request.SendFriendRequestRequest{ToId: "U2"})
	require.NoError(t, err)

	// 我方已发出申请
	status, err = svc.GetRelationshipStatus("U1", "U2")
	require.NoError(t, err)
	assert.Equal(t, respond.RelationshipRequested, status.Status)

	// 对方视角是待接受
	status, err = svc.GetRelationshipStatus("U2", "U1")
	require.NoError(t, err)
	assert.Equal(t, respond.RelationshipAccept, status.Status)

	require.NoError(t, svc.AcceptFriendRequest("U2", rsp.RequestId))

	// 已是好友，双向一致
	status, err = svc.GetRelationshipStatus("U1", "U2")
	require.NoError(t, err)
	assert.Equal(t, respond.RelationshipFriends, status.Status)
	status, err = svc.GetRelationshipStatus("U2", "U1")
	require.NoError(t, err)
	assert.Equal(t, respond.RelationshipFriends, status.Status)
}

// TestPendingAndSentLists 申请列表附带正确的对端投影
func TestPendingAndSentLists(t *testing.T) {
	svc, repos := newTestService(t)
	testutil.CreateTestUser(t, repos, "U1", "alice")
	testutil.CreateTestUser(t, repos, "U2", "bob")
	testutil.CreateTestUser(t, repos, "U3", "carol")

	_, err := svc.SendFriendRequest("U1", request.SendFriendRequestRequest{ToId: "U2"})
	require.NoError(t, err)
	_, err = svc.SendFriendRequest("U3", request.SendFriendRequestRequest{ToId: "U2"})
	require.NoError(t, err)

	pending, err := svc.GetPendingRequests("U2")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	for _, p := range pending {
		// 收到的申请里投影的是申请人
		assert.Equal(t, p.FromId, p.UserId)
	}

	sent, err := svc.GetSentRequests("U1")
	require.NoError(t, err)
	require.Len(t, sent, 1)
	// 发出的申请里投影的是被申请人
	assert.Equal(t, "U2", sent[0].UserId)
	assert.Equal(t, "bob", sent[0].UserName)
}

func TestGetFriendListAndMutualFriends(t *testing.T) {
	svc, repos := newTestService(t)
	testutil.CreateTestUser(t, repos, "U1", "alice")
	testutil.CreateTestUser(t, repos, "U2", "bob")
	testutil.CreateTestUser(t, repos, "U3", "carol")

	// U1-U2, U1-U3, U2-U3 构成三角好友
	for _, pair := range [][2]string{{"U1", "U2"}, {"U1", "U3"}, {"U2", "U3"}} {
		rsp, err := svc.SendFriendRequest(pair[0], request.SendFriendRequestRequest{ToId: pair[1]})
		require.NoError(t, err)
		require.NoError(t, svc.AcceptFriendRequest(pair[1], rsp.RequestId))
	}

	friends, err := svc.GetFriendList("U1")
	require.NoError(t, err)
	assert.Len(t, friends, 2)

	// U1 与 U2 的共同好友只有 U3
	mutual, err := svc.GetMutualFriends("U1", "U2")
	require.NoError(t, err)
	require.Len(t, mutual, 1)
	assert.Equal(t, "U3", mutual[0].UserId)
}

// TestSendRequestWhenAlreadyFriends 已是好友时再次申请冲突
func TestSendRequestWhenAlreadyFriends(t *testing.T) {
	svc, repos := newTestService(t)
	testutil.CreateTestUser(t, repos, "U1", "alice")
	testutil.CreateTestUser(t, repos, "U2", "bob")

	rsp, err := svc.SendFriendRequest("U1", request.SendFriendRequestRequest{ToId: "U2"})
	require.NoError(t, err)
	require.NoError(t, svc.AcceptFriendRequest("U2", rsp.RequestId))

	_, err = svc.SendFriendRequest("U1", request.SendFriendRequestRequest{ToId: "U2"})
	require.Error(t, err)
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))
}

func TestGetUserProfile(t *testing.T) {
	svc, repos := newTestService(t)
	testutil.CreateTestUser(t, repos, "U1", "alice")

	profile, err := svc.GetUserProfile("U1")
	require.NoError(t, err)
	assert.Equal(t, "U1", profile.UserId)
	assert.Equal(t, "alice", profile.UserName)
	assert.False(t, profile.Online)

	_, err = svc.GetUserProfile("U404")
	require.Error(t, err)
	assert.Equal(t, errorx.CodeUserNotExist, errorx.GetCode(err))
}
