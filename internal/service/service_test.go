package service

import (
	"sync"
	"testing"
	"time"

	"huddle_social_server/internal/dto/request"
	"huddle_social_server/internal/service/presence"
	"huddle_social_server/internal/service/push"
	"huddle_social_server/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn 内存连接，记录收到的事件名
type fakeConn struct {
	mu     sync.Mutex
	userId string
	events []string
}

func (c *fakeConn) UserID() string { return c.userId }

func (c *fakeConn) Push(event string, payload interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) countOf(event string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, name := range c.events {
		if name == event {
			n++
		}
	}
	return n
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

// setupScenario 搭建一套完整的 Service 依赖：数据库 + 注册表 + 单机总线
func setupScenario(t *testing.T) (*Services, *push.ChannelBus, *presence.Registry) {
	t.Helper()
	repos := testutil.SetupTestDB(t)
	testutil.CreateTestUser(t, repos, "U1", "alice")
	testutil.CreateTestUser(t, repos, "U2", "bob")

	registry := presence.NewRegistry(nil)
	bus := push.NewChannelBus(push.NewDispatcher(registry))
	go bus.Start()
	t.Cleanup(bus.Close)

	return NewServices(repos, nil, bus, registry), bus, registry
}

// TestFriendRequestLifecycleScenario 完整走一遍申请-接受链路：
// 双方在线时各自收到实时事件，接受后 friend_accept 通知恰好产生一条
func TestFriendRequestLifecycleScenario(t *testing.T) {
	svc, _, registry := setupScenario(t)

	alice := &fakeConn{userId: "U1"}
	bob := &fakeConn{userId: "U2"}
	registry.Register(alice)
	registry.Register(bob)

	rsp, err := svc.Friend.SendFriendRequest("U1", request.SendFriendRequestRequest{ToId: "U2"})
	require.NoError(t, err)

	// bob 实时收到申请事件和持久化通知事件
	waitFor(t, func() bool {
		return bob.countOf(push.EventFriendRequestReceived) == 1 &&
			bob.countOf(push.EventNotification) == 1
	})

	require.NoError(t, svc.Friend.AcceptFriendRequest("U2", rsp.RequestId))

	// alice 收到接受事件和 friend_accept 通知事件
	waitFor(t, func() bool {
		return alice.countOf(push.EventFriendRequestAccepted) == 1 &&
			alice.countOf(push.EventNotification) == 1
	})

	// friend_accept 通知恰好一条
	list, err := svc.Notification.GetNotificationList("U1", 1, 0)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, "friend_accept", list.Notifications[0].Type)

	status, err := svc.Friend.GetRelationshipStatus("U1", "U2")
	require.NoError(t, err)
	assert.Equal(t, "friends", status.Status)
}

// TestMessagingScenario 陌生人成为好友后第一条消息的完整链路：
// 未读从 1 到 0，拉取不清未读，markAsRead 后消息 seen 置位
func TestMessagingScenario(t *testing.T) {
	svc, _, registry := setupScenario(t)

	bob := &fakeConn{userId: "U2"}
	registry.Register(bob)

	rsp, err := svc.Friend.SendFriendRequest("U1", request.SendFriendRequestRequest{ToId: "U2"})
	require.NoError(t, err)
	require.NoError(t, svc.Friend.AcceptFriendRequest("U2", rsp.RequestId))

	msg, err := svc.Conversation.SendMessage("U1", request.SendMessageRequest{ReceiverId: "U2", Content: "hi"})
	require.NoError(t, err)

	// bob 在线，实时收到 newMessage
	waitFor(t, func() bool {
		return bob.countOf(push.EventNewMessage) == 1
	})

	// bob 的会话列表：未读 1，对端在线状态来自注册表
	conversations, err := svc.Conversation.GetConversationList("U2")
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, 1, conversations[0].UnreadCount)
	assert.Equal(t, "hi", conversations[0].LastMessage)
	assert.False(t, conversations[0].Online) // alice 未连接

	// 拉取消息不清未读
	messages, err := svc.Conversation.GetMessageList("U2", request.GetMessageListRequest{OtherId: "U1", Page: 1})
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.False(t, messages[0].Seen)

	conversations, err = svc.Conversation.GetConversationList("U2")
	require.NoError(t, err)
	assert.Equal(t, 1, conversations[0].UnreadCount)

	// 显式 markAsRead 后未读归零且消息 seen 置位
	require.NoError(t, svc.Conversation.MarkAsRead("U2", msg.ConversationId))

	conversations, err = svc.Conversation.GetConversationList("U2")
	require.NoError(t, err)
	assert.Zero(t, conversations[0].UnreadCount)

	messages, err = svc.Conversation.GetMessageList("U2", request.GetMessageListRequest{OtherId: "U1", Page: 1})
	require.NoError(t, err)
	assert.True(t, messages[0].Seen)
}

// TestLiveSignalsScenario typing 和已读回执只透传不落库
func TestLiveSignalsScenario(t *testing.T) {
	svc, _, registry := setupScenario(t)

	bob := &fakeConn{userId: "U2"}
	registry.Register(bob)

	require.NoError(t, svc.Live.Typing("U1", "U2", true))
	waitFor(t, func() bool {
		return bob.countOf(push.EventTyping) == 1
	})

	alice := &fakeConn{userId: "U1"}
	registry.Register(alice)
	require.NoError(t, svc.Live.MarkAsRead("U2", "C1", "U1"))
	waitFor(t, func() bool {
		return alice.countOf(push.EventMarkAsRead) == 1
	})
}
