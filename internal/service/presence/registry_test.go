package presence

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn 内存连接实现，记录推送的事件供断言
type fakeConn struct {
	mu     sync.Mutex
	userId string
	pushed []pushedEvent
	closed bool
}

type pushedEvent struct {
	event   string
	payload interface{}
}

func newFakeConn(userId string) *fakeConn {
	return &fakeConn{userId: userId}
}

func (c *fakeConn) UserID() string { return c.userId }

func (c *fakeConn) Push(event string, payload interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pushed = append(c.pushed, pushedEvent{event: event, payload: payload})
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// lastOnlineList 返回该连接收到的最后一次在线列表广播
func (c *fakeConn) lastOnlineList() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.pushed) - 1; i >= 0; i-- {
		if c.pushed[i].event == OnlineListEvent {
			return c.pushed[i].payload.([]string)
		}
	}
	return nil
}

// TestRegisterAndGet 验证注册后可以查到连接
func TestRegisterAndGet(t *testing.T) {
	r := NewRegistry(nil)

	conn := newFakeConn("U1")
	r.Register(conn)

	assert.Equal(t, conn, r.Get("U1"))
	assert.True(t, r.IsOnline("U1"))
	assert.False(t, r.IsOnline("U2"))
	assert.Nil(t, r.Get("U2"))
}

// TestRegisterReplacesOldConn 验证同一用户重复连接时后注册者生效
func TestRegisterReplacesOldConn(t *testing.T) {
	r := NewRegistry(nil)

	first := newFakeConn("U1")
	second := newFakeConn("U1")
	r.Register(first)
	r.Register(second)

	// 旧连接被关闭，新连接生效
	assert.True(t, first.isClosed())
	assert.False(t, second.isClosed())
	assert.Equal(t, second, r.Get("U1"))
}

// TestUnregisterStaleConn 验证迟到的旧连接注销不会误删新连接
func TestUnregisterStaleConn(t *testing.T) {
	r := NewRegistry(nil)

	first := newFakeConn("U1")
	second := newFakeConn("U1")
	r.Register(first)
	r.Register(second)

	// 旧连接的读协程退出后触发注销
	r.Unregister(first)
	assert.True(t, r.IsOnline("U1"))
	assert.Equal(t, second, r.Get("U1"))

	// 新连接注销后才真正下线
	r.Unregister(second)
	assert.False(t, r.IsOnline("U1"))
}

// TestOnlineIDsSorted 验证在线列表排序稳定
func TestOnlineIDsSorted(t *testing.T) {
	r := NewRegistry(nil)

	r.Register(newFakeConn("U3"))
	r.Register(newFakeConn("U1"))
	r.Register(newFakeConn("U2"))

	assert.Equal(t, []string{"U1", "U2", "U3"}, r.OnlineIDs())
}

// TestBroadcastOnlineList 验证上下线时向所有在线用户广播在线列表
func TestBroadcastOnlineList(t *testing.T) {
	r := NewRegistry(nil)

	connA := newFakeConn("U1")
	connB := newFakeConn("U2")
	r.Register(connA)
	r.Register(connB)

	// 两人都应收到包含双方的在线列表
	require.Equal(t, []string{"U1", "U2"}, connA.lastOnlineList())
	require.Equal(t, []string{"U1", "U2"}, connB.lastOnlineList())

	// U2 下线后 U1 收到只剩自己的列表
	r.Unregister(connB)
	assert.Equal(t, []string{"U1"}, connA.lastOnlineList())
}
