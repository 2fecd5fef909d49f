package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient 通过本地 httptest 服务器升级出一条真实的 ws 连接
func newTestClient(t *testing.T, userId string) *Client {
	t.Helper()

	connCh := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		connCh <- conn
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	peer, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = peer.Close() })

	client := &Client{
		conn:   <-connCh,
		userId: userId,
		send:   make(chan []byte, 4),
		done:   make(chan struct{}),
	}
	return client
}

// TestPushAfterClose 关闭后的推送返回错误而不是 panic
// 注册表替换旧连接、广播在线列表都可能在连接断开后继续持有该连接
func TestPushAfterClose(t *testing.T) {
	client := newTestClient(t, "U1")

	require.NoError(t, client.Close())

	err := client.Push("notification", "hello")
	assert.ErrorIs(t, err, websocket.ErrCloseSent)

	// 重复关闭幂等
	assert.NoError(t, client.Close())
}

// TestPushCloseRace 推送与关闭并发执行不崩溃
func TestPushCloseRace(t *testing.T) {
	client := newTestClient(t, "U1")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = client.Push("notification", i)
		}
	}()
	go func() {
		defer wg.Done()
		_ = client.Close()
	}()
	wg.Wait()

	// 关闭后的推送稳定返回错误
	assert.ErrorIs(t, client.Push("notification", "late"), websocket.ErrCloseSent)
}

// TestPushFullChannel 发送通道满时视为推送失败，不阻塞调用方
func TestPushFullChannel(t *testing.T) {
	client := newTestClient(t, "U1")
	defer client.Close()

	// 没有写协程消费，填满缓冲
	for i := 0; i < cap(client.send); i++ {
		require.NoError(t, client.Push("notification", i))
	}
	assert.ErrorIs(t, client.Push("notification", "overflow"), websocket.ErrCloseSent)
}
