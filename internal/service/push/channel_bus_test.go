package push

import (
	"context"
	"sync"
	"testing"
	"time"

	"huddle_social_server/internal/service/presence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn 内存连接，记录收到的事件
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

func (c *fakeConn) received() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.events))
	copy(out, c.events)
	return out
}

// waitFor 轮询等待条件成立，避免 sleep 固定时长
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

// TestChannelBusDispatch 事件经总线投递到在线用户的连接
func TestChannelBusDispatch(t *testing.T) {
	registry := presence.NewRegistry(nil)
	conn := &fakeConn{userId: "U1"}
	registry.Register(conn)

	bus := NewChannelBus(NewDispatcher(registry))
	go bus.Start()
	defer bus.Close()

	err := bus.Publish(context.Background(), &Event{Name: EventNotification, To: "U1", Payload: "hello"})
	require.NoError(t, err)

	waitFor(t, func() bool {
		for _, name := range conn.received() {
			if name == EventNotification {
				return true
			}
		}
		return false
	})
}

// TestChannelBusOfflineRecipient 接收者不在线时事件被静默丢弃
func TestChannelBusOfflineRecipient(t *testing.T) {
	registry := presence.NewRegistry(nil)
	bus := NewChannelBus(NewDispatcher(registry))
	go bus.Start()
	defer bus.Close()

	// 不报错，事件直接丢弃
	err := bus.Publish(context.Background(), &Event{Name: EventNewMessage, To: "U404", Payload: "x"})
	assert.NoError(t, err)
}

// TestEventEncodeDecode 事件序列化往返（Kafka 线上格式）
func TestEventEncodeDecode(t *testing.T) {
	event := &Event{
		Name:    EventNewMessage,
		To:      "U1",
		Payload: map[string]interface{}{"conversationId": "C1"},
	}

	data, err := event.Encode()
	require.NoError(t, err)

	decoded, err := DecodeEvent(data)
	require.NoError(t, err)
	assert.Equal(t, event.Name, decoded.Name)
	assert.Equal(t, event.To, decoded.To)

	payload, ok := decoded.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "C1", payload["conversationId"])
}
