// Package websocket 实现 WebSocket 网关
// conn_manager.go
// 核心职责：WebSocket 连接生命周期管理
// 1. 建立 WebSocket 连接 (Upgrade)
// 2. 封装 Client 对象，管理读写协程 (Read/Write Loop)
// 3. 连接建立/断开时调用在线注册表的 Register/Unregister
// 4. 入站帧只承载瞬时信号 (typing / markAsRead)，转交 LiveSink；
//    所有持久化操作都走 HTTP 接口
package websocket

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"huddle_social_server/internal/service/presence"
	"huddle_social_server/pkg/constants"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	// 检查连接的Origin头
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client 一条已升级的用户连接
// 实现 presence.Conn 接口
type Client struct {
	conn   *websocket.Conn
	userId string
	send   chan []byte
	done   chan struct{}

	registry *presence.Registry
	live     LiveSink

	closeOnce sync.Once
}

// UserID 实现 presence.Conn
func (c *Client) UserID() string {
	return c.userId
}

// Push 实现 presence.Conn：序列化帧并投入发送通道
// 发送通道满视为推送失败（慢连接不拖慢注册表）
// send 通道永远不关闭，连接关闭经 done 通知，Push 与 Close 并发安全
func (c *Client) Push(event string, payload interface{}) error {
	data, err := json.Marshal(Frame{Event: event, Data: payload})
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return websocket.ErrCloseSent
	default:
	}
	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return websocket.ErrCloseSent
	default:
		return websocket.ErrCloseSent
	}
}

// Close 实现 presence.Conn：关闭底层连接
// 读写协程随之退出，读协程完成注销
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

// typingData 入站 typing 帧负载
type typingData struct {
	ReceiverId string `json:"receiverId"`
	IsTyping   bool   `json:"isTyping"`
}

// markAsReadData 入站 markAsRead 帧负载
type markAsReadData struct {
	ConversationId string `json:"conversationId"`
	OtherUserId    string `json:"otherUserId"`
}

// Read 读取协程
// 解析入站瞬时信号帧并转交 LiveSink；读错误（含对端断开）触发注销
func (c *Client) Read() {
	defer func() {
		c.registry.Unregister(c)
		_ = c.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage() // 阻塞状态
		if err != nil {
			zap.L().Debug("ws 读取结束", zap.String("userId", c.userId), zap.Error(err))
			return
		}

		var frame struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(data, &frame); err != nil {
			zap.L().Warn("ws 帧解析失败", zap.String("userId", c.userId), zap.Error(err))
			continue
		}
		if c.live == nil {
			continue
		}

		switch frame.Event {
		case "typing":
			var payload typingData
			if err := json.Unmarshal(frame.Data, &payload); err != nil {
				zap.L().Warn("typing 负载解析失败", zap.Error(err))
				continue
			}
			_ = c.live.Typing(c.userId, payload.ReceiverId, payload.IsTyping)
		case "markAsRead":
			var payload markAsReadData
			if err := json.Unmarshal(frame.Data, &payload); err != nil {
				zap.L().Warn("markAsRead 负载解析失败", zap.Error(err))
				continue
			}
			_ = c.live.MarkAsRead(c.userId, payload.ConversationId, payload.OtherUserId)
		default:
			zap.L().Debug("忽略未知入站事件", zap.String("event", frame.Event))
		}
	}
}

// Write 写入协程
// 从发送通道取帧写给前端；写错误直接断开，连接关闭经 done 退出
func (c *Client) Write() {
	for {
		select {
		case data := <-c.send: // 阻塞状态
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				zap.L().Debug("ws 写入失败", zap.String("userId", c.userId), zap.Error(err))
				return
			}
		case <-c.done:
			return
		}
	}
}

// NewClientInit 升级连接并接入在线注册表
// 注册动作本身会关闭同一用户先前的连接（后注册者生效）并广播在线列表
func NewClientInit(c *gin.Context, userId string, registry *presence.Registry, live LiveSink) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Error("ws 升级失败", zap.Error(err))
		return
	}
	client := &Client{
		conn:     conn,
		userId:   userId,
		send:     make(chan []byte, constants.CHANNEL_SIZE),
		done:     make(chan struct{}),
		registry: registry,
		live:     live,
	}
	registry.Register(client)
	go client.Read()
	go client.Write()
	zap.L().Info("ws连接成功", zap.String("userId", userId))
}
