// Package presence 维护在线用户连接注册表
// registry.go
// 核心职责：
// 1. 维护 userId -> 连接 的映射表（互斥锁保护，所有读写都经过 Registry 方法）
// 2. 同一用户重复连接时，后注册者生效，旧连接被关闭
// 3. 每次上下线变更后向所有在线用户广播最新在线列表
package presence

import (
	"sort"
	"sync"
	"time"

	"huddle_social_server/internal/dao/mysql/repository"

	"go.uber.org/zap"
)

// OnlineListEvent 在线列表广播的事件名
const OnlineListEvent = "getOnlineUsers"

// Conn 抽象一条可推送的用户连接
// WebSocket 网关实现该接口，测试中用内存实现替代
type Conn interface {
	// UserID 连接所属用户
	UserID() string
	// Push 向该连接推送一个事件
	Push(event string, payload interface{}) error
	// Close 关闭底层连接
	Close() error
}

// Registry 在线用户注册表
// 映射表只能通过 Register/Unregister/Get 等方法访问，锁粒度为整个表
type Registry struct {
	mu    sync.Mutex
	conns map[string]Conn

	// userRepo 可选，注册/注销时记录用户最近上下线时间
	userRepo repository.UserRepository
}

// NewRegistry 创建在线用户注册表
func NewRegistry(userRepo repository.UserRepository) *Registry {
	return &Registry{
		conns:    make(map[string]Conn),
		userRepo: userRepo,
	}
}

// Register 注册用户连接
// 同一用户已有连接时，旧连接被关闭并被新连接覆盖（后注册者生效）
// 注册完成后向所有在线用户广播在线列表
func (r *Registry) Register(conn Conn) {
	userId := conn.UserID()

	r.mu.Lock()
	old, exists := r.conns[userId]
	r.conns[userId] = conn
	r.mu.Unlock()

	if exists && old != conn {
		// 旧连接显式关闭，其读协程随之退出并触发 Unregister
		// Unregister 中的归属检查保证不会误删新连接
		if err := old.Close(); err != nil {
			zap.L().Warn("关闭被替换的连接失败", zap.String("userId", userId), zap.Error(err))
		}
		zap.L().Info("用户重复连接，旧连接已被替换", zap.String("userId", userId))
	}

	zap.L().Info("用户上线", zap.String("userId", userId))
	r.touchOnline(userId)
	r.broadcastOnlineList()
}

// Unregister 注销用户连接
// 只有当表中记录的仍是该连接时才移除，避免迟到的断开事件
// 误删同一用户的新连接
func (r *Registry) Unregister(conn Conn) {
	userId := conn.UserID()

	r.mu.Lock()
	current, exists := r.conns[userId]
	if !exists || current != conn {
		r.mu.Unlock()
		return
	}
	delete(r.conns, userId)
	r.mu.Unlock()

	zap.L().Info("用户下线", zap.String("userId", userId))
	r.touchOffline(userId)
	r.broadcastOnlineList()
}

// Get 获取用户当前连接，不在线返回 nil
func (r *Registry) Get(userId string) Conn {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conns[userId]
}

// IsOnline 判断用户是否在线
func (r *Registry) IsOnline(userId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.conns[userId]
	return ok
}

// OnlineIDs 返回当前在线用户 ID 列表（排序后，便于前端与测试使用）
func (r *Registry) OnlineIDs() []string {
	r.mu.Lock()
	ids := make([]string, 0, len(r.conns))
	for id := range r.conns {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	sort.Strings(ids)
	return ids
}

// broadcastOnlineList 向所有在线用户广播在线列表
func (r *Registry) broadcastOnlineList() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.conns))
	conns := make([]Conn, 0, len(r.conns))
	for id, conn := range r.conns {
		ids = append(ids, id)
		conns = append(conns, conn)
	}
	r.mu.Unlock()

	sort.Strings(ids)
	for _, conn := range conns {
		// 推送失败只记日志，不影响其他连接
		if err := conn.Push(OnlineListEvent, ids); err != nil {
			zap.L().Warn("广播在线列表失败", zap.String("userId", conn.UserID()), zap.Error(err))
		}
	}
}

// touchOnline 记录用户最近上线时间
func (r *Registry) touchOnline(userId string) {
	if r.userRepo == nil {
		return
	}
	if err := r.userRepo.TouchPresence(userId, true, time.Now()); err != nil {
		zap.L().Warn("记录上线时间失败", zap.String("userId", userId), zap.Error(err))
	}
}

// touchOffline 记录用户最近下线时间
func (r *Registry) touchOffline(userId string) {
	if r.userRepo == nil {
		return
	}
	if err := r.userRepo.TouchPresence(userId, false, time.Now()); err != nil {
		zap.L().Warn("记录下线时间失败", zap.String("userId", userId), zap.Error(err))
	}
}
