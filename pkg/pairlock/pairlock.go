// Package pairlock 提供按"无序用户对"粒度的互斥锁
// 好友申请和会话的唯一性靠"先查询后插入"保证，查询和插入之间存在竞态窗口，
// 在同一对用户的检查-写入序列期间持有该对的锁即可消除窗口
package pairlock

import "sync"

// PairLock 按规范化键（与两个 id 的顺序无关）串行化临界区
type PairLock struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int // 正在等待或持有的协程数，归零后回收
}

// New 创建 PairLock 实例
func New() *PairLock {
	return &PairLock{locks: make(map[string]*entry)}
}

// Key 将两个 id 规范化为与顺序无关的键
func Key(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}

// Lock 获取无序对 {a,b} 的锁
func (p *PairLock) Lock(a, b string) {
	key := Key(a, b)
	p.mu.Lock()
	e, ok := p.locks[key]
	if !ok {
		e = &entry{}
		p.locks[key] = e
	}
	e.refs++
	p.mu.Unlock()
	e.mu.Lock()
}

// Unlock 释放无序对 {a,b} 的锁
// 未加锁调用会 panic，与 sync.Mutex 行为一致
func (p *PairLock) Unlock(a, b string) {
	key := Key(a, b)
	p.mu.Lock()
	e, ok := p.locks[key]
	if !ok {
		p.mu.Unlock()
		panic("pairlock: unlock of unlocked pair " + key)
	}
	e.refs--
	if e.refs == 0 {
		delete(p.locks, key)
	}
	p.mu.Unlock()
	e.mu.Unlock()
}
