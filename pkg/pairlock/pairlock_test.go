package pairlock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestKey 验证键的规范化与顺序无关
func TestKey(t *testing.T) {
	assert.Equal(t, Key("U1", "U2"), Key("U2", "U1"))
	assert.Equal(t, "U1:U2", Key("U2", "U1"))
	assert.NotEqual(t, Key("U1", "U2"), Key("U1", "U3"))
}

// TestLockMutualExclusion 验证同一对用户的临界区互斥
func TestLockMutualExclusion(t *testing.T) {
	p := New()

	const workers = 20
	const loops = 100
	counter := 0

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		// 一半协程以相反顺序传参，验证顺序无关
		reversed := i%2 == 1
		go func(reversed bool) {
			defer wg.Done()
			for j := 0; j < loops; j++ {
				if reversed {
					p.Lock("U2", "U1")
					counter++
					p.Unlock("U2", "U1")
				} else {
					p.Lock("U1", "U2")
					counter++
					p.Unlock("U1", "U2")
				}
			}
		}(reversed)
	}
	wg.Wait()

	assert.Equal(t, workers*loops, counter)
}

// TestDifferentPairsIndependent 验证不同用户对的锁互不阻塞
func TestDifferentPairsIndependent(t *testing.T) {
	p := New()

	p.Lock("U1", "U2")
	done := make(chan struct{})
	go func() {
		// 不同的对，不应被上面的锁阻塞
		p.Lock("U3", "U4")
		p.Unlock("U3", "U4")
		close(done)
	}()
	<-done
	p.Unlock("U1", "U2")
}

// TestEntryReclaimed 验证引用计数归零后条目被回收
func TestEntryReclaimed(t *testing.T) {
	p := New()

	p.Lock("U1", "U2")
	p.Unlock("U1", "U2")

	p.mu.Lock()
	defer p.mu.Unlock()
	require.Empty(t, p.locks)
}

// TestUnlockUnlockedPanics 验证未加锁时解锁会 panic
func TestUnlockUnlockedPanics(t *testing.T) {
	p := New()
	assert.Panics(t, func() {
		p.Unlock("U1", "U2")
	})
}
