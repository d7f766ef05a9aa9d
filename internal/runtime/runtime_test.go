package runtime

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSingleThreadedSpawnDefersUntilTick(t *testing.T) {
	r := New()
	var ran int32
	r.Spawn(func() { atomic.StoreInt32(&ran, 1) })

	// Nothing should run before Tick.
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&ran))

	r.Tick()
	assert.Equal(t, int32(1), atomic.LoadInt32(&ran))
}

func TestSingleThreadedTickDrainsAllQueuedTasks(t *testing.T) {
	r := New()
	var count int32
	for i := 0; i < 10; i++ {
		r.Spawn(func() { atomic.AddInt32(&count, 1) })
	}
	r.Tick()
	assert.Equal(t, int32(10), atomic.LoadInt32(&count))

	// A second Tick with nothing queued must not re-run anything.
	r.Tick()
	assert.Equal(t, int32(10), atomic.LoadInt32(&count))
}

func TestThreadedSpawnRunsWithoutTick(t *testing.T) {
	r := NewThreaded(2)
	defer r.Close()

	var wg sync.WaitGroup
	wg.Add(5)
	for i := 0; i < 5; i++ {
		r.Spawn(func() { wg.Done() })
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("threaded tasks never ran")
	}

	// Tick is a documented no-op in threaded mode.
	r.Tick()
}

func TestSpawnOptimisticallyRunsImmediately(t *testing.T) {
	r := New()
	done := make(chan struct{})
	r.SpawnOptimistically(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("SpawnOptimistically task never ran")
	}
}

func TestWeakUpgradeSucceedsWhileRuntimeLive(t *testing.T) {
	r := New()
	w := r.Weak()

	got, ok := w.Upgrade()
	assert.True(t, ok)
	assert.Same(t, r, got)
}

func TestEnterGuardCloseIsNoOp(t *testing.T) {
	r := New()
	g, err := r.Enter(nil)
	assert.NoError(t, err)
	g.Close()
}
