// Package runtime implements the two executor modes the library offers a
// host: a single-threaded cooperative executor driven by a host-called
// Tick (for environments that forbid background threads), and a fixed-size
// worker pool. Both expose Weak, an upgradeable reference a spawned task can
// use to enqueue further work; Weak holds an ordinary pointer, so it does
// keep the runtime reachable.
package runtime

import (
	"context"
	"sync"
)

// Runtime spawns and, in single-threaded mode, drives futures represented
// as plain Go funcs.
type Runtime struct {
	threaded bool

	mu    sync.Mutex
	tasks []func()

	workCh chan func()
	done   chan struct{}
}

// New creates a single-threaded cooperative Runtime. Spawned tasks queue
// until Tick is called.
func New() *Runtime {
	return &Runtime{}
}

// NewThreaded creates a Runtime backed by a fixed pool of workers. Spawned
// tasks run as soon as a worker is free; Tick is a no-op.
func NewThreaded(workers int) *Runtime {
	if workers <= 0 {
		workers = 4
	}
	r := &Runtime{
		threaded: true,
		workCh:   make(chan func()),
		done:     make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		go r.worker()
	}
	return r
}

func (r *Runtime) worker() {
	for {
		select {
		case fn := <-r.workCh:
			fn()
		case <-r.done:
			return
		}
	}
}

// Spawn enqueues fn for execution. In single-threaded mode fn runs on the
// next Tick; in threaded mode it runs on the first free worker.
func (r *Runtime) Spawn(fn func()) {
	if r.threaded {
		select {
		case r.workCh <- fn:
		case <-r.done:
		}
		return
	}
	r.mu.Lock()
	r.tasks = append(r.tasks, fn)
	r.mu.Unlock()
}

// SpawnOptimistically runs fn on a fresh goroutine immediately: the video
// pull path wants "start now, don't wait for a Tick." Go has no
// inline-poll-a-future primitive, so the nearest equivalent is to run it
// on its own goroutine rather than queue it behind Tick.
func (r *Runtime) SpawnOptimistically(fn func()) {
	go fn()
}

// Tick runs every task queued via Spawn since the last Tick, in a
// single-threaded Runtime. It is a no-op on a threaded Runtime (workers
// drain workCh continuously).
func (r *Runtime) Tick() {
	if r.threaded {
		return
	}
	r.mu.Lock()
	tasks := r.tasks
	r.tasks = nil
	r.mu.Unlock()
	for _, fn := range tasks {
		fn()
	}
}

// Close stops a threaded Runtime's workers. No-op on single-threaded.
func (r *Runtime) Close() {
	if r.threaded {
		close(r.done)
	}
}

// Weak returns a reference to r that can be upgraded back to a *Runtime.
func (r *Runtime) Weak() *Weak {
	return &Weak{target: r}
}

// Weak is an upgradeable Runtime reference. It holds an ordinary pointer,
// so it keeps the Runtime reachable for the garbage collector, and Upgrade
// succeeds for every Weak obtained from Runtime.Weak; there is no "the
// runtime was freed" state to detect the way Rust's Weak<T> does. The type
// exists as a distinct name for callers (the graphics bridge, in
// particular) that hold a Runtime reference they do not own.
type Weak struct {
	target *Runtime
}

// Upgrade returns the underlying Runtime.
func (w *Weak) Upgrade() (*Runtime, bool) {
	if w.target == nil {
		return nil, false
	}
	return w.target, true
}

// EnterGuard is a no-op placeholder for per-call task-local context; Go's
// context.Context already threads call-scoped values without a separate
// guard object, so EnterGuard exists only so call sites that need the
// shape (a COM-init or JNI-attach thread-affinity guard) have somewhere to
// attach Close behavior.
type EnterGuard struct{}

// Enter returns a guard valid for the lifetime of ctx. It performs no
// per-thread COM/JNI setup, and no backend package in this module calls it.
func (r *Runtime) Enter(ctx context.Context) (*EnterGuard, error) {
	return &EnterGuard{}, nil
}

// Close is a no-op; no package in this module defines another guard type.
func (g *EnterGuard) Close() {}
