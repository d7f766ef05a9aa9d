package handles

import "sync"

// Shared is a mutex-guarded, one-shot-consumable cell: both the host and
// an in-flight spawned task may hold the handle, state mutations serialize
// behind the mutex, and a one-shot Take (driven by finish()/free) consumes
// the inner value while concurrent callers observe it gone and fail with
// ResourceAllocationError rather than panicking.
//
// Reference counting is Go's garbage collector: every holder of a
// *Shared[T] keeps it alive. What the GC cannot do on its own is let a
// uintptr living in C memory keep a Go value alive; that half is handled
// by Register/Lookup/Unregister above, which capi uses to pin a *Shared[T]
// for the lifetime between a factory call and the matching free_*.
type Shared[T any] struct {
	mu    sync.Mutex
	inner *T
}

// NewShared wraps v as a Shared handle.
func NewShared[T any](v T) *Shared[T] {
	return &Shared[T]{inner: &v}
}

// With runs fn with the inner value if it hasn't been taken yet. Returns
// ErrGone if Take has already consumed it. The mutex covers only the
// inner-pointer read, not fn itself: fn may block for a long time (an
// encoder Pull awaiting output), and holding the lock across it would
// stall a concurrent Take/free on the same handle. A Take that races an
// in-flight fn returns immediately; the value stays alive until fn does.
func (s *Shared[T]) With(fn func(*T) error) error {
	s.mu.Lock()
	inner := s.inner
	s.mu.Unlock()
	if inner == nil {
		return ErrGone
	}
	return fn(inner)
}

// Take consumes the inner value exactly once; subsequent Take/With calls
// see it gone. Used by one-shot finish() operations.
func (s *Shared[T]) Take() (*T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.inner
	s.inner = nil
	return v, v != nil
}

// errGone is a sentinel; callers typically rewrap it via
// unienc.ErrResourceAllocation, so it does not need to be a
// CategorizedError itself.
type errGoneType struct{}

func (errGoneType) Error() string { return "handle: inner value already taken" }

// ErrGone is returned by With when the inner value is no longer present
// (Take reports the same case as (nil, false)).
var ErrGone error = errGoneType{}
