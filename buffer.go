package unienc

import (
	"sync"
	"sync/atomic"
)

// SharedBufferPool records a byte limit and the live size of every
// allocation handed out that has not yet been released. alloc prunes
// allocations whose last strong reference already released, sums what
// remains, and fails with ResourceAllocationError if the new allocation
// would push the live total past the limit (a limit of 0 disables
// enforcement).
//
// Buffers crossing the C ABI are released deterministically by an explicit
// unienc_free_shared_buffer call rather than by GC timing, so liveness is
// an explicit flag flipped by SharedBuffer.Release rather than a weak
// pointer the pool upgrades.
type SharedBufferPool struct {
	mu      sync.Mutex
	limit   int64
	entries []*bufferEntry
}

type bufferEntry struct {
	size  int64
	alive atomic.Bool
}

// NewSharedBufferPool creates a pool enforcing limit bytes of live
// allocations. limit <= 0 means unlimited.
func NewSharedBufferPool(limit int64) *SharedBufferPool {
	return &SharedBufferPool{limit: limit}
}

// SharedBuffer is a pool-tracked (or unmanaged) byte buffer. The zero value
// is not usable; construct via SharedBufferPool.Alloc or NewUnmanagedBuffer.
type SharedBuffer struct {
	data  []byte
	entry *bufferEntry // nil for unmanaged buffers
}

// Data returns the buffer's bytes. The slice is valid until Release is
// called.
func (b *SharedBuffer) Data() []byte { return b.data }

// Len reports the buffer's length in bytes.
func (b *SharedBuffer) Len() int { return len(b.data) }

// Release marks the buffer's size cell dead so a subsequent Alloc on the
// owning pool no longer counts it against the limit. Safe to call more than
// once; safe to call on an unmanaged buffer (no-op on accounting).
func (b *SharedBuffer) Release() {
	if b.entry != nil {
		b.entry.alive.Store(false)
	}
}

// Alloc returns a zeroed buffer of size bytes tracked against the pool's
// byte limit, or an *Error with kind ResourceAllocationError if the limit
// would be exceeded.
func (p *SharedBufferPool) Alloc(size int) (*SharedBuffer, error) {
	if size < 0 {
		return nil, ErrInvalidInput("negative buffer size")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	live := pruneAndSum(&p.entries)

	if p.limit > 0 && live+int64(size) > p.limit {
		return nil, ErrResourceAllocation("buffer pool limit exceeded: %d + %d > %d", live, size, p.limit)
	}

	entry := &bufferEntry{size: int64(size)}
	entry.alive.Store(true)
	p.entries = append(p.entries, entry)

	return &SharedBuffer{data: make([]byte, size), entry: entry}, nil
}

// LiveBytes reports the current live byte total, pruning dead entries as a
// side effect. Exposed for tests and diagnostics.
func (p *SharedBufferPool) LiveBytes() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return pruneAndSum(&p.entries)
}

func pruneAndSum(entries *[]*bufferEntry) int64 {
	live := (*entries)[:0]
	var total int64
	for _, e := range *entries {
		if e.alive.Load() {
			live = append(live, e)
			total += e.size
		}
	}
	*entries = live
	return total
}

// NewUnmanagedBuffer wraps an externally provided byte slice as a
// SharedBuffer without pool accounting, for convenience when a caller
// already owns suitably sized memory.
func NewUnmanagedBuffer(data []byte) *SharedBuffer {
	return &SharedBuffer{data: data}
}
