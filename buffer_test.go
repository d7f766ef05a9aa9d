package unienc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Alloc up to the limit succeeds, one more fails with ResourceAllocation,
// and releasing a buffer frees room for a subsequent alloc.
func TestSharedBufferPoolLimit(t *testing.T) {
	pool := NewSharedBufferPool(1024)

	first, err := pool.Alloc(512)
	require.NoError(t, err)
	require.Equal(t, 512, first.Len())

	_, err = pool.Alloc(512)
	require.NoError(t, err)

	_, err = pool.Alloc(1)
	require.Error(t, err)
	var abiErr *Error
	require.ErrorAs(t, err, &abiErr)
	assert.Equal(t, ResourceAllocationError, abiErr.Kind)

	first.Release()

	_, err = pool.Alloc(1)
	assert.NoError(t, err)
}

// The live byte count stays at or under the limit across an interleaved
// sequence of allocs and releases.
func TestSharedBufferPoolLiveBytesNeverExceedsLimit(t *testing.T) {
	const limit = 256
	pool := NewSharedBufferPool(limit)

	var held []*SharedBuffer
	for i := 0; i < 100; i++ {
		size := (i%7 + 1) * 16
		buf, err := pool.Alloc(size)
		if err != nil {
			require.LessOrEqual(t, pool.LiveBytes(), int64(limit))
			continue
		}
		held = append(held, buf)
		require.LessOrEqual(t, pool.LiveBytes(), int64(limit))

		if len(held) > 3 {
			held[0].Release()
			held = held[1:]
		}
	}
}

func TestSharedBufferPoolUnlimited(t *testing.T) {
	pool := NewSharedBufferPool(0)
	buf, err := pool.Alloc(1 << 20)
	require.NoError(t, err)
	assert.Equal(t, 1<<20, buf.Len())
}

func TestSharedBufferPoolRejectsNegativeSize(t *testing.T) {
	pool := NewSharedBufferPool(0)
	_, err := pool.Alloc(-1)
	require.Error(t, err)
	var abiErr *Error
	require.ErrorAs(t, err, &abiErr)
	assert.Equal(t, InvalidInput, abiErr.Kind)
}

func TestNewUnmanagedBufferBypassesAccounting(t *testing.T) {
	buf := NewUnmanagedBuffer(make([]byte, 64))
	assert.Equal(t, 64, buf.Len())
	buf.Release() // no-op: must not panic
}
