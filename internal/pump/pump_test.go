package pump

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CyberAgentGameEntertainment/unienc"
)

type fakeSample struct{ ts float64 }

func (s *fakeSample) Timestamp() float64      { return s.ts }
func (s *fakeSample) SetTimestamp(v float64)  { s.ts = v }
func (s *fakeSample) Kind() unienc.SampleKind { return unienc.Key }
func (s *fakeSample) Encode() ([]byte, error) { return nil, nil }

// TestRecvSuspendsBeforeAnyPush: Recv on an empty, unclosed
// pump blocks rather than spinning or returning immediately.
func TestRecvSuspendsBeforeAnyPush(t *testing.T) {
	p := New(4)

	done := make(chan struct{})
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, ok, err := p.Recv(ctx)
		assert.False(t, ok)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Recv did not return after context deadline; suspected busy loop or deadlock")
	}
}

// TestRecvReturnsFalseAfterCloseAndDrain: once Close has been called and
// every enqueued sample drained, Recv reports (nil, false, nil) without
// error.
func TestRecvReturnsFalseAfterCloseAndDrain(t *testing.T) {
	p := New(4)
	ctx := context.Background()

	require.NoError(t, p.Send(ctx, &fakeSample{ts: 1}))
	require.NoError(t, p.Send(ctx, &fakeSample{ts: 2}))
	p.Close()

	s1, ok, err := p.Recv(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1.0, s1.Timestamp())

	s2, ok, err := p.Recv(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2.0, s2.Timestamp())

	s3, ok, err := p.Recv(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, s3)
}

func TestCloseIsIdempotent(t *testing.T) {
	p := New(1)
	p.Close()
	assert.NotPanics(t, func() { p.Close() })
}

func TestDefaultCapacityAppliesForNonPositive(t *testing.T) {
	p := New(0)
	assert.Equal(t, DefaultCapacity, cap(p.ch))

	p = New(-5)
	assert.Equal(t, DefaultCapacity, cap(p.ch))
}

func TestSendRespectsContextCancellation(t *testing.T) {
	p := New(1)
	require.NoError(t, p.Send(context.Background(), &fakeSample{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Send(ctx, &fakeSample{})
	assert.ErrorIs(t, err, context.Canceled)
}
