package unienc_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CyberAgentGameEntertainment/unienc"
	"github.com/CyberAgentGameEntertainment/unienc/internal/barrier"
	"github.com/CyberAgentGameEntertainment/unienc/internal/pump"
)

// This file property-tests the generic Encoder/Muxer contracts in
// contract.go independently of any one platform backend, using a minimal
// fake encoder/muxer built the same way every real backend is: a pump.Pump
// for the encoder split and an internal/barrier.Barrier for the muxer's
// two-track startup. Per-backend behavior (codec-specific serialization,
// subprocess plumbing) is covered by each backend's own tests; this file
// covers the shape every backend shares.

type fakeSample struct {
	kind unienc.SampleKind
	ts   float64
}

func (s *fakeSample) Timestamp() float64      { return s.ts }
func (s *fakeSample) SetTimestamp(v float64)  { s.ts = v }
func (s *fakeSample) Kind() unienc.SampleKind { return s.kind }
func (s *fakeSample) Encode() ([]byte, error) { return nil, nil }

// fakeEncoder produces a Metadata sample followed by count Key samples at
// strictly increasing timestamps, via a pump.Pump exactly as a real
// backend's encoder does.
type fakeEncoder struct {
	count int
	p     *pump.Pump
}

func newFakeEncoder(count int) *fakeEncoder {
	return &fakeEncoder{count: count, p: pump.New(pump.DefaultCapacity)}
}

func (e *fakeEncoder) Split() (unienc.EncoderInput[int], unienc.EncoderOutput, error) {
	return &fakeEncoderInput{e: e}, &fakeEncoderOutput{e: e}, nil
}

type fakeEncoderInput struct {
	e       *fakeEncoder
	started sync.Once
}

func (in *fakeEncoderInput) Push(ctx context.Context, _ int) error {
	e := in.e
	var err error
	in.started.Do(func() {
		err = e.p.Send(ctx, &fakeSample{kind: unienc.Metadata})
	})
	if err != nil {
		return err
	}
	for i := 0; i < e.count; i++ {
		if err := e.p.Send(ctx, &fakeSample{kind: unienc.Key, ts: float64(i)}); err != nil {
			return err
		}
	}
	return nil
}

func (in *fakeEncoderInput) Finish(ctx context.Context) error {
	in.e.p.Close()
	return nil
}

type fakeEncoderOutput struct{ e *fakeEncoder }

func (out *fakeEncoderOutput) Pull(ctx context.Context) (unienc.EncodedSample, error) {
	s, ok, err := out.e.p.Recv(ctx)
	if err != nil || !ok {
		return nil, err
	}
	return s, nil
}

func TestEncoderFirstPulledSampleIsMetadata(t *testing.T) {
	enc := newFakeEncoder(5)
	in, out, err := enc.Split()
	require.NoError(t, err)

	ctx := context.Background()
	go func() {
		_ = in.Push(ctx, 0)
		_ = in.Finish(ctx)
	}()

	first, err := out.Pull(ctx)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, unienc.Metadata, first.Kind())
}

func TestEncoderTimestampsNonDecreasing(t *testing.T) {
	enc := newFakeEncoder(20)
	in, out, err := enc.Split()
	require.NoError(t, err)

	ctx := context.Background()
	go func() {
		_ = in.Push(ctx, 0)
		_ = in.Finish(ctx)
	}()

	var last float64 = -1
	var sawMetadata bool
	for {
		s, err := out.Pull(ctx)
		require.NoError(t, err)
		if s == nil {
			break
		}
		if s.Kind() == unienc.Metadata {
			sawMetadata = true
			continue
		}
		assert.GreaterOrEqual(t, s.Timestamp(), last)
		last = s.Timestamp()
	}
	assert.True(t, sawMetadata)
}

func TestEncoderPullReturnsNilAfterInputDropped(t *testing.T) {
	enc := newFakeEncoder(0)
	in, out, err := enc.Split()
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, in.Push(ctx, 0))
	require.NoError(t, in.Finish(ctx))

	// First pull drains the metadata sample queued by Push.
	meta, err := out.Pull(ctx)
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, unienc.Metadata, meta.Kind())

	done := make(chan struct{})
	go func() {
		defer close(done)
		s, err := out.Pull(ctx)
		assert.NoError(t, err)
		assert.Nil(t, s)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Pull never returned after input was finished")
	}
}

// fakeMuxerInput/fakeMuxer build the generic muxer shape: a barrier gating
// the underlying "write," shared by both tracks the way every real backend
// shares one *barrier.Barrier between its two MuxerInputs.
type fakeMuxer struct {
	b *barrier.Barrier

	mu       sync.Mutex
	started  bool
	writes   []unienc.EncodedSample
	videoFin chan struct{}
	audioFin chan struct{}
}

func newFakeMuxer() *fakeMuxer {
	return &fakeMuxer{b: barrier.New(), videoFin: make(chan struct{}), audioFin: make(chan struct{})}
}

func (m *fakeMuxer) Split() (unienc.MuxerInput, unienc.MuxerInput, unienc.CompletionHandle, error) {
	return &fakeMuxerInput{m: m, track: barrier.Video}, &fakeMuxerInput{m: m, track: barrier.Audio}, &fakeCompletionHandle{m: m}, nil
}

func (m *fakeMuxer) start() error {
	m.mu.Lock()
	m.started = true
	m.mu.Unlock()
	return nil
}

type fakeMuxerInput struct {
	m       *fakeMuxer
	track   barrier.Track
	finOnce sync.Once
}

func (in *fakeMuxerInput) Push(ctx context.Context, sample unienc.EncodedSample) error {
	m := in.m
	if sample.Kind() == unienc.Metadata {
		if m.b.Installed(in.track) {
			return unienc.ErrMuxing("track already has metadata installed")
		}
		return m.b.Arrive(ctx, in.track, m.start)
	}
	if !m.b.Installed(in.track) {
		return unienc.ErrMuxing("track has no metadata")
	}
	m.mu.Lock()
	m.writes = append(m.writes, sample)
	m.mu.Unlock()
	return nil
}

func (in *fakeMuxerInput) Finish(ctx context.Context) error {
	ch := in.m.videoFin
	if in.track == barrier.Audio {
		ch = in.m.audioFin
	}
	in.finOnce.Do(func() { close(ch) })
	return nil
}

type fakeCompletionHandle struct{ m *fakeMuxer }

func (c *fakeCompletionHandle) Finish(ctx context.Context) error {
	select {
	case <-c.m.videoFin:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-c.m.audioFin:
	case <-ctx.Done():
		return ctx.Err()
	}
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	if !c.m.started {
		return unienc.ErrMuxing("muxer never started")
	}
	return nil
}

func TestMuxerRejectsDataBeforeMetadata(t *testing.T) {
	m := newFakeMuxer()
	video, _, _, err := m.Split()
	require.NoError(t, err)

	err = video.Push(context.Background(), &fakeSample{kind: unienc.Key, ts: 1})
	require.Error(t, err)
	var abiErr *unienc.Error
	require.ErrorAs(t, err, &abiErr)
	assert.Equal(t, unienc.MuxingError, abiErr.Kind)
}

func TestMuxerStartsOnlyAfterBothTracksInstallMetadata(t *testing.T) {
	m := newFakeMuxer()
	video, audio, _, err := m.Split()
	require.NoError(t, err)

	ctx := context.Background()
	videoDone := make(chan error, 1)
	go func() { videoDone <- video.Push(ctx, &fakeSample{kind: unienc.Metadata}) }()

	time.Sleep(20 * time.Millisecond)
	m.mu.Lock()
	started := m.started
	m.mu.Unlock()
	assert.False(t, started)

	require.NoError(t, audio.Push(ctx, &fakeSample{kind: unienc.Metadata}))

	select {
	case err := <-videoDone:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("video metadata push never unblocked")
	}

	m.mu.Lock()
	started = m.started
	m.mu.Unlock()
	assert.True(t, started)
}

func TestCompletionDoesNotResolveBeforeBothInputsFinish(t *testing.T) {
	m := newFakeMuxer()
	video, audio, completion, err := m.Split()
	require.NoError(t, err)

	ctx := context.Background()
	videoMetaDone := make(chan error, 1)
	go func() { videoMetaDone <- video.Push(ctx, &fakeSample{kind: unienc.Metadata}) }()
	require.NoError(t, audio.Push(ctx, &fakeSample{kind: unienc.Metadata}))
	require.NoError(t, <-videoMetaDone)
	require.NoError(t, video.Finish(ctx))

	finishDone := make(chan error, 1)
	go func() { finishDone <- completion.Finish(ctx) }()

	select {
	case <-finishDone:
		t.Fatal("completion resolved before the audio input finished")
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, audio.Finish(ctx))

	select {
	case err := <-finishDone:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("completion never resolved after both inputs finished")
	}
}

// Every capi free_* function is built on handles.Unregister (a no-op on an
// already-removed or never-registered handle) and SharedBuffer.Release
// (safe to call more than once), so the free-null/free-twice no-crash
// guarantee reduces to this.
func TestReleaseIsSafeOnAlreadyReleasedBuffer(t *testing.T) {
	pool := unienc.NewSharedBufferPool(1024)
	buf, err := pool.Alloc(64)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		buf.Release()
		buf.Release()
	})
}
