//go:build android

package mcenc

import (
	"context"
	"sync"

	"github.com/CyberAgentGameEntertainment/unienc"
	"github.com/CyberAgentGameEntertainment/unienc/internal/barrier"
	"github.com/CyberAgentGameEntertainment/unienc/internal/samplecodec"
)

// muxer wraps android.media.MediaMuxer. Shares the same
// two-track startup barrier every backend uses.
type muxer struct {
	barrier    *barrier.Barrier
	outputPath string
	session    nativeSession

	videoFinishOnce sync.Once
	videoFinish     chan struct{}
	audioFinishOnce sync.Once
	audioFinish     chan struct{}
}

func newMuxer(outputPath string) *muxer {
	return &muxer{
		barrier:     barrier.New(),
		outputPath:  outputPath,
		session:     newNativeSession(),
		videoFinish: make(chan struct{}),
		audioFinish: make(chan struct{}),
	}
}

func (m *muxer) Split() (unienc.MuxerInput, unienc.MuxerInput, unienc.CompletionHandle, error) {
	return &muxerInput{m: m, track: barrier.Video}, &muxerInput{m: m, track: barrier.Audio}, &completionHandle{m: m}, nil
}

// start runs once both tracks have installed their format. It makes no
// native call (no MediaMuxer.addTrack or start()); it returns nil.
func (m *muxer) start() error { return nil }

type muxerInput struct {
	m     *muxer
	track barrier.Track
}

func (in *muxerInput) Push(ctx context.Context, sample unienc.EncodedSample) error {
	m := in.m

	rec, err := asRecord(sample)
	if err != nil {
		return unienc.ErrInvalidInput("decode sample: %v", err)
	}

	if rec.Kind == unienc.Metadata {
		if m.barrier.Installed(in.track) {
			return unienc.ErrMuxing("track already has metadata installed")
		}
		return m.barrier.Arrive(ctx, in.track, m.start)
	}

	if !m.barrier.Installed(in.track) {
		return unienc.ErrMuxing("track has no metadata")
	}
	return unienc.ErrPlatform("mediamuxer session not linked into this build")
}

func (in *muxerInput) Finish(ctx context.Context) error {
	m := in.m
	switch in.track {
	case barrier.Video:
		m.videoFinishOnce.Do(func() { close(m.videoFinish) })
	case barrier.Audio:
		m.audioFinishOnce.Do(func() { close(m.audioFinish) })
	}
	return nil
}

type completionHandle struct{ m *muxer }

func (c *completionHandle) Finish(ctx context.Context) error {
	m := c.m
	select {
	case <-m.videoFinish:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-m.audioFinish:
	case <-ctx.Done():
		return ctx.Err()
	}
	if !m.barrier.Started() {
		return unienc.ErrMuxing("muxer never started: one or both tracks never installed metadata")
	}
	return m.session.Close()
}

func asRecord(sample unienc.EncodedSample) (*samplecodec.Record, error) {
	if s, ok := sample.(*samplecodec.Sample); ok {
		return &s.Record, nil
	}
	b, err := sample.Encode()
	if err != nil {
		return nil, err
	}
	return samplecodec.Decode(b)
}
