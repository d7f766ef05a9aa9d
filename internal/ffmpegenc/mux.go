package ffmpegenc

import (
	"context"
	"sync"

	"github.com/CyberAgentGameEntertainment/unienc"
	"github.com/CyberAgentGameEntertainment/unienc/internal/barrier"
)

// muxer spawns a second ffmpeg child once both tracks' metadata has
// arrived, feeding it raw H.264 Annex-B on one pipe and raw ADTS AAC on
// another, letting ffmpeg's own `-c copy` remux them into the MP4 output
// file. The two-track startup gate is the shared internal/barrier state
// machine.
type muxer struct {
	barrier    *barrier.Barrier
	outputPath string

	mu             sync.Mutex
	proc           *process
	videoExtradata []byte

	videoFinishOnce sync.Once
	videoFinish     chan struct{}
	audioFinishOnce sync.Once
	audioFinish     chan struct{}
}

func newMuxer(outputPath string) *muxer {
	return &muxer{
		barrier:     barrier.New(),
		outputPath:  outputPath,
		videoFinish: make(chan struct{}),
		audioFinish: make(chan struct{}),
	}
}

func (m *muxer) Split() (unienc.MuxerInput, unienc.MuxerInput, unienc.CompletionHandle, error) {
	return &videoMuxerInput{m: m}, &audioMuxerInput{m: m}, &completionHandle{m: m}, nil
}

// start spawns the remux child. Called at most once, by whichever track's
// metadata arrives second (see internal/barrier.Barrier.Arrive).
func (m *muxer) start() error {
	b := newBuilder().input("-f", "h264").input("-f", "adts")
	proc, err := b.build([]string{"-c", "copy", "-movflags", "+faststart"}, toPath(m.outputPath))
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.proc = proc
	extradata := m.videoExtradata
	m.mu.Unlock()

	if len(extradata) > 0 {
		if _, err := proc.inputs[0].Write(extradata); err != nil {
			return unienc.ErrCommunication("write SPS/PPS to mux ffmpeg: %v", err)
		}
	}
	return nil
}

// toAnnexB prepends a 4-byte start code to a bare NAL payload, since the
// mux child's "-f h264" input expects an Annex-B bytestream and a
// videoEncodedData payload holds the NAL unit with neither a start code nor
// a length prefix.
func toAnnexB(nal []byte) []byte {
	out := make([]byte, 0, len(nal)+4)
	out = append(out, 0, 0, 0, 1)
	return append(out, nal...)
}

func asVideoData(sample unienc.EncodedSample) (*videoEncodedData, error) {
	if v, ok := sample.(*videoEncodedData); ok {
		return v, nil
	}
	b, err := sample.Encode()
	if err != nil {
		return nil, err
	}
	v, err := decodeVideoEncodedData(b)
	if err != nil {
		return nil, err
	}
	// The wrapping sample's timestamp wins: a host that rebased the time
	// base after deserializing did so on the wrapper, not on the bytes.
	v.SetTimestamp(sample.Timestamp())
	return v, nil
}

func asAudioData(sample unienc.EncodedSample) (*audioEncodedData, error) {
	if a, ok := sample.(*audioEncodedData); ok {
		return a, nil
	}
	b, err := sample.Encode()
	if err != nil {
		return nil, err
	}
	a, err := decodeAudioEncodedData(b)
	if err != nil {
		return nil, err
	}
	a.SetTimestamp(sample.Timestamp())
	return a, nil
}

type videoMuxerInput struct{ m *muxer }

func (in *videoMuxerInput) Push(ctx context.Context, sample unienc.EncodedSample) error {
	m := in.m
	vd, err := asVideoData(sample)
	if err != nil {
		return unienc.ErrInvalidInput("decode video sample: %v", err)
	}

	if vd.isParameterSet {
		if m.barrier.Installed(barrier.Video) {
			return unienc.ErrMuxing("video track already has metadata installed")
		}
		m.mu.Lock()
		// The parameter-set payload is already an Annex-B SPS+PPS blob.
		m.videoExtradata = append([]byte(nil), vd.payload...)
		m.mu.Unlock()
		return m.barrier.Arrive(ctx, barrier.Video, m.start)
	}

	if !m.barrier.Installed(barrier.Video) {
		return unienc.ErrMuxing("video track has no metadata")
	}

	m.mu.Lock()
	proc := m.proc
	m.mu.Unlock()
	if proc == nil {
		return unienc.ErrMuxing("muxer has not started")
	}
	if _, err := proc.inputs[0].Write(toAnnexB(vd.payload)); err != nil {
		return unienc.ErrCommunication("write video sample to mux ffmpeg: %v", err)
	}
	return nil
}

func (in *videoMuxerInput) Finish(ctx context.Context) error {
	m := in.m
	m.videoFinishOnce.Do(func() { close(m.videoFinish) })

	m.mu.Lock()
	proc := m.proc
	m.mu.Unlock()
	if proc == nil {
		return nil
	}
	if err := proc.inputs[0].Close(); err != nil {
		return unienc.ErrCommunication("close mux ffmpeg video pipe: %v", err)
	}
	return nil
}

type audioMuxerInput struct{ m *muxer }

func (in *audioMuxerInput) Push(ctx context.Context, sample unienc.EncodedSample) error {
	m := in.m
	ad, err := asAudioData(sample)
	if err != nil {
		return unienc.ErrInvalidInput("decode audio sample: %v", err)
	}

	if ad.isMetadata {
		if m.barrier.Installed(barrier.Audio) {
			return unienc.ErrMuxing("audio track already has metadata installed")
		}
		return m.barrier.Arrive(ctx, barrier.Audio, m.start)
	}

	if !m.barrier.Installed(barrier.Audio) {
		return unienc.ErrMuxing("audio track has no metadata")
	}

	m.mu.Lock()
	proc := m.proc
	m.mu.Unlock()
	if proc == nil {
		return unienc.ErrMuxing("muxer has not started")
	}
	frame := append(append([]byte(nil), ad.header...), ad.payload...)
	if _, err := proc.inputs[1].Write(frame); err != nil {
		return unienc.ErrCommunication("write audio sample to mux ffmpeg: %v", err)
	}
	return nil
}

func (in *audioMuxerInput) Finish(ctx context.Context) error {
	m := in.m
	m.audioFinishOnce.Do(func() { close(m.audioFinish) })

	m.mu.Lock()
	proc := m.proc
	m.mu.Unlock()
	if proc == nil {
		return nil
	}
	if err := proc.inputs[1].Close(); err != nil {
		return unienc.ErrCommunication("close mux ffmpeg audio pipe: %v", err)
	}
	return nil
}

// completionHandle awaits both inputs' Finish, then waits for the mux
// child to exit; a successful exit is the container's durability signal.
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

	m.mu.Lock()
	proc := m.proc
	m.mu.Unlock()
	if proc == nil {
		return unienc.ErrMuxing("muxer never started: one or both tracks never installed metadata")
	}
	if err := proc.wait(); err != nil {
		return unienc.ErrMuxing("finalize mp4: %v", err)
	}
	return nil
}
