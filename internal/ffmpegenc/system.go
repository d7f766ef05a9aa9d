package ffmpegenc

import (
	"context"
	"sync"

	"github.com/CyberAgentGameEntertainment/unienc"
)

// System is the FFmpeg realization of unienc.EncodingSystem. It never
// supports GPU-resident frames; IsBlitSupported always reports false and
// pushing a blit-source frame fails with InvalidInput.
type System struct {
	videoOpts unienc.VideoEncoderOptions
	audioOpts unienc.AudioEncoderOptions
}

// New probes for an ffmpeg binary on PATH, returning an
// InitializationError immediately if one cannot be found — the host finds
// out before it has pushed a single frame, not on first push. The options
// are stored as given; New does not validate them.
func New(video unienc.VideoEncoderOptions, audio unienc.AudioEncoderOptions) (*System, error) {
	if _, err := resolveBinary(); err != nil {
		return nil, err
	}
	return &System{videoOpts: video, audioOpts: audio}, nil
}

func (s *System) IsBlitSupported() bool { return false }

func (s *System) NewVideoEncoder() (unienc.Encoder[unienc.VideoSample], error) {
	return &videoEncoderFactory{opts: s.videoOpts}, nil
}

func (s *System) NewAudioEncoder() (unienc.Encoder[unienc.AudioSample], error) {
	return &audioEncoderFactory{opts: s.audioOpts}, nil
}

func (s *System) NewMuxer(outputPath string) (unienc.Muxer, error) {
	return newMuxer(outputPath), nil
}

// videoEncoderFactory defers spawning the ffmpeg child until Split is
// actually called, since EncodingSystem.NewVideoEncoder returns an
// unsplit Encoder[VideoSample] per contract.go, while the ffmpeg backend
// needs to know the resolved H.264 encoder name (an async probe) before it
// can build the process. Split is documented as irreversible; once is
// enough to enforce that here too.
type videoEncoderFactory struct {
	opts unienc.VideoEncoderOptions

	once sync.Once
	enc  *videoEncoder
	err  error
}

func (f *videoEncoderFactory) Split() (unienc.EncoderInput[unienc.VideoSample], unienc.EncoderOutput, error) {
	f.once.Do(func() {
		f.enc, f.err = newVideoEncoder(context.Background(), f.opts)
	})
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.enc.Split()
}

type audioEncoderFactory struct {
	opts unienc.AudioEncoderOptions

	once sync.Once
	enc  *audioEncoder
	err  error
}

func (f *audioEncoderFactory) Split() (unienc.EncoderInput[unienc.AudioSample], unienc.EncoderOutput, error) {
	f.once.Do(func() {
		f.enc, f.err = newAudioEncoder(f.opts)
	})
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.enc.Split()
}
