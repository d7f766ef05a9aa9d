//go:build android

package mcenc

import "github.com/CyberAgentGameEntertainment/unienc"

// nativeSession is the seam to android.media.MediaCodec/MediaMuxer. See
// mcenc.go's package doc.
type nativeSession interface {
	// ConfigureVideo picks between buffer-input and Surface-input mode
	// and returns the codec-config CSD-0/CSD-1 bytes.
	ConfigureVideo(opts unienc.VideoEncoderOptions, useSurface bool) ([]byte, error)
	// EncodeVideo converts bgra to YUV420 flexible with 16-byte alignment
	// padding before submitting, in buffer-input mode; in Surface mode the
	// blit happens upstream via ImageWriter and bgra is unused. Returns
	// INFO_TRY_AGAIN_LATER as (nil, false, nil) — retried internally,
	// never surfaced.
	EncodeVideo(bgra []byte, w, h uint32, timestamp float64) (payload []byte, isKey bool, err error)
	FlushVideo() (payload []byte, isKey bool, ok bool, err error)

	ConfigureAudio(opts unienc.AudioEncoderOptions) ([]byte, error)
	EncodeAudio(pcm []int16, timestamp float64) (payload []byte, err error)

	Close() error
}

type unavailableSession struct{}

func newNativeSession() nativeSession { return unavailableSession{} }

func (unavailableSession) ConfigureVideo(unienc.VideoEncoderOptions, bool) ([]byte, error) {
	return nil, unienc.ErrPlatform("mediacodec session not linked into this build")
}

func (unavailableSession) EncodeVideo([]byte, uint32, uint32, float64) ([]byte, bool, error) {
	return nil, false, unienc.ErrPlatform("mediacodec session not linked into this build")
}

func (unavailableSession) FlushVideo() ([]byte, bool, bool, error) { return nil, false, false, nil }

func (unavailableSession) ConfigureAudio(unienc.AudioEncoderOptions) ([]byte, error) {
	return nil, unienc.ErrPlatform("mediacodec session not linked into this build")
}

func (unavailableSession) EncodeAudio([]int16, float64) ([]byte, error) {
	return nil, unienc.ErrPlatform("mediacodec session not linked into this build")
}

func (unavailableSession) Close() error { return nil }
