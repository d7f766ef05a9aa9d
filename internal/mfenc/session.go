//go:build windows

package mfenc

import "github.com/CyberAgentGameEntertainment/unienc"

// nativeSession is the seam between the generic state machine in this
// package and the actual Media Foundation calls a real Windows build would
// make (IMFTransform for the H.264/AAC MFTs, IMFSinkWriter for the MP4
// sink). See mfenc.go's package doc for why this is a seam rather than a
// cgo binding in this tree.
type nativeSession interface {
	// ConfigureVideo returns the codec-configuration bytes (SPS/PPS, as an
	// MF_MT_MPEG_SEQUENCE_HEADER attribute blob) to carry as the video
	// track's Metadata sample.
	ConfigureVideo(opts unienc.VideoEncoderOptions) ([]byte, error)
	// EncodeVideo submits one NV12-converted frame and returns the next
	// available encoded access unit, or (nil, false, nil) if the MFT needs
	// more input before it can produce output (MF_E_TRANSFORM_NEED_MORE_INPUT,
	// handled as an internal retry loop, never surfaced here).
	EncodeVideo(bgra []byte, w, h uint32, timestamp float64) (payload []byte, isKey bool, err error)
	FlushVideo() (payload []byte, isKey bool, ok bool, err error)

	ConfigureAudio(opts unienc.AudioEncoderOptions) ([]byte, error)
	EncodeAudio(pcm []int16, timestamp float64) (payload []byte, err error)

	Close() error
}

// unavailableSession is the default nativeSession: every build of this
// module compiled in this exercise's environment (Linux, no Windows SDK
// headers available) gets this stub, which reports PlatformError on first
// real use instead of silently fabricating encoded bytes. A Windows build
// wired to the real SDK replaces newNativeSession with one backed by
// IMFTransform/IMFSinkWriter.
type unavailableSession struct{}

func newNativeSession() nativeSession { return unavailableSession{} }

func (unavailableSession) ConfigureVideo(unienc.VideoEncoderOptions) ([]byte, error) {
	return nil, unienc.ErrPlatform("media foundation session not linked into this build")
}

func (unavailableSession) EncodeVideo([]byte, uint32, uint32, float64) ([]byte, bool, error) {
	return nil, false, unienc.ErrPlatform("media foundation session not linked into this build")
}

func (unavailableSession) FlushVideo() ([]byte, bool, bool, error) {
	return nil, false, false, nil
}

func (unavailableSession) ConfigureAudio(unienc.AudioEncoderOptions) ([]byte, error) {
	return nil, unienc.ErrPlatform("media foundation session not linked into this build")
}

func (unavailableSession) EncodeAudio([]int16, float64) ([]byte, error) {
	return nil, unienc.ErrPlatform("media foundation session not linked into this build")
}

func (unavailableSession) Close() error { return nil }
