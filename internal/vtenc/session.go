//go:build darwin

package vtenc

import "github.com/CyberAgentGameEntertainment/unienc"

// nativeSession is the seam to VTCompressionSession/AudioConverter/
// AVAssetWriter. See vtenc.go's package doc.
type nativeSession interface {
	ConfigureVideo(opts unienc.VideoEncoderOptions) ([]byte, error)
	// EncodeVideo is called with frame reordering disabled and realtime
	// enabled, so output arrives in the same order frames were submitted
	// and isKey can be read directly off the sample attachment
	// dictionary's kCMSampleAttachmentKey_NotSync (inverted).
	EncodeVideo(bgra []byte, w, h uint32, timestamp float64) (payload []byte, isKey bool, err error)
	FlushVideo() (payload []byte, isKey bool, ok bool, err error)

	ConfigureAudio(opts unienc.AudioEncoderOptions) ([]byte, error)
	EncodeAudio(pcm []int16, timestamp float64) (payload []byte, err error)

	Close() error
}

type unavailableSession struct{}

func newNativeSession() nativeSession { return unavailableSession{} }

func (unavailableSession) ConfigureVideo(unienc.VideoEncoderOptions) ([]byte, error) {
	return nil, unienc.ErrPlatform("videotoolbox session not linked into this build")
}

func (unavailableSession) EncodeVideo([]byte, uint32, uint32, float64) ([]byte, bool, error) {
	return nil, false, unienc.ErrPlatform("videotoolbox session not linked into this build")
}

func (unavailableSession) FlushVideo() ([]byte, bool, bool, error) { return nil, false, false, nil }

func (unavailableSession) ConfigureAudio(unienc.AudioEncoderOptions) ([]byte, error) {
	return nil, unienc.ErrPlatform("audioconverter session not linked into this build")
}

func (unavailableSession) EncodeAudio([]int16, float64) ([]byte, error) {
	return nil, unienc.ErrPlatform("audioconverter session not linked into this build")
}

func (unavailableSession) Close() error { return nil }
