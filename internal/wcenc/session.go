//go:build js && wasm

package wcenc

import "github.com/CyberAgentGameEntertainment/unienc"

// nativeSession is the seam to the host page's WebCodecs objects, reached
// via syscall/js. See wcenc.go's package doc.
type nativeSession interface {
	ConfigureVideo(opts unienc.VideoEncoderOptions) ([]byte, error)
	// EncodeVideo hands a VideoFrame to the host-side VideoEncoder and
	// waits, on a bounded channel, for the next EncodedVideoChunk the
	// output callback delivers.
	EncodeVideo(bgra []byte, w, h uint32, timestamp float64) (payload []byte, isKey bool, err error)
	FlushVideo() (payload []byte, isKey bool, ok bool, err error)

	ConfigureAudio(opts unienc.AudioEncoderOptions) ([]byte, error)
	EncodeAudio(pcm []int16, timestamp float64) (payload []byte, err error)

	// BlobURL is available only after the CompletionHandle's Finish has
	// flushed the fragmented-MP4 muxer and asked the host page to wrap the
	// result in a Blob; it is the ABI's substitute for an output file path
	// on this target.
	BlobURL() (string, error)

	Close() error
}

type unavailableSession struct{}

func newNativeSession() nativeSession { return unavailableSession{} }

func (unavailableSession) ConfigureVideo(unienc.VideoEncoderOptions) ([]byte, error) {
	return nil, unienc.ErrPlatform("webcodecs script bridge not linked into this build")
}

func (unavailableSession) EncodeVideo([]byte, uint32, uint32, float64) ([]byte, bool, error) {
	return nil, false, unienc.ErrPlatform("webcodecs script bridge not linked into this build")
}

func (unavailableSession) FlushVideo() ([]byte, bool, bool, error) { return nil, false, false, nil }

func (unavailableSession) ConfigureAudio(unienc.AudioEncoderOptions) ([]byte, error) {
	return nil, unienc.ErrPlatform("webcodecs script bridge not linked into this build")
}

func (unavailableSession) EncodeAudio([]int16, float64) ([]byte, error) {
	return nil, unienc.ErrPlatform("webcodecs script bridge not linked into this build")
}

func (unavailableSession) BlobURL() (string, error) {
	return "", unienc.ErrPlatform("webcodecs script bridge not linked into this build")
}

func (unavailableSession) Close() error { return nil }
