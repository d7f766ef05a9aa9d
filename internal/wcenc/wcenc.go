//go:build js && wasm

// Package wcenc is the WebCodecs backend: a host-side
// VideoEncoder/AudioEncoder driven through a script bridge (this module
// runs as WASM inside the browser; the actual codec objects live in
// JavaScript), muxed by a fragmented-MP4 muxer whose output is surfaced to
// the host as a downloadable blob rather than a file path. The script
// bridge itself (syscall/js calls into the host page) is the black box
// this package wires around, the same way the other three platform
// backends wire around a native SDK.
package wcenc

import "github.com/CyberAgentGameEntertainment/unienc"

// System is the WebCodecs realization of unienc.EncodingSystem.
type System struct {
	videoOpts unienc.VideoEncoderOptions
	audioOpts unienc.AudioEncoderOptions
}

func New(video unienc.VideoEncoderOptions, audio unienc.AudioEncoderOptions) (*System, error) {
	if video.Width == 0 || video.Height == 0 || video.FPSHint == 0 {
		return nil, unienc.ErrConfiguration("video encoder options must set width, height, and fps_hint")
	}
	if audio.SampleRate == 0 || audio.Channels == 0 {
		return nil, unienc.ErrConfiguration("audio encoder options must set sample_rate and channels")
	}
	return &System{videoOpts: video, audioOpts: audio}, nil
}

// IsBlitSupported reports false: the host already owns the GPU texture in
// this environment (a WebGL/WebGPU resource the page itself controls), so
// there is no blit for this module to perform — the host is expected to
// hand WebCodecs a VideoFrame directly rather than route through
// BlitSourceFrame/internal/graphicsbridge.
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
