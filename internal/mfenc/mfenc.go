//go:build windows

// Package mfenc is the Windows Media Foundation backend: an NV12 MFT
// transform for H.264 (async or sync) for video, a PCM→AAC MFT for audio,
// and an MPEG-4 sink with two stream sinks and a presentation clock for
// muxing. The package implements the full generic state machine — deferred
// initialization, the bounded encoder pump (internal/pump), the two-track
// startup barrier (internal/barrier), and the flat tagged-record sample
// codec (internal/samplecodec) — around a small nativeSession interface.
// The interface's actual Media Foundation calls (IMFTransform,
// IMFSinkWriter, COM init per thread) are the black box a Windows-SDK
// build links in via cgo behind this seam.
package mfenc

import "github.com/CyberAgentGameEntertainment/unienc"

// System is the Media Foundation realization of unienc.EncodingSystem.
type System struct {
	videoOpts unienc.VideoEncoderOptions
	audioOpts unienc.AudioEncoderOptions
}

// New validates options. Construction never touches Media Foundation
// itself — initialization defers to the first push. Media Foundation does
// not strictly need the deferral (NV12 buffer mode is fixed), but the
// constructor stays symmetrical with mcenc's, where the first frame picks
// the input mode.
func New(video unienc.VideoEncoderOptions, audio unienc.AudioEncoderOptions) (*System, error) {
	if video.Width == 0 || video.Height == 0 || video.FPSHint == 0 {
		return nil, unienc.ErrConfiguration("video encoder options must set width, height, and fps_hint")
	}
	if audio.SampleRate == 0 || audio.Channels == 0 {
		return nil, unienc.ErrConfiguration("audio encoder options must set sample_rate and channels")
	}
	return &System{videoOpts: video, audioOpts: audio}, nil
}

// IsBlitSupported reports true for this backend. The video encoder's Push
// in this package has no GPU-import path, though: it rejects every
// BlitSourceFrame with InvalidInput("Blit not supported in this build").
func (s *System) IsBlitSupported() bool { return true }

func (s *System) NewVideoEncoder() (unienc.Encoder[unienc.VideoSample], error) {
	return &videoEncoderFactory{opts: s.videoOpts}, nil
}

func (s *System) NewAudioEncoder() (unienc.Encoder[unienc.AudioSample], error) {
	return &audioEncoderFactory{opts: s.audioOpts}, nil
}

func (s *System) NewMuxer(outputPath string) (unienc.Muxer, error) {
	return newMuxer(outputPath), nil
}
