//go:build darwin

// Package vtenc is the Apple backend: a VideoToolbox compression session
// (BGRA→H.264, frame reordering disabled, realtime enabled) for video,
// AudioConverter PCM→AAC packets for audio, and an AVAssetWriter with two
// inputs pulled by a queued block for muxing. As with mfenc, the actual
// VideoToolbox/AudioConverter/AVFoundation calls are the black box behind
// a small nativeSession seam; this package wires the shared generic
// machinery (internal/pump, internal/barrier, internal/samplecodec) around
// it.
package vtenc

import "github.com/CyberAgentGameEntertainment/unienc"

// System is the VideoToolbox/AVFoundation realization of
// unienc.EncodingSystem.
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
