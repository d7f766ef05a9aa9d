//go:build android

// Package mcenc is the Android backend: MediaCodec H.264 in either
// YUV420-flexible buffer mode or Surface mode (via ImageWriter +
// HardwareBuffer), MediaCodec AAC for audio, and MediaMuxer for the MP4
// container. As with mfenc/vtenc, the actual MediaCodec/MediaMuxer/JNI
// calls are the black box behind a small nativeSession seam; this package
// wires the shared generic machinery around it.
package mcenc

import "github.com/CyberAgentGameEntertainment/unienc"

// System is the MediaCodec/MediaMuxer realization of
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
