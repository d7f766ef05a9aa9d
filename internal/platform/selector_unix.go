//go:build !windows && !darwin && !android && !js

package platform

import (
	"github.com/CyberAgentGameEntertainment/unienc"
	"github.com/CyberAgentGameEntertainment/unienc/internal/ffmpegenc"
)

// newPlatformSystem selects the FFmpeg backend for every Unix target that
// isn't Android.
func newPlatformSystem(video unienc.VideoEncoderOptions, audio unienc.AudioEncoderOptions) (unienc.EncodingSystem, error) {
	return ffmpegenc.New(video, audio)
}
