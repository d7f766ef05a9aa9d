//go:build android

package platform

import (
	"github.com/CyberAgentGameEntertainment/unienc"
	"github.com/CyberAgentGameEntertainment/unienc/internal/mcenc"
)

// newPlatformSystem selects the MediaCodec/MediaMuxer backend on Android
// builds.
func newPlatformSystem(video unienc.VideoEncoderOptions, audio unienc.AudioEncoderOptions) (unienc.EncodingSystem, error) {
	return mcenc.New(video, audio)
}
