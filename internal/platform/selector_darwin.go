//go:build darwin

package platform

import (
	"github.com/CyberAgentGameEntertainment/unienc"
	"github.com/CyberAgentGameEntertainment/unienc/internal/vtenc"
)

// newPlatformSystem selects the VideoToolbox/AVFoundation backend on Apple
// targets.
func newPlatformSystem(video unienc.VideoEncoderOptions, audio unienc.AudioEncoderOptions) (unienc.EncodingSystem, error) {
	return vtenc.New(video, audio)
}
