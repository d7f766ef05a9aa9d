//go:build windows

package platform

import (
	"github.com/CyberAgentGameEntertainment/unienc"
	"github.com/CyberAgentGameEntertainment/unienc/internal/mfenc"
)

// newPlatformSystem selects the Media Foundation backend on Windows.
func newPlatformSystem(video unienc.VideoEncoderOptions, audio unienc.AudioEncoderOptions) (unienc.EncodingSystem, error) {
	return mfenc.New(video, audio)
}
