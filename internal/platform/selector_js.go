//go:build js && wasm

package platform

import (
	"github.com/CyberAgentGameEntertainment/unienc"
	"github.com/CyberAgentGameEntertainment/unienc/internal/wcenc"
)

// newPlatformSystem selects the WebCodecs script-bridge backend on the
// WebAssembly/browser target.
func newPlatformSystem(video unienc.VideoEncoderOptions, audio unienc.AudioEncoderOptions) (unienc.EncodingSystem, error) {
	return wcenc.New(video, audio)
}
