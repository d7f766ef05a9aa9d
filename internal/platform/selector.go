package platform

import "github.com/CyberAgentGameEntertainment/unienc"

// New constructs the one EncodingSystem backend this build was compiled
// for. Exactly one of selector_windows.go, selector_darwin.go,
// selector_android.go, selector_js.go, selector_unix.go is compiled into
// any given build, each defining newPlatformSystem with this same
// signature; a target none of them covers fails compilation.
func New(video unienc.VideoEncoderOptions, audio unienc.AudioEncoderOptions) (unienc.EncodingSystem, error) {
	return newPlatformSystem(video, audio)
}
