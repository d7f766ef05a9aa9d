package platform

import (
	"os/exec"
	"testing"

	"github.com/CyberAgentGameEntertainment/unienc"
)

// TestNewConstructsBackendForThisTarget drives the selector the way capi's
// unienc_new_encoding_system does. On the FFmpeg-backed targets New probes
// PATH for the binary, so the test skips where that toolchain is absent.
func TestNewConstructsBackendForThisTarget(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available on PATH")
	}

	sys, err := New(
		unienc.VideoEncoderOptions{Width: 640, Height: 480, FPSHint: 30, Bitrate: 1_000_000},
		unienc.AudioEncoderOptions{SampleRate: 48000, Channels: 2, Bitrate: 128_000},
	)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if sys == nil {
		t.Fatal("New returned nil EncodingSystem")
	}
	// The property itself is backend-specific; the selector just has to
	// hand back something that answers.
	_ = sys.IsBlitSupported()
}
