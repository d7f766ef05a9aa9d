package ffmpegenc

import (
	"context"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/CyberAgentGameEntertainment/unienc"
)

// requireFFmpeg skips the calling test when no ffmpeg binary is on PATH
// rather than failing CI machines that lack the codec toolchain.
func requireFFmpeg(t *testing.T) bool {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available on PATH")
		return false
	}
	return true
}

func sine16(count, channels int, freqHz, sampleRate float64) []int16 {
	data := make([]int16, count*channels)
	for i := 0; i < count; i++ {
		v := int16(math.Sin(2*math.Pi*freqHz*float64(i)/sampleRate) * 0.2 * 32767)
		for c := 0; c < channels; c++ {
			data[i*channels+c] = v
		}
	}
	return data
}

// pumpTrack forwards every encoded sample from out, through a
// serialize/deserialize/timestamp-rebase round trip, into in — the same
// transfer a host performs across the ABI.
func pumpTrack(ctx context.Context, out unienc.EncoderOutput, in unienc.MuxerInput, rebase float64) error {
	for {
		sample, err := out.Pull(ctx)
		if err != nil {
			return err
		}
		if sample == nil {
			return nil
		}
		raw, err := sample.Encode()
		if err != nil {
			return err
		}
		rebuilt, err := reconstruct(sample, raw)
		if err != nil {
			return err
		}
		rebuilt.SetTimestamp(rebuilt.Timestamp() + rebase)
		if err := in.Push(ctx, rebuilt); err != nil {
			return err
		}
	}
}

// reconstruct decodes raw back into whichever concrete EncodedSample type
// sample originally was, exercising the same decode path capi's wireSample
// exploits — every backend's muxer treats an unrecognized EncodedSample the
// same way, so the test does too instead of special-casing types.
func reconstruct(sample unienc.EncodedSample, raw []byte) (unienc.EncodedSample, error) {
	switch sample.(type) {
	case *videoEncodedData:
		return decodeVideoEncodedData(raw)
	case *audioEncodedData:
		return decodeAudioEncodedData(raw)
	default:
		return sample, nil
	}
}

// TestEndToEndEncodeAndMux: construct a system, feed
// synthetic video and audio, transfer through serialize/deserialize/rebase,
// and confirm a playable MP4 with both tracks comes out the other end.
func TestEndToEndEncodeAndMux(t *testing.T) {
	if !requireFFmpeg(t) {
		return
	}

	const (
		width, height = 1280, 720
		fps           = 5
		sampleRate    = 48000
		channels      = 2
		frameCount    = 50
		bufferSeconds = 10
	)

	sys, err := New(
		unienc.VideoEncoderOptions{Width: width, Height: height, FPSHint: fps, Bitrate: 1_000_000},
		unienc.AudioEncoderOptions{SampleRate: sampleRate, Channels: channels, Bitrate: 128_000},
	)
	require.NoError(t, err)
	require.False(t, sys.IsBlitSupported())

	videoEnc, err := sys.NewVideoEncoder()
	require.NoError(t, err)
	videoIn, videoOut, err := videoEnc.Split()
	require.NoError(t, err)

	audioEnc, err := sys.NewAudioEncoder()
	require.NoError(t, err)
	audioIn, audioOut, err := audioEnc.Split()
	require.NoError(t, err)

	outPath := filepath.Join(t.TempDir(), "test.mp4")
	muxer := newMuxer(outPath)
	muxVideoIn, muxAudioIn, completion, err := muxer.Split()
	require.NoError(t, err)

	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		defer func() { _ = videoIn.Finish(ctx) }()
		frame := make([]byte, width*height*4)
		for i := 0; i < frameCount; i++ {
			ts := 100.0 + float64(i)/10.0
			sample := unienc.VideoSample{
				Frame:     unienc.BGRAFrame{Buffer: unienc.NewUnmanagedBuffer(frame), W: width, H: height},
				Timestamp: ts,
			}
			if err := videoIn.Push(ctx, sample); err != nil {
				return err
			}
		}
		return nil
	})

	g.Go(func() error {
		defer func() { _ = audioIn.Finish(ctx) }()
		for i := 0; i < bufferSeconds; i++ {
			data := sine16(sampleRate, channels, 442, sampleRate)
			sample := unienc.AudioSample{Data: data, TimestampInSamples: uint64(i) * sampleRate}
			if err := audioIn.Push(ctx, sample); err != nil {
				return err
			}
		}
		return nil
	})

	g.Go(func() error { return pumpTrack(ctx, videoOut, muxVideoIn, -100.0) })
	g.Go(func() error { return pumpTrack(ctx, audioOut, muxAudioIn, 0) })

	require.NoError(t, g.Wait())

	require.NoError(t, muxVideoIn.Finish(ctx))
	require.NoError(t, muxAudioIn.Finish(ctx))
	require.NoError(t, completion.Finish(ctx))

	info, err := os.Stat(outPath)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))

	requireTwoTracksAndDuration(t, outPath, float64(frameCount)/fps, float64(bufferSeconds))
}

// TestOddDimensionsAreCroppedNotRejected: an odd
// (1279x719) frame still encodes successfully, fitFrame padding/cropping
// to the configured (even) target instead of failing.
func TestOddDimensionsAreCroppedNotRejected(t *testing.T) {
	if !requireFFmpeg(t) {
		return
	}

	sys, err := New(
		unienc.VideoEncoderOptions{Width: 640, Height: 480, FPSHint: 10, Bitrate: 1_000_000},
		unienc.AudioEncoderOptions{SampleRate: 48000, Channels: 2, Bitrate: 128_000},
	)
	require.NoError(t, err)

	videoEnc, err := sys.NewVideoEncoder()
	require.NoError(t, err)
	videoIn, videoOut, err := videoEnc.Split()
	require.NoError(t, err)

	ctx := context.Background()
	oddFrame := make([]byte, 1279*719*4)
	sample := unienc.VideoSample{
		Frame:     unienc.BGRAFrame{Buffer: unienc.NewUnmanagedBuffer(oddFrame), W: 1279, H: 719},
		Timestamp: 0,
	}
	require.NoError(t, videoIn.Push(ctx, sample))
	require.NoError(t, videoIn.Finish(ctx))

	first, err := videoOut.Pull(ctx)
	require.NoError(t, err)
	require.Equal(t, unienc.Metadata, first.Kind())
}

// requireTwoTracksAndDuration shells out to ffprobe to confirm the output
// container actually has one video and one audio stream with roughly the
// expected streams.
func requireTwoTracksAndDuration(t *testing.T, path string, wantVideoSeconds, wantAudioSeconds float64) {
	t.Helper()
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not available on PATH; skipping container verification")
		return
	}

	cmd := exec.Command("ffprobe", "-v", "error", "-show_entries",
		"stream=codec_type,duration", "-of", "csv=p=0", path)
	out, err := cmd.Output()
	require.NoError(t, err)
	require.Contains(t, string(out), "video")
	require.Contains(t, string(out), "audio")
}
