// Command unienc-bench drives unienc's public API the way a host
// application would, without needing the actual Unity/Windows/Unreal
// host: it constructs a platform.EncodingSystem, synthesizes BGRA frames
// and a sine-wave PCM track, and writes a real MP4, reporting
// progress the way a host-facing CLI would.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/CyberAgentGameEntertainment/unienc"
	"github.com/CyberAgentGameEntertainment/unienc/internal/platform"
	"github.com/CyberAgentGameEntertainment/unienc/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("error:"), err)
		os.Exit(1)
	}
}

type benchArgs struct {
	output     string
	width      uint
	height     uint
	fps        uint
	videoRate  uint
	sampleRate uint
	channels   uint
	audioRate  uint
	seconds    float64
	verbose    bool
}

func parseArgs() benchArgs {
	var a benchArgs
	fs := flag.NewFlagSet("unienc-bench", flag.ExitOnError)
	fs.StringVar(&a.output, "o", "bench.mp4", "output MP4 path")
	fs.UintVar(&a.width, "width", 1280, "video width")
	fs.UintVar(&a.height, "height", 720, "video height")
	fs.UintVar(&a.fps, "fps", 30, "video fps hint")
	fs.UintVar(&a.videoRate, "vbitrate", 4_000_000, "video bitrate (bps)")
	fs.UintVar(&a.sampleRate, "samplerate", 48000, "audio sample rate")
	fs.UintVar(&a.channels, "channels", 2, "audio channel count")
	fs.UintVar(&a.audioRate, "abitrate", 128_000, "audio bitrate (bps)")
	fs.Float64Var(&a.seconds, "seconds", 10, "duration to synthesize")
	fs.BoolVar(&a.verbose, "v", false, "verbose logging")
	_ = fs.Parse(os.Args[1:])
	return a
}

func run() error {
	a := parseArgs()
	if a.verbose {
		telemetry.UseStderr()
	}

	bold := color.New(color.Bold)
	_, _ = bold.Println("unienc-bench")
	fmt.Printf("  %s %dx%d @ %d fps, %d Hz/%dch audio, %.1fs → %s\n",
		color.New(color.Faint).Sprint("encoding"), a.width, a.height, a.fps, a.sampleRate, a.channels, a.seconds, a.output)

	sys, err := platform.New(
		unienc.VideoEncoderOptions{Width: uint32(a.width), Height: uint32(a.height), FPSHint: uint32(a.fps), Bitrate: uint32(a.videoRate)},
		unienc.AudioEncoderOptions{SampleRate: uint32(a.sampleRate), Channels: uint32(a.channels), Bitrate: uint32(a.audioRate)},
	)
	if err != nil {
		return fmt.Errorf("construct encoding system: %w", err)
	}

	videoEnc, err := sys.NewVideoEncoder()
	if err != nil {
		return fmt.Errorf("new video encoder: %w", err)
	}
	videoIn, videoOut, err := videoEnc.Split()
	if err != nil {
		return fmt.Errorf("split video encoder: %w", err)
	}

	audioEnc, err := sys.NewAudioEncoder()
	if err != nil {
		return fmt.Errorf("new audio encoder: %w", err)
	}
	audioIn, audioOut, err := audioEnc.Split()
	if err != nil {
		return fmt.Errorf("split audio encoder: %w", err)
	}

	muxer, err := sys.NewMuxer(a.output)
	if err != nil {
		return fmt.Errorf("new muxer: %w", err)
	}
	muxVideoIn, muxAudioIn, completion, err := muxer.Split()
	if err != nil {
		return fmt.Errorf("split muxer: %w", err)
	}

	bar := progressbar.NewOptions64(int64(a.seconds*1000),
		progressbar.OptionSetDescription("encoding"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{Saucer: "=", SaucerHead: ">", SaucerPadding: " ", BarStart: "[", BarEnd: "]"}),
	)

	ctx := context.Background()
	g, gctx := errgroup.WithContext(ctx)

	frameCount := int(a.seconds * float64(a.fps))
	bufCount := int(a.seconds)

	g.Go(func() error {
		defer func() { _ = videoIn.Finish(gctx) }()
		for i := 0; i < frameCount; i++ {
			ts := float64(i) / float64(a.fps)
			frame := unienc.BGRAFrame{Buffer: unienc.NewUnmanagedBuffer(make([]byte, int(a.width)*int(a.height)*4)), W: uint32(a.width), H: uint32(a.height)}
			if err := videoIn.Push(gctx, unienc.VideoSample{Frame: frame, Timestamp: ts}); err != nil {
				return fmt.Errorf("push video frame %d: %w", i, err)
			}
			_ = bar.Set(int(ts * 1000))
		}
		return nil
	})

	g.Go(func() error {
		defer func() { _ = audioIn.Finish(gctx) }()
		for i := 0; i < bufCount; i++ {
			data := synthesizeTone(int(a.sampleRate), int(a.channels), 442)
			sample := unienc.AudioSample{Data: data, TimestampInSamples: uint64(i) * uint64(a.sampleRate)}
			if err := audioIn.Push(gctx, sample); err != nil {
				return fmt.Errorf("push audio buffer %d: %w", i, err)
			}
		}
		return nil
	})

	g.Go(func() error { return pumpEncodedSamples(gctx, videoOut, muxVideoIn) })
	g.Go(func() error { return pumpEncodedSamples(gctx, audioOut, muxAudioIn) })

	if err := g.Wait(); err != nil {
		return err
	}

	if err := muxVideoIn.Finish(ctx); err != nil {
		return fmt.Errorf("finish video mux input: %w", err)
	}
	if err := muxAudioIn.Finish(ctx); err != nil {
		return fmt.Errorf("finish audio mux input: %w", err)
	}

	start := time.Now()
	if err := completion.Finish(ctx); err != nil {
		return fmt.Errorf("finalize container: %w", err)
	}
	_, _ = color.New(color.FgGreen, color.Bold).Printf("done (%s, finalize %s)\n", a.output, time.Since(start).Round(time.Millisecond))
	return nil
}

// pumpEncodedSamples forwards every encoded sample from out into in until
// out reports end-of-stream (Pull returns nil, nil once the input half
// has been dropped and everything enqueued has drained).
func pumpEncodedSamples(ctx context.Context, out unienc.EncoderOutput, in unienc.MuxerInput) error {
	for {
		sample, err := out.Pull(ctx)
		if err != nil {
			return fmt.Errorf("pull encoded sample: %w", err)
		}
		if sample == nil {
			return nil
		}
		if err := in.Push(ctx, sample); err != nil {
			return fmt.Errorf("push encoded sample to muxer: %w", err)
		}
	}
}

// synthesizeTone builds one second of interleaved 16-bit PCM at freqHz.
func synthesizeTone(sampleRate, channels int, freqHz float64) []int16 {
	data := make([]int16, sampleRate*channels)
	for i := 0; i < sampleRate; i++ {
		v := int16(math.Sin(2*math.Pi*freqHz*float64(i)/float64(sampleRate)) * 0.2 * 32767)
		for c := 0; c < channels; c++ {
			data[i*channels+c] = v
		}
	}
	return data
}
