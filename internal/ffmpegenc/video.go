package ffmpegenc

import (
	"context"
	"fmt"
	"io"
	"math"
	"sync/atomic"

	"github.com/CyberAgentGameEntertainment/unienc"
)

// videoEncoder spawns ffmpeg to read raw BGRA frames on stdin and produce
// an Annex-B H.264 byte stream on stdout.
type videoEncoder struct {
	proc   *process
	width  uint32
	height uint32
	fps    uint32
	pacer  *cfrPacer[[]byte]

	// baseTS is the first pushed frame's timestamp, as float64 bits;
	// output timestamps are baseTS + frameIndex/fps so pulled samples land
	// on the host's own time base rather than restarting at zero. Atomic
	// because Push and Pull run on different goroutines.
	baseTS     atomic.Uint64
	haveBaseTS atomic.Bool

	sentMeta    bool
	extradata   []byte // SPS+PPS in Annex-B form, pending until the first slice
	frameIndex  uint64
	reader      naluReader
	readBuf     []byte
	pendingOut  []*videoEncodedData
	eof         bool
	errAfterEOF error
}

func newVideoEncoder(ctx context.Context, opts unienc.VideoEncoderOptions) (*videoEncoder, error) {
	if opts.Width == 0 || opts.Height == 0 || opts.FPSHint == 0 {
		return nil, unienc.ErrConfiguration("video encoder options must set width, height, and fps_hint")
	}

	encoderName, err := bestH264Encoder(ctx)
	if err != nil {
		return nil, err
	}

	b := newBuilder().input(
		"-f", "rawvideo",
		"-pixel_format", "bgra",
		"-video_size", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"-framerate", fmt.Sprintf("%d", opts.FPSHint),
	)
	proc, err := b.build([]string{
		"-f", "h264",
		"-pix_fmt", "yuv420p",
		"-r", fmt.Sprintf("%d", opts.FPSHint),
		"-c:v", encoderName,
		"-b:v", fmt.Sprintf("%d", opts.Bitrate),
		"-force_key_frames", "expr:gte(t,n_forced*1)",
	}, toStdout())
	if err != nil {
		return nil, err
	}

	return &videoEncoder{
		proc:   proc,
		width:  opts.Width,
		height: opts.Height,
		fps:    opts.FPSHint,
		pacer:  newCfrPacer[[]byte](opts.FPSHint),
	}, nil
}

// Split realizes unienc.Encoder[unienc.VideoSample].
func (e *videoEncoder) Split() (unienc.EncoderInput[unienc.VideoSample], unienc.EncoderOutput, error) {
	return &videoEncoderInput{e: e}, &videoEncoderOutput{e: e}, nil
}

type videoEncoderInput struct{ e *videoEncoder }

func (in *videoEncoderInput) Push(ctx context.Context, sample unienc.VideoSample) error {
	e := in.e
	bgra, ok := sample.Frame.(unienc.BGRAFrame)
	if !ok {
		blit, isBlit := sample.Frame.(unienc.BlitSourceFrame)
		if !isBlit {
			return unienc.ErrInvalidInput("unrecognized video frame variant")
		}
		return in.pushBlit(ctx, blit, sample.Timestamp)
	}

	data := bgra.Buffer.Data()
	frame := fitFrame(data, bgra.W, bgra.H, e.width, e.height)

	if !e.haveBaseTS.Load() {
		e.baseTS.Store(math.Float64bits(sample.Timestamp))
		e.haveBaseTS.Store(true)
	}

	prev, count, ok := e.pacer.push(frame, sample.Timestamp)
	if !ok {
		return nil // first frame only primes the pacer; it's written once we see the next one or flush.
	}
	for i := 0; i < count; i++ {
		if _, err := writeAll(e.proc.inputs[0], prev); err != nil {
			return unienc.ErrCommunication("write video frame to ffmpeg: %v", err)
		}
	}
	return nil
}

func (in *videoEncoderInput) pushBlit(ctx context.Context, blit unienc.BlitSourceFrame, timestamp float64) error {
	// No GPU-resident input path here; System.IsBlitSupported reports
	// false and a pushed blit frame is a caller error.
	return unienc.ErrInvalidInput("Blit not supported")
}

func (in *videoEncoderInput) Finish(ctx context.Context) error {
	e := in.e
	if last, ok := e.pacer.flush(); ok {
		if _, err := writeAll(e.proc.inputs[0], last); err != nil {
			return unienc.ErrCommunication("write final video frame to ffmpeg: %v", err)
		}
	}
	if err := e.proc.inputs[0].Close(); err != nil {
		return unienc.ErrCommunication("close ffmpeg video stdin: %v", err)
	}
	return nil
}

type videoEncoderOutput struct{ e *videoEncoder }

func (out *videoEncoderOutput) Pull(ctx context.Context) (unienc.EncodedSample, error) {
	e := out.e

	for {
		if len(e.pendingOut) > 0 {
			s := e.pendingOut[0]
			e.pendingOut = e.pendingOut[1:]
			return s, nil
		}
		if e.eof {
			return nil, e.errAfterEOF
		}

		if e.readBuf == nil {
			e.readBuf = make([]byte, 32*1024)
		}
		n, err := e.proc.stdout.Read(e.readBuf)
		if n > 0 {
			e.reader.push(e.readBuf[:n], func(nu nalUnit) {
				e.classify(nu)
			})
		}
		if err != nil {
			e.eof = true
			e.reader.end(func(nu nalUnit) { e.classify(nu) })
			if err != io.EOF {
				e.errAfterEOF = unienc.ErrCommunication("read ffmpeg video stdout: %v", err)
			} else if werr := e.proc.wait(); werr != nil {
				e.errAfterEOF = werr
			}
			continue
		}
	}
}

func (e *videoEncoder) classify(nu nalUnit) {
	switch nu.typ {
	case nalTypeSPS, nalTypePPS:
		// SPS and PPS arrive as separate NAL units but a track installs
		// its format exactly once, so they accumulate into one Annex-B
		// blob emitted as a single Metadata sample ahead of the first
		// slice. The encoder repeats them before every IDR; repeats after
		// the first emission are dropped here.
		if !e.sentMeta {
			e.extradata = append(e.extradata, 0, 0, 0, 1)
			e.extradata = append(e.extradata, nu.rbsp...)
		}
	case nalTypeSliceIDR, nalTypeSlice:
		if !e.sentMeta {
			e.sentMeta = true
			e.pendingOut = append(e.pendingOut, &videoEncodedData{isParameterSet: true, payload: e.extradata})
			e.extradata = nil
		}
		ts := math.Float64frombits(e.baseTS.Load()) + float64(e.frameIndex)/float64(e.fps)
		e.frameIndex++
		e.pendingOut = append(e.pendingOut, &videoEncodedData{
			payload:   append([]byte(nil), nu.rbsp...),
			timestamp: ts,
			isIDR:     nu.typ == nalTypeSliceIDR,
		})
	}
}

// fitFrame resizes/crops a BGRA frame that does not match the encoder's
// configured dimensions: it copies row-by-row up to the minimum of source
// and target width/height, zero-padding the rest. Odd-dimensioned input
// therefore still encodes against the even configured size.
func fitFrame(src []byte, srcW, srcH, dstW, dstH uint32) []byte {
	if srcW == dstW && srcH == dstH {
		return src
	}
	dst := make([]byte, int(dstW)*int(dstH)*4)
	copyW := srcW
	if dstW < copyW {
		copyW = dstW
	}
	copyH := srcH
	if dstH < copyH {
		copyH = dstH
	}
	for y := uint32(0); y < copyH; y++ {
		srcOff := y * srcW * 4
		dstOff := y * dstW * 4
		copy(dst[dstOff:dstOff+copyW*4], src[srcOff:srcOff+copyW*4])
	}
	return dst
}

func writeAll(w io.Writer, data []byte) (int, error) {
	return w.Write(data)
}
