//go:build android

package mcenc

import (
	"context"
	"sync"

	"github.com/CyberAgentGameEntertainment/unienc"
	"github.com/CyberAgentGameEntertainment/unienc/internal/pump"
	"github.com/CyberAgentGameEntertainment/unienc/internal/samplecodec"
)

type videoEncoderFactory struct {
	opts unienc.VideoEncoderOptions
	once sync.Once
	enc  *videoEncoder
}

func (f *videoEncoderFactory) Split() (unienc.EncoderInput[unienc.VideoSample], unienc.EncoderOutput, error) {
	f.once.Do(func() {
		f.enc = &videoEncoder{opts: f.opts, session: newNativeSession(), pump: pump.New(pump.DefaultCapacity)}
	})
	return &videoEncoderInput{e: f.enc}, &videoEncoderOutput{e: f.enc}, nil
}

type videoEncoder struct {
	opts unienc.VideoEncoderOptions

	session  nativeSession
	pump     *pump.Pump
	initOnce sync.Once
	initErr  error

	// The first pushed frame's variant (CPU BGRA vs GPU blit source)
	// decides buffer-input vs Surface-input mode, and the backend does not
	// attempt to switch mid-stream — a mismatched later frame is a
	// Configuration error; keeping the source kind consistent is the
	// host's job.
	modeDecided bool
	surfaceMode bool
}

func (e *videoEncoder) ensureConfigured(ctx context.Context, useSurface bool) error {
	e.initOnce.Do(func() {
		e.surfaceMode = useSurface
		e.modeDecided = true
		extradata, err := e.session.ConfigureVideo(e.opts, useSurface)
		if err != nil {
			e.initErr = err
			return
		}
		e.initErr = e.pump.Send(ctx, &samplecodec.Sample{Record: samplecodec.Record{
			Kind: unienc.Metadata, Payload: extradata,
		}})
	})
	return e.initErr
}

type videoEncoderInput struct{ e *videoEncoder }

func (in *videoEncoderInput) Push(ctx context.Context, sample unienc.VideoSample) error {
	e := in.e

	var useSurface bool
	switch sample.Frame.(type) {
	case unienc.BGRAFrame:
		useSurface = false
	case unienc.BlitSourceFrame:
		useSurface = true
	default:
		return unienc.ErrInvalidInput("unrecognized video frame variant")
	}

	if e.modeDecided && e.surfaceMode != useSurface {
		return unienc.ErrConfiguration("mediacodec input mode locked to %s by the first frame; cannot switch mid-stream",
			modeName(e.surfaceMode))
	}
	if err := e.ensureConfigured(ctx, useSurface); err != nil {
		return err
	}

	switch frame := sample.Frame.(type) {
	case unienc.BGRAFrame:
		payload, isKey, err := e.session.EncodeVideo(frame.Buffer.Data(), frame.W, frame.H, sample.Timestamp)
		if err != nil {
			return err
		}
		return e.emit(ctx, payload, isKey, sample.Timestamp)

	case unienc.BlitSourceFrame:
		// Surface mode: the blit target is an ImageWriter-dequeued
		// HardwareBuffer, routed through internal/graphicsbridge in a real
		// build. This build scaffold has no GPU import path to hand the
		// bridge.
		return unienc.ErrInvalidInput("Blit not supported in this build")
	}
	return nil
}

func modeName(surface bool) string {
	if surface {
		return "surface"
	}
	return "buffer"
}

func (e *videoEncoder) emit(ctx context.Context, payload []byte, isKey bool, ts float64) error {
	if payload == nil {
		return nil // INFO_TRY_AGAIN_LATER, retried internally.
	}
	kind := unienc.Interpolated
	if isKey {
		kind = unienc.Key
	}
	return e.pump.Send(ctx, &samplecodec.Sample{Record: samplecodec.Record{
		Kind: kind, Timestamp: ts, Payload: payload,
	}})
}

func (in *videoEncoderInput) Finish(ctx context.Context) error {
	e := in.e
	for {
		payload, isKey, ok, err := e.session.FlushVideo()
		if err != nil {
			e.pump.Close()
			return err
		}
		if !ok {
			break
		}
		if err := e.emit(ctx, payload, isKey, 0); err != nil {
			e.pump.Close()
			return err
		}
	}
	e.pump.Close()
	return e.session.Close()
}

type videoEncoderOutput struct{ e *videoEncoder }

func (out *videoEncoderOutput) Pull(ctx context.Context) (unienc.EncodedSample, error) {
	sample, ok, err := out.e.pump.Recv(ctx)
	if err != nil || !ok {
		return nil, err
	}
	return sample, nil
}

type audioEncoderFactory struct {
	opts unienc.AudioEncoderOptions
	once sync.Once
	enc  *audioEncoder
}

func (f *audioEncoderFactory) Split() (unienc.EncoderInput[unienc.AudioSample], unienc.EncoderOutput, error) {
	f.once.Do(func() {
		f.enc = &audioEncoder{opts: f.opts, session: newNativeSession(), pump: pump.New(pump.DefaultCapacity)}
	})
	return &audioEncoderInput{e: f.enc}, &audioEncoderOutput{e: f.enc}, nil
}

type audioEncoder struct {
	opts     unienc.AudioEncoderOptions
	session  nativeSession
	pump     *pump.Pump
	initOnce sync.Once
	initErr  error
}

func (e *audioEncoder) ensureConfigured(ctx context.Context) error {
	e.initOnce.Do(func() {
		extradata, err := e.session.ConfigureAudio(e.opts)
		if err != nil {
			e.initErr = err
			return
		}
		e.initErr = e.pump.Send(ctx, &samplecodec.Sample{Record: samplecodec.Record{
			Kind: unienc.Metadata, Payload: extradata,
		}})
	})
	return e.initErr
}

type audioEncoderInput struct{ e *audioEncoder }

func (in *audioEncoderInput) Push(ctx context.Context, sample unienc.AudioSample) error {
	e := in.e
	if err := e.ensureConfigured(ctx); err != nil {
		return err
	}
	ts := float64(sample.TimestampInSamples) / float64(e.opts.SampleRate)
	payload, err := e.session.EncodeAudio(sample.Data, ts)
	if err != nil {
		return err
	}
	return e.pump.Send(ctx, &samplecodec.Sample{Record: samplecodec.Record{
		Kind: unienc.Key, Timestamp: ts, Payload: payload,
	}})
}

func (in *audioEncoderInput) Finish(ctx context.Context) error {
	in.e.pump.Close()
	return in.e.session.Close()
}

type audioEncoderOutput struct{ e *audioEncoder }

func (out *audioEncoderOutput) Pull(ctx context.Context) (unienc.EncodedSample, error) {
	sample, ok, err := out.e.pump.Recv(ctx)
	if err != nil || !ok {
		return nil, err
	}
	return sample, nil
}
