//go:build darwin

package vtenc

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
	opts     unienc.VideoEncoderOptions
	session  nativeSession
	pump     *pump.Pump
	initOnce sync.Once
	initErr  error
}

func (e *videoEncoder) ensureConfigured(ctx context.Context) error {
	e.initOnce.Do(func() {
		extradata, err := e.session.ConfigureVideo(e.opts)
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
	if err := e.ensureConfigured(ctx); err != nil {
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
		// A real build routes this through internal/graphicsbridge onto
		// the host's render thread before calling
		// VTCompressionSessionEncodeFrame with the resulting
		// CVPixelBuffer. Without it there is no GPU import path to hand
		// the bridge.
		return unienc.ErrInvalidInput("Blit not supported in this build")

	default:
		return unienc.ErrInvalidInput("unrecognized video frame variant")
	}
}

func (e *videoEncoder) emit(ctx context.Context, payload []byte, isKey bool, ts float64) error {
	if payload == nil {
		return nil
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
