package unienc

import "context"

// EncoderInput is the write half of a split Encoder. Push is asynchronous
// and may block when the internal bounded channel between input and output
// is full. After Finish, no further Push is valid on that half.
type EncoderInput[Sample any] interface {
	Push(ctx context.Context, sample Sample) error
	// Finish signals end of stream to the underlying codec. Implementations
	// must make Finish idempotent-safe at the call site (capi serializes it
	// behind a one-shot take()), but the interface itself only needs to run
	// once.
	Finish(ctx context.Context) error
}

// EncoderOutput is the read half of a split Encoder. Pull returns the next
// encoded sample, or (nil, nil) once the input half has been dropped and
// every enqueued sample has drained. The first sample Pull ever returns
// must have Kind() == Metadata.
type EncoderOutput interface {
	Pull(ctx context.Context) (EncodedSample, error)
}

// Encoder is a one-shot producer of an (Input, Output) pair; splitting is
// irreversible.
type Encoder[Sample any] interface {
	Split() (EncoderInput[Sample], EncoderOutput, error)
}

// MuxerInput accepts encoded samples for one track. Pushing a Metadata
// sample installs the track's format (at most once); pushing a Key or
// Interpolated sample before the format is installed fails with
// MuxingError. Finish is one-shot; the two muxer inputs may finish in
// either order.
type MuxerInput interface {
	Push(ctx context.Context, sample EncodedSample) error
	Finish(ctx context.Context) error
}

// CompletionHandle awaits both muxer inputs' Finish, then performs
// backend-specific flush/finalize/close. Finish resolving with a nil error
// is the only durability signal for the output file.
type CompletionHandle interface {
	Finish(ctx context.Context) error
}

// Muxer splits into a video input, an audio input, and a completion
// handle, tied by the two-track startup barrier described in
// internal/barrier.
type Muxer interface {
	Split() (video MuxerInput, audio MuxerInput, completion CompletionHandle, err error)
}

// EncodingSystem is the factory a host constructs once per session: one
// video encoder, one audio encoder, one muxer.
type EncodingSystem interface {
	NewVideoEncoder() (Encoder[VideoSample], error)
	NewAudioEncoder() (Encoder[AudioSample], error)
	NewMuxer(outputPath string) (Muxer, error)
	// IsBlitSupported reports whether this backend's video encoder accepts
	// BlitSourceFrame samples. Backends that answer false must fail
	// InvalidInput("Blit not supported") on receiving one.
	IsBlitSupported() bool
}
