package main

/*
#include <stdint.h>
*/
import "C"

import (
	"context"
	"unsafe"

	"github.com/CyberAgentGameEntertainment/unienc"
	"github.com/CyberAgentGameEntertainment/unienc/internal/handles"
)

// unienc_video_encoder_push_shared_buffer pushes one BGRA frame, backed by
// a pool-allocated SharedBuffer the host already wrote pixel data into, at
// the given dimensions and timestamp (seconds).
//
//export unienc_video_encoder_push_shared_buffer
func unienc_video_encoder_push_shared_buffer(
	input, buffer C.uintptr_t, width, height C.uint32_t, timestamp C.double,
	callback, userData C.uintptr_t,
) {
	cb, ud := uintptr(callback), uintptr(userData)
	in, ok := lookupVideoInput(uintptr(input))
	if !ok {
		invokeCallback(cb, ud, unienc.ErrResourceAllocation("video encoder input handle is gone"))
		return
	}
	buf, ok := lookupBuffer(uintptr(buffer))
	if !ok {
		invokeCallback(cb, ud, unienc.ErrInvalidInput("unknown shared buffer handle"))
		return
	}
	sample := unienc.VideoSample{
		Frame:     unienc.BGRAFrame{Buffer: buf, W: uint32(width), H: uint32(height)},
		Timestamp: float64(timestamp),
	}

	go func() {
		err := in.With(func(i *unienc.EncoderInput[unienc.VideoSample]) error {
			return (*i).Push(context.Background(), sample)
		})
		invokeCallback(cb, ud, toCallbackErr(err))
	}()
}

// unienc_video_encoder_push_blit_source pushes one GPU-resident frame at
// the given timestamp (seconds). The native texture pointer, graphics
// format, and orientation flags are forwarded as-is; the blit itself is
// routed through the process-global graphics bridge registered at plugin
// load via unienc_set_graphics_event_issuer.
//
//export unienc_video_encoder_push_blit_source
func unienc_video_encoder_push_blit_source(
	input C.uintptr_t, nativeTexture C.uintptr_t, width, height C.uint32_t,
	graphicsFormat C.uint32_t, flipVertically, isGammaWorkflow C.int32_t,
	timestamp C.double,
	callback, userData C.uintptr_t,
) {
	cb, ud := uintptr(callback), uintptr(userData)
	in, ok := lookupVideoInput(uintptr(input))
	if !ok {
		invokeCallback(cb, ud, unienc.ErrResourceAllocation("video encoder input handle is gone"))
		return
	}

	issuer, err := currentGraphicsIssuer()
	if err != nil {
		invokeCallback(cb, ud, err)
		return
	}

	sample := unienc.VideoSample{
		Frame: unienc.BlitSourceFrame{
			NativeTexturePointer: uintptr(nativeTexture),
			W:                    uint32(width),
			H:                    uint32(height),
			GraphicsFormat:       uint32(graphicsFormat),
			FlipVertically:       flipVertically != 0,
			IsGammaWorkflow:      isGammaWorkflow != 0,
			EventIssuer:          issuer,
		},
		Timestamp: float64(timestamp),
	}

	go func() {
		err := in.With(func(i *unienc.EncoderInput[unienc.VideoSample]) error {
			return (*i).Push(context.Background(), sample)
		})
		invokeCallback(cb, ud, toCallbackErr(err))
	}()
}

// unienc_video_encoder_pull awaits the next encoded sample and delivers it
// via the data callback as its restartable byte encoding; the host treats
// the bytes as opaque. End of stream (a nil sample with a nil error) is
// delivered as a zero-length payload with error kind Success.
//
//export unienc_video_encoder_pull
func unienc_video_encoder_pull(output, callback, userData C.uintptr_t) {
	cb, ud := uintptr(callback), uintptr(userData)
	out, ok := lookupVideoOutput(uintptr(output))
	if !ok {
		invokeDataCallback(cb, ud, nil, 0, unienc.Metadata, unienc.ErrResourceAllocation("video encoder output handle is gone"))
		return
	}

	go func() {
		var sample unienc.EncodedSample
		err := out.With(func(o *unienc.EncoderOutput) error {
			var pullErr error
			sample, pullErr = (*o).Pull(context.Background())
			return pullErr
		})
		deliverSample(cb, ud, sample, err)
	}()
}

// unienc_audio_encoder_push pushes one PCM buffer of 16-bit
// channel-interleaved samples, tagged with a sample-count timestamp.
//
//export unienc_audio_encoder_push
func unienc_audio_encoder_push(
	input C.uintptr_t, pcm *C.int16_t, sampleCount C.uint32_t, timestampInSamples C.uint64_t,
	callback, userData C.uintptr_t,
) {
	cb, ud := uintptr(callback), uintptr(userData)
	in, ok := lookupAudioInput(uintptr(input))
	if !ok {
		invokeCallback(cb, ud, unienc.ErrResourceAllocation("audio encoder input handle is gone"))
		return
	}

	data := make([]int16, sampleCount)
	if sampleCount > 0 {
		src := unsafe.Slice((*int16)(unsafe.Pointer(pcm)), int(sampleCount))
		copy(data, src)
	}
	sample := unienc.AudioSample{Data: data, TimestampInSamples: uint64(timestampInSamples)}

	go func() {
		err := in.With(func(i *unienc.EncoderInput[unienc.AudioSample]) error {
			return (*i).Push(context.Background(), sample)
		})
		invokeCallback(cb, ud, toCallbackErr(err))
	}()
}

// unienc_audio_encoder_pull is unienc_video_encoder_pull's audio twin.
//
//export unienc_audio_encoder_pull
func unienc_audio_encoder_pull(output, callback, userData C.uintptr_t) {
	cb, ud := uintptr(callback), uintptr(userData)
	out, ok := lookupAudioOutput(uintptr(output))
	if !ok {
		invokeDataCallback(cb, ud, nil, 0, unienc.Metadata, unienc.ErrResourceAllocation("audio encoder output handle is gone"))
		return
	}

	go func() {
		var sample unienc.EncodedSample
		err := out.With(func(o *unienc.EncoderOutput) error {
			var pullErr error
			sample, pullErr = (*o).Pull(context.Background())
			return pullErr
		})
		deliverSample(cb, ud, sample, err)
	}()
}

// deliverSample serializes sample (nil on clean end-of-stream) and
// forwards it to the host's data callback.
func deliverSample(cb, ud uintptr, sample unienc.EncodedSample, err error) {
	if err != nil {
		invokeDataCallback(cb, ud, nil, 0, unienc.Metadata, err)
		return
	}
	if sample == nil {
		invokeDataCallback(cb, ud, nil, 0, unienc.Metadata, nil)
		return
	}
	data, encErr := sample.Encode()
	if encErr != nil {
		invokeDataCallback(cb, ud, nil, 0, unienc.Metadata, unienc.ErrEncoding("serialize sample: %v", encErr))
		return
	}
	invokeDataCallback(cb, ud, data, sample.Timestamp(), sample.Kind(), nil)
}

// toCallbackErr maps handles.ErrGone to the ABI's ResourceAllocationError
// category: a call racing a one-shot finish()/free gets a categorized
// error, not a crash.
func toCallbackErr(err error) error {
	if err == handles.ErrGone {
		return unienc.ErrResourceAllocation("handle already finished/freed")
	}
	return err
}
