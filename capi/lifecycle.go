package main

/*
#include <stdint.h>
*/
import "C"

import (
	"github.com/CyberAgentGameEntertainment/unienc"
	"github.com/CyberAgentGameEntertainment/unienc/internal/handles"
	"github.com/CyberAgentGameEntertainment/unienc/internal/platform"
	"github.com/CyberAgentGameEntertainment/unienc/internal/runtime"
	"github.com/CyberAgentGameEntertainment/unienc/internal/telemetry"
)

var log = telemetry.For("capi")

// unienc_new_runtime creates a Runtime: threaded != 0 selects the
// fixed-worker-pool executor (workers; a count <= 0 selects 4), otherwise
// the single-threaded cooperative executor a host-driven
// unienc_runtime_tick polls — the mode a browser/WASM host without
// background threads needs. This is synchronous: both constructors are
// pure local allocation, never an I/O probe.
//
//export unienc_new_runtime
func unienc_new_runtime(threaded C.int32_t, workers C.int32_t) C.uintptr_t {
	var rt *runtime.Runtime
	if threaded != 0 {
		rt = runtime.NewThreaded(int(workers))
	} else {
		rt = runtime.New()
	}
	return C.uintptr_t(handles.Register(rt))
}

// unienc_runtime_tick drives a single-threaded Runtime's queued tasks to
// completion; without it the cooperative executor would never make
// progress. A threaded Runtime ignores it.
//
//export unienc_runtime_tick
func unienc_runtime_tick(handle C.uintptr_t) {
	rt, ok := handles.Lookup(uintptr(handle)).(*runtime.Runtime)
	if !ok {
		return
	}
	rt.Tick()
}

// unienc_drop_runtime stops a threaded Runtime's workers (a no-op on a
// single-threaded one) and releases the handle. Null is a no-op.
//
//export unienc_drop_runtime
func unienc_drop_runtime(handle C.uintptr_t) {
	if handle == 0 {
		return
	}
	if rt, ok := handles.Lookup(uintptr(handle)).(*runtime.Runtime); ok {
		rt.Close()
	}
	handles.Unregister(uintptr(handle))
}

// unienc_new_encoding_system constructs the one platform backend this
// build was compiled for (internal/platform's build-tag selector) from the
// host's video/audio options. Asynchronous because the FFmpeg backend
// probes PATH for an ffmpeg executable before returning; other backends'
// construction is effectively instantaneous but goes through the same path
// for ABI uniformity.
//
//export unienc_new_encoding_system
func unienc_new_encoding_system(
	width, height, fpsHint, videoBitrate C.uint32_t,
	sampleRate, channels, audioBitrate C.uint32_t,
	callback, userData C.uintptr_t,
) {
	video := unienc.VideoEncoderOptions{
		Width: uint32(width), Height: uint32(height),
		FPSHint: uint32(fpsHint), Bitrate: uint32(videoBitrate),
	}
	audio := unienc.AudioEncoderOptions{
		SampleRate: uint32(sampleRate), Channels: uint32(channels), Bitrate: uint32(audioBitrate),
	}
	cb, ud := uintptr(callback), uintptr(userData)

	go func() {
		sys, err := platform.New(video, audio)
		if err != nil {
			log.Error().Err(err).Msg("new_encoding_system failed")
			invokeHandleCallback(cb, ud, 0, err)
			return
		}
		invokeHandleCallback(cb, ud, registerSystem(sys), nil)
	}()
}

// unienc_free_encoding_system releases the handle. Null is a no-op. The
// EncodingSystem contract has no explicit teardown method (its factories'
// products own whatever native resources they hold); dropping the last
// reference is sufficient.
//
//export unienc_free_encoding_system
func unienc_free_encoding_system(handle C.uintptr_t) {
	if handle == 0 {
		return
	}
	handles.Unregister(uintptr(handle))
}

// unienc_is_blit_supported reports whether sys's video encoder accepts
// GPU-resident BlitSourceFrame samples. Synchronous: it is a pure property
// read, not an operation on the backend.
//
//export unienc_is_blit_supported
func unienc_is_blit_supported(sys C.uintptr_t) C.int32_t {
	s, ok := lookupSystem(uintptr(sys))
	if !ok || !s.IsBlitSupported() {
		return 0
	}
	return 1
}
