package main

/*
#include <stdint.h>
*/
import "C"

import "github.com/CyberAgentGameEntertainment/unienc/internal/handles"

// The remaining free_* functions all share the same shape: release the
// handle's entry from the registry, consuming whatever Shared[T] it wraps
// if that hasn't already happened via finish(). Null is a no-op for all of
// them.

//export unienc_free_video_encoder_input
func unienc_free_video_encoder_input(handle C.uintptr_t) {
	if handle == 0 {
		return
	}
	if in, ok := lookupVideoInput(uintptr(handle)); ok {
		in.Take()
	}
	handles.Unregister(uintptr(handle))
}

//export unienc_free_video_encoder_output
func unienc_free_video_encoder_output(handle C.uintptr_t) {
	if handle == 0 {
		return
	}
	if out, ok := lookupVideoOutput(uintptr(handle)); ok {
		out.Take()
	}
	handles.Unregister(uintptr(handle))
}

//export unienc_free_audio_encoder_input
func unienc_free_audio_encoder_input(handle C.uintptr_t) {
	if handle == 0 {
		return
	}
	if in, ok := lookupAudioInput(uintptr(handle)); ok {
		in.Take()
	}
	handles.Unregister(uintptr(handle))
}

//export unienc_free_audio_encoder_output
func unienc_free_audio_encoder_output(handle C.uintptr_t) {
	if handle == 0 {
		return
	}
	if out, ok := lookupAudioOutput(uintptr(handle)); ok {
		out.Take()
	}
	handles.Unregister(uintptr(handle))
}

//export unienc_free_muxer_video_input
func unienc_free_muxer_video_input(handle C.uintptr_t) {
	freeMuxerInput(handle)
}

//export unienc_free_muxer_audio_input
func unienc_free_muxer_audio_input(handle C.uintptr_t) {
	freeMuxerInput(handle)
}

func freeMuxerInput(handle C.uintptr_t) {
	if handle == 0 {
		return
	}
	if in, ok := lookupMuxerInput(uintptr(handle)); ok {
		in.Take()
	}
	handles.Unregister(uintptr(handle))
}

//export unienc_free_muxer_completion_handle
func unienc_free_muxer_completion_handle(handle C.uintptr_t) {
	if handle == 0 {
		return
	}
	if c, ok := lookupCompletion(uintptr(handle)); ok {
		c.Take()
	}
	handles.Unregister(uintptr(handle))
}
