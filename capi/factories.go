package main

/*
#include <stdint.h>
*/
import "C"

import "github.com/CyberAgentGameEntertainment/unienc"

// unienc_new_video_encoder splits sys's video encoder into input/output
// halves, invoking callback with both handles (0/0 on error). Calling this
// twice on the same sys constructs two independent encoders
// (EncodingSystem.NewVideoEncoder itself is not one-shot, only the Encoder
// it returns is).
//
//export unienc_new_video_encoder
func unienc_new_video_encoder(sys, callback, userData C.uintptr_t) {
	cb, ud := uintptr(callback), uintptr(userData)
	s, ok := lookupSystem(uintptr(sys))
	if !ok {
		invokeEncoderCallback(cb, ud, 0, 0, unienc.ErrInvalidInput("unknown encoding system handle"))
		return
	}

	go func() {
		enc, err := s.NewVideoEncoder()
		if err != nil {
			invokeEncoderCallback(cb, ud, 0, 0, err)
			return
		}
		in, out, err := enc.Split()
		if err != nil {
			invokeEncoderCallback(cb, ud, 0, 0, err)
			return
		}
		invokeEncoderCallback(cb, ud, registerVideoInput(in), registerVideoOutput(out), nil)
	}()
}

// unienc_new_audio_encoder is unienc_new_video_encoder's audio twin.
//
//export unienc_new_audio_encoder
func unienc_new_audio_encoder(sys, callback, userData C.uintptr_t) {
	cb, ud := uintptr(callback), uintptr(userData)
	s, ok := lookupSystem(uintptr(sys))
	if !ok {
		invokeEncoderCallback(cb, ud, 0, 0, unienc.ErrInvalidInput("unknown encoding system handle"))
		return
	}

	go func() {
		enc, err := s.NewAudioEncoder()
		if err != nil {
			invokeEncoderCallback(cb, ud, 0, 0, err)
			return
		}
		in, out, err := enc.Split()
		if err != nil {
			invokeEncoderCallback(cb, ud, 0, 0, err)
			return
		}
		invokeEncoderCallback(cb, ud, registerAudioInput(in), registerAudioOutput(out), nil)
	}()
}

// unienc_new_muxer splits sys's muxer for outputPath into a video input, an
// audio input, and a completion handle, invoking callback with all three
// handles (0/0/0 on error).
//
//export unienc_new_muxer
func unienc_new_muxer(sys C.uintptr_t, outputPath *C.char, callback, userData C.uintptr_t) {
	cb, ud := uintptr(callback), uintptr(userData)
	path := C.GoString(outputPath)

	s, ok := lookupSystem(uintptr(sys))
	if !ok {
		invokeMuxerCallback(cb, ud, 0, 0, 0, unienc.ErrInvalidInput("unknown encoding system handle"))
		return
	}

	go func() {
		mux, err := s.NewMuxer(path)
		if err != nil {
			invokeMuxerCallback(cb, ud, 0, 0, 0, err)
			return
		}
		videoIn, audioIn, completion, err := mux.Split()
		if err != nil {
			invokeMuxerCallback(cb, ud, 0, 0, 0, err)
			return
		}
		invokeMuxerCallback(cb, ud,
			registerMuxerInput(videoIn), registerMuxerInput(audioIn), registerCompletion(completion), nil)
	}()
}
