package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"github.com/ebitengine/purego"
)

// invokeHandleCallback calls a host-supplied
// UniencHandleCallback(handle, user_data, kind, message) exactly once.
// Used by the single-handle async factory new_encoding_system. On error,
// handle is 0.
func invokeHandleCallback(cb, userData uintptr, handle uintptr, err error) {
	if cb == 0 {
		return
	}
	kind, msg := splitError(err)
	cMsg := C.CString(msg)
	defer C.free(unsafe.Pointer(cMsg))
	purego.SyscallN(cb, handle, userData, uintptr(kind), uintptr(unsafe.Pointer(cMsg)))
}

// invokeEncoderCallback calls a host-supplied
// UniencEncoderCallback(input_handle, output_handle, user_data, kind,
// message) exactly once, for new_video_encoder/new_audio_encoder. On
// error, both handles are 0.
func invokeEncoderCallback(cb, userData uintptr, input, output uintptr, err error) {
	if cb == 0 {
		return
	}
	kind, msg := splitError(err)
	cMsg := C.CString(msg)
	defer C.free(unsafe.Pointer(cMsg))
	purego.SyscallN(cb, input, output, userData, uintptr(kind), uintptr(unsafe.Pointer(cMsg)))
}

// invokeMuxerCallback calls a host-supplied UniencMuxerCallback(video_input,
// audio_input, completion, user_data, kind, message) exactly once, for
// new_muxer. On error, all three handles are 0.
func invokeMuxerCallback(cb, userData uintptr, videoInput, audioInput, completion uintptr, err error) {
	if cb == 0 {
		return
	}
	kind, msg := splitError(err)
	cMsg := C.CString(msg)
	defer C.free(unsafe.Pointer(cMsg))
	purego.SyscallN(cb, videoInput, audioInput, completion, userData, uintptr(kind), uintptr(unsafe.Pointer(cMsg)))
}

// invokeBufferCallback calls a host-supplied UniencBufferCallback(buffer,
// data_ptr, size, user_data, kind, message) exactly once, for
// shared_buffer_pool_alloc.
func invokeBufferCallback(cb, userData uintptr, buffer, dataPtr uintptr, size int, err error) {
	if cb == 0 {
		return
	}
	kind, msg := splitError(err)
	cMsg := C.CString(msg)
	defer C.free(unsafe.Pointer(cMsg))
	purego.SyscallN(cb, buffer, dataPtr, uintptr(size), userData, uintptr(kind), uintptr(unsafe.Pointer(cMsg)))
}
