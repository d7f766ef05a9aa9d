package main

/*
#include <stdint.h>
*/
import "C"

import (
	"unsafe"

	"github.com/CyberAgentGameEntertainment/unienc"
	"github.com/CyberAgentGameEntertainment/unienc/internal/handles"
)

// unienc_new_shared_buffer_pool creates a pool enforcing limit bytes of
// live allocations (0 = unlimited). Synchronous: construction never
// touches anything but local memory.
//
//export unienc_new_shared_buffer_pool
func unienc_new_shared_buffer_pool(limit C.int64_t) C.uintptr_t {
	pool := unienc.NewSharedBufferPool(int64(limit))
	return C.uintptr_t(registerBufferPool(pool))
}

// unienc_shared_buffer_pool_alloc allocates size zeroed bytes tracked
// against pool's limit, delivering both the buffer handle (for later
// unienc_free_shared_buffer and for passing into
// unienc_video_encoder_push_shared_buffer) and a raw pointer the host can
// write pixel data into directly. The pointer stays valid for the
// buffer's lifetime (until freed), unlike the per-call pointers sample
// data callbacks hand out.
//
//export unienc_shared_buffer_pool_alloc
func unienc_shared_buffer_pool_alloc(pool C.uintptr_t, size C.int64_t, callback, userData C.uintptr_t) {
	cb, ud := uintptr(callback), uintptr(userData)
	p, ok := lookupBufferPool(uintptr(pool))
	if !ok {
		invokeBufferCallback(cb, ud, 0, 0, 0, unienc.ErrInvalidInput("unknown shared buffer pool handle"))
		return
	}

	go func() {
		buf, err := p.Alloc(int(size))
		if err != nil {
			invokeBufferCallback(cb, ud, 0, 0, 0, err)
			return
		}
		var dataPtr uintptr
		if buf.Len() > 0 {
			dataPtr = uintptr(unsafe.Pointer(&buf.Data()[0]))
		}
		invokeBufferCallback(cb, ud, registerBuffer(buf), dataPtr, buf.Len(), nil)
	}()
}

// unienc_free_shared_buffer_pool releases the pool handle. Any buffers
// already handed out remain valid until their own unienc_free_shared_buffer
// call; the pool itself does nothing on drop besides stop tracking new
// allocations.
//
//export unienc_free_shared_buffer_pool
func unienc_free_shared_buffer_pool(handle C.uintptr_t) {
	if handle == 0 {
		return
	}
	handles.Unregister(uintptr(handle))
}

// unienc_free_shared_buffer releases a buffer back to its pool's
// accounting and frees the handle. Null is a no-op.
//
//export unienc_free_shared_buffer
func unienc_free_shared_buffer(handle C.uintptr_t) {
	if handle == 0 {
		return
	}
	if buf, ok := lookupBuffer(uintptr(handle)); ok {
		buf.Release()
	}
	handles.Unregister(uintptr(handle))
}
