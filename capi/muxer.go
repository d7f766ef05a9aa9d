package main

/*
#include <stdint.h>
*/
import "C"

import (
	"context"
	"unsafe"

	"github.com/CyberAgentGameEntertainment/unienc"
)

// unienc_muxer_push_video pushes one encoded video sample, given as the
// exact bytes a prior unienc_video_encoder_pull delivered (or the same
// bytes after the host's serialize/deserialize/rebase round trip; the
// timestamp argument wins over whatever the bytes embed). The pointer is
// only read synchronously, before this call returns — the muxer push
// itself happens asynchronously afterward.
//
//export unienc_muxer_push_video
func unienc_muxer_push_video(input C.uintptr_t, data *C.uint8_t, size C.uint64_t, timestamp C.double, kind C.int32_t, callback, userData C.uintptr_t) {
	muxerPush(input, data, size, timestamp, kind, callback, userData)
}

// unienc_muxer_push_audio is unienc_muxer_push_video's audio twin; both
// tracks share one push implementation since MuxerInput's contract does
// not vary by track.
//
//export unienc_muxer_push_audio
func unienc_muxer_push_audio(input C.uintptr_t, data *C.uint8_t, size C.uint64_t, timestamp C.double, kind C.int32_t, callback, userData C.uintptr_t) {
	muxerPush(input, data, size, timestamp, kind, callback, userData)
}

func muxerPush(input C.uintptr_t, data *C.uint8_t, size C.uint64_t, timestamp C.double, kind C.int32_t, callback, userData C.uintptr_t) {
	cb, ud := uintptr(callback), uintptr(userData)
	in, ok := lookupMuxerInput(uintptr(input))
	if !ok {
		invokeCallback(cb, ud, unienc.ErrResourceAllocation("muxer input handle is gone"))
		return
	}

	raw := make([]byte, size)
	if size > 0 {
		copy(raw, unsafe.Slice((*byte)(unsafe.Pointer(data)), int(size)))
	}
	sample := &wireSample{kind: unienc.SampleKind(kind), ts: float64(timestamp), raw: raw}

	go func() {
		err := in.With(func(i *unienc.MuxerInput) error {
			return (*i).Push(context.Background(), sample)
		})
		invokeCallback(cb, ud, toCallbackErr(err))
	}()
}

// unienc_muxer_finish_video signals end-of-stream on the video track. The
// two tracks' finish calls may arrive in either order.
//
//export unienc_muxer_finish_video
func unienc_muxer_finish_video(input, callback, userData C.uintptr_t) {
	muxerFinish(input, callback, userData)
}

// unienc_muxer_finish_audio is unienc_muxer_finish_video's audio twin.
//
//export unienc_muxer_finish_audio
func unienc_muxer_finish_audio(input, callback, userData C.uintptr_t) {
	muxerFinish(input, callback, userData)
}

func muxerFinish(input, callback, userData C.uintptr_t) {
	cb, ud := uintptr(callback), uintptr(userData)
	in, ok := lookupMuxerInput(uintptr(input))
	if !ok {
		invokeCallback(cb, ud, unienc.ErrResourceAllocation("muxer input handle is gone"))
		return
	}

	go func() {
		var err error
		entry, taken := in.Take()
		if !taken {
			invokeCallback(cb, ud, unienc.ErrResourceAllocation("muxer input already finished"))
			return
		}
		err = (*entry).Finish(context.Background())
		invokeCallback(cb, ud, err)
	}()
}

// unienc_muxer_complete awaits both tracks' finish, then finalizes the
// container; success is the file's durability signal.
//
//export unienc_muxer_complete
func unienc_muxer_complete(handle, callback, userData C.uintptr_t) {
	cb, ud := uintptr(callback), uintptr(userData)
	c, ok := lookupCompletion(uintptr(handle))
	if !ok {
		invokeCallback(cb, ud, unienc.ErrResourceAllocation("completion handle is gone"))
		return
	}

	go func() {
		entry, taken := c.Take()
		if !taken {
			invokeCallback(cb, ud, unienc.ErrResourceAllocation("completion handle already finished"))
			return
		}
		err := (*entry).Finish(context.Background())
		invokeCallback(cb, ud, err)
	}()
}
