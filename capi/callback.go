package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/CyberAgentGameEntertainment/unienc"
)

// splitError decomposes err into the ABI's {kind, message} pair. A nil
// error reports Success with an empty message.
func splitError(err error) (unienc.ErrorKind, string) {
	if err == nil {
		return unienc.Success, ""
	}
	ce := unienc.Categorize(err)
	return ce.Kind, ce.Message
}

// invokeCallback calls a host-supplied UniencCallback(user_data, kind,
// message) exactly once. cb == 0 is a no-op (the host declined a result it
// doesn't care about).
func invokeCallback(cb, userData uintptr, err error) {
	if cb == 0 {
		return
	}
	kind, msg := splitError(err)
	cMsg := C.CString(msg)
	defer C.free(unsafe.Pointer(cMsg))
	purego.SyscallN(cb, userData, uintptr(kind), uintptr(unsafe.Pointer(cMsg)))
}

// invokeDataCallback calls a host-supplied UniencDataCallback exactly
// once. data and the timestamp pointer are valid only for the duration of
// the call. On error, data/sampleKind are ignored by the host per
// convention; ptr is passed as null.
//
// timestamp is passed as a pointer to a stack double rather than encoded
// into the uintptr argument itself: purego.SyscallN's arguments are
// register-sized integers, and floating-point values are not portably
// representable that way across calling conventions.
func invokeDataCallback(cb, userData uintptr, data []byte, timestamp float64, kind unienc.SampleKind, err error) {
	if cb == 0 {
		return
	}
	errKind, errMsg := splitError(err)
	cMsg := C.CString(errMsg)
	defer C.free(unsafe.Pointer(cMsg))

	var ptr uintptr
	if err == nil && len(data) > 0 {
		ptr = uintptr(unsafe.Pointer(&data[0]))
	}
	ts := timestamp

	purego.SyscallN(cb,
		ptr,
		uintptr(len(data)),
		uintptr(unsafe.Pointer(&ts)),
		uintptr(kind),
		userData,
		uintptr(errKind),
		uintptr(unsafe.Pointer(cMsg)),
	)
}
