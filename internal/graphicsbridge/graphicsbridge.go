// Package graphicsbridge marshals closures onto the host application's
// render thread, where GPU frames must be copied: the backend builds a
// closure that performs the blit and reports completion; the ABI surfaces
// a function pointer the host registers as its render-thread callback,
// passing the closure's registry handle as user data; the host invokes the
// callback at the next render event with a reserved event id; a one-shot
// channel, written from inside the closure, signals the caller's pending
// push to continue.
package graphicsbridge

import (
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/CyberAgentGameEntertainment/unienc/internal/handles"
	"github.com/CyberAgentGameEntertainment/unienc/internal/runtime"
)

// Bridge issues closures to the host's render thread and waits for
// completion. capi keeps one process-global Bridge, installed by
// unienc_set_graphics_event_issuer; a later call replaces it, and no capi
// function clears it.
type Bridge struct {
	// issue is the host-supplied function pointer
	// (UniencIssueGraphicsEventCallback): func(eventFn uintptr, eventID
	// int32, userData uintptr). It is invoked via purego.SyscallN because
	// this module never links against the host's native code directly.
	issue uintptr

	// eventTrampoline is a Go closure promoted to a C function pointer via
	// purego.NewCallback; it is the fixed "eventFn" the host calls back
	// into at the next render event, regardless of which pending closure
	// is actually being serviced (the handle resolves that).
	eventTrampoline uintptr

	weakRuntime *runtime.Weak
}

// EventID is the reserved render-event id this bridge registers under.
const EventID int32 = 0x756e6563 // "unec"

// New creates a Bridge that will call issueCallback (a
// UniencIssueGraphicsEventCallback function pointer supplied by the host)
// to schedule work. The Bridge keeps rt.Weak() but does not use it: Issue
// waits for the closure on the calling goroutine itself.
func New(issueCallback uintptr, rt *runtime.Runtime) *Bridge {
	b := &Bridge{issue: issueCallback, weakRuntime: rt.Weak()}
	b.eventTrampoline = purego.NewCallback(func(eventID int32, userData unsafe.Pointer) {
		h := uintptr(userData)
		v := handles.Lookup(h)
		if v == nil {
			return
		}
		handles.Unregister(h)
		if fn, ok := v.(func()); ok {
			fn()
		}
	})
	return b
}

// Issue schedules fn to run on the host's render thread and blocks the
// calling goroutine until it completes.
func (b *Bridge) Issue(fn func()) error {
	done := make(chan struct{})

	wrapped := func() {
		fn()
		close(done)
	}
	h := handles.Register(wrapped)

	// The host's issue-graphics-event callback is a C function pointer
	// received across the ABI, invoked without a cgo call-out shim.
	purego.SyscallN(b.issue, b.eventTrampoline, uintptr(EventID), h)

	<-done
	return nil
}
