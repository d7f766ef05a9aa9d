package main

/*
#include <stdint.h>
*/
import "C"

import (
	"sync"

	"github.com/CyberAgentGameEntertainment/unienc"
	"github.com/CyberAgentGameEntertainment/unienc/internal/graphicsbridge"
	"github.com/CyberAgentGameEntertainment/unienc/internal/handles"
	"github.com/CyberAgentGameEntertainment/unienc/internal/runtime"
)

// globalGraphicsBridge is the process-global render-thread bridge,
// installed by unienc_set_graphics_event_issuer and replaced by a later
// call; no function in this package clears it. It is what
// unienc_video_encoder_push_blit_source routes GPU copies through; the
// host calls unienc_set_graphics_event_issuer once, typically right after
// unienc_new_runtime.
var globalGraphicsBridge struct {
	mu     sync.Mutex
	bridge *graphicsbridge.Bridge
}

// unienc_set_graphics_event_issuer registers the host's
// UniencIssueGraphicsEventCallback function pointer as the process-global
// render-thread bridge. rt is the Runtime handle the bridge holds a Weak
// reference to; Weak holds an ordinary pointer, so it keeps the Runtime
// reachable.
//
//export unienc_set_graphics_event_issuer
func unienc_set_graphics_event_issuer(issueCallback, rt C.uintptr_t) {
	r, ok := handles.Lookup(uintptr(rt)).(*runtime.Runtime)
	if !ok {
		return
	}
	globalGraphicsBridge.mu.Lock()
	defer globalGraphicsBridge.mu.Unlock()
	globalGraphicsBridge.bridge = graphicsbridge.New(uintptr(issueCallback), r)
}

// currentGraphicsIssuer returns the registered bridge as a
// unienc.GraphicsEventIssuer, or InvalidInput if the host never called
// unienc_set_graphics_event_issuer before pushing a GPU-resident frame.
func currentGraphicsIssuer() (unienc.GraphicsEventIssuer, error) {
	globalGraphicsBridge.mu.Lock()
	defer globalGraphicsBridge.mu.Unlock()
	if globalGraphicsBridge.bridge == nil {
		return nil, unienc.ErrInvalidInput("no graphics event issuer registered; call unienc_set_graphics_event_issuer first")
	}
	return globalGraphicsBridge.bridge, nil
}

// unienc_free_graphics_event_context releases a pending graphics-event
// closure handle without running it — for a host that registered a blit
// push but must abandon it on an error path (e.g. the host is shutting
// down) rather than ever reaching the render-thread callback.
// internal/graphicsbridge already unregisters the handle itself once the
// host's real callback fires; this only matters for the abandoned case.
//
//export unienc_free_graphics_event_context
func unienc_free_graphics_event_context(handle C.uintptr_t) {
	if handle == 0 {
		return
	}
	handles.Unregister(uintptr(handle))
}
