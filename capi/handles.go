package main

import (
	"github.com/CyberAgentGameEntertainment/unienc"
	"github.com/CyberAgentGameEntertainment/unienc/internal/handles"
)

// Every opaque handle kind the ABI exposes is registered in the shared
// process-global handles.Register map so a uintptr living in host memory
// keeps the corresponding Go value alive (see internal/handles' package
// doc). Encoder/muxer input-output halves additionally wrap a
// handles.Shared[T] so free_* racing a concurrent Finish()/Pull() sees a
// clean ErrGone instead of a dangling pointer.

type videoEncoderInputEntry = handles.Shared[unienc.EncoderInput[unienc.VideoSample]]
type videoEncoderOutputEntry = handles.Shared[unienc.EncoderOutput]
type audioEncoderInputEntry = handles.Shared[unienc.EncoderInput[unienc.AudioSample]]
type audioEncoderOutputEntry = handles.Shared[unienc.EncoderOutput]
type muxerInputEntry = handles.Shared[unienc.MuxerInput]
type completionEntry = handles.Shared[unienc.CompletionHandle]

func registerSystem(sys unienc.EncodingSystem) uintptr { return handles.Register(sys) }

func lookupSystem(h uintptr) (unienc.EncodingSystem, bool) {
	v, ok := handles.Lookup(h).(unienc.EncodingSystem)
	return v, ok
}

func registerVideoInput(in unienc.EncoderInput[unienc.VideoSample]) uintptr {
	return handles.Register(handles.NewShared(in))
}

func lookupVideoInput(h uintptr) (*videoEncoderInputEntry, bool) {
	v, ok := handles.Lookup(h).(*videoEncoderInputEntry)
	return v, ok
}

func registerVideoOutput(out unienc.EncoderOutput) uintptr {
	return handles.Register(handles.NewShared(out))
}

func lookupVideoOutput(h uintptr) (*videoEncoderOutputEntry, bool) {
	v, ok := handles.Lookup(h).(*videoEncoderOutputEntry)
	return v, ok
}

func registerAudioInput(in unienc.EncoderInput[unienc.AudioSample]) uintptr {
	return handles.Register(handles.NewShared(in))
}

func lookupAudioInput(h uintptr) (*audioEncoderInputEntry, bool) {
	v, ok := handles.Lookup(h).(*audioEncoderInputEntry)
	return v, ok
}

func registerAudioOutput(out unienc.EncoderOutput) uintptr {
	return handles.Register(handles.NewShared(out))
}

func lookupAudioOutput(h uintptr) (*audioEncoderOutputEntry, bool) {
	v, ok := handles.Lookup(h).(*audioEncoderOutputEntry)
	return v, ok
}

func registerMuxerInput(in unienc.MuxerInput) uintptr {
	return handles.Register(handles.NewShared(in))
}

func lookupMuxerInput(h uintptr) (*muxerInputEntry, bool) {
	v, ok := handles.Lookup(h).(*muxerInputEntry)
	return v, ok
}

func registerCompletion(c unienc.CompletionHandle) uintptr {
	return handles.Register(handles.NewShared(c))
}

func lookupCompletion(h uintptr) (*completionEntry, bool) {
	v, ok := handles.Lookup(h).(*completionEntry)
	return v, ok
}

func registerBufferPool(p *unienc.SharedBufferPool) uintptr { return handles.Register(p) }

func lookupBufferPool(h uintptr) (*unienc.SharedBufferPool, bool) {
	v, ok := handles.Lookup(h).(*unienc.SharedBufferPool)
	return v, ok
}

func registerBuffer(b *unienc.SharedBuffer) uintptr { return handles.Register(b) }

func lookupBuffer(h uintptr) (*unienc.SharedBuffer, bool) {
	v, ok := handles.Lookup(h).(*unienc.SharedBuffer)
	return v, ok
}
