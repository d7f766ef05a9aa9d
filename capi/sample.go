package main

import "github.com/CyberAgentGameEntertainment/unienc"

// wireSample adapts a raw byte blob the host handed back across the ABI
// (produced by some backend's EncodedSample.Encode(), delivered via
// unienc_video_encoder_pull/unienc_audio_encoder_pull) into an
// unienc.EncodedSample the muxer can push. Its Encode simply returns the
// bytes unchanged — every backend's muxer decodes a pushed sample via its
// own format-specific decoder the moment a type assertion to its concrete
// type fails (see internal/ffmpegenc/mux.go's asVideoData/asAudioData), so
// round-tripping through Encode here is exactly what they already do for
// any non-native EncodedSample.
type wireSample struct {
	kind unienc.SampleKind
	ts   float64
	raw  []byte
}

func (s *wireSample) Timestamp() float64      { return s.ts }
func (s *wireSample) SetTimestamp(v float64)  { s.ts = v }
func (s *wireSample) Kind() unienc.SampleKind { return s.kind }
func (s *wireSample) Encode() ([]byte, error) { return s.raw, nil }
