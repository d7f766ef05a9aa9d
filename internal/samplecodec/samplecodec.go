// Package samplecodec implements a flat, tagged-record encoded-sample
// serialization for backends that wrap a platform sample object (Media
// Foundation, Core Media, MediaCodec): a kind, a timestamp, a key/value
// metadata dictionary, and the concatenated payload bytes. The layout is
// identical across those backends, so it is implemented once and shared by
// mfenc, vtenc, mcenc, and wcenc.
package samplecodec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/CyberAgentGameEntertainment/unienc"
)

// Record is the flat representation: a kind, a timestamp, a tagged
// key/value metadata map, and the concatenated payload bytes.
type Record struct {
	Kind      unienc.SampleKind
	Timestamp float64
	Meta      map[string]string
	Payload   []byte
}

// Encode serializes r to a restartable byte vector.
func (r *Record) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, int32(r.Kind)); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, r.Timestamp); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, int32(len(r.Meta))); err != nil {
		return nil, err
	}
	for k, v := range r.Meta {
		if err := writeString(&buf, k); err != nil {
			return nil, err
		}
		if err := writeString(&buf, v); err != nil {
			return nil, err
		}
	}
	if err := binary.Write(&buf, binary.LittleEndian, int32(len(r.Payload))); err != nil {
		return nil, err
	}
	buf.Write(r.Payload)
	return buf.Bytes(), nil
}

// Decode reconstructs a Record from bytes previously produced by Encode.
func Decode(data []byte) (*Record, error) {
	buf := bytes.NewReader(data)

	var kind int32
	if err := binary.Read(buf, binary.LittleEndian, &kind); err != nil {
		return nil, fmt.Errorf("samplecodec: read kind: %w", err)
	}
	var ts float64
	if err := binary.Read(buf, binary.LittleEndian, &ts); err != nil {
		return nil, fmt.Errorf("samplecodec: read timestamp: %w", err)
	}
	var metaLen int32
	if err := binary.Read(buf, binary.LittleEndian, &metaLen); err != nil {
		return nil, fmt.Errorf("samplecodec: read meta length: %w", err)
	}
	meta := make(map[string]string, metaLen)
	for i := int32(0); i < metaLen; i++ {
		k, err := readString(buf)
		if err != nil {
			return nil, fmt.Errorf("samplecodec: read meta key: %w", err)
		}
		v, err := readString(buf)
		if err != nil {
			return nil, fmt.Errorf("samplecodec: read meta value: %w", err)
		}
		meta[k] = v
	}
	var payloadLen int32
	if err := binary.Read(buf, binary.LittleEndian, &payloadLen); err != nil {
		return nil, fmt.Errorf("samplecodec: read payload length: %w", err)
	}
	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(buf, payload); err != nil {
		return nil, fmt.Errorf("samplecodec: read payload: %w", err)
	}

	return &Record{Kind: unienc.SampleKind(kind), Timestamp: ts, Meta: meta, Payload: payload}, nil
}

func writeString(buf *bytes.Buffer, s string) error {
	if err := binary.Write(buf, binary.LittleEndian, int32(len(s))); err != nil {
		return err
	}
	buf.WriteString(s)
	return nil
}

func readString(buf *bytes.Reader) (string, error) {
	var n int32
	if err := binary.Read(buf, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(buf, b); err != nil {
		return "", err
	}
	return string(b), nil
}

// Sample adapts a Record to unienc.EncodedSample.
type Sample struct{ Record }

func (s *Sample) Timestamp() float64      { return s.Record.Timestamp }
func (s *Sample) SetTimestamp(v float64)  { s.Record.Timestamp = v }
func (s *Sample) Kind() unienc.SampleKind { return s.Record.Kind }
func (s *Sample) Encode() ([]byte, error) { return s.Record.Encode() }

// DecodeSample decodes bytes into an *unienc.EncodedSample-compatible
// *Sample.
func DecodeSample(data []byte) (*Sample, error) {
	rec, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return &Sample{Record: *rec}, nil
}
