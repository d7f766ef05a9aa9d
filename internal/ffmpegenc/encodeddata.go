package ffmpegenc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/CyberAgentGameEntertainment/unienc"
)

// videoEncodedData is the FFmpeg video backend's EncodedSample: either a
// parameter set (SPS+PPS as one Annex-B blob, kind Metadata, timestamp
// always 0) or a slice (one NAL unit's payload, kind Key/Interpolated by
// IDR flag).
type videoEncodedData struct {
	isParameterSet bool
	payload        []byte
	timestamp      float64
	isIDR          bool
}

func (d *videoEncodedData) Timestamp() float64 {
	if d.isParameterSet {
		return 0
	}
	return d.timestamp
}

func (d *videoEncodedData) SetTimestamp(v float64) {
	if !d.isParameterSet {
		d.timestamp = v
	}
}

func (d *videoEncodedData) Kind() unienc.SampleKind {
	if d.isParameterSet {
		return unienc.Metadata
	}
	if d.isIDR {
		return unienc.Key
	}
	return unienc.Interpolated
}

// Encode serializes the sample to a restartable byte vector: a one-byte
// tag, the timestamp, the IDR flag, then the raw payload.
func (d *videoEncodedData) Encode() ([]byte, error) {
	var buf bytes.Buffer
	tag := byte(0)
	if d.isParameterSet {
		tag = 1
	}
	buf.WriteByte(tag)
	if err := binary.Write(&buf, binary.LittleEndian, d.timestamp); err != nil {
		return nil, err
	}
	idr := byte(0)
	if d.isIDR {
		idr = 1
	}
	buf.WriteByte(idr)
	buf.Write(d.payload)
	return buf.Bytes(), nil
}

func decodeVideoEncodedData(data []byte) (*videoEncodedData, error) {
	if len(data) < 10 {
		return nil, fmt.Errorf("ffmpegenc: video sample too short")
	}
	d := &videoEncodedData{isParameterSet: data[0] == 1}
	d.timestamp = float64FromBytes(data[1:9])
	d.isIDR = data[9] == 1
	d.payload = append([]byte(nil), data[10:]...)
	return d, nil
}

func float64FromBytes(b []byte) float64 {
	bits := binary.LittleEndian.Uint64(b)
	return math.Float64frombits(bits)
}

// audioEncodedData is the FFmpeg audio backend's EncodedSample: one ADTS
// frame (header + payload), timestamp derived from a running sample count.
// The ADTS stream itself carries no separate config record (each frame is
// self-describing), so the encoder emits one synthetic Metadata sample
// (sample rate and channel count, no payload) before the first frame to
// keep the metadata-before-samples ordering every muxer track requires.
type audioEncodedData struct {
	isMetadata bool
	header     []byte
	payload    []byte
	sampleRate uint32
	channels   uint32
	timestamp  float64
}

func (d *audioEncodedData) Timestamp() float64 {
	if d.isMetadata {
		return 0
	}
	return d.timestamp
}

func (d *audioEncodedData) SetTimestamp(v float64) {
	if !d.isMetadata {
		d.timestamp = v
	}
}

func (d *audioEncodedData) Kind() unienc.SampleKind {
	if d.isMetadata {
		return unienc.Metadata
	}
	return unienc.Interpolated
}

func (d *audioEncodedData) Encode() ([]byte, error) {
	var buf bytes.Buffer
	tag := byte(0)
	if d.isMetadata {
		tag = 1
	}
	buf.WriteByte(tag)
	if err := binary.Write(&buf, binary.LittleEndian, d.timestamp); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, d.sampleRate); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, d.channels); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(d.header))); err != nil {
		return nil, err
	}
	buf.Write(d.header)
	buf.Write(d.payload)
	return buf.Bytes(), nil
}

func decodeAudioEncodedData(data []byte) (*audioEncodedData, error) {
	if len(data) < 21 {
		return nil, fmt.Errorf("ffmpegenc: audio sample too short")
	}
	d := &audioEncodedData{isMetadata: data[0] == 1}
	d.timestamp = float64FromBytes(data[1:9])
	d.sampleRate = binary.LittleEndian.Uint32(data[9:13])
	d.channels = binary.LittleEndian.Uint32(data[13:17])
	headerLen := binary.LittleEndian.Uint32(data[17:21])
	rest := data[21:]
	if uint32(len(rest)) < headerLen {
		return nil, fmt.Errorf("ffmpegenc: audio sample truncated header")
	}
	d.header = append([]byte(nil), rest[:headerLen]...)
	d.payload = append([]byte(nil), rest[headerLen:]...)
	return d, nil
}
