package samplecodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CyberAgentGameEntertainment/unienc"
)

// TestRoundTrip: encode(sample with ts=T) ->
// serialize -> deserialize -> set_timestamp(T') -> timestamp() == T'.
func TestRoundTrip(t *testing.T) {
	rec := &Record{
		Kind:      unienc.Key,
		Timestamp: 100.25,
		Meta:      map[string]string{"codec": "h264", "profile": "baseline"},
		Payload:   []byte{0x00, 0x00, 0x00, 0x01, 0x67, 0x42},
	}

	blob, err := rec.Encode()
	require.NoError(t, err)

	decoded, err := Decode(blob)
	require.NoError(t, err)

	assert.Equal(t, rec.Kind, decoded.Kind)
	assert.Equal(t, rec.Timestamp, decoded.Timestamp)
	assert.Equal(t, rec.Meta, decoded.Meta)
	assert.Equal(t, rec.Payload, decoded.Payload)

	decoded.Timestamp = -100.0
	assert.Equal(t, -100.0, decoded.Timestamp)
}

func TestRoundTripEmptyMetaAndPayload(t *testing.T) {
	rec := &Record{Kind: unienc.Metadata, Timestamp: 0}

	blob, err := rec.Encode()
	require.NoError(t, err)

	decoded, err := Decode(blob)
	require.NoError(t, err)

	assert.Equal(t, unienc.Metadata, decoded.Kind)
	assert.Empty(t, decoded.Meta)
	assert.Empty(t, decoded.Payload)
}

// TestSampleAdaptsEncodedSample exercises the unienc.EncodedSample contract
// through the Sample wrapper, including the mutable-timestamp-after-decode
// requirement of the restartable encoding.
func TestSampleAdaptsEncodedSample(t *testing.T) {
	rec := Record{Kind: unienc.Interpolated, Timestamp: 42.0, Payload: []byte("nal-unit")}
	blob, err := rec.Encode()
	require.NoError(t, err)

	s, err := DecodeSample(blob)
	require.NoError(t, err)

	var _ unienc.EncodedSample = s

	assert.Equal(t, unienc.Interpolated, s.Kind())
	assert.Equal(t, 42.0, s.Timestamp())

	s.SetTimestamp(0.0)
	assert.Equal(t, 0.0, s.Timestamp())

	reblob, err := s.Encode()
	require.NoError(t, err)
	again, err := DecodeSample(reblob)
	require.NoError(t, err)
	assert.Equal(t, 0.0, again.Timestamp())
	assert.Equal(t, []byte("nal-unit"), again.Payload)
}

func TestDecodeRejectsTruncatedInput(t *testing.T) {
	_, err := Decode([]byte{0x01, 0x02})
	assert.Error(t, err)
}
