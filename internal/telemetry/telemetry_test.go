package telemetry

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	logger := For("ffmpegenc")
	logger.Info().Msg("starting backend")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ffmpegenc", entry["component"])
	assert.Equal(t, "starting backend", entry["message"])
}

func TestSetOutputNilDiscardsLogging(t *testing.T) {
	SetOutput(nil)
	defer SetOutput(nil)

	// No assertion beyond "does not panic": io.Discard swallows output, so
	// there is nothing observable to check except that logging through it
	// does not error or block.
	logger := For("muxer")
	logger.Warn().Msg("swallowed")
}
