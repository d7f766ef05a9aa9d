// Package telemetry wraps zerolog with a small level/component vocabulary
// so a host embedding this library can route its output (or silence it,
// the default) rather than inherit a hardcoded log.Printf.
package telemetry

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(io.Discard)
)

// SetOutput redirects logging to w for every logger obtained from For
// after the call; a logger obtained earlier keeps its previous output.
// Pass nil to silence logging entirely (the default).
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = io.Discard
	}
	logger = zerolog.New(w).With().Timestamp().Logger()
}

// UseStderr is a convenience for cmd/unienc-bench and manual debugging.
func UseStderr() {
	SetOutput(zerolog.ConsoleWriter{Out: os.Stderr})
}

// For returns a component-scoped logger, e.g. telemetry.For("ffmpegenc").
func For(component string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger.With().Str("component", component).Logger()
}
