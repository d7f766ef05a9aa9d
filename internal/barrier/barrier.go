// Package barrier implements the muxer's two-track startup barrier:
// writing begins only once both the video and audio tracks have delivered
// their Metadata sample. Every backend's Muxer shares this exact state
// machine; only what start does once both tracks arrive differs per
// backend.
//
//	                 metadata-from-track-A
//	 None ─────────────────────────────────▶ PartialWaiting(wake_A)
//	                 metadata-from-track-B
//	 PartialWaiting(wake_X) ────────────────▶ Started
//	                                        (wake_X.send(ok); backend.start())
package barrier

import (
	"context"
	"sync"
)

type phase int

const (
	phaseNone phase = iota
	phasePartial
	phaseStarted
)

// Track identifies which of the two tracks an operation concerns.
type Track int

const (
	Video Track = iota
	Audio
)

// Barrier coordinates two tracks' metadata arrival and runs a start
// function exactly once, when the second track's metadata arrives.
type Barrier struct {
	mu    sync.Mutex
	phase phase

	installed [2]bool
	wake      chan struct{}

	startErr error
}

// New creates a Barrier in the None phase.
func New() *Barrier {
	return &Barrier{wake: make(chan struct{})}
}

// Installed reports whether the given track's metadata has already been
// installed (a second metadata sample on the same track is a contract
// violation the caller should reject before calling Arrive).
func (b *Barrier) Installed(t Track) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.installed[t]
}

// Arrive records that t's metadata has arrived. If this is the first
// track, Arrive installs it and then blocks (respecting ctx) until the
// second track arrives and start has run. If this is the second track,
// Arrive installs it, runs start itself, and wakes the first caller.
// start is invoked at most once, regardless of which caller triggers it.
func (b *Barrier) Arrive(ctx context.Context, t Track, start func() error) error {
	b.mu.Lock()
	switch b.phase {
	case phaseNone:
		b.installed[t] = true
		b.phase = phasePartial
		b.mu.Unlock()

		select {
		case <-b.wake:
			b.mu.Lock()
			err := b.startErr
			b.mu.Unlock()
			return err
		case <-ctx.Done():
			return ctx.Err()
		}

	case phasePartial:
		b.installed[t] = true
		b.phase = phaseStarted
		b.mu.Unlock()

		err := start()

		b.mu.Lock()
		b.startErr = err
		b.mu.Unlock()
		close(b.wake)
		return err

	default: // phaseStarted
		b.mu.Unlock()
		return nil
	}
}

// Started reports whether both tracks have arrived and start has run.
func (b *Barrier) Started() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.phase == phaseStarted
}
