// Package pump implements the bounded channel that ties an Encoder's Input
// half to its Output half. Every backend's encoder, regardless of
// platform, builds its split around one of these: Send suspends when the
// bound is reached, Recv suspends while production is still possible and
// nothing is ready.
package pump

import (
	"context"

	"github.com/CyberAgentGameEntertainment/unienc"
)

// DefaultCapacity is used by backends that do not have a reason to pick a
// different bound.
const DefaultCapacity = 16

// Pump is a bounded, single-producer/single-consumer-safe channel of
// encoded samples plus an explicit "producer dropped" signal so Pull can
// distinguish "nothing ready yet" from "nothing ever again."
type Pump struct {
	ch     chan unienc.EncodedSample
	closed chan struct{}
}

// New creates a Pump with the given capacity (DefaultCapacity if <= 0).
func New(capacity int) *Pump {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Pump{
		ch:     make(chan unienc.EncodedSample, capacity),
		closed: make(chan struct{}),
	}
}

// Send enqueues a produced sample, suspending if the bound is reached.
// Returns ctx.Err() if ctx is cancelled first.
func (p *Pump) Send(ctx context.Context, sample unienc.EncodedSample) error {
	select {
	case p.ch <- sample:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close signals that production has ended; once every already-enqueued
// sample has been drained, Recv returns (nil, false).
func (p *Pump) Close() {
	select {
	case <-p.closed:
		// already closed
	default:
		close(p.closed)
	}
}

// Recv returns the next sample, or (nil, false) once Close has been called
// and the channel has drained. Blocks (respecting ctx) while production is
// still possible and nothing is ready.
//
// Callers must call Close only after the producer has issued its last
// Send; Recv relies on that ordering to know that once Close is observed
// and the channel is empty, it will stay empty.
func (p *Pump) Recv(ctx context.Context) (unienc.EncodedSample, bool, error) {
	// Fast path: a sample is already waiting.
	select {
	case s := <-p.ch:
		return s, true, nil
	default:
	}

	select {
	case s := <-p.ch:
		return s, true, nil
	case <-p.closed:
		select {
		case s := <-p.ch:
			return s, true, nil
		default:
			return nil, false, nil
		}
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}
