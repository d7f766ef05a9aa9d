package ffmpegenc

import "math"

// cfrPacer assumes a constant frame rate and computes, for each pushed
// value's timestamp, how many times the previous value should be repeated
// to keep the encoder's frame stream at that rate. Hosts feeding wildly
// irregular timestamps will see audio/video duration drift; the pacer does
// not reconcile against the audio track.
type cfrPacer[T any] struct {
	have    bool
	last    T
	lastIdx int64
	fps     uint32
}

func newCfrPacer[T any](fps uint32) *cfrPacer[T] {
	return &cfrPacer[T]{fps: fps}
}

// push records value at timestamp (seconds) and, if a previous value is
// available, returns it along with the repeat count to emit now (always
// >=1; the pacer never asks the caller to go backwards — a timestamp that
// maps to the same or an earlier frame index than the last still emits the
// previous value once, with a count of 1).
func (c *cfrPacer[T]) push(value T, timestamp float64) (prev T, count int, ok bool) {
	idx := int64(math.Round(timestamp * float64(c.fps)))

	if !c.have {
		c.have = true
		c.last = value
		c.lastIdx = idx
		var zero T
		return zero, 0, false
	}

	count64 := idx - c.lastIdx
	prev = c.last
	c.last = value
	if count64 < 1 {
		c.lastIdx = idx
		return prev, 1, true
	}
	c.lastIdx = idx
	return prev, int(count64), true
}

// flush returns the final buffered value (if any) so the caller can emit
// it once at end of stream.
func (c *cfrPacer[T]) flush() (value T, ok bool) {
	if !c.have {
		var zero T
		return zero, false
	}
	c.have = false
	return c.last, true
}
