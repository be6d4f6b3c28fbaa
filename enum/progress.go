// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package enum

import "sync/atomic"

// ProgressSink receives progress updates, such as for rendering a progress
// bar. Implementations must be safe for concurrent use, as all workers report
// their progress independently.
type ProgressSink interface {
	Add(n int) // advance progress by n processed candidates.
	Finish()   // all candidates processed (or enumeration cancelled).
}

// Tracker counts the processed candidates, passing each increment on to an
// optional ProgressSink.
type Tracker struct {
	total     int
	processed atomic.Int64
	sink      ProgressSink
}

// NewTracker returns a new Tracker for the specified total number of
// candidates. sink might be nil.
func NewTracker(total int, sink ProgressSink) *Tracker {
	return &Tracker{
		total: total,
		sink:  sink,
	}
}

// Advance the progress by a single processed candidate.
func (t *Tracker) Advance() {
	t.processed.Add(1)
	if t.sink != nil {
		t.sink.Add(1)
	}
}

// Processed returns the number of candidates processed so far.
func (t *Tracker) Processed() int { return int(t.processed.Load()) }

// Total returns the total number of candidates.
func (t *Tracker) Total() int { return t.total }

// Finish signals the sink that tracking has come to an end.
func (t *Tracker) Finish() {
	if t.sink != nil {
		t.sink.Finish()
	}
}
