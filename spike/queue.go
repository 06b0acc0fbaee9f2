// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spike

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDelay is returned for a negative or non-finite delay
	ErrDelay = errors.New("spike: delay must be finite and >= 0")

	// ErrPast is returned when an event would be delivered before the current tick
	ErrPast = errors.New("spike: event delivery time is in the past")
)

// SpikeEvent is one spike of one neuron, immutable once emitted
type SpikeEvent struct {
	Pop  int     `desc:"index of the source population in the network"`
	Idx  int32   `desc:"index of the neuron within the source population"`
	Time float64 `desc:"emission time (ms)"`
}

// Queue buffers spike events until their delivery tick.  It is a ring of
// per-tick buckets starting at the next tick to be delivered, and grows as
// needed to hold the longest pending delay.  Events in a bucket keep their
// enqueue order, which is the emission order.
type Queue struct {
	Dt      float64        `desc:"step size (ms) used to round delivery times to ticks"`
	Cur     int            `desc:"next tick to be delivered -- bucket at head"`
	NPend   int            `desc:"number of events pending delivery"`
	Dropped int            `desc:"number of events discarded because their tick was skipped by Deliver"`
	head    int            // ring index of tick Cur
	buckets [][]SpikeEvent // ring of per-tick event lists
}

// NewQueue returns a new Queue for the given step size
func NewQueue(dt float64) *Queue {
	q := &Queue{Dt: dt}
	q.buckets = make([][]SpikeEvent, 8)
	return q
}

// Reset discards all pending events and restarts at tick 0
func (q *Queue) Reset() {
	for i := range q.buckets {
		q.buckets[i] = q.buckets[i][:0]
	}
	q.Cur = 0
	q.head = 0
	q.NPend = 0
	q.Dropped = 0
}

// TickFor returns the delivery tick for an event emitted at time t with delay d
func (q *Queue) TickFor(t, d float64) int {
	return int(math.Round((t + d) / q.Dt))
}

// Enqueue inserts the event for delivery at tick round((ev.Time + delay) / Dt).
func (q *Queue) Enqueue(ev SpikeEvent, delay float64) error {
	if !(delay >= 0) || math.IsInf(delay, 0) {
		return fmt.Errorf("%w: %v", ErrDelay, delay)
	}
	tick := q.TickFor(ev.Time, delay)
	off := tick - q.Cur
	if off < 0 {
		return fmt.Errorf("%w: tick %d < current %d", ErrPast, tick, q.Cur)
	}
	if off >= len(q.buckets) {
		q.grow(off + 1)
	}
	bi := (q.head + off) % len(q.buckets)
	q.buckets[bi] = append(q.buckets[bi], ev)
	q.NPend++
	return nil
}

// grow enlarges the ring to hold at least n ticks, keeping order from head
func (q *Queue) grow(n int) {
	nl := 2 * len(q.buckets)
	for nl < n {
		nl *= 2
	}
	nb := make([][]SpikeEvent, nl)
	ln := len(q.buckets)
	for i := 0; i < ln; i++ {
		nb[i] = q.buckets[(q.head+i)%ln]
	}
	q.buckets = nb
	q.head = 0
}

// Deliver returns and removes all the events due at the given tick, in
// emission order.  Ticks are expected to be delivered in sequence: events
// at earlier ticks that were never delivered are discarded (see Dropped),
// and a tick already delivered returns nothing.  The returned slice is only
// valid until the next call to Enqueue.
func (q *Queue) Deliver(tick int) []SpikeEvent {
	if tick < q.Cur {
		return nil
	}
	ln := len(q.buckets)
	for q.Cur < tick {
		b := q.buckets[q.head]
		if len(b) > 0 {
			q.Dropped += len(b)
			q.NPend -= len(b)
			q.buckets[q.head] = b[:0]
		}
		q.head = (q.head + 1) % ln
		q.Cur++
	}
	evs := q.buckets[q.head]
	q.buckets[q.head] = evs[:0]
	q.NPend -= len(evs)
	q.head = (q.head + 1) % ln
	q.Cur++
	return evs
}

// Pending returns the number of events not yet delivered
func (q *Queue) Pending() int {
	return q.NPend
}
