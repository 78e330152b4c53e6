// Copyright 2026 The resched Authors
// This file is part of resched.
//
// resched is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// resched is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with resched.  If not, see <http://www.gnu.org/licenses/>.

package queue

import "time"

// Strategy determines which end of the pending list Push inserts at. Pop
// (in both destructive and leased forms) always removes from the tail, so
// FIFO pops oldest-pushed-first and LIFO pops newest-pushed-first.
type Strategy string

const (
	FIFO Strategy = "fifo"
	LIFO Strategy = "lifo"
)

func (s Strategy) valid() bool {
	return s == FIFO || s == LIFO
}

// Options holds a Queue's construction-time configuration, per spec.md
// §4.2's option table.
type Options struct {
	WorkerID            string
	Strategy            Strategy
	TrackEntries        bool
	TrackWorkingEntries bool
	WorkTTL             time.Duration
	Pipes               map[string]*Queue
}

func defaultOptions() Options {
	return Options{
		WorkerID:            "global",
		Strategy:            FIFO,
		TrackEntries:        false,
		TrackWorkingEntries: true,
		WorkTTL:             60 * time.Second,
		Pipes:               map[string]*Queue{},
	}
}

// Option configures a Queue at construction time.
type Option func(*Options)

// WithWorkerID sets the identifier used for this handle's leased list and
// liveness beacon. Default "global".
func WithWorkerID(id string) Option {
	return func(o *Options) { o.WorkerID = id }
}

// WithStrategy sets push/pop ordering. Default FIFO.
func WithStrategy(s Strategy) Option {
	return func(o *Options) { o.Strategy = s }
}

// WithTrackEntries enables the dedup set: Push on an already-present key
// skips the list write. Default false.
func WithTrackEntries(enabled bool) Option {
	return func(o *Options) { o.TrackEntries = enabled }
}

// WithTrackWorkingEntries controls whether a leased Pop keeps the dedup
// entry (true, default) or removes it immediately (false).
func WithTrackWorkingEntries(enabled bool) Option {
	return func(o *Options) { o.TrackWorkingEntries = enabled }
}

// WithWorkTTL sets the liveness-beacon TTL. Default 60s.
func WithWorkTTL(d time.Duration) Option {
	return func(o *Options) { o.WorkTTL = d }
}

// WithPipe registers target as the completion-routing destination for the
// given result label (spec.md §6's pipe contract). target must already be
// constructed against the same store.
func WithPipe(label string, target *Queue) Option {
	return func(o *Options) {
		if o.Pipes == nil {
			o.Pipes = map[string]*Queue{}
		}
		o.Pipes[label] = target
	}
}
