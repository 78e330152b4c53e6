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

package scheduler

import (
	"time"

	"github.com/gamechanger/resched/event"
)

// Options holds a Scheduler's construction-time configuration.
type Options struct {
	DefaultProgressTTL time.Duration
	Feed               *event.Feed
	Now                func() time.Time
}

func defaultOptions() Options {
	return Options{
		DefaultProgressTTL: 60 * time.Second,
		Now:                time.Now,
	}
}

// Option configures a Scheduler at construction time.
type Option func(*Options)

// WithDefaultProgressTTL sets the lease TTL PopDue uses when its caller
// doesn't supply one. Default 60s.
func WithDefaultProgressTTL(d time.Duration) Option {
	return func(o *Options) { o.DefaultProgressTTL = d }
}

// WithEventFeed wires a Feed that receives an Event every time PopDue
// successfully leases or removes a task — the pub/sub extension hook
// spec.md §1 leaves open. Nothing in the core protocol depends on whether
// a Feed is configured or whether anyone subscribes to it.
func WithEventFeed(f *event.Feed) Option {
	return func(o *Options) { o.Feed = f }
}

// WithClock overrides the scheduler's time source. Tests use this to
// advance due-time comparisons without a real sleep; production code has
// no reason to call it.
func WithClock(now func() time.Time) Option {
	return func(o *Options) { o.Now = now }
}
