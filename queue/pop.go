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

import (
	"context"
	"time"
)

// PopResult is the key/payload pair returned by a successful Pop. If no
// payload was ever set for the task, Payload is nil and the caller should
// fall back to Key — matching spec.md §4.2's "payload if non-null, else
// key" return rule, without forcing a return_key flag on callers: Key is
// always populated on a successful pop, so a caller that wants strictly
// the key reads Key directly.
type PopResult struct {
	Key     any
	Payload any
	Found   bool
}

// Value returns Payload if one was set, otherwise Key — the collapsed
// single-value view spec.md describes for return_key=false.
func (r PopResult) Value() any {
	if r.Payload != nil {
		return r.Payload
	}
	return r.Key
}

type popConfig struct {
	destructive bool
	timeout     time.Duration // 0 means non-blocking
}

// PopOption configures a single Pop call.
type PopOption func(*popConfig)

// Destructive selects a destructive pop (no working-list lease) instead
// of the default leased pop.
func Destructive() PopOption {
	return func(c *popConfig) { c.destructive = true }
}

// WithTimeout makes Pop block up to timeout waiting for an element
// instead of returning immediately on an empty queue.
func WithTimeout(timeout time.Duration) PopOption {
	return func(c *popConfig) { c.timeout = timeout }
}

// Pop removes one task from the pending list. By default it is a leased,
// non-blocking pop: the task is atomically rotated onto this worker's
// working-list in one store-side operation — never a separate pop-then-
// push pair. Destructive() removes the task outright instead of leasing
// it. WithTimeout blocks (up to the given duration) instead of returning
// immediately when the queue is empty.
func (q *Queue) Pop(ctx context.Context, opts ...PopOption) (PopResult, error) {
	var cfg popConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := q.touchLiveness(ctx); err != nil {
		return PopResult{}, err
	}

	packedKey, err := q.popKey(ctx, cfg)
	if err != nil {
		return PopResult{}, err
	}
	if packedKey == nil {
		return PopResult{Found: false}, nil
	}

	if cfg.destructive {
		if q.opts.TrackEntries {
			if err := q.store.SRem(ctx, q.keys.entries, packedKey); err != nil {
				return PopResult{}, err
			}
		}
	} else if !q.opts.TrackWorkingEntries {
		if err := q.store.SRem(ctx, q.keys.entries, packedKey); err != nil {
			return PopResult{}, err
		}
	}

	payloadBytes, ok, err := q.store.HGet(ctx, q.keys.payload, string(packedKey))
	if err != nil {
		return PopResult{}, err
	}
	key, err := q.codec.Unpack(packedKey)
	if err != nil {
		return PopResult{}, err
	}
	var payload any
	if ok {
		payload, err = q.codec.Unpack(payloadBytes)
		if err != nil {
			return PopResult{}, err
		}
	}
	q.m.popped.Inc(1)
	return PopResult{Key: key, Payload: payload, Found: true}, nil
}

func (q *Queue) popKey(ctx context.Context, cfg popConfig) ([]byte, error) {
	switch {
	case cfg.destructive && cfg.timeout == 0:
		return q.store.RPop(ctx, q.keys.pending)
	case cfg.destructive:
		_, v, err := q.store.BRPop(ctx, cfg.timeout, q.keys.pending)
		return v, err
	case cfg.timeout == 0:
		return q.store.RPopLPush(ctx, q.keys.pending, q.keys.working)
	default:
		return q.store.BRPopLPush(ctx, q.keys.pending, q.keys.working, cfg.timeout)
	}
}

// BlockingPop is equivalent to Pop with WithTimeout(timeout) appended.
func (q *Queue) BlockingPop(ctx context.Context, timeout time.Duration, opts ...PopOption) (PopResult, error) {
	return q.Pop(ctx, append(opts, WithTimeout(timeout))...)
}

// Peek non-destructively reads the task at the pop end of the pending
// list. Touches liveness.
func (q *Queue) Peek(ctx context.Context) (PopResult, error) {
	if err := q.touchLiveness(ctx); err != nil {
		return PopResult{}, err
	}
	values, err := q.store.LRange(ctx, q.keys.pending, -1, -1)
	if err != nil {
		return PopResult{}, err
	}
	if len(values) == 0 {
		return PopResult{Found: false}, nil
	}
	packedKey := values[0]
	payloadBytes, ok, err := q.store.HGet(ctx, q.keys.payload, string(packedKey))
	if err != nil {
		return PopResult{}, err
	}
	key, err := q.codec.Unpack(packedKey)
	if err != nil {
		return PopResult{}, err
	}
	var payload any
	if ok {
		payload, err = q.codec.Unpack(payloadBytes)
		if err != nil {
			return PopResult{}, err
		}
	}
	return PopResult{Key: key, Payload: payload, Found: true}, nil
}
