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
	"context"
	"errors"
	"math"
	"runtime"
	"strconv"
	"time"

	"github.com/gamechanger/resched/store"
)

// PopDueResult is the key/payload pair PopDue or PeekDue returns.
type PopDueResult struct {
	Key     any
	Payload any
	Found   bool
}

type popDueConfig struct {
	destructive bool
	progressTTL time.Duration
}

// PopDueOption configures a single PopDue call.
type PopDueOption func(*popDueConfig)

// Destructive removes the due task outright instead of leasing it into
// inprogress.
func Destructive() PopDueOption {
	return func(c *popDueConfig) { c.destructive = true }
}

// WithProgressTTL overrides the scheduler's default lease duration for
// this call.
func WithProgressTTL(d time.Duration) PopDueOption {
	return func(c *popDueConfig) { c.progressTTL = d }
}

// PopDue is the core contention-safe operation (spec.md §4.3): under
// WATCH on the waiting set, it reads the earliest-due task, leases it
// into inprogress (or removes it outright for Destructive), and commits
// via MULTI/EXEC. A WATCH conflict — another worker committed first — is
// retried transparently; it never escapes to the caller. An expired task
// encountered along the way is purged and the scan restarts. Before each
// retry the goroutine yields the processor (runtime.Gosched).
func (s *Scheduler) PopDue(ctx context.Context, opts ...PopDueOption) (PopDueResult, error) {
	cfg := popDueConfig{progressTTL: s.opts.DefaultProgressTTL}
	for _, opt := range opts {
		opt(&cfg)
	}
	for {
		res, retry, err := s.attemptPopDue(ctx, cfg)
		if err != nil {
			if errors.Is(err, store.ErrWatchConflict) {
				runtime.Gosched()
				continue
			}
			return PopDueResult{}, err
		}
		if retry {
			runtime.Gosched()
			continue
		}
		if res.Found {
			s.m.poppedDue.Inc(1)
			kind := EventLeased
			if cfg.destructive {
				kind = EventRemoved
			}
			s.emit(res.Key, kind)
		}
		return res, nil
	}
}

// attemptPopDue runs one WATCH/MULTI/EXEC attempt. retry is true when an
// expired task was purged and the scan should restart from the top
// (spec.md's "_clear_value(value); continue").
func (s *Scheduler) attemptPopDue(ctx context.Context, cfg popDueConfig) (result PopDueResult, retry bool, err error) {
	now := s.nowSeconds()
	err = s.store.Watch(ctx, func(tx store.Tx) error {
		members, err := tx.ZRangeByScore(ctx, s.keys.waiting, math.Inf(-1), math.Inf(1), 1)
		if err != nil {
			return err
		}
		if len(members) == 0 {
			return nil
		}
		value, score := members[0].Member, members[0].Score
		if score > now {
			return nil
		}

		expBytes, hasExp, err := tx.HGet(ctx, s.keys.expiration, string(value))
		if err != nil {
			return err
		}
		if hasExp {
			expTime, perr := strconv.ParseFloat(string(expBytes), 64)
			if perr == nil && expTime <= now {
				if err := tx.Pipeline(func(p store.Pipeliner) { clearValueOps(p, s.keys, value) }); err != nil {
					return err
				}
				retry = true
				return nil
			}
		}

		payloadBytes, hasPayload, err := tx.HGet(ctx, s.keys.payload, string(value))
		if err != nil {
			return err
		}
		if !hasPayload {
			// Invariant S2 violation: an inprogress/waiting entry with no
			// payload. Treat as inconsistent and clear rather than return it.
			s.log.Warn("scheduler: clearing value with missing payload", "key", string(value))
			if err := tx.Pipeline(func(p store.Pipeliner) { clearValueOps(p, s.keys, value) }); err != nil {
				return err
			}
			retry = true
			return nil
		}

		if err := tx.Pipeline(func(p store.Pipeliner) {
			if cfg.destructive {
				clearValueOps(p, s.keys, value)
			} else {
				p.ZRem(s.keys.waiting, value)
				p.ZAdd(s.keys.inprogress, value, score)
				p.HSet(s.keys.working, string(value), floatBytes(now+cfg.progressTTL.Seconds()))
			}
		}); err != nil {
			return err
		}

		key, err := s.codec.Unpack(value)
		if err != nil {
			return err
		}
		payload, err := s.codec.Unpack(payloadBytes)
		if err != nil {
			return err
		}
		result = PopDueResult{Key: key, Payload: payload, Found: true}
		return nil
	}, s.keys.waiting)
	return result, retry, err
}

// RescheduleDroppedItems scans inprogress in fire-time order and, for
// every entry whose lease (working[value]) has lapsed: purges it if
// expired, otherwise moves it back to waiting with its original
// fire_time. Entries with a still-live lease are left untouched.
func (s *Scheduler) RescheduleDroppedItems(ctx context.Context) error {
	members, err := s.store.ZRangeWithScores(ctx, s.keys.inprogress, 0, -1)
	if err != nil {
		return err
	}
	now := s.nowSeconds()
	for _, m := range members {
		workingBytes, hasWorking, err := s.store.HGet(ctx, s.keys.working, string(m.Member))
		if err != nil {
			return err
		}
		if hasWorking {
			leaseExpiry, perr := strconv.ParseFloat(string(workingBytes), 64)
			if perr == nil && leaseExpiry > now {
				continue // lease still live
			}
		}

		expired, err := s.isExpiredPacked(ctx, m.Member)
		if err != nil {
			return err
		}
		if expired {
			if err := s.clearValue(ctx, m.Member); err != nil {
				return err
			}
			continue
		}

		member, score := m.Member, m.Score
		if err := s.store.Pipeline(ctx, func(p store.Pipeliner) error {
			p.ZAdd(s.keys.waiting, member, score)
			p.ZRem(s.keys.inprogress, member)
			p.HDel(s.keys.working, string(member))
			return nil
		}); err != nil {
			return err
		}
		s.m.rescheduled.Inc(1)
	}
	return nil
}
