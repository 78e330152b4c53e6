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

// Package scheduler implements the delayed-task scheduler of spec.md §4.3:
// schedule/deschedule, the contention-safe pop_due WATCH/MULTI/EXEC loop,
// peek_due, complete, membership predicates, and reschedule_dropped_items.
package scheduler

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/gamechanger/resched/codec"
	"github.com/gamechanger/resched/errs"
	"github.com/gamechanger/resched/log"
	"github.com/gamechanger/resched/metrics"
	"github.com/gamechanger/resched/store"
)

// Scheduler is a handle onto one namespace of the delayed-task scheduler.
// All shared state lives in the store; the handle itself holds only the
// namespace, codec, and cached key strings (spec.md §5).
type Scheduler struct {
	store store.Store
	codec *codec.Codec
	opts  Options
	ns    string
	keys  keys
	log   log.Logger
	m     schedulerMetrics
}

// New constructs a Scheduler bound to namespace ns.
func New(s store.Store, ns string, c *codec.Codec, opts ...Option) (*Scheduler, error) {
	if ns == "" {
		return nil, errs.ConfigError("scheduler: namespace must not be empty")
	}
	if s == nil {
		return nil, errs.ConfigError("scheduler: store must not be nil")
	}
	if c == nil {
		return nil, errs.ConfigError("scheduler: codec must not be nil")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Scheduler{
		store: s,
		codec: c,
		opts:  o,
		ns:    ns,
		keys:  newKeys(ns),
		log:   log.New("component", "scheduler", "namespace", ns),
		m:     newSchedulerMetrics(ns),
	}, nil
}

// Event is sent on the configured Feed (see WithEventFeed) whenever
// PopDue successfully removes a due task from waiting, or Complete /
// Deschedule clears one.
type Event struct {
	Namespace string
	Key       any
	Kind      EventKind
}

// EventKind classifies an Event.
type EventKind string

const (
	EventLeased  EventKind = "leased"
	EventRemoved EventKind = "removed"
)

func (s *Scheduler) emit(key any, kind EventKind) {
	if s.opts.Feed == nil {
		return
	}
	s.opts.Feed.Send(Event{Namespace: s.ns, Key: key, Kind: kind})
}

type scheduleConfig struct {
	payload    any
	hasExpire  bool
	expireTime time.Time
}

// ScheduleOption configures a single Schedule call.
type ScheduleOption func(*scheduleConfig)

// WithPayload attaches a payload distinct from the key. If omitted, the
// key doubles as the payload (spec.md §3's Entities note).
func WithPayload(payload any) ScheduleOption {
	return func(c *scheduleConfig) { c.payload = payload }
}

// WithExpireTime sets an absolute expiration: once this time passes, the
// task is purged rather than delivered, even if still in waiting.
func WithExpireTime(t time.Time) ScheduleOption {
	return func(c *scheduleConfig) { c.hasExpire, c.expireTime = true, t }
}

// Schedule inserts key into the waiting sorted set with score = fireTime
// (epoch seconds), sets its payload, and — if WithExpireTime was given —
// its absolute expiration. Scheduling the same key twice overwrites both
// score and payload. The whole write is one atomic batch.
func (s *Scheduler) Schedule(ctx context.Context, key any, fireTime time.Time, opts ...ScheduleOption) error {
	cfg := scheduleConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	packedKey, err := s.codec.Pack(key)
	if err != nil {
		return err
	}
	packedPayload := packedKey
	if cfg.payload != nil {
		packedPayload, err = s.codec.Pack(cfg.payload)
		if err != nil {
			return err
		}
	}

	err = s.store.Pipeline(ctx, func(p store.Pipeliner) error {
		p.ZAdd(s.keys.waiting, packedKey, float64(fireTime.Unix()))
		p.HSet(s.keys.payload, string(packedKey), packedPayload)
		if cfg.hasExpire {
			p.HSet(s.keys.expiration, string(packedKey), floatBytes(float64(cfg.expireTime.Unix())))
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.m.scheduled.Inc(1)
	return nil
}

// Deschedule clears key from waiting/inprogress and drops its payload,
// expiration, and working-lease entries. Descheduling a key that was
// never scheduled is a no-op.
func (s *Scheduler) Deschedule(ctx context.Context, key any) error {
	packedKey, err := s.codec.Pack(key)
	if err != nil {
		return err
	}
	if err := s.clearValue(ctx, packedKey); err != nil {
		return err
	}
	s.emit(key, EventRemoved)
	return nil
}

// Complete clears a leased task by key. Equivalent to Deschedule but kept
// as a distinct method because it marks a different point in the task's
// lifecycle (spec.md §4.3's state machine): deschedule acts on a WAITING
// task, complete on an INPROGRESS one, though both reduce to the same
// clear_value operation.
func (s *Scheduler) Complete(ctx context.Context, key any) error {
	packedKey, err := s.codec.Pack(key)
	if err != nil {
		return err
	}
	if err := s.clearValue(ctx, packedKey); err != nil {
		return err
	}
	s.m.completed.Inc(1)
	s.emit(key, EventRemoved)
	return nil
}

func (s *Scheduler) clearValue(ctx context.Context, packedKey []byte) error {
	return s.store.Pipeline(ctx, func(p store.Pipeliner) error {
		clearValueOps(p, s.keys, packedKey)
		return nil
	})
}

func clearValueOps(p store.Pipeliner, k keys, packedKey []byte) {
	p.ZRem(k.waiting, packedKey)
	p.ZRem(k.inprogress, packedKey)
	p.HDel(k.payload, string(packedKey))
	p.HDel(k.expiration, string(packedKey))
	p.HDel(k.working, string(packedKey))
}

// IsScheduled reports whether key has a live score in waiting: present
// and not expired.
func (s *Scheduler) IsScheduled(ctx context.Context, key any) (bool, error) {
	packedKey, err := s.codec.Pack(key)
	if err != nil {
		return false, err
	}
	_, ok, err := s.store.ZScore(ctx, s.keys.waiting, packedKey)
	if err != nil || !ok {
		return false, err
	}
	expired, err := s.isExpiredPacked(ctx, packedKey)
	if err != nil {
		return false, err
	}
	return !expired, nil
}

// IsExpired reports whether key has an absolute expiration that has
// already passed.
func (s *Scheduler) IsExpired(ctx context.Context, key any) (bool, error) {
	packedKey, err := s.codec.Pack(key)
	if err != nil {
		return false, err
	}
	return s.isExpiredPacked(ctx, packedKey)
}

func (s *Scheduler) isExpiredPacked(ctx context.Context, packedKey []byte) (bool, error) {
	expBytes, ok, err := s.store.HGet(ctx, s.keys.expiration, string(packedKey))
	if err != nil || !ok {
		return false, err
	}
	expTime, err := strconv.ParseFloat(string(expBytes), 64)
	if err != nil {
		return false, errs.CodecError("parse expiration", err)
	}
	return expTime <= s.nowSeconds(), nil
}

// CountScheduled returns the cardinality of the waiting set.
func (s *Scheduler) CountScheduled(ctx context.Context) (int64, error) {
	return s.store.ZCard(ctx, s.keys.waiting)
}

// PeekDue non-destructively reads the earliest waiting task. If its
// fire_time has not yet arrived, Found is false. Never mutates state.
func (s *Scheduler) PeekDue(ctx context.Context) (PopDueResult, error) {
	members, err := s.store.ZRangeByScore(ctx, s.keys.waiting, math.Inf(-1), math.Inf(1), 1)
	if err != nil {
		return PopDueResult{}, err
	}
	if len(members) == 0 || members[0].Score > s.nowSeconds() {
		return PopDueResult{}, nil
	}
	payloadBytes, ok, err := s.store.HGet(ctx, s.keys.payload, string(members[0].Member))
	if err != nil {
		return PopDueResult{}, err
	}
	key, err := s.codec.Unpack(members[0].Member)
	if err != nil {
		return PopDueResult{}, err
	}
	var payload any
	if ok {
		payload, err = s.codec.Unpack(payloadBytes)
		if err != nil {
			return PopDueResult{}, err
		}
	}
	return PopDueResult{Key: key, Payload: payload, Found: true}, nil
}

func floatBytes(f float64) []byte {
	return []byte(strconv.FormatFloat(f, 'f', -1, 64))
}

func (s *Scheduler) nowSeconds() float64 {
	return float64(s.opts.Now().Unix())
}

// schedulerMetrics holds this package's per-namespace counters.
type schedulerMetrics struct {
	scheduled   metrics.Counter
	poppedDue   metrics.Counter
	completed   metrics.Counter
	rescheduled metrics.Counter
}

func newSchedulerMetrics(ns string) schedulerMetrics {
	r := metrics.DefaultRegistry
	return schedulerMetrics{
		scheduled:   metrics.NewRegisteredCounter("scheduler/"+ns+"/scheduled", r),
		poppedDue:   metrics.NewRegisteredCounter("scheduler/"+ns+"/popped_due", r),
		completed:   metrics.NewRegisteredCounter("scheduler/"+ns+"/completed", r),
		rescheduled: metrics.NewRegisteredCounter("scheduler/"+ns+"/rescheduled", r),
	}
}
