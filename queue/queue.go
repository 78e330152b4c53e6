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

// Package queue implements the durable work queue of spec.md §4.2: push,
// leased/destructive pop, peek, contains, complete (with result piping),
// unpop, reclaim, clear, and worker liveness tracking, all built on
// store.Store's list/set/hash primitives.
package queue

import (
	"context"

	"github.com/gamechanger/resched/codec"
	"github.com/gamechanger/resched/errs"
	"github.com/gamechanger/resched/log"
	"github.com/gamechanger/resched/metrics"
	"github.com/gamechanger/resched/store"
)

// Queue is a handle onto one namespace of the durable work queue. Multiple
// Queue values (in one process or many) may address the same namespace;
// all shared state lives in the store, per spec.md §5.
type Queue struct {
	store store.Store
	codec *codec.Codec
	opts  Options
	keys  keys
	log   log.Logger
	m     queueMetrics
}

// New constructs a Queue bound to namespace ns. An empty namespace, an
// unrecognised strategy, or a pipe option with a nil target are
// configuration errors (spec.md §7) surfaced synchronously here rather
// than on first use.
func New(s store.Store, ns string, c *codec.Codec, opts ...Option) (*Queue, error) {
	if ns == "" {
		return nil, errs.ConfigError("queue: namespace must not be empty")
	}
	if s == nil {
		return nil, errs.ConfigError("queue: store must not be nil")
	}
	if c == nil {
		return nil, errs.ConfigError("queue: codec must not be nil")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !o.Strategy.valid() {
		return nil, errs.ConfigError("queue: unknown strategy " + string(o.Strategy))
	}
	if o.WorkerID == "" {
		return nil, errs.ConfigError("queue: worker_id must not be empty")
	}
	for label, target := range o.Pipes {
		if target == nil {
			return nil, errs.ConfigError("queue: pipe " + label + " has no target queue")
		}
	}
	q := &Queue{
		store: s,
		codec: c,
		opts:  o,
		keys:  newKeys(ns, o.WorkerID),
		log:   log.New("component", "queue", "namespace", ns),
		m:     newQueueMetrics(ns),
	}
	return q, nil
}

// Namespace returns the queue's namespace.
func (q *Queue) Namespace() string { return q.keys.ns }

// touchLiveness registers this worker as present and refreshes its
// beacon. Every operation except Contains, Size, NumberInProgress,
// NumberInProgressAll, NumberActiveWorkers, NumberOfEntries, ReclaimTasks,
// and Clear calls this.
func (q *Queue) touchLiveness(ctx context.Context) error {
	return q.store.Pipeline(ctx, func(p store.Pipeliner) error {
		p.SAdd(q.keys.workers, []byte(q.opts.WorkerID))
		p.Set(q.keys.active, []byte("active"), q.opts.WorkTTL)
		return nil
	})
}

// Push packs key and payload and inserts key into the pending list per
// the configured strategy. If track_entries is enabled and key is
// already a dedup entry, the list is left untouched but the entries set
// and payload hash are still updated. The list write, set add, and hash
// set happen in a single atomic batch.
func (q *Queue) Push(ctx context.Context, key, payload any) error {
	if err := q.touchLiveness(ctx); err != nil {
		return err
	}
	packedKey, err := q.codec.Pack(key)
	if err != nil {
		return err
	}
	havePayload := payload != nil
	var packedPayload []byte
	if havePayload {
		packedPayload, err = q.codec.Pack(payload)
		if err != nil {
			return err
		}
	}

	alreadyMember := false
	if q.opts.TrackEntries {
		alreadyMember, err = q.store.SIsMember(ctx, q.keys.entries, packedKey)
		if err != nil {
			return err
		}
	}

	err = q.store.Pipeline(ctx, func(p store.Pipeliner) error {
		if !q.opts.TrackEntries || !alreadyMember {
			if q.opts.Strategy == LIFO {
				p.RPush(q.keys.pending, packedKey)
			} else {
				p.LPush(q.keys.pending, packedKey)
			}
		}
		if q.opts.TrackEntries {
			p.SAdd(q.keys.entries, packedKey)
		}
		if havePayload {
			p.HSet(q.keys.payload, string(packedKey), packedPayload)
		}
		return nil
	})
	if err != nil {
		return err
	}
	q.m.pushed.Inc(1)
	return nil
}

// Contains reports whether key is a member of the dedup entries set.
// Does not touch liveness.
func (q *Queue) Contains(ctx context.Context, key any) (bool, error) {
	packedKey, err := q.codec.Pack(key)
	if err != nil {
		return false, err
	}
	return q.store.SIsMember(ctx, q.keys.entries, packedKey)
}

// Complete removes key from this worker's working-list, drops its dedup
// entry and payload, and — if result names a configured pipe — routes
// the (key, payload) pair to the pipe target's pending list in the same
// atomic batch. Completing a task this worker never leased succeeds and
// removes nothing from the working-list, but its dedup entry and payload
// are still dropped and a named pipe still receives it.
func (q *Queue) Complete(ctx context.Context, key any, result ...string) error {
	if err := q.touchLiveness(ctx); err != nil {
		return err
	}
	packedKey, err := q.codec.Pack(key)
	if err != nil {
		return err
	}

	var target *Queue
	if len(result) > 0 && result[0] != "" {
		target = q.opts.Pipes[result[0]]
	}

	var pipePayload []byte
	if target != nil {
		pipePayload, _, err = q.store.HGet(ctx, q.keys.payload, string(packedKey))
		if err != nil {
			return err
		}
		if pipePayload == nil {
			pipePayload = packedKey
		}
	}

	err = q.store.Pipeline(ctx, func(p store.Pipeliner) error {
		p.LRem(q.keys.working, 1, packedKey)
		if q.opts.TrackEntries {
			p.SRem(q.keys.entries, packedKey)
		}
		p.HDel(q.keys.payload, string(packedKey))
		if target != nil {
			if target.opts.Strategy == LIFO {
				p.RPush(target.keys.pending, packedKey)
			} else {
				p.LPush(target.keys.pending, packedKey)
			}
			if target.opts.TrackEntries {
				p.SAdd(target.keys.entries, packedKey)
			}
			p.HSet(target.keys.payload, string(packedKey), pipePayload)
		}
		return nil
	})
	if err != nil {
		return err
	}
	q.m.completed.Inc(1)
	return nil
}

// Unpop atomically returns a leased key to the pending list without loss:
// removed from the working-list, prepended to pending, and re-added to
// the dedup set if enabled. Unpop does not check for a lease: a key this
// worker never leased is still prepended to the pending list.
func (q *Queue) Unpop(ctx context.Context, key any) error {
	if err := q.touchLiveness(ctx); err != nil {
		return err
	}
	packedKey, err := q.codec.Pack(key)
	if err != nil {
		return err
	}
	return q.store.Pipeline(ctx, func(p store.Pipeliner) error {
		p.LRem(q.keys.working, 1, packedKey)
		p.LPush(q.keys.pending, packedKey)
		if q.opts.TrackEntries {
			p.SAdd(q.keys.entries, packedKey)
		}
		return nil
	})
}

// ReclaimTasks scans the workers set and, for every worker whose
// liveness beacon has expired, atomically rotates that worker's leased
// tasks back onto the tail of the pending list, one rotation per task,
// then drops the worker from the workers set. Workers with a live
// beacon are left untouched. A reclaim with no orphaned workers is a
// no-op.
func (q *Queue) ReclaimTasks(ctx context.Context) error {
	workers, err := q.store.SMembers(ctx, q.keys.workers)
	if err != nil {
		return err
	}
	for _, w := range workers {
		wid := string(w)
		alive, err := q.store.Exists(ctx, activeKey(q.keys.ns, wid))
		if err != nil {
			return err
		}
		if alive {
			continue
		}
		wk := workingKey(q.keys.ns, wid)
		n, err := q.drainWorking(ctx, wk)
		if err != nil {
			return err
		}
		if err := q.store.SRem(ctx, q.keys.workers, w); err != nil {
			return err
		}
		q.log.Debug("reclaimed orphaned worker", "worker_id", wid, "tasks", n)
		q.m.reclaimed.Inc(int64(n))
	}
	return nil
}

func (q *Queue) drainWorking(ctx context.Context, workingKey string) (int, error) {
	n := 0
	for {
		v, err := q.store.LMoveToTail(ctx, workingKey, q.keys.pending)
		if err != nil {
			return n, err
		}
		if v == nil {
			return n, nil
		}
		n++
	}
}

// Clear deletes the pending list, the entries set, this worker's
// working-list and beacon, and (in the same atomic batch) every other
// worker's working-list and the workers set itself.
func (q *Queue) Clear(ctx context.Context) error {
	workers, err := q.store.SMembers(ctx, q.keys.workers)
	if err != nil {
		return err
	}
	return q.store.Pipeline(ctx, func(p store.Pipeliner) error {
		p.Del(q.keys.pending)
		p.Del(q.keys.entries)
		p.Del(q.keys.working)
		p.Del(q.keys.active)
		p.SRem(q.keys.workers, []byte(q.opts.WorkerID))
		for _, w := range workers {
			p.Del(workingKey(q.keys.ns, string(w)))
		}
		p.Del(q.keys.workers)
		return nil
	})
}

// Size returns the pending-list length.
func (q *Queue) Size(ctx context.Context) (int64, error) {
	return q.store.LLen(ctx, q.keys.pending)
}

// NumberInProgress returns the length of this handle's worker's
// working-list.
func (q *Queue) NumberInProgress(ctx context.Context) (int64, error) {
	return q.store.LLen(ctx, q.keys.working)
}

// NumberInProgressAll returns the summed working-list length across
// every worker registered in the workers set.
func (q *Queue) NumberInProgressAll(ctx context.Context) (int64, error) {
	workers, err := q.store.SMembers(ctx, q.keys.workers)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, w := range workers {
		n, err := q.store.LLen(ctx, workingKey(q.keys.ns, string(w)))
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// NumberActiveWorkers counts members of the workers set whose liveness
// beacon currently exists.
func (q *Queue) NumberActiveWorkers(ctx context.Context) (int64, error) {
	workers, err := q.store.SMembers(ctx, q.keys.workers)
	if err != nil {
		return 0, err
	}
	var n int64
	for _, w := range workers {
		alive, err := q.store.Exists(ctx, activeKey(q.keys.ns, string(w)))
		if err != nil {
			return 0, err
		}
		if alive {
			n++
		}
	}
	return n, nil
}

// NumberOfEntries returns the dedup entries-set cardinality.
func (q *Queue) NumberOfEntries(ctx context.Context) (int64, error) {
	return q.store.SCard(ctx, q.keys.entries)
}

// queueMetrics holds this package's per-namespace counters (spec.md §10.2).
type queueMetrics struct {
	pushed    metrics.Counter
	popped    metrics.Counter
	completed metrics.Counter
	reclaimed metrics.Counter
}

func newQueueMetrics(ns string) queueMetrics {
	r := metrics.DefaultRegistry
	return queueMetrics{
		pushed:    metrics.NewRegisteredCounter("queue/"+ns+"/pushed", r),
		popped:    metrics.NewRegisteredCounter("queue/"+ns+"/popped", r),
		completed: metrics.NewRegisteredCounter("queue/"+ns+"/completed", r),
		reclaimed: metrics.NewRegisteredCounter("queue/"+ns+"/reclaimed", r),
	}
}
