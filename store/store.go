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

// Package store narrows the in-memory key/value server of spec.md §6 down
// to the operations queue and scheduler actually need, the same way ethdb
// narrows a full key-value database down to Has/Get/Put/Delete/Batch for
// the rest of go-ethereum. Nothing outside this package ever imports a
// concrete driver directly.
package store

import (
	"context"
	"time"
)

// ZMember is one entry of a sorted-set range, pairing the member with its
// score (spec.md's "sorted set: packed value → fire-time").
type ZMember struct {
	Member []byte
	Score  float64
}

// Store is the minimal surface spec.md §6 requires: list push/pop
// (blocking and non-blocking), atomic rotate, list length/index/removal;
// sorted-set add/range/score/card/rem; hash get/set/del/exists/getall; set
// add/rem/members/card/ismember; string get/set-with-ttl; and transactions
// with optimistic concurrency. All methods are context-aware so blocking
// operations accept an implementation-defined deadline (spec.md §5).
type Store interface {
	// Lists
	LPush(ctx context.Context, key string, values ...[]byte) error
	RPush(ctx context.Context, key string, values ...[]byte) error
	LPop(ctx context.Context, key string) ([]byte, error)
	RPop(ctx context.Context, key string) ([]byte, error)
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) (key string, value []byte, err error)
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) (key string, value []byte, err error)
	// RPopLPush atomically pops the tail of src and pushes it to the head
	// of dst in one store-side operation — the "atomic rotate" primitive
	// spec.md §9 requires for leased pops. Returns (nil, nil) if src was
	// empty.
	RPopLPush(ctx context.Context, src, dst string) ([]byte, error)
	BRPopLPush(ctx context.Context, src, dst string, timeout time.Duration) ([]byte, error)
	// LMoveToTail atomically pops the tail of src and pushes it to the TAIL
	// of dst — used by the reclaim rotation (spec.md §5: reclaimed elements
	// are appended to the tail, not reinserted by original position).
	// Returns (nil, nil) if src was empty.
	LMoveToTail(ctx context.Context, src, dst string) ([]byte, error)
	LLen(ctx context.Context, key string) (int64, error)
	LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error)
	LRem(ctx context.Context, key string, count int64, value []byte) error

	// Sorted sets
	ZAdd(ctx context.Context, key string, member []byte, score float64) error
	ZRem(ctx context.Context, key string, member []byte) error
	ZScore(ctx context.Context, key string, member []byte) (score float64, ok bool, err error)
	ZRangeByScore(ctx context.Context, key string, min, max float64, limit int64) ([]ZMember, error)
	ZRangeWithScores(ctx context.Context, key string, start, stop int64) ([]ZMember, error)
	ZCard(ctx context.Context, key string) (int64, error)

	// Hashes
	HGet(ctx context.Context, key, field string) ([]byte, bool, error)
	HSet(ctx context.Context, key, field string, value []byte) error
	HDel(ctx context.Context, key string, fields ...string) error
	HExists(ctx context.Context, key, field string) (bool, error)
	HGetAll(ctx context.Context, key string) (map[string][]byte, error)

	// Sets
	SAdd(ctx context.Context, key string, members ...[]byte) error
	SRem(ctx context.Context, key string, members ...[]byte) error
	SMembers(ctx context.Context, key string) ([][]byte, error)
	SCard(ctx context.Context, key string) (int64, error)
	SIsMember(ctx context.Context, key string, member []byte) (bool, error)

	// Strings with TTL (liveness beacons)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	// Pipeline executes fn's recorded writes as a single atomic batch
	// (spec.md §5's "pipelined batches executed atomically"). fn receives
	// a Pipeliner to queue commands on; none of them are sent until
	// Pipeline returns.
	Pipeline(ctx context.Context, fn func(Pipeliner) error) error

	// Watch runs fn under optimistic concurrency on the given keys: fn may
	// read store state and then call tx.Pipeline to stage a MULTI/EXEC
	// batch. If any watched key changes before EXEC, Watch returns
	// ErrWatchConflict and the caller is expected to retry (this is the
	// sole mechanism behind scheduler.PopDue's contention safety — see
	// spec.md §9).
	Watch(ctx context.Context, fn func(Tx) error, keys ...string) error
}

// Pipeliner queues commands for a single atomic batch. It mirrors the
// subset of Store's write operations that pipes need; read results are not
// available until after the batch executes, so Pipeliner never returns
// values mid-batch (matching Redis pipeline semantics).
type Pipeliner interface {
	LPush(key string, values ...[]byte)
	RPush(key string, values ...[]byte)
	RPopLPush(src, dst string) *BytesResult
	LRem(key string, count int64, value []byte)
	ZAdd(key string, member []byte, score float64)
	ZRem(key string, member []byte)
	HSet(key, field string, value []byte)
	HDel(key string, fields ...string)
	SAdd(key string, members ...[]byte)
	SRem(key string, members ...[]byte)
	Set(key string, value []byte, ttl time.Duration)
	Del(keys ...string)
}

// BytesResult is a deferred result from a pipelined command, readable only
// after the enclosing Pipeline/Watch batch has executed.
type BytesResult struct {
	val []byte
	ok  bool
}

// Value returns the command's result. Valid only after the batch executed.
func (r *BytesResult) Value() ([]byte, bool) { return r.val, r.ok }

func (r *BytesResult) set(val []byte, ok bool) {
	r.val, r.ok = val, ok
}

// SetResult is exported so driver packages (store/redisstore) can populate a
// BytesResult after a batch executes.
func SetResult(r *BytesResult, val []byte, ok bool) { r.set(val, ok) }

// Tx is the per-attempt handle passed to Watch's callback: it can read
// current store state directly (reads inside Watch are not part of the
// atomic batch — only the final Pipeline call is) and then stage a batch.
type Tx interface {
	ZRangeByScore(ctx context.Context, key string, min, max float64, limit int64) ([]ZMember, error)
	HGet(ctx context.Context, key, field string) ([]byte, bool, error)
	Pipeline(fn func(Pipeliner)) error
}

// ErrWatchConflict is returned by Watch when a watched key changed between
// the read and the EXEC, signalling the caller should retry.
var ErrWatchConflict = errWatchConflict{}

type errWatchConflict struct{}

func (errWatchConflict) Error() string { return "store: watch conflict, retry" }
