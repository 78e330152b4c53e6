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

package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gamechanger/resched/store"
)

// pipeliner adapts redis.Pipeliner to store.Pipeliner, deferring result
// extraction until after the enclosing batch executes.
type pipeliner struct {
	pipe     redis.Pipeliner
	deferred []func()
}

func (p *pipeliner) LPush(key string, values ...[]byte) { p.pipe.LPush(context.Background(), key, toAny(values)...) }
func (p *pipeliner) RPush(key string, values ...[]byte) { p.pipe.RPush(context.Background(), key, toAny(values)...) }

func (p *pipeliner) RPopLPush(src, dst string) *store.BytesResult {
	cmd := p.pipe.RPopLPush(context.Background(), src, dst)
	result := &store.BytesResult{}
	p.deferred = append(p.deferred, func() {
		v, err := cmd.Bytes()
		store.SetResult(result, v, err == nil)
	})
	return result
}

func (p *pipeliner) LRem(key string, count int64, value []byte) {
	p.pipe.LRem(context.Background(), key, count, value)
}
func (p *pipeliner) ZAdd(key string, member []byte, score float64) {
	p.pipe.ZAdd(context.Background(), key, redis.Z{Score: score, Member: string(member)})
}
func (p *pipeliner) ZRem(key string, member []byte) {
	p.pipe.ZRem(context.Background(), key, string(member))
}
func (p *pipeliner) HSet(key, field string, value []byte) {
	p.pipe.HSet(context.Background(), key, field, value)
}
func (p *pipeliner) HDel(key string, fields ...string) {
	p.pipe.HDel(context.Background(), key, fields...)
}
func (p *pipeliner) SAdd(key string, members ...[]byte) {
	p.pipe.SAdd(context.Background(), key, toAny(members)...)
}
func (p *pipeliner) SRem(key string, members ...[]byte) {
	p.pipe.SRem(context.Background(), key, toAny(members)...)
}
func (p *pipeliner) Set(key string, value []byte, ttl time.Duration) {
	p.pipe.Set(context.Background(), key, value, ttl)
}
func (p *pipeliner) Del(keys ...string) { p.pipe.Del(context.Background(), keys...) }

func (p *pipeliner) runDeferred() {
	for _, fn := range p.deferred {
		fn()
	}
}

// Pipeline stages fn's writes into a single MULTI/EXEC batch, per spec.md's
// "push MUST be atomic across the list write, the set add, and the payload
// hash set".
func (s *Store) Pipeline(ctx context.Context, fn func(store.Pipeliner) error) error {
	p := &pipeliner{}
	_, err := s.rdb.TxPipelined(ctx, func(tp redis.Pipeliner) error {
		p.pipe = tp
		return fn(p)
	})
	if err != nil {
		return wrapErr("PIPELINE", err)
	}
	p.runDeferred()
	return nil
}

// tx adapts *redis.Tx to store.Tx for use inside Watch's callback.
type tx struct {
	rtx *redis.Tx
}

func (t *tx) ZRangeByScore(ctx context.Context, key string, min, max float64, limit int64) ([]store.ZMember, error) {
	opt := &redis.ZRangeBy{Min: floatStr(min), Max: floatStr(max)}
	if limit > 0 {
		opt.Offset, opt.Count = 0, limit
	}
	res, err := t.rtx.ZRangeByScoreWithScores(ctx, key, opt).Result()
	if err != nil {
		return nil, wrapErr("ZRANGEBYSCORE", err)
	}
	return toZMembers(res), nil
}

func (t *tx) HGet(ctx context.Context, key, field string) ([]byte, bool, error) {
	v, err := t.rtx.HGet(ctx, key, field).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, wrapErr("HGET", err)
	}
	return v, true, nil
}

func (t *tx) Pipeline(fn func(store.Pipeliner)) error {
	p := &pipeliner{}
	_, err := t.rtx.TxPipelined(context.Background(), func(tp redis.Pipeliner) error {
		p.pipe = tp
		fn(p)
		return nil
	})
	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return store.ErrWatchConflict
		}
		return wrapErr("TXPIPELINE", err)
	}
	p.runDeferred()
	return nil
}

// Watch implements the optimistic-concurrency discipline scheduler.PopDue
// relies on: fn reads current state through the Tx, then stages a
// MULTI/EXEC batch via Tx.Pipeline. If any watched key changed since the
// WATCH began, that Pipeline call (and therefore Watch) returns
// store.ErrWatchConflict so the caller can retry.
func (s *Store) Watch(ctx context.Context, fn func(store.Tx) error, keys ...string) error {
	err := s.rdb.Watch(ctx, func(rtx *redis.Tx) error {
		return fn(&tx{rtx: rtx})
	}, keys...)
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrWatchConflict) || errors.Is(err, redis.TxFailedErr) {
		return store.ErrWatchConflict
	}
	return wrapErr("WATCH", err)
}
