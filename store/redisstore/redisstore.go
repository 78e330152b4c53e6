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

// Package redisstore implements store.Store over github.com/redis/go-redis/v9,
// the client the teacher repo already vendors for its ethdb/redisdb driver.
// Only Universal/Cmdable is depended upon so the same code works against a
// standalone client, a cluster client, or (in tests) miniredis.
package redisstore

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gamechanger/resched/errs"
	"github.com/gamechanger/resched/store"
)

// Store adapts a redis.UniversalClient (*redis.Client, *redis.ClusterClient,
// *redis.Ring, or a miniredis-backed client in tests) to store.Store.
// UniversalClient rather than the narrower Cmdable because Watch (needed by
// scheduler.PopDue's optimistic-concurrency loop) isn't part of Cmdable.
type Store struct {
	rdb redis.UniversalClient
}

// New wraps an existing go-redis client. The caller owns the client's
// lifecycle (Close, connection pool sizing, TLS, etc.) — resched never
// constructs one itself, matching spec.md §6's "choice of in-memory-store
// driver [is] out of scope".
func New(rdb redis.UniversalClient) *Store {
	return &Store{rdb: rdb}
}

func wrapErr(op string, err error) error {
	if err == nil || errors.Is(err, redis.Nil) {
		return nil
	}
	return errs.StoreError(op, err)
}

func (s *Store) LPush(ctx context.Context, key string, values ...[]byte) error {
	return wrapErr("LPUSH", s.rdb.LPush(ctx, key, toAny(values)...).Err())
}

func (s *Store) RPush(ctx context.Context, key string, values ...[]byte) error {
	return wrapErr("RPUSH", s.rdb.RPush(ctx, key, toAny(values)...).Err())
}

func (s *Store) LPop(ctx context.Context, key string) ([]byte, error) {
	v, err := s.rdb.LPop(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return v, wrapErr("LPOP", err)
}

func (s *Store) RPop(ctx context.Context, key string) ([]byte, error) {
	v, err := s.rdb.RPop(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return v, wrapErr("RPOP", err)
}

func (s *Store) BLPop(ctx context.Context, timeout time.Duration, keys ...string) (string, []byte, error) {
	res, err := s.rdb.BLPop(ctx, timeout, keys...).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, wrapErr("BLPOP", err)
	}
	return res[0], []byte(res[1]), nil
}

func (s *Store) BRPop(ctx context.Context, timeout time.Duration, keys ...string) (string, []byte, error) {
	res, err := s.rdb.BRPop(ctx, timeout, keys...).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, wrapErr("BRPOP", err)
	}
	return res[0], []byte(res[1]), nil
}

func (s *Store) RPopLPush(ctx context.Context, src, dst string) ([]byte, error) {
	v, err := s.rdb.RPopLPush(ctx, src, dst).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return v, wrapErr("RPOPLPUSH", err)
}

func (s *Store) BRPopLPush(ctx context.Context, src, dst string, timeout time.Duration) ([]byte, error) {
	v, err := s.rdb.BRPopLPush(ctx, src, dst, timeout).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return v, wrapErr("BRPOPLPUSH", err)
}

func (s *Store) LMoveToTail(ctx context.Context, src, dst string) ([]byte, error) {
	v, err := s.rdb.LMove(ctx, src, dst, "right", "right").Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return v, wrapErr("LMOVE", err)
}

func (s *Store) LLen(ctx context.Context, key string) (int64, error) {
	n, err := s.rdb.LLen(ctx, key).Result()
	return n, wrapErr("LLEN", err)
}

func (s *Store) LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error) {
	res, err := s.rdb.LRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, wrapErr("LRANGE", err)
	}
	out := make([][]byte, len(res))
	for i, v := range res {
		out[i] = []byte(v)
	}
	return out, nil
}

func (s *Store) LRem(ctx context.Context, key string, count int64, value []byte) error {
	return wrapErr("LREM", s.rdb.LRem(ctx, key, count, value).Err())
}

func (s *Store) ZAdd(ctx context.Context, key string, member []byte, score float64) error {
	return wrapErr("ZADD", s.rdb.ZAdd(ctx, key, redis.Z{Score: score, Member: string(member)}).Err())
}

func (s *Store) ZRem(ctx context.Context, key string, member []byte) error {
	return wrapErr("ZREM", s.rdb.ZRem(ctx, key, string(member)).Err())
}

func (s *Store) ZScore(ctx context.Context, key string, member []byte) (float64, bool, error) {
	score, err := s.rdb.ZScore(ctx, key, string(member)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, wrapErr("ZSCORE", err)
	}
	return score, true, nil
}

func (s *Store) ZRangeByScore(ctx context.Context, key string, min, max float64, limit int64) ([]store.ZMember, error) {
	opt := &redis.ZRangeBy{Min: floatStr(min), Max: floatStr(max)}
	if limit > 0 {
		opt.Offset, opt.Count = 0, limit
	}
	res, err := s.rdb.ZRangeByScoreWithScores(ctx, key, opt).Result()
	if err != nil {
		return nil, wrapErr("ZRANGEBYSCORE", err)
	}
	return toZMembers(res), nil
}

func (s *Store) ZRangeWithScores(ctx context.Context, key string, start, stop int64) ([]store.ZMember, error) {
	res, err := s.rdb.ZRangeWithScores(ctx, key, start, stop).Result()
	if err != nil {
		return nil, wrapErr("ZRANGE", err)
	}
	return toZMembers(res), nil
}

func (s *Store) ZCard(ctx context.Context, key string) (int64, error) {
	n, err := s.rdb.ZCard(ctx, key).Result()
	return n, wrapErr("ZCARD", err)
}

func (s *Store) HGet(ctx context.Context, key, field string) ([]byte, bool, error) {
	v, err := s.rdb.HGet(ctx, key, field).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, wrapErr("HGET", err)
	}
	return v, true, nil
}

func (s *Store) HSet(ctx context.Context, key, field string, value []byte) error {
	return wrapErr("HSET", s.rdb.HSet(ctx, key, field, value).Err())
}

func (s *Store) HDel(ctx context.Context, key string, fields ...string) error {
	return wrapErr("HDEL", s.rdb.HDel(ctx, key, fields...).Err())
}

func (s *Store) HExists(ctx context.Context, key, field string) (bool, error) {
	ok, err := s.rdb.HExists(ctx, key, field).Result()
	return ok, wrapErr("HEXISTS", err)
}

func (s *Store) HGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	res, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, wrapErr("HGETALL", err)
	}
	out := make(map[string][]byte, len(res))
	for k, v := range res {
		out[k] = []byte(v)
	}
	return out, nil
}

func (s *Store) SAdd(ctx context.Context, key string, members ...[]byte) error {
	return wrapErr("SADD", s.rdb.SAdd(ctx, key, toAny(members)...).Err())
}

func (s *Store) SRem(ctx context.Context, key string, members ...[]byte) error {
	return wrapErr("SREM", s.rdb.SRem(ctx, key, toAny(members)...).Err())
}

func (s *Store) SMembers(ctx context.Context, key string) ([][]byte, error) {
	res, err := s.rdb.SMembers(ctx, key).Result()
	if err != nil {
		return nil, wrapErr("SMEMBERS", err)
	}
	out := make([][]byte, len(res))
	for i, v := range res {
		out[i] = []byte(v)
	}
	return out, nil
}

func (s *Store) SCard(ctx context.Context, key string) (int64, error) {
	n, err := s.rdb.SCard(ctx, key).Result()
	return n, wrapErr("SCARD", err)
}

func (s *Store) SIsMember(ctx context.Context, key string, member []byte) (bool, error) {
	ok, err := s.rdb.SIsMember(ctx, key, member).Result()
	return ok, wrapErr("SISMEMBER", err)
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return wrapErr("SET", s.rdb.Set(ctx, key, value, ttl).Err())
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, wrapErr("GET", err)
	}
	return v, true, nil
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	return wrapErr("DEL", s.rdb.Del(ctx, keys...).Err())
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Exists(ctx, key).Result()
	return n > 0, wrapErr("EXISTS", err)
}

func toAny(values [][]byte) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func toZMembers(zs []redis.Z) []store.ZMember {
	out := make([]store.ZMember, len(zs))
	for i, z := range zs {
		out[i] = store.ZMember{Member: []byte(memberString(z.Member)), Score: z.Score}
	}
	return out
}

func memberString(m any) string {
	switch v := m.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func floatStr(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "+inf"
	case math.IsInf(f, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}
