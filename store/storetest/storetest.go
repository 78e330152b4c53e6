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

// Package storetest gives queue and scheduler tests a real store.Store
// backed by miniredis, an in-process fake Redis server, so the WATCH/MULTI/
// EXEC and atomic-rotate behavior under test is the real go-redis wire
// protocol rather than a hand-rolled mock.
package storetest

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/gamechanger/resched/store"
	"github.com/gamechanger/resched/store/redisstore"
)

// Harness bundles a store.Store with its backing miniredis server so tests
// can both exercise resched through the Store interface and fast-forward
// store-native TTLs without a real sleep.
type Harness struct {
	Store store.Store
	mr    *miniredis.Miniredis
}

// FastForward advances miniredis's virtual clock, simulating the passage of
// wall time for store-native TTL keys such as the queue's liveness beacons
// (spec.md scenario 3's work_ttl=1s + sleep) without a real sleep. It does
// not move scheduler leases, which are epoch timestamps compared against
// the scheduler's own clock (see scheduler.WithClock).
func (h *Harness) FastForward(d time.Duration) {
	h.mr.FastForward(d)
}

// New starts a miniredis server for the duration of the test and returns a
// Harness wrapping it. The server and client are closed automatically via
// t.Cleanup.
func New(t testing.TB) *Harness {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return &Harness{Store: redisstore.New(client), mr: mr}
}
