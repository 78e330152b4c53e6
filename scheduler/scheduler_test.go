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
	"testing"
	"time"

	"github.com/gamechanger/resched/codec"
	"github.com/gamechanger/resched/store/storetest"
)

func newTestScheduler(t *testing.T, ns string, opts ...Option) (*Scheduler, *storetest.Harness) {
	t.Helper()
	h := storetest.New(t)
	c, err := codec.New(codec.String)
	if err != nil {
		t.Fatalf("codec.New: %v", err)
	}
	s, err := New(h.Store, ns, c, opts...)
	if err != nil {
		t.Fatalf("scheduler.New: %v", err)
	}
	return s, h
}

func TestScheduleAndPopDueRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestScheduler(t, "rt")

	past := time.Now().Add(-time.Minute)
	if err := s.Schedule(ctx, "a", past, WithPayload("aaa")); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	r, err := s.PopDue(ctx)
	if err != nil {
		t.Fatalf("PopDue: %v", err)
	}
	if !r.Found || r.Key != "a" || r.Payload != "aaa" {
		t.Fatalf("PopDue = %+v, want key=a payload=aaa", r)
	}
	if err := s.Complete(ctx, "a"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	scheduled, err := s.IsScheduled(ctx, "a")
	if err != nil {
		t.Fatalf("IsScheduled: %v", err)
	}
	if scheduled {
		t.Fatal("IsScheduled(a) after Complete = true, want false")
	}
}

func TestPopDueNotYetDue(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestScheduler(t, "future")

	future := time.Now().Add(time.Hour)
	if err := s.Schedule(ctx, "a", future); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	r, err := s.PopDue(ctx)
	if err != nil {
		t.Fatalf("PopDue: %v", err)
	}
	if r.Found {
		t.Fatalf("PopDue on not-yet-due task = %+v, want Found=false", r)
	}
}

func TestPopDueEmpty(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestScheduler(t, "empty")

	r, err := s.PopDue(ctx)
	if err != nil {
		t.Fatalf("PopDue: %v", err)
	}
	if r.Found {
		t.Fatalf("PopDue on empty scheduler = %+v, want Found=false", r)
	}
}

func TestPopDueOrderingNonDecreasing(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestScheduler(t, "order")

	base := time.Now().Add(-time.Hour)
	if err := s.Schedule(ctx, "late", base.Add(20*time.Second)); err != nil {
		t.Fatalf("Schedule(late): %v", err)
	}
	if err := s.Schedule(ctx, "early", base); err != nil {
		t.Fatalf("Schedule(early): %v", err)
	}
	if err := s.Schedule(ctx, "mid", base.Add(10*time.Second)); err != nil {
		t.Fatalf("Schedule(mid): %v", err)
	}

	for _, want := range []string{"early", "mid", "late"} {
		r, err := s.PopDue(ctx, Destructive())
		if err != nil {
			t.Fatalf("PopDue: %v", err)
		}
		if !r.Found || r.Key != want {
			t.Fatalf("PopDue = %+v, want key=%s", r, want)
		}
	}
}

func TestPopDueLeaseThenReschedule(t *testing.T) {
	ctx := context.Background()
	h := storetest.New(t)
	c, err := codec.New(codec.String)
	if err != nil {
		t.Fatalf("codec.New: %v", err)
	}
	clock := time.Now()
	s, err := New(h.Store, "lease", c, WithClock(func() time.Time { return clock }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	past := clock.Add(-time.Minute)
	if err := s.Schedule(ctx, "a", past); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if _, err := s.PopDue(ctx, WithProgressTTL(time.Second)); err != nil {
		t.Fatalf("PopDue: %v", err)
	}
	n, err := s.CountScheduled(ctx)
	if err != nil {
		t.Fatalf("CountScheduled: %v", err)
	}
	if n != 0 {
		t.Fatalf("CountScheduled after lease = %d, want 0", n)
	}

	clock = clock.Add(2 * time.Second)
	if err := s.RescheduleDroppedItems(ctx); err != nil {
		t.Fatalf("RescheduleDroppedItems: %v", err)
	}
	n, err = s.CountScheduled(ctx)
	if err != nil {
		t.Fatalf("CountScheduled after reschedule: %v", err)
	}
	if n != 1 {
		t.Fatalf("CountScheduled after reschedule = %d, want 1", n)
	}
}

func TestScheduleWithExpirationPurgedOnPopDue(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestScheduler(t, "expire")

	past := time.Now().Add(-time.Minute)
	expired := time.Now().Add(-time.Second)
	if err := s.Schedule(ctx, "a", past, WithExpireTime(expired)); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	r, err := s.PopDue(ctx)
	if err != nil {
		t.Fatalf("PopDue: %v", err)
	}
	if r.Found {
		t.Fatalf("PopDue on expired task = %+v, want Found=false", r)
	}
	scheduled, err := s.IsScheduled(ctx, "a")
	if err != nil {
		t.Fatalf("IsScheduled: %v", err)
	}
	if scheduled {
		t.Fatal("IsScheduled(a) after expiry purge = true, want false")
	}
}

func TestPeekDueDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestScheduler(t, "peek")

	past := time.Now().Add(-time.Minute)
	if err := s.Schedule(ctx, "a", past, WithPayload("aaa")); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	r, err := s.PeekDue(ctx)
	if err != nil {
		t.Fatalf("PeekDue: %v", err)
	}
	if !r.Found || r.Payload != "aaa" {
		t.Fatalf("PeekDue = %+v, want payload=aaa", r)
	}
	n, err := s.CountScheduled(ctx)
	if err != nil {
		t.Fatalf("CountScheduled: %v", err)
	}
	if n != 1 {
		t.Fatalf("CountScheduled after PeekDue = %d, want 1 (peek must not mutate)", n)
	}
}

func TestDescheduleNonExistentIsNoop(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestScheduler(t, "noop")

	if err := s.Deschedule(ctx, "never-scheduled"); err != nil {
		t.Fatalf("Deschedule on absent key: %v", err)
	}
}
