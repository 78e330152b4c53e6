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

package event

import (
	"reflect"
	"testing"
	"time"
)

func TestFeedSendAndSubscribe(t *testing.T) {
	var f Feed
	ch1 := make(chan int, 1)
	ch2 := make(chan int, 1)
	sub1 := f.Subscribe(ch1)
	sub2 := f.Subscribe(ch2)
	defer sub1.Unsubscribe()
	defer sub2.Unsubscribe()

	n := f.Send(42)
	if n != 2 {
		t.Fatalf("expected 2 subscribers notified, got %d", n)
	}
	select {
	case v := <-ch1:
		if v != 42 {
			t.Fatalf("ch1 got %d, want 42", v)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting on ch1")
	}
	select {
	case v := <-ch2:
		if v != 42 {
			t.Fatalf("ch2 got %d, want 42", v)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting on ch2")
	}
}

func TestFeedUnsubscribeStopsDelivery(t *testing.T) {
	var f Feed
	ch := make(chan int, 1)
	sub := f.Subscribe(ch)
	sub.Unsubscribe()

	n := f.Send(1)
	if n != 0 {
		t.Fatalf("expected 0 subscribers after unsubscribe, got %d", n)
	}
}

func TestFeedTypeMismatchPanics(t *testing.T) {
	var f Feed
	f.Send(1)
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on type mismatch")
		}
		if _, ok := r.(feedTypeError); !ok {
			t.Fatalf("expected feedTypeError, got %v (%s)", r, reflect.TypeOf(r))
		}
	}()
	f.Send("not an int")
}
