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

// Package event implements a one-to-many notification Feed, adapted from
// the teacher's event package. It realizes spec.md §1's "pub/sub
// notification of schedule events (left as an extension hook)": scheduler
// optionally sends scheduler.Event values on a Feed, and nothing in the
// core WATCH/MULTI/EXEC protocol depends on whether anyone is subscribed.
package event

import (
	"errors"
	"reflect"
	"sync"
)

var errBadChannel = errors.New("event: Subscribe argument does not have sendable channel type")

// Feed implements one-to-many notification: an event sent to a Feed is
// delivered to every subscribed channel. Feeds may only be used with a
// single type; the type is set by the first Send or Subscribe call. The
// zero value is ready to use.
type Feed struct {
	once      sync.Once
	sendLock  chan struct{}
	removeSub chan any
	sendCases caseList

	mu     sync.Mutex
	typemu sync.Mutex
	etype  reflect.Type
}

func (f *Feed) init() {
	f.removeSub = make(chan any)
	f.sendLock = make(chan struct{}, 1)
	f.sendLock <- struct{}{}
	f.sendCases = caseList{{Chan: reflect.ValueOf(f.removeSub), Dir: reflect.SelectRecv}}
}

// Subscription represents a subscription through which events are
// delivered.
type Subscription interface {
	Err() <-chan error
	Unsubscribe()
}

type feedSub struct {
	feed    *Feed
	channel reflect.Value
	errOnce sync.Once
	err     chan error
}

// Subscribe adds a channel to the feed. Future sends on the feed will be
// delivered on the channel until the subscription is canceled. All
// subscribed channels must have the same element type as the first
// argument to Subscribe.
func (f *Feed) Subscribe(channel any) Subscription {
	f.once.Do(f.init)

	chanval := reflect.ValueOf(channel)
	chantyp := chanval.Type()
	if chantyp.Kind() != reflect.Chan || chantyp.ChanDir()&reflect.SendDir == 0 {
		panic(errBadChannel)
	}
	sub := &feedSub{feed: f, channel: chanval, err: make(chan error, 1)}

	f.typemu.Lock()
	defer f.typemu.Unlock()
	if !f.registerNewType(chantyp.Elem()) {
		panic(feedTypeError{op: "Subscribe", got: chantyp.Elem(), want: f.etype})
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	cas := reflect.SelectCase{Dir: reflect.SelectSend, Chan: chanval}
	f.sendCases = append(f.sendCases, cas)
	return sub
}

func (f *Feed) registerNewType(elem reflect.Type) bool {
	if f.etype == nil {
		f.etype = elem
		return true
	}
	return f.etype == elem
}

func (sub *feedSub) Unsubscribe() {
	sub.errOnce.Do(func() {
		sub.feed.remove(sub)
		close(sub.err)
	})
}

func (sub *feedSub) Err() <-chan error {
	return sub.err
}

func (f *Feed) remove(sub *feedSub) {
	ch := sub.channel.Interface()
	f.mu.Lock()
	index := f.sendCases.find(ch)
	if index == -1 {
		f.mu.Unlock()
		return
	}
	f.sendCases = f.sendCases.delete(index)
	f.mu.Unlock()
}

// Send delivers v to all subscribed channels. It returns the number of
// subscribers that the value was sent to.
func (f *Feed) Send(value any) (nsent int) {
	rvalue := reflect.ValueOf(value)

	f.once.Do(f.init)
	<-f.sendLock

	f.typemu.Lock()
	if !f.registerNewType(rvalue.Type()) {
		f.typemu.Unlock()
		f.sendLock <- struct{}{}
		panic(feedTypeError{op: "Send", got: rvalue.Type(), want: f.etype})
	}
	f.typemu.Unlock()

	f.mu.Lock()
	cases := append(caseList{}, f.sendCases...)
	f.mu.Unlock()

	for i := 1; i < len(cases); i++ {
		cases[i].Send = rvalue
	}

	for len(cases) > 1 {
		chosen, _, _ := reflect.Select(cases)
		if chosen == 0 {
			continue
		}
		cases = cases.deactivate(chosen)
		nsent++
	}

	for i := 1; i < len(cases); i++ {
		cases[i].Send = reflect.Value{}
	}
	f.sendLock <- struct{}{}
	return nsent
}

type feedTypeError struct {
	got, want reflect.Type
	op        string
}

func (e feedTypeError) Error() string {
	return "event: wrong type in " + e.op + " got " + e.got.String() + ", want " + e.want.String()
}
