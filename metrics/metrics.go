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

// Package metrics is a small go-metrics-style registry adapted from the
// teacher's own metrics package: a global Enabled switch, typed Counter/
// Gauge instruments, and a process-wide Registry. Queue and scheduler
// register instruments lazily through NewRegisteredCounter/Gauge so they
// cost nothing when metrics are disabled.
package metrics

import "sync"

// Enabled controls whether instruments record at all. False by default,
// matching the teacher's convention of metrics being opt-in so a library
// consumer who never calls Enable() pays no bookkeeping cost.
var Enabled = false

// Enable flips Enabled on. Call this once at process startup (cmd/reschedctl
// does so before constructing any Queue/Scheduler).
func Enable() { Enabled = true }

// Counter is a monotonic-or-not running total (go-metrics' Counter shape).
type Counter interface {
	Inc(int64)
	Dec(int64)
	Clear()
	Snapshot() Counter
	Count() int64
}

type counter struct {
	mu    sync.Mutex
	count int64
}

// NewCounter returns a standalone Counter, not registered anywhere.
func NewCounter() Counter { return &counter{} }

func (c *counter) Inc(n int64) {
	if !Enabled {
		return
	}
	c.mu.Lock()
	c.count += n
	c.mu.Unlock()
}

func (c *counter) Dec(n int64) {
	if !Enabled {
		return
	}
	c.mu.Lock()
	c.count -= n
	c.mu.Unlock()
}

func (c *counter) Clear() {
	c.mu.Lock()
	c.count = 0
	c.mu.Unlock()
}

func (c *counter) Count() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func (c *counter) Snapshot() Counter {
	return &counter{count: c.Count()}
}

// Gauge holds an instantaneous value (queue depth, in-progress count).
type Gauge interface {
	Update(int64)
	Snapshot() Gauge
	Value() int64
}

type gauge struct {
	mu  sync.Mutex
	val int64
}

// NewGauge returns a standalone Gauge, not registered anywhere.
func NewGauge() Gauge { return &gauge{} }

func (g *gauge) Update(v int64) {
	if !Enabled {
		return
	}
	g.mu.Lock()
	g.val = v
	g.mu.Unlock()
}

func (g *gauge) Value() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.val
}

func (g *gauge) Snapshot() Gauge {
	return &gauge{val: g.Value()}
}

// Registry is a named collection of instruments, the unit cmd/reschedctl
// exports over /metrics.
type Registry interface {
	Register(name string, i any)
	Get(name string) any
	Each(func(name string, i any))
}

type registry struct {
	mu    sync.Mutex
	items map[string]any
}

// NewRegistry returns an empty Registry.
func NewRegistry() Registry {
	return &registry{items: make(map[string]any)}
}

func (r *registry) Register(name string, i any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[name] = i
}

func (r *registry) Get(name string) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[name]
}

func (r *registry) Each(fn func(name string, i any)) {
	r.mu.Lock()
	snapshot := make(map[string]any, len(r.items))
	for k, v := range r.items {
		snapshot[k] = v
	}
	r.mu.Unlock()
	for k, v := range snapshot {
		fn(k, v)
	}
}

// DefaultRegistry is the process-wide registry NewRegisteredCounter/Gauge
// use, mirroring the teacher's metrics.DefaultRegistry.
var DefaultRegistry = NewRegistry()

// NewRegisteredCounter creates a Counter and registers it in r (or
// DefaultRegistry if r is nil).
func NewRegisteredCounter(name string, r Registry) Counter {
	c := NewCounter()
	if r == nil {
		r = DefaultRegistry
	}
	r.Register(name, c)
	return c
}

// NewRegisteredGauge creates a Gauge and registers it in r (or
// DefaultRegistry if r is nil).
func NewRegisteredGauge(name string, r Registry) Gauge {
	g := NewGauge()
	if r == nil {
		r = DefaultRegistry
	}
	r.Register(name, g)
	return g
}
