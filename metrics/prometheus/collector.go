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

// Package prometheus renders a metrics.Registry in Prometheus text
// exposition format, adapted from the teacher's metrics/prometheus
// collector (which does the same against its own go-metrics-derived
// registry rather than depending on client_golang).
package prometheus

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gamechanger/resched/metrics"
)

type collector struct {
	buff strings.Builder
}

func newCollector() *collector { return &collector{} }

func (c *collector) Add(name string, i any) {
	mName := sanitize(name)
	switch v := i.(type) {
	case metrics.Counter:
		fmt.Fprintf(&c.buff, "# TYPE %s counter\n%s %d\n", mName, mName, v.Snapshot().Count())
	case metrics.Gauge:
		fmt.Fprintf(&c.buff, "# TYPE %s gauge\n%s %d\n", mName, mName, v.Snapshot().Value())
	}
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// Collect renders every instrument in r as Prometheus text exposition
// format, in stable (sorted) name order so output is deterministic across
// scrapes.
func Collect(r metrics.Registry) string {
	names := []string{}
	items := map[string]any{}
	r.Each(func(name string, i any) {
		names = append(names, name)
		items[name] = i
	})
	sort.Strings(names)

	c := newCollector()
	for _, name := range names {
		c.Add(name, items[name])
	}
	return c.buff.String()
}
