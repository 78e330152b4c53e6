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

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// terminalHandler renders records as "LEVEL [time] msg key=val key=val",
// the teacher's terminal log line shape, minus color support and the
// dynamic per-file vmodule verbosity (not needed by a library with no
// long-running multi-subsystem process of its own).
type terminalHandler struct {
	mu     *sync.Mutex
	out    io.Writer
	level  Level
	attrs  []slog.Attr
	groups []string
}

// NewTerminalHandler returns a handler writing human-readable lines to out
// at the given minimum level.
func NewTerminalHandler(out io.Writer, level Level) slog.Handler {
	return &terminalHandler{mu: new(sync.Mutex), out: out, level: level}
}

func (h *terminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.Level(h.level)
}

func (h *terminalHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	fmt.Fprintf(h.out, "%-5s [%s] %s", Level(r.Level).String(), r.Time.Format("01-02|15:04:05.000"), r.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(h.out, " %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(h.out, " %s=%v", prefixed(h.groups, a.Key), a.Value)
		return true
	})
	fmt.Fprintln(h.out)
	return nil
}

func (h *terminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &cp
}

func (h *terminalHandler) WithGroup(name string) slog.Handler {
	cp := *h
	cp.groups = append(append([]string{}, h.groups...), name)
	return &cp
}

func prefixed(groups []string, key string) string {
	if len(groups) == 0 {
		return key
	}
	out := ""
	for _, g := range groups {
		out += g + "."
	}
	return out + key
}

// NewJSONHandler returns a slog.JSONHandler at the given minimum level, for
// deployments that ship logs to a collector rather than a terminal.
func NewJSONHandler(out io.Writer, level Level) slog.Handler {
	return slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.Level(level)})
}
