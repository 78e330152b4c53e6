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
	"os"
	"sync/atomic"
)

var root atomic.Value

func init() {
	root.Store(NewLogger(NewTerminalHandler(os.Stderr, LevelInfo)))
}

// Root returns the default Logger. Packages that don't hold their own
// Logger reference (e.g. code reached only from tests) log through this.
func Root() Logger {
	return root.Load().(Logger)
}

// SetDefault replaces the default Logger returned by Root.
func SetDefault(l Logger) {
	root.Store(l)
}

// New returns a child of Root with ctx appended to every record, matching
// the teacher's log.New(ctx...) convenience constructor.
func New(ctx ...any) Logger {
	return Root().With(ctx...)
}
