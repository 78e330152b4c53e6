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

// Package errs classifies the error kinds that queue and scheduler
// operations can produce, per the error handling design: configuration
// errors, store unavailability, concurrency conflicts, codec errors, and
// detected state inconsistencies.
package errs

import "errors"

// Sentinel kinds. Wrap these with fmt.Errorf("...: %w", ErrX) so callers can
// use errors.Is/errors.As instead of string matching.
var (
	// ErrConfig marks a configuration error: invalid namespace, unknown
	// content kind, unknown strategy, or a pipe target that isn't a Queue.
	// Fails synchronously at construction/registration time.
	ErrConfig = errors.New("resched: configuration error")

	// ErrStore wraps a failure from the underlying store driver. It is
	// surfaced to the caller unchanged; resched performs no internal retry
	// around it other than the optimistic-concurrency loop in PopDue.
	ErrStore = errors.New("resched: store error")

	// ErrConcurrency marks a WATCH/MULTI/EXEC conflict. The scheduler's
	// PopDue loop does not produce it: it retries on store.ErrWatchConflict,
	// which never escapes to a caller.
	ErrConcurrency = errors.New("resched: concurrency conflict")

	// ErrCodec wraps a pack/unpack failure.
	ErrCodec = errors.New("resched: codec error")

	// ErrInconsistent marks a detected violation of invariant S2 (a
	// waiting/inprogress scheduler entry with no payload). The offending
	// value is cleared rather than returned.
	ErrInconsistent = errors.New("resched: inconsistent state")
)

// ConfigError wraps ErrConfig with a caller-facing detail.
func ConfigError(detail string) error {
	return &wrapped{sentinel: ErrConfig, detail: detail}
}

// StoreError wraps ErrStore around the underlying driver error.
func StoreError(op string, cause error) error {
	return &wrapped{sentinel: ErrStore, detail: op, cause: cause}
}

// ConcurrencyError wraps ErrConcurrency with a caller-facing detail.
func ConcurrencyError(detail string) error {
	return &wrapped{sentinel: ErrConcurrency, detail: detail}
}

// CodecError wraps ErrCodec around the underlying codec failure.
func CodecError(detail string, cause error) error {
	return &wrapped{sentinel: ErrCodec, detail: detail, cause: cause}
}

// InconsistentError wraps ErrInconsistent for a detected S2 violation.
func InconsistentError(detail string) error {
	return &wrapped{sentinel: ErrInconsistent, detail: detail}
}

type wrapped struct {
	sentinel error
	detail   string
	cause    error
}

func (w *wrapped) Error() string {
	if w.cause != nil {
		return w.sentinel.Error() + ": " + w.detail + ": " + w.cause.Error()
	}
	return w.sentinel.Error() + ": " + w.detail
}

func (w *wrapped) Unwrap() error {
	if w.cause != nil {
		return &causeChain{w.sentinel, w.cause}
	}
	return w.sentinel
}

// causeChain lets errors.Is match both the sentinel kind and the underlying
// driver error via a single Unwrap chain.
type causeChain struct {
	sentinel error
	cause    error
}

func (c *causeChain) Error() string { return c.sentinel.Error() }
func (c *causeChain) Is(target error) bool {
	return errors.Is(c.sentinel, target) || errors.Is(c.cause, target)
}
func (c *causeChain) Unwrap() error { return c.cause }
