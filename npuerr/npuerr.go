// Copyright (c) 2025, The FEAGI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package npuerr defines the small set of error kinds the NPU core
// distinguishes: CapacityExceeded, NotFound, InvalidInput, RuntimeError,
// Timeout, and ComputationError. Plain fmt.Errorf/errors.New is used
// throughout the rest of the core; this package exists only where callers
// need to programmatically distinguish kinds via errors.Is/errors.As.
package npuerr

import (
	"errors"
	"fmt"
)

// Kind is one of the error categories from the error handling design.
type Kind int

const (
	// KindCapacityExceeded: a bulk create would exceed storage capacity.
	// The create fails atomically; nothing is partially added.
	KindCapacityExceeded Kind = iota
	// KindNotFound: an unknown CorticalID or NeuronId on lookup/update.
	KindNotFound
	// KindInvalidInput: malformed parameters. Non-fatal: callers get a
	// false/zero return and a logged warning, never an aborted burst.
	KindInvalidInput
	// KindRuntimeError: underlying storage backend failure.
	KindRuntimeError
	// KindTimeout: a host-driven long operation exceeded its deadline.
	KindTimeout
	// KindComputationError: an internal consistency violation, e.g. a
	// neuron referencing an unregistered cortical area.
	KindComputationError
)

func (k Kind) String() string {
	switch k {
	case KindCapacityExceeded:
		return "capacity_exceeded"
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	case KindRuntimeError:
		return "runtime_error"
	case KindTimeout:
		return "timeout"
	case KindComputationError:
		return "computation_error"
	default:
		return "unknown"
	}
}

// Error wraps a Kind with a message and optional underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("npu: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("npu: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, npuerr.NotFound("", nil)) style checks if desired; the
// primary intended usage is errors.As plus a Kind comparison, see KindOf.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New constructs an *Error of the given kind.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap constructs an *Error of the given kind wrapping cause.
func Wrap(kind Kind, msg string, cause error) error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// CapacityExceeded reports a bulk create that would overflow capacity,
// carrying the capacity and the requested count the orchestrator surfaces.
func CapacityExceeded(what string, capacity, requested int) error {
	return &Error{
		Kind: KindCapacityExceeded,
		Msg:  fmt.Sprintf("%s: capacity %d, requested %d", what, capacity, requested),
	}
}

// NotFound reports an unknown id/CorticalID on lookup or update.
func NotFound(what string, key any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf("%s: %v not found", what, key)}
}

// InvalidInput reports a malformed parameter; callers should combine this
// with a false/zero return rather than aborting a burst.
func InvalidInput(what string) error {
	return &Error{Kind: KindInvalidInput, Msg: what}
}

// RuntimeError wraps an underlying storage/backend failure.
func RuntimeError(what string, cause error) error {
	return &Error{Kind: KindRuntimeError, Msg: what, Err: cause}
}

// ComputationError reports an internal consistency violation; callers
// should log it and skip the affected entity rather than abort.
func ComputationError(what string) error {
	return &Error{Kind: KindComputationError, Msg: what}
}

// KindOf extracts the Kind of err if it is (or wraps) an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
