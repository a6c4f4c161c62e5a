// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package arbor

import (
	"errors"
	"fmt"

	"code.hybscloud.com/arbor/effect"
)

// Representation errors: the tree was wired into a state it cannot
// represent. They are raised by panicking with a *RepresentationError
// wrapping one of these.
var (
	// ErrUnknownBranch reports an Enum selector yielding a key outside
	// the branch set.
	ErrUnknownBranch = errors.New("arbor: selected branch not in branch set")

	// ErrUnboundBinding reports a Sub binding evaluated outside the
	// subtree it was created for.
	ErrUnboundBinding = errors.New("arbor: binding evaluated outside its scope")

	// ErrActionType reports a case action whose payload does not have
	// the action type of the branch it targets.
	ErrActionType = errors.New("arbor: action type does not match branch")

	// ErrModelType reports a packed model whose dynamic type does not
	// match its branch.
	ErrModelType = errors.New("arbor: model type does not match branch")

	// ErrAbsurd reports a value of an uninhabited type reaching code.
	ErrAbsurd = errors.New("arbor: value of uninhabited type")

	// ErrTypeMismatch reports a type-equality proof over distinct types.
	ErrTypeMismatch = errors.New("arbor: types are not equal")
)

// Host errors, returned by Driver.Flush.
var (
	// ErrTooManySteps reports a flush that exceeded its step budget,
	// usually an event that schedules itself forever.
	ErrTooManySteps = errors.New("arbor: flush step budget exhausted")

	// ErrUnhandledOp reports an operation no performer accepted.
	ErrUnhandledOp = errors.New("arbor: unhandled operation")
)

// RepresentationError is the panic value of a representation error.
type RepresentationError struct {
	Err    error
	Detail string
}

func (e *RepresentationError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Detail
}

func (e *RepresentationError) Unwrap() error { return e.Err }

// representation panics with a *RepresentationError.
//
//go:noinline
func representation(err error, format string, args ...any) {
	panic(&RepresentationError{Err: err, Detail: fmt.Sprintf(format, args...)})
}

// EventError is a failure raised by a scheduled event and not recovered
// inside it.
type EventError struct {
	Op  effect.Operation
	Err error
}

func (e *EventError) Error() string {
	if e.Op == nil {
		return "arbor: event failed: " + e.Err.Error()
	}
	return fmt.Sprintf("arbor: event failed at %T: %v", e.Op, e.Err)
}

func (e *EventError) Unwrap() error { return e.Err }

// Unit is the model of nodes with no state.
type Unit = struct{}

// Never is the action type of nodes that accept no actions.
// Its method is unexported, so a type outside this package satisfies it
// only by embedding Never. No value of it, nil or not, is ever applied:
// every entry point rejects it through Absurd.
type Never interface {
	never()
}

// Absurd eliminates a Never. It always panics.
func Absurd[T any](n Never) T {
	representation(ErrAbsurd, "%v", n)
	panic("unreachable")
}
