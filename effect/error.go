// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import "fmt"

// UnhandledError is the panic value raised when a handler meets an
// operation it does not know.
type UnhandledError struct {
	Handler string
	Op      Operation
}

func (e *UnhandledError) Error() string {
	return fmt.Sprintf("effect: unhandled operation %T in %s", e.Op, e.Handler)
}

// Throw is the operation raised by [Fail].
// Its continuation is never resumed.
type Throw struct{ Err error }

func (Throw) OpResult() Resumed { panic("phantom") }

// Fail aborts the unit of work with err.
// Unless an enclosing [Recover] catches it, the host sees a [Throw]
// suspension and abandons the rest of the work.
func Fail[A any](err error) Eff[A] {
	return func(k func(A) Resumed) Resumed {
		return &opMarker[A]{op: Throw{Err: err}, k: k}
	}
}

// recovered marks the completion of a body run under [Recover].
type recovered[A any] struct{ v A }

func recoveredCont[A any](a A) Resumed { return recovered[A]{v: a} }

// Recover runs body, handing any failure raised inside it to handler.
// Failures raised after body completes, by the rest of the unit of work,
// are not caught. Other operations pass through to the host unchanged.
func Recover[A any](body Eff[A], handler func(error) Eff[A]) Eff[A] {
	return func(k func(A) Resumed) Resumed {
		return recoverStep(body(recoveredCont[A]), handler, k)
	}
}

func recoverStep[A any](r Resumed, handler func(error) Eff[A], k func(A) Resumed) Resumed {
	switch x := r.(type) {
	case recovered[A]:
		return k(x.v)
	case suspended:
		if t, ok := x.Op().(Throw); ok {
			return handler(t.Err)(k)
		}
		return &relay{op: x.Op(), next: func(v Resumed) Resumed {
			return recoverStep(x.Resume(v), handler, k)
		}}
	}
	return k(resumedAs[A](r))
}

// Attempt runs body and reifies its failure as Left.
func Attempt[A any](body Eff[A]) Eff[Either[error, A]] {
	return Recover(
		Map(body, Right[error, A]),
		func(err error) Eff[Either[error, A]] { return Pure(Left[error, A](err)) },
	)
}

// Either represents a value that is either Left (error) or Right (success).
type Either[E, A any] struct {
	isRight bool
	left    E
	right   A
}

// Left creates a Left (error) value.
func Left[E, A any](e E) Either[E, A] {
	return Either[E, A]{left: e}
}

// Right creates a Right (success) value.
func Right[E, A any](a A) Either[E, A] {
	return Either[E, A]{isRight: true, right: a}
}

// IsRight returns true if this is a Right value.
func (e Either[E, A]) IsRight() bool { return e.isRight }

// IsLeft returns true if this is a Left value.
func (e Either[E, A]) IsLeft() bool { return !e.isRight }

// GetRight returns the Right value and true, or zero and false.
func (e Either[E, A]) GetRight() (A, bool) {
	if e.isRight {
		return e.right, true
	}
	var zero A
	return zero, false
}

// GetLeft returns the Left value and true, or zero and false.
func (e Either[E, A]) GetLeft() (E, bool) {
	if !e.isRight {
		return e.left, true
	}
	var zero E
	return zero, false
}

// MatchEither pattern matches on the Either, calling onLeft or onRight.
func MatchEither[E, A, T any](e Either[E, A], onLeft func(E) T, onRight func(A) T) T {
	if e.isRight {
		return onRight(e.right)
	}
	return onLeft(e.left)
}

// MapEither applies a function to the Right value.
func MapEither[E, A, B any](e Either[E, A], f func(A) B) Either[E, B] {
	if e.isRight {
		return Right[E](f(e.right))
	}
	return Left[E, B](e.left)
}
