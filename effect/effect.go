// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// unhandledEffect panics with a descriptive message for unmatched operations.
//
//go:noinline
func unhandledEffect(handler string, op Operation) {
	panic(&UnhandledError{Handler: handler, Op: op})
}

// Operation is the interface for effect operations in handler dispatch.
type Operation any

// Resumed is the interface for values flowing through suspension and
// resumption. Every [Eff] answers with Resumed.
type Resumed any

// Op is the F-bounded interface for effect operations.
// The self-referencing constraint gives the compiler knowledge of both the
// concrete operation type and its result type.
//
// Example:
//
//	type Now struct{ effect.Phantom[time.Time] }
type Op[O Op[O, A], A any] interface {
	OpResult() A // phantom type marker for result
}

// Phantom is an embeddable zero-size type that provides the [Op] result
// marker.
type Phantom[A any] struct{}

// OpResult implements the phantom type marker for [Op].
func (Phantom[A]) OpResult() A { panic("phantom") }

// Handler is the F-bounded interface for synchronous effect handlers.
//
// The Dispatch method returns (resumeValue, true) to continue the
// computation, or (finalResult, false) to short-circuit and return
// immediately.
type Handler[H Handler[H, R], R any] interface {
	Dispatch(op Operation) (Resumed, bool)
}

// handlerFunc wraps a dispatch function as a concrete Handler.
type handlerFunc[R any] struct {
	f func(op Operation) (Resumed, bool)
}

func (h *handlerFunc[R]) Dispatch(op Operation) (Resumed, bool) {
	return h.f(op)
}

// HandleFunc creates a handler from a dispatch function.
func HandleFunc[R any](f func(op Operation) (Resumed, bool)) *handlerFunc[R] {
	return &handlerFunc[R]{f: f}
}

// suspended is a unit of work stopped at an operation.
// Implemented by opMarker and by the relay frames of [Recover].
type suspended interface {
	Op() Operation
	Resume(Resumed) Resumed
}

// opMarker holds a performed operation and its typed continuation.
type opMarker[A any] struct {
	op Operation
	k  func(A) Resumed
}

func (m *opMarker[A]) Op() Operation { return m.op }

func (m *opMarker[A]) Resume(v Resumed) Resumed { return m.k(resumedAs[A](v)) }

// relay forwards a suspension raised inside a scoped body and reinstalls
// the scope on resumption.
type relay struct {
	op   Operation
	next func(Resumed) Resumed
}

func (r *relay) Op() Operation { return r.op }

func (r *relay) Resume(v Resumed) Resumed { return r.next(v) }

// Perform triggers an effect operation and suspends the unit of work.
// Whoever runs it receives the operation and provides the resume value.
func Perform[O Op[O, A], A any](op O) Eff[A] {
	return func(k func(A) Resumed) Resumed {
		return &opMarker[A]{op: op, k: k}
	}
}

// Handle runs a unit of work with an F-bounded handler until it completes
// or the handler short-circuits.
func Handle[H Handler[H, R], R any](m Eff[R], h H) R {
	result := m(toResumed[R])
	for {
		s, ok := result.(suspended)
		if !ok {
			return resumedAs[R](result)
		}
		v, resume := h.Dispatch(s.Op())
		if !resume {
			return resumedAs[R](v)
		}
		result = s.Resume(v)
	}
}
