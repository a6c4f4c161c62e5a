// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// Stepping boundary for hosts.
// Step provides shallow one-effect-at-a-time evaluation, unlike Handle
// which runs a synchronous trampoline to completion.

// Suspension is a unit of work stopped at an operation.
// It holds the pending operation and a one-shot resumption handle.
type Suspension[A any] struct {
	op Operation
	k  *Affine[Resumed, Resumed]
}

// Op returns the operation that caused the suspension.
func (s *Suspension[A]) Op() Operation { return s.op }

// Resume advances the unit of work with v.
// Returns either a completed value (with nil suspension) or the next
// suspension. Panics if the suspension was already resumed or discarded.
func (s *Suspension[A]) Resume(v Resumed) (A, *Suspension[A]) {
	return classify[A](s.k.Resume(v))
}

// TryResume attempts to advance the unit of work.
// Returns (value, suspension, true) on success, or (zero, nil, false) if
// already used.
func (s *Suspension[A]) TryResume(v Resumed) (A, *Suspension[A], bool) {
	r, ok := s.k.TryResume(v)
	if !ok {
		var zero A
		return zero, nil, false
	}
	a, next := classify[A](r)
	return a, next, true
}

// Discard marks the suspension as consumed without resuming.
func (s *Suspension[A]) Discard() {
	s.k.Discard()
}

// Step drives m until it either completes or suspends on an operation.
// Returns (value, nil) on completion, or (zero, suspension) when pending.
//
// Example:
//
//	v, susp := effect.Step(work)
//	for susp != nil {
//	    v, susp = susp.Resume(answer(susp.Op()))
//	}
func Step[A any](m Eff[A]) (A, *Suspension[A]) {
	return classify[A](m(toResumed[A]))
}

// classify splits a Resumed into a completed value or a suspension.
func classify[A any](r Resumed) (A, *Suspension[A]) {
	if s, ok := r.(suspended); ok {
		var zero A
		return zero, &Suspension[A]{op: s.Op(), k: Once(s.Resume)}
	}
	return resumedAs[A](r), nil
}
