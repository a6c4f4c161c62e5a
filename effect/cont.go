// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// Eff is a deferred computation producing a value of type A.
//
// The function receives a continuation k, "the rest of the unit of work".
// Running an Eff either reaches k with a value, or returns a suspension on
// an operation that a host must answer before the rest can run.
type Eff[A any] func(k func(A) Resumed) Resumed

// Event is a unit of work run for its effects alone.
type Event = Eff[struct{}]

// Pure lifts a value into a unit of work with no effects.
func Pure[A any](a A) Eff[A] {
	return func(k func(A) Resumed) Resumed {
		return k(a)
	}
}

// Done is the event that does nothing.
func Done() Event {
	return Pure(struct{}{})
}

// Suspend creates a unit of work from a CPS function.
// This is the primitive constructor for units of work that need direct
// access to their continuation.
func Suspend[A any](f func(func(A) Resumed) Resumed) Eff[A] {
	return Eff[A](f)
}

// resumedAs recovers a typed value from the Resumed channel.
// A nil Resumed reads as the zero value.
func resumedAs[A any](v Resumed) A {
	if v == nil {
		var zero A
		return zero
	}
	return v.(A)
}

// toResumed is the identity continuation for entry points (Handle, Step).
// Named generic function produces a static function value per type
// instantiation, avoiding the heap allocation that anonymous closures incur.
func toResumed[A any](a A) Resumed { return a }
