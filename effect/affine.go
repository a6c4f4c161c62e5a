// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import "sync/atomic"

// Affine wraps a continuation with one-shot enforcement.
// The continuation can be resumed at most once; later attempts panic
// (Resume) or report false (TryResume).
//
// Parked suspensions are affine: a host must not answer the same request
// twice.
type Affine[R, A any] struct {
	used   atomic.Bool
	resume func(A) R
}

// Once creates an affine continuation.
func Once[R, A any](k func(A) R) *Affine[R, A] {
	return &Affine[R, A]{resume: k}
}

// Resume invokes the continuation with v.
// Panics if the continuation has already been used.
func (a *Affine[R, A]) Resume(v A) R {
	if !a.used.CompareAndSwap(false, true) {
		panic("effect: affine continuation resumed twice")
	}
	return a.resume(v)
}

// TryResume attempts to invoke the continuation.
// Returns (result, true) on success, or (zero, false) if already used.
func (a *Affine[R, A]) TryResume(v A) (R, bool) {
	if !a.used.CompareAndSwap(false, true) {
		var zero R
		return zero, false
	}
	return a.resume(v), true
}

// Discard marks the continuation as used without invoking it.
func (a *Affine[R, A]) Discard() {
	a.used.Store(true)
}

// Used reports whether the continuation was resumed or discarded.
func (a *Affine[R, A]) Used() bool {
	return a.used.Load()
}
