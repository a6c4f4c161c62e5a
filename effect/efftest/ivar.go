// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package efftest provides a deterministic stand-in for asynchronous
// effects: a single-assignment variable and a registry of pending requests
// that a test answers explicitly.
package efftest

import "code.hybscloud.com/arbor/effect"

// Ivar is a single-assignment variable.
// Callbacks registered with Upon run, in registration order, when the
// variable is filled, or immediately if it already is.
type Ivar[T any] struct {
	fill    *effect.Affine[struct{}, T]
	value   T
	full    bool
	waiters []func(T)
}

// NewIvar returns an empty Ivar.
func NewIvar[T any]() *Ivar[T] {
	iv := &Ivar[T]{}
	iv.fill = effect.Once(iv.set)
	return iv
}

func (iv *Ivar[T]) set(v T) struct{} {
	iv.value = v
	iv.full = true
	waiters := iv.waiters
	iv.waiters = nil
	for _, f := range waiters {
		f(v)
	}
	return struct{}{}
}

// Fill assigns v. Panics if the Ivar is already full.
func (iv *Ivar[T]) Fill(v T) {
	if !iv.TryFill(v) {
		panic("efftest: ivar filled twice")
	}
}

// TryFill assigns v and reports whether the Ivar was empty.
func (iv *Ivar[T]) TryFill(v T) bool {
	_, ok := iv.fill.TryResume(v)
	return ok
}

// Peek returns the value and true once filled.
func (iv *Ivar[T]) Peek() (T, bool) {
	return iv.value, iv.full
}

// IsFull reports whether the Ivar has been filled.
func (iv *Ivar[T]) IsFull() bool { return iv.full }

// Upon runs f with the value once the Ivar is filled.
func (iv *Ivar[T]) Upon(f func(T)) {
	if iv.full {
		f(iv.value)
		return
	}
	iv.waiters = append(iv.waiters, f)
}
