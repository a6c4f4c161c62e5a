// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package arbor_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"code.hybscloud.com/arbor"
	"code.hybscloud.com/arbor/effect"
)

// requireRepresentation runs f and requires it to panic with a
// *RepresentationError wrapping want.
func requireRepresentation(t *testing.T, want error, f func()) {
	t.Helper()
	var got any
	func() {
		defer func() { got = recover() }()
		f()
	}()
	require.NotNil(t, got, "expected panic wrapping %v", want)
	err, ok := got.(error)
	require.True(t, ok, "panic value %T is not an error", got)
	var re *arbor.RepresentationError
	require.True(t, errors.As(err, &re), "panic %v is not a RepresentationError", err)
	require.ErrorIs(t, err, want)
}

type (
	inject   = func(int) effect.Event
	schedule = func(effect.Event)
)

// counter is a leaf over a step input: an action n adds step*n.
func counter(step arbor.Value[int], calls *int) arbor.Computation[int, int, int] {
	return arbor.Leaf(step, arbor.Comparable(0), arbor.Actions[int](),
		func(_ inject, _ schedule, s int, m int, a int) int { return m + s*a },
		func(_ inject, s int, m int) int {
			if calls != nil {
				*calls++
			}
			return m
		},
	)
}

// setter is a leaf whose action replaces its model and whose compute
// records the model it was run at.
func setter(def int, seen *[]int) arbor.Computation[int, int, int] {
	return arbor.Leaf(arbor.Const(arbor.Unit{}), arbor.Comparable(def), arbor.Actions[int](),
		func(_ inject, _ schedule, _ arbor.Unit, _ int, a int) int { return a },
		func(_ inject, _ arbor.Unit, m int) int {
			*seen = append(*seen, m)
			return m
		},
	)
}
