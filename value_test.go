// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package arbor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"code.hybscloud.com/arbor"
)

func TestVar(t *testing.T) {
	v := arbor.NewVar("a")
	s := v.Stamp()
	assert.Equal(t, "a", v.Get())
	v.Set("b")
	assert.Greater(t, v.Stamp(), s)
	v.Update(func(x string) string { return x + "c" })
	assert.Equal(t, "bc", v.Get())
}

func TestDeriveMemoizes(t *testing.T) {
	calls := 0
	v := arbor.NewVar(2)
	d := arbor.NewDriver(arbor.Return(arbor.Derive(arbor.Watch(v), func(x int) int {
		calls++
		return x * 10
	})))
	assert.Equal(t, 20, d.Result())
	assert.Equal(t, 20, d.Result())
	assert.Equal(t, 1, calls)
	v.Set(3)
	assert.Equal(t, 30, d.Result())
	assert.Equal(t, 2, calls)
}

func TestDerive2(t *testing.T) {
	a, b := arbor.NewVar(1), arbor.NewVar("x")
	d := arbor.NewDriver(arbor.Return(arbor.Both(arbor.Watch(a), arbor.Watch(b))))
	assert.Equal(t, arbor.Pair[int, string]{Fst: 1, Snd: "x"}, d.Result())
	b.Set("y")
	assert.Equal(t, arbor.Pair[int, string]{Fst: 1, Snd: "y"}, d.Result())
}

func TestCutoffValue(t *testing.T) {
	calls := 0
	v := arbor.NewVar(1)
	sameDecade := func(a, b int) bool { return a/10 == b/10 }
	d := arbor.NewDriver(arbor.Return(arbor.Derive(arbor.CutoffValue(arbor.Watch(v), sameDecade), func(x int) int {
		calls++
		return x
	})))
	assert.Equal(t, 1, d.Result())
	v.Set(7)
	assert.Equal(t, 1, d.Result(), "equal values keep the old one")
	v.Set(12)
	assert.Equal(t, 12, d.Result())
	assert.Equal(t, 2, calls)
}

func TestDerivationsArePerInstance(t *testing.T) {
	calls := 0
	in := arbor.NewVar(arbor.MapOf(map[string]int{"a": 1, "b": 2}))
	shared := arbor.Derive(arbor.Const(3), func(x int) int {
		calls++
		return x
	})
	c := arbor.Assoc(arbor.Watch(in), func(_ arbor.Value[string], data arbor.Value[int]) arbor.Computation[arbor.Unit, arbor.Never, int] {
		return arbor.Return(arbor.Derive2(shared, data, func(x, y int) int { return x * y }))
	})
	r := arbor.NewDriver(c).Result()
	b, _ := r.Get("b")
	assert.Equal(t, 6, b)
	assert.Equal(t, 2, calls)
}
