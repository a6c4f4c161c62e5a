// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package arbor_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/arbor"
)

func tally(key arbor.Value[string], data arbor.Value[int]) arbor.Computation[int, int, string] {
	return arbor.Leaf(arbor.Both(key, data), arbor.Comparable(0), arbor.Actions[int](),
		func(_ inject, _ schedule, _ arbor.Pair[string, int], m int, a int) int { return m + a },
		func(_ inject, in arbor.Pair[string, int], m int) string {
			return fmt.Sprintf("%s=%d+%d", in.Fst, in.Snd, m)
		},
	)
}

func TestAssocLifecycle(t *testing.T) {
	ctx := context.Background()
	in := arbor.NewVar(arbor.MapOf(map[string]int{"A": 1, "B": 2}))
	d := arbor.NewDriver(arbor.Assoc(arbor.Watch(in), tally))

	r := d.Result()
	assert.Equal(t, []string{"A", "B"}, r.Keys())
	a, _ := r.Get("A")
	assert.Equal(t, "A=1+0", a)

	d.Apply(ctx, arbor.KeyedAction[string, int]{Key: "A", Action: 5})
	a, _ = d.Result().Get("A")
	assert.Equal(t, "A=1+5", a)

	in.Update(func(m arbor.Map[string, int]) arbor.Map[string, int] { return m.Delete("A") })
	r = d.Result()
	assert.Equal(t, []string{"B"}, r.Keys())
	assert.Equal(t, []string{"B"}, d.Model().Keys())

	in.Update(func(m arbor.Map[string, int]) arbor.Map[string, int] { return m.Set("A", 1) })
	r = d.Result()
	assert.Equal(t, []string{"A", "B"}, r.Keys())
	a, _ = r.Get("A")
	assert.Equal(t, "A=1+0", a, "a returning key starts from the default model")
}

func TestAssocStaleRouting(t *testing.T) {
	ctx := context.Background()
	in := arbor.NewVar(arbor.MapOf(map[string]int{"A": 1, "B": 2}))
	d := arbor.NewDriver(arbor.Assoc(arbor.Watch(in), tally))
	d.Apply(ctx, arbor.KeyedAction[string, int]{Key: "B", Action: 1})

	model, result := d.Model(), d.Result()
	d.Apply(ctx, arbor.KeyedAction[string, int]{Key: "C", Action: 7})

	assert.True(t, model.Equal(d.Model()))
	assert.True(t, result.Equal(d.Result()))
	assert.Equal(t, []string{"A", "B"}, d.Model().Keys())
}

func TestAssocElementsRecomputeIndependently(t *testing.T) {
	ctx := context.Background()
	calls := map[string]int{}
	by := func(key arbor.Value[string], data arbor.Value[int]) arbor.Computation[int, int, int] {
		return arbor.Leaf(arbor.Both(key, data), arbor.Comparable(0), arbor.Actions[int](),
			func(_ inject, _ schedule, _ arbor.Pair[string, int], m int, a int) int { return m + a },
			func(_ inject, in arbor.Pair[string, int], m int) int {
				calls[in.Fst]++
				return in.Snd * m
			},
		)
	}
	in := arbor.NewVar(arbor.MapOf(map[string]int{"A": 1, "B": 2}))
	d := arbor.NewDriver(arbor.Assoc(arbor.Watch(in), by))
	d.Result()

	d.Apply(ctx, arbor.KeyedAction[string, int]{Key: "A", Action: 3})
	d.Result()
	in.Update(func(m arbor.Map[string, int]) arbor.Map[string, int] { return m.Set("B", 5) })
	r := d.Result()

	assert.Equal(t, map[string]int{"A": 2, "B": 2}, calls)
	b, _ := r.Get("B")
	assert.Equal(t, 0, b)
	a, _ := r.Get("A")
	assert.Equal(t, 3, a)
}

func TestAssocResultReusedWhenUnchanged(t *testing.T) {
	in := arbor.NewVar(arbor.MapOf(map[string]int{"A": 1}))
	d := arbor.NewDriver(arbor.Assoc(arbor.Watch(in), tally))
	first := d.Result()
	second := d.Result()
	assert.True(t, first.Equal(second))
}

func TestAssocOrder(t *testing.T) {
	desc := arbor.Order[int](func(a, b int) int { return b - a })
	src := arbor.NewMap[int, string](desc).Set(1, "one").Set(3, "three").Set(2, "two")
	c := arbor.Assoc(arbor.Const(src), func(_ arbor.Value[int], data arbor.Value[string]) arbor.Computation[arbor.Unit, arbor.Never, int] {
		return arbor.Return(arbor.Derive(data, func(s string) int { return len(s) }))
	})
	r := arbor.NewDriver(c).Result()
	assert.Equal(t, []int{3, 2, 1}, r.Keys())
	n, _ := r.Get(3)
	assert.Equal(t, 5, n)
}

func TestAssocSyncDropsRemovedState(t *testing.T) {
	ctx := context.Background()
	in := arbor.NewVar(arbor.MapOf(map[string]int{"A": 1, "B": 2}))
	d := arbor.NewDriver(arbor.Assoc(arbor.Watch(in), tally))
	d.Apply(ctx, arbor.KeyedAction[string, int]{Key: "A", Action: 5})

	in.Update(func(m arbor.Map[string, int]) arbor.Map[string, int] { return m.Delete("A") })
	d.Sync()
	assert.Equal(t, []string{"B"}, d.Model().Keys())

	in.Update(func(m arbor.Map[string, int]) arbor.Map[string, int] { return m.Set("A", 1) })
	a, _ := d.Result().Get("A")
	assert.Equal(t, "A=1+0", a)
}

func TestAssocSharesInputOrder(t *testing.T) {
	ctx := context.Background()
	in := arbor.NewVar(arbor.MapOf(map[string]int{"a": 1, "A": 2}))
	d := arbor.NewDriver(arbor.Assoc(arbor.Watch(in), tally))

	assert.Equal(t, []string{"A", "a"}, d.Result().Keys())
	d.Apply(ctx, arbor.KeyedAction[string, int]{Key: "a", Action: 5})
	r := d.Result()
	a, _ := r.Get("a")
	upper, _ := r.Get("A")
	assert.Equal(t, "a=1+5", a)
	assert.Equal(t, "A=2+0", upper, "state of one key must not leak into another")
	assert.Equal(t, []string{"A", "a"}, d.Model().Keys())
}

func TestAssocFoldedInputOrder(t *testing.T) {
	ctx := context.Background()
	fold := arbor.Order[string](func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	in := arbor.NewVar(arbor.NewMap[string, int](fold).Set("b", 1).Set("a", 2))
	d := arbor.NewDriver(arbor.Assoc(arbor.Watch(in), tally))
	d.Apply(ctx, arbor.KeyedAction[string, int]{Key: "A", Action: 3})

	r := d.Result()
	assert.Equal(t, []string{"a", "b"}, r.Keys())
	assert.True(t, r.Has("B"), "the result is ordered by the input's order")
	a, _ := r.Get("a")
	assert.Equal(t, "a=2+3", a)
	assert.True(t, d.Model().Has("B"))
}

func TestAssocNested(t *testing.T) {
	ctx := context.Background()
	groups := arbor.NewVar(arbor.MapOf(map[string]arbor.Map[string, int]{
		"g1": arbor.MapOf(map[string]int{"x": 1}),
		"g2": arbor.MapOf(map[string]int{"y": 2, "z": 3}),
	}))
	c := arbor.Assoc(arbor.Watch(groups),
		func(_ arbor.Value[string], members arbor.Value[arbor.Map[string, int]]) arbor.Computation[arbor.Map[string, int], arbor.KeyedAction[string, int], arbor.Map[string, string]] {
			return arbor.Assoc(members, tally)
		})
	d := arbor.NewDriver(c)

	d.Apply(ctx, arbor.KeyedAction[string, arbor.KeyedAction[string, int]]{
		Key:    "g2",
		Action: arbor.KeyedAction[string, int]{Key: "z", Action: 4},
	})
	g2, ok := d.Result().Get("g2")
	require.True(t, ok)
	z, _ := g2.Get("z")
	assert.Equal(t, "z=3+4", z)

	groups.Update(func(m arbor.Map[string, arbor.Map[string, int]]) arbor.Map[string, arbor.Map[string, int]] {
		g, _ := m.Get("g2")
		return m.Set("g2", g.Delete("z"))
	})
	g2, _ = d.Result().Get("g2")
	assert.Equal(t, []string{"y"}, g2.Keys())
	gm, _ := d.Model().Get("g2")
	assert.Equal(t, []string{"y"}, gm.Keys())
}

type (
	inventory arbor.Map[string, int]
	counts    arbor.Map[string, int]
	labels    arbor.Map[string, string]
)

func TestAssocAs(t *testing.T) {
	ctx := context.Background()
	inv := arbor.MapOf(map[string]int{"apples": 3, "pears": 1})
	in := arbor.Via(
		func(i inventory) arbor.Map[string, int] { return arbor.Map[string, int](i) },
		func(m arbor.Map[string, int]) inventory { return inventory(m) },
	)
	models := arbor.Via(
		func(c counts) arbor.Map[string, int] { return arbor.Map[string, int](c) },
		func(m arbor.Map[string, int]) counts { return counts(m) },
	)
	results := arbor.Via(
		func(l labels) arbor.Map[string, string] { return arbor.Map[string, string](l) },
		func(m arbor.Map[string, string]) labels { return labels(m) },
	)
	c := arbor.AssocAs(arbor.Const(inventory(inv)), tally, in, models, results)
	d := arbor.NewDriver(c)

	d.Apply(ctx, arbor.KeyedAction[string, int]{Key: "pears", Action: 2})
	r := arbor.Map[string, string](d.Result())
	p, _ := r.Get("pears")
	assert.Equal(t, "pears=1+2", p)
	m := arbor.Map[string, int](d.Model())
	n, _ := m.Get("pears")
	assert.Equal(t, 2, n)
}
