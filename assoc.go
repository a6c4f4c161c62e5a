// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package arbor

import (
	"fmt"

	"code.hybscloud.com/arbor/effect"
)

// KeyedAction addresses Action to the element under Key of an [Assoc].
type KeyedAction[K, A any] struct {
	Key    K
	Action A
}

func (k KeyedAction[K, A]) String() string {
	return fmt.Sprintf("%s: %v", render(k.Key), k.Action)
}

type assocNode[K, V, M, A, R any] struct {
	input Value[Map[K, V]]
	by    Computation[M, A, R]
	key   bindingID
	data  bindingID
}

// Assoc runs one copy of a computation per entry of input.
//
// by is called once, here, with Values standing for the key and the data
// of an entry; the computation it returns is instantiated per key. The
// model and the result are maps from key to the element model and
// result. They are ordered by the order of the input map; the input's
// order must not change between passes.
//
// A key appearing in input gets a fresh element with the default model.
// A key leaving input loses its element and model; if it comes back it
// starts over from the default. Actions addressed to a key that is not in
// input are dropped.
func Assoc[K, V, M, A, R any](
	input Value[Map[K, V]],
	by func(key Value[K], data Value[V]) Computation[M, A, R],
) Computation[Map[K, M], KeyedAction[K, A], Map[K, R]] {
	return AssocAs(input, by, Refl[Map[K, V]](), Refl[Map[K, M]](), Refl[Map[K, R]]())
}

// AssocAs is [Assoc] for collection types that are defined elsewhere as
// maps keyed by K. The tokens convert between In, Ms and Rs and the
// corresponding Map types.
func AssocAs[K, V, M, A, R, In, Ms, Rs any](
	input Value[In],
	by func(key Value[K], data Value[V]) Computation[M, A, R],
	in TypeEq[In, Map[K, V]],
	models TypeEq[Ms, Map[K, M]],
	results TypeEq[Rs, Map[K, R]],
) Computation[Ms, KeyedAction[K, A], Rs] {
	key, data := newBindingID(), newBindingID()
	n := &assocNode[K, V, M, A, R]{
		input: Derive(input, in.To),
		by:    by(bindingValue[K]{id: key}, bindingValue[V]{id: data}),
		key:   key,
		data:  data,
	}
	return retype(Computation[Map[K, M], KeyedAction[K, A], Map[K, R]](n), models, Symm(results))
}

func (n *assocNode[K, V, M, A, R]) Model() ModelWitness[Map[K, M]] {
	return mapWitness[K](n.by.Model())
}

func (n *assocNode[K, V, M, A, R]) Action() ActionWitness[KeyedAction[K, A]] {
	w := n.by.Action()
	return ActionWitness[KeyedAction[K, A]]{Debug: func(a KeyedAction[K, A]) string {
		return render(a.Key) + ": " + w.Debug(a.Action)
	}}
}

func (n *assocNode[K, V, M, A, R]) build(inject func(KeyedAction[K, A]) effect.Event) instance[Map[K, M], KeyedAction[K, A], Map[K, R]] {
	return &assocInst[K, V, M, A, R]{
		n:      n,
		inject: inject,
		memo:   newMemo(),
	}
}

// element is the live state of one key.
type element[M, A, R any] struct {
	inst    instance[M, A, R]
	dataRev rev
}

type assocInst[K, V, M, A, R any] struct {
	n        *assocNode[K, V, M, A, R]
	inject   func(KeyedAction[K, A]) effect.Event
	memo     *memoTable
	elements Map[K, *element[M, A, R]]

	has     bool
	lastRev rev
	last    Map[K, R]
}

// adopt gives the element map and an orderless model map the order of
// in.
func (i *assocInst[K, V, M, A, R]) adopt(in Map[K, V], m Map[K, M]) Map[K, M] {
	if i.elements.Order() == nil && in.Order() != nil {
		i.elements = NewMap[K, *element[M, A, R]](in.Order())
	}
	if m.Order() == nil {
		m = NewMap[K, M](in.Order())
	}
	return m
}

func (i *assocInst[K, V, M, A, R]) element(k K) *element[M, A, R] {
	if e, ok := i.elements.Get(k); ok {
		return e
	}
	e := &element[M, A, R]{inst: i.n.by.build(func(a A) effect.Event {
		return i.inject(KeyedAction[K, A]{Key: k, Action: a})
	})}
	i.elements = i.elements.Set(k, e)
	return e
}

func (i *assocInst[K, V, M, A, R]) scope(sc scope, k K, v V, r rev) scope {
	return sc.bind(i.n.key, k, 0).bind(i.n.data, v, r)
}

func (i *assocInst[K, V, M, A, R]) sync(sc scope, m Map[K, M]) (Map[K, M], bool) {
	in, _ := i.n.input.eval(sc.with(i.memo))
	m = i.adopt(in, m)
	changed := false
	for _, k := range i.elements.Keys() {
		if !in.Has(k) {
			i.elements = i.elements.Delete(k)
		}
	}
	for _, k := range m.Keys() {
		if !in.Has(k) {
			m, changed = m.Delete(k), true
		}
	}
	def := i.n.by.Model().Default
	for e := range in.entries() {
		el := i.element(e.key)
		el.dataRev = e.rev
		cur, ok := m.Get(e.key)
		if !ok {
			cur = def()
		}
		next, c := el.inst.sync(i.scope(sc, e.key, e.val, e.rev), cur)
		if !ok || c {
			m, changed = m.Set(e.key, next), true
		}
	}
	return m, changed
}

func (i *assocInst[K, V, M, A, R]) apply(ac *applyCtx, sc scope, m Map[K, M], a KeyedAction[K, A]) Map[K, M] {
	in, _ := i.n.input.eval(sc.with(i.memo))
	v, r, ok := in.lookup(a.Key)
	if !ok {
		ac.drop("assoc: key not in input", a.Key)
		return m
	}
	m = i.adopt(in, m)
	cur, ok := m.Get(a.Key)
	if !ok {
		cur = i.n.by.Model().Default()
	}
	el := i.element(a.Key)
	return m.Set(a.Key, el.inst.apply(ac, i.scope(sc, a.Key, v, r), cur, a.Action))
}

func (i *assocInst[K, V, M, A, R]) compute(sc scope, m Map[K, M]) (Map[K, R], rev) {
	in, rin := i.n.input.eval(sc.with(i.memo))
	m = i.adopt(in, m)
	def := i.n.by.Model().Default
	out := newMapBuilder[K, R](in.Order())
	r := rin
	for e := range in.entries() {
		cur, ok := m.Get(e.key)
		if !ok {
			cur = def()
		}
		res, rr := i.element(e.key).inst.compute(i.scope(sc, e.key, e.val, e.rev), cur)
		out.put(e.key, res, rr)
		r = max(r, rr)
	}
	if i.has && r == i.lastRev {
		return i.last, r
	}
	i.has, i.lastRev, i.last = true, r, out.done()
	return i.last, r
}

func (i *assocInst[K, V, M, A, R]) deps(sc scope) rev {
	d := i.n.input.revision(sc.with(i.memo))
	for k, el := range i.elements.All() {
		var zero V
		d = max(d, el.inst.deps(i.scope(sc, k, zero, el.dataRev)))
	}
	return d
}
