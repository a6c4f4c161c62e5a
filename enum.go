// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package arbor

import "code.hybscloud.com/arbor/effect"

// Cases holds the models of the branches of an [Enum], by branch key.
type Cases[K any] Map[K, any]

func casesEq[K any]() TypeEq[Cases[K], Map[K, any]] {
	return Via(
		func(c Cases[K]) Map[K, any] { return Map[K, any](c) },
		func(m Map[K, any]) Cases[K] { return Cases[K](m) },
	)
}

// Len returns the number of branches that have a model.
func (c Cases[K]) Len() int { return Map[K, any](c).Len() }

// Keys returns the keys of branches that have a model, in order.
func (c Cases[K]) Keys() []K { return Map[K, any](c).Keys() }

// Has reports whether the branch under k has a model.
func (c Cases[K]) Has(k K) bool { return Map[K, any](c).Has(k) }

// Equal compares the branch models structurally.
func (c Cases[K]) Equal(o Cases[K]) bool { return Map[K, any](c).Equal(Map[K, any](o)) }

func (c Cases[K]) String() string { return Map[K, any](c).String() }

// CaseModel returns the model of the branch under k. It panics with
// ErrModelType if that model is not an M.
func CaseModel[M, K any](c Cases[K], k K) (M, bool) {
	v, ok := Map[K, any](c).Get(k)
	if !ok {
		var zero M
		return zero, false
	}
	return model[M](v), true
}

// WithCase returns c with the model of the branch under k set to m.
// Use it to seed a Cases model before the branch is first selected.
func WithCase[M, K any](c Cases[K], k K, m M) Cases[K] {
	return Cases[K](Map[K, any](c).Set(k, m))
}

type enumNode[K comparable, R any] struct {
	order    Order[K]
	which    Value[K]
	branches map[K]Branch[R]
}

// Enum selects one of a fixed set of branches with which.
//
// Only the selected branch is live: its result is the result of the
// node, and only it is synced and recomputed. Every branch keeps its model
// across selections, so a branch selected again resumes where it was
// left. A branch never selected before starts from its default.
// Case actions for a branch other than the selected one are dropped.
//
// which must only yield keys of branches; any other key panics with a
// *RepresentationError wrapping ErrUnknownBranch.
func Enum[K comparable, R any](order Order[K], which Value[K], branches map[K]Branch[R]) Computation[Cases[K], CaseAction[K], R] {
	bs := make(map[K]Branch[R], len(branches))
	for k, b := range branches {
		if b.p == nil {
			representation(ErrUnknownBranch, "branch %s is not packed", render(k))
		}
		bs[k] = b
	}
	n := &enumNode[K, R]{order: order, which: which, branches: bs}
	return retype(Computation[Map[K, any], CaseAction[K], R](n), casesEq[K](), Refl[R]())
}

func (n *enumNode[K, R]) branch(k K) Branch[R] {
	b, ok := n.branches[k]
	if !ok {
		representation(ErrUnknownBranch, "%s", render(k))
	}
	return b
}

func (n *enumNode[K, R]) Model() ModelWitness[Map[K, any]] {
	return ModelWitness[Map[K, any]]{
		Equal:   n.equalModels,
		Default: func() Map[K, any] { return NewMap[K, any](n.order) },
		Debug: func(m Map[K, any]) string {
			return debugMapKeyed(m, func(k K, v any) string {
				if b, ok := n.branches[k]; ok {
					return b.p.debugModel(v)
				}
				return render(v)
			})
		},
	}
}

func (n *enumNode[K, R]) equalModels(a, b Map[K, any]) bool {
	if a.Len() != b.Len() {
		return false
	}
	for k, x := range a.All() {
		y, ok := b.Get(k)
		if !ok {
			return false
		}
		bk, ok := n.branches[k]
		if !ok || !bk.p.equalModel(x, y) {
			return false
		}
	}
	return true
}

func (n *enumNode[K, R]) Action() ActionWitness[CaseAction[K]] {
	return ActionWitness[CaseAction[K]]{Debug: func(c CaseAction[K]) string {
		if b, ok := n.branches[c.Key]; ok && c.box != nil {
			return render(c.Key) + ": " + b.p.debugAction(c.box)
		}
		return c.String()
	}}
}

func (n *enumNode[K, R]) build(inject func(CaseAction[K]) effect.Event) instance[Map[K, any], CaseAction[K], R] {
	return &enumInst[K, R]{n: n, inject: inject, memo: newMemo(), live: make(map[K]erased[R])}
}

type enumInst[K comparable, R any] struct {
	n      *enumNode[K, R]
	inject func(CaseAction[K]) effect.Event
	memo   *memoTable
	live   map[K]erased[R]

	selected bool
	current  K
}

// selectBranch evaluates which and returns the live instance of the
// selected branch.
func (i *enumInst[K, R]) selectBranch(sc scope) (K, erased[R], rev) {
	k, r := i.n.which.eval(sc.with(i.memo))
	b := i.n.branch(k)
	inst, ok := i.live[k]
	if !ok {
		inst = b.p.build(func(box any) effect.Event {
			return i.inject(CaseAction[K]{Key: k, box: box})
		})
		i.live[k] = inst
	}
	i.selected, i.current = true, k
	return k, inst, r
}

func (i *enumInst[K, R]) modelOf(m Map[K, any], k K) (any, bool) {
	v, ok := m.Get(k)
	if !ok {
		return i.n.branches[k].p.defaultModel(), false
	}
	return v, true
}

func (i *enumInst[K, R]) sync(sc scope, m Map[K, any]) (Map[K, any], bool) {
	k, inst, _ := i.selectBranch(sc)
	cur, ok := i.modelOf(m, k)
	next, changed := inst.sync(sc, cur)
	if !ok || changed {
		return m.Set(k, next), true
	}
	return m, false
}

func (i *enumInst[K, R]) apply(ac *applyCtx, sc scope, m Map[K, any], a CaseAction[K]) Map[K, any] {
	k, inst, _ := i.selectBranch(sc)
	if a.Key != k {
		ac.drop("enum: branch not selected", a.Key)
		return m
	}
	cur, _ := i.modelOf(m, k)
	return m.Set(k, inst.apply(ac, sc, cur, a.box))
}

func (i *enumInst[K, R]) compute(sc scope, m Map[K, any]) (R, rev) {
	k, inst, rk := i.selectBranch(sc)
	cur, _ := i.modelOf(m, k)
	r, rr := inst.compute(sc, cur)
	return r, max(rk, rr)
}

func (i *enumInst[K, R]) deps(sc scope) rev {
	d := i.n.which.revision(sc.with(i.memo))
	if i.selected {
		d = max(d, i.live[i.current].deps(sc))
	}
	return d
}
