// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package arbor

import (
	"fmt"

	"code.hybscloud.com/arbor/effect"
)

// Computation is a node of a component tree with model type M, action
// type A and result type R.
//
// Computations are built once, by composing the constructors of this
// package, and never change afterwards. They hold no live state: a
// [Driver] allocates an instance per reachable node and keeps the model
// outside the tree.
type Computation[M, A, R any] interface {
	// Model returns the capabilities of the model type.
	Model() ModelWitness[M]
	// Action returns the capabilities of the action type.
	Action() ActionWitness[A]

	// build allocates a live instance. inject wraps an action of this
	// node into an event addressed to the node.
	build(inject func(A) effect.Event) instance[M, A, R]
}

// instance is the live state of one computation node.
//
// Calls follow one protocol: the host runs sync before apply or compute
// in every pass, with the same scope. sync brings keyed and branched
// state in line with current inputs and reports whether it changed the
// model. apply returns the new model; compute never changes it. deps is
// the newest input revision the subtree reads, ignoring its own model
// and bindings introduced inside it; it never runs derivations.
type instance[M, A, R any] interface {
	sync(sc scope, model M) (M, bool)
	apply(ac *applyCtx, sc scope, model M, action A) M
	compute(sc scope, model M) (R, rev)
	deps(sc scope) rev
}

// applyCtx carries the host hooks of one apply.
type applyCtx struct {
	schedule func(effect.Event)
	drop     func(reason string, key any)
}

// Pair is the model of a [Sub] node.
type Pair[A, B any] struct {
	Fst A
	Snd B
}

// SubAction is the action of a [Sub] node, addressed either to its
// first part or to its second.
type SubAction[A1, A2 any] struct {
	into bool
	a1   A1
	a2   A2
}

// ForFrom addresses a to the first part.
func ForFrom[A1, A2 any](a A1) SubAction[A1, A2] {
	return SubAction[A1, A2]{a1: a}
}

// ForInto addresses a to the second part.
func ForInto[A1, A2 any](a A2) SubAction[A1, A2] {
	return SubAction[A1, A2]{into: true, a2: a}
}

// From returns the action for the first part.
func (s SubAction[A1, A2]) From() (A1, bool) { return s.a1, !s.into }

// Into returns the action for the second part.
func (s SubAction[A1, A2]) Into() (A2, bool) { return s.a2, s.into }

// Return
type returnNode[R any] struct {
	v Value[R]
}

// Return lifts a Value into a computation with no model and no actions.
func Return[R any](v Value[R]) Computation[Unit, Never, R] {
	return returnNode[R]{v: v}
}

// Pure is Return of a constant.
func Pure[R any](r R) Computation[Unit, Never, R] {
	return Return(Const(r))
}

func (n returnNode[R]) Model() ModelWitness[Unit]   { return unitWitness() }
func (n returnNode[R]) Action() ActionWitness[Never] { return Actions[Never]() }

func (n returnNode[R]) build(func(Never) effect.Event) instance[Unit, Never, R] {
	return &returnInst[R]{v: n.v, memo: newMemo()}
}

type returnInst[R any] struct {
	v    Value[R]
	memo *memoTable
}

func (i *returnInst[R]) sync(_ scope, m Unit) (Unit, bool) { return m, false }

func (i *returnInst[R]) apply(_ *applyCtx, _ scope, _ Unit, a Never) Unit {
	return Absurd[Unit](a)
}

func (i *returnInst[R]) compute(sc scope, _ Unit) (R, rev) {
	return i.v.eval(sc.with(i.memo))
}

func (i *returnInst[R]) deps(sc scope) rev { return i.v.revision(sc.with(i.memo)) }

// Leaf
type leafNode[I, M, A, R any] struct {
	input   Value[I]
	model   ModelWitness[M]
	action  ActionWitness[A]
	apply   func(inject func(A) effect.Event, schedule func(effect.Event), input I, model M, action A) M
	compute func(inject func(A) effect.Event, input I, model M) R
}

// Leaf is a primitive stateful node.
//
// apply is the transition function: given the current input, model and
// action it returns the next model. It may wrap actions with inject and
// hand the resulting events to schedule; they are delivered after apply
// returns, in order. compute derives the result and must not have side
// effects. Both must be deterministic in their explicit arguments.
//
// compute re-runs only when the input revision or the model moves.
func Leaf[I, M, A, R any](
	input Value[I],
	model ModelWitness[M],
	action ActionWitness[A],
	apply func(inject func(A) effect.Event, schedule func(effect.Event), input I, model M, action A) M,
	compute func(inject func(A) effect.Event, input I, model M) R,
) Computation[M, A, R] {
	return &leafNode[I, M, A, R]{input: input, model: model, action: action, apply: apply, compute: compute}
}

func (n *leafNode[I, M, A, R]) Model() ModelWitness[M]   { return n.model }
func (n *leafNode[I, M, A, R]) Action() ActionWitness[A] { return n.action }

func (n *leafNode[I, M, A, R]) build(inject func(A) effect.Event) instance[M, A, R] {
	return &leafInst[I, M, A, R]{n: n, inject: inject, memo: newMemo(), modelRev: tick()}
}

type leafInst[I, M, A, R any] struct {
	n        *leafNode[I, M, A, R]
	inject   func(A) effect.Event
	memo     *memoTable
	modelRev rev

	has  bool
	revs [2]rev
	last R
}

func (i *leafInst[I, M, A, R]) sync(_ scope, m M) (M, bool) { return m, false }

func (i *leafInst[I, M, A, R]) apply(ac *applyCtx, sc scope, m M, a A) M {
	in, _ := i.n.input.eval(sc.with(i.memo))
	next := i.n.apply(i.inject, ac.schedule, in, m, a)
	i.modelRev = tick()
	return next
}

func (i *leafInst[I, M, A, R]) compute(sc scope, m M) (R, rev) {
	in, ri := i.n.input.eval(sc.with(i.memo))
	revs := [2]rev{ri, i.modelRev}
	if i.has && revs == i.revs {
		return i.last, max(ri, i.modelRev)
	}
	i.last = i.n.compute(i.inject, in, m)
	i.revs, i.has = revs, true
	return i.last, max(ri, i.modelRev)
}

func (i *leafInst[I, M, A, R]) deps(sc scope) rev { return i.n.input.revision(sc.with(i.memo)) }

// LeafIncr
type leafIncrNode[I, M, A, R any] struct {
	input   Value[I]
	model   ModelWitness[M]
	action  ActionWitness[A]
	apply   func(inject func(A) effect.Event, input Value[I], model Value[M]) Value[func(schedule func(effect.Event), action A) M]
	compute func(inject func(A) effect.Event, input Value[I], model Value[M]) Value[R]
}

// LeafIncr is a [Leaf] whose transition and result are written as
// derivations over the input and model rather than over snapshots.
//
// apply and compute run once per live instance, when the node is first
// reached. The derivations they return are memoized, so work shared
// between the transition and the result is done once per change. The
// transition function is called synchronously, once per action. A
// LeafIncr behaves exactly like the equivalent Leaf.
func LeafIncr[I, M, A, R any](
	input Value[I],
	model ModelWitness[M],
	action ActionWitness[A],
	apply func(inject func(A) effect.Event, input Value[I], model Value[M]) Value[func(schedule func(effect.Event), action A) M],
	compute func(inject func(A) effect.Event, input Value[I], model Value[M]) Value[R],
) Computation[M, A, R] {
	return &leafIncrNode[I, M, A, R]{input: input, model: model, action: action, apply: apply, compute: compute}
}

func (n *leafIncrNode[I, M, A, R]) Model() ModelWitness[M]   { return n.model }
func (n *leafIncrNode[I, M, A, R]) Action() ActionWitness[A] { return n.action }

func (n *leafIncrNode[I, M, A, R]) build(inject func(A) effect.Event) instance[M, A, R] {
	id := newBindingID()
	mv := bindingValue[M]{id: id}
	return &leafIncrInst[I, M, A, R]{
		id:       id,
		applyV:   n.apply(inject, n.input, mv),
		resultV:  n.compute(inject, n.input, mv),
		memo:     newMemo(),
		modelRev: tick(),
	}
}

type leafIncrInst[I, M, A, R any] struct {
	id       bindingID
	applyV   Value[func(schedule func(effect.Event), action A) M]
	resultV  Value[R]
	memo     *memoTable
	modelRev rev
}

func (i *leafIncrInst[I, M, A, R]) scope(sc scope, m M) scope {
	return sc.with(i.memo).bind(i.id, m, i.modelRev)
}

func (i *leafIncrInst[I, M, A, R]) sync(_ scope, m M) (M, bool) { return m, false }

func (i *leafIncrInst[I, M, A, R]) apply(ac *applyCtx, sc scope, m M, a A) M {
	f, _ := i.applyV.eval(i.scope(sc, m))
	next := f(ac.schedule, a)
	i.modelRev = tick()
	return next
}

func (i *leafIncrInst[I, M, A, R]) compute(sc scope, m M) (R, rev) {
	return i.resultV.eval(i.scope(sc, m))
}

func (i *leafIncrInst[I, M, A, R]) deps(sc scope) rev { return i.resultV.revision(sc.with(i.memo)) }

// Cutoff
type cutoffNode[M, A, R any] struct {
	inner Computation[M, A, R]
	equal func(a, b M) bool
}

// Cutoff gates recomputation of c on its model: while the model stays
// equal under equal to the one of the previous compute, and no input c
// reads has moved, the previous result is reused. Actions pass through
// unchanged.
func Cutoff[M, A, R any](c Computation[M, A, R], equal func(a, b M) bool) Computation[M, A, R] {
	return &cutoffNode[M, A, R]{inner: c, equal: equal}
}

// CutoffModel is Cutoff with the equality of c's model witness.
func CutoffModel[M, A, R any](c Computation[M, A, R]) Computation[M, A, R] {
	return Cutoff(c, c.Model().Equal)
}

func (n *cutoffNode[M, A, R]) Model() ModelWitness[M]   { return n.inner.Model() }
func (n *cutoffNode[M, A, R]) Action() ActionWitness[A] { return n.inner.Action() }

func (n *cutoffNode[M, A, R]) build(inject func(A) effect.Event) instance[M, A, R] {
	return &cutoffInst[M, A, R]{inner: n.inner.build(inject), equal: n.equal}
}

type cutoffInst[M, A, R any] struct {
	inner instance[M, A, R]
	equal func(a, b M) bool

	has       bool
	lastModel M
	lastDeps  rev
	last      R
	lastRev   rev
}

func (i *cutoffInst[M, A, R]) sync(sc scope, m M) (M, bool) { return i.inner.sync(sc, m) }

func (i *cutoffInst[M, A, R]) apply(ac *applyCtx, sc scope, m M, a A) M {
	return i.inner.apply(ac, sc, m, a)
}

func (i *cutoffInst[M, A, R]) compute(sc scope, m M) (R, rev) {
	d := i.inner.deps(sc)
	if i.has && d == i.lastDeps && i.equal(i.lastModel, m) {
		return i.last, i.lastRev
	}
	r, rr := i.inner.compute(sc, m)
	i.has, i.lastModel, i.lastDeps, i.last, i.lastRev = true, m, d, r, rr
	return r, rr
}

func (i *cutoffInst[M, A, R]) deps(sc scope) rev { return i.inner.deps(sc) }

// Sub
type subNode[M1, A1, R1, M2, A2, R2 any] struct {
	from Computation[M1, A1, R1]
	into Computation[M2, A2, R2]
	id   bindingID
}

// Sub composes two computations in sequence. into is called once, here,
// with a Value standing for the result of from; the computation it
// returns may read that Value anywhere below it. The model of the node
// pairs both models, and each [SubAction] reaches one part only.
func Sub[M1, A1, R1, M2, A2, R2 any](
	from Computation[M1, A1, R1],
	into func(Value[R1]) Computation[M2, A2, R2],
) Computation[Pair[M1, M2], SubAction[A1, A2], R2] {
	id := newBindingID()
	return &subNode[M1, A1, R1, M2, A2, R2]{from: from, into: into(bindingValue[R1]{id: id}), id: id}
}

func (n *subNode[M1, A1, R1, M2, A2, R2]) Model() ModelWitness[Pair[M1, M2]] {
	return pairWitness(n.from.Model(), n.into.Model())
}

func (n *subNode[M1, A1, R1, M2, A2, R2]) Action() ActionWitness[SubAction[A1, A2]] {
	fw, iw := n.from.Action(), n.into.Action()
	return ActionWitness[SubAction[A1, A2]]{Debug: func(s SubAction[A1, A2]) string {
		if a, ok := s.Into(); ok {
			return "into(" + iw.Debug(a) + ")"
		}
		return "from(" + fw.Debug(s.a1) + ")"
	}}
}

func (n *subNode[M1, A1, R1, M2, A2, R2]) build(inject func(SubAction[A1, A2]) effect.Event) instance[Pair[M1, M2], SubAction[A1, A2], R2] {
	return &subInst[M1, A1, R1, M2, A2, R2]{
		id:   n.id,
		from: n.from.build(func(a A1) effect.Event { return inject(ForFrom[A1, A2](a)) }),
		into: n.into.build(func(a A2) effect.Event { return inject(ForInto[A1](a)) }),
	}
}

type subInst[M1, A1, R1, M2, A2, R2 any] struct {
	id   bindingID
	from instance[M1, A1, R1]
	into instance[M2, A2, R2]
}

// bound computes from and binds its result for into.
func (i *subInst[M1, A1, R1, M2, A2, R2]) bound(sc scope, m1 M1) scope {
	r1, rr := i.from.compute(sc, m1)
	return sc.bind(i.id, r1, rr)
}

func (i *subInst[M1, A1, R1, M2, A2, R2]) sync(sc scope, m Pair[M1, M2]) (Pair[M1, M2], bool) {
	m1, c1 := i.from.sync(sc, m.Fst)
	m2, c2 := i.into.sync(i.bound(sc, m1), m.Snd)
	return Pair[M1, M2]{Fst: m1, Snd: m2}, c1 || c2
}

func (i *subInst[M1, A1, R1, M2, A2, R2]) apply(ac *applyCtx, sc scope, m Pair[M1, M2], a SubAction[A1, A2]) Pair[M1, M2] {
	if a2, ok := a.Into(); ok {
		m.Snd = i.into.apply(ac, i.bound(sc, m.Fst), m.Snd, a2)
		return m
	}
	m.Fst = i.from.apply(ac, sc, m.Fst, a.a1)
	return m
}

func (i *subInst[M1, A1, R1, M2, A2, R2]) compute(sc scope, m Pair[M1, M2]) (R2, rev) {
	return i.into.compute(i.bound(sc, m.Fst), m.Snd)
}

func (i *subInst[M1, A1, R1, M2, A2, R2]) deps(sc scope) rev {
	return max(i.from.deps(sc), i.into.deps(sc))
}

// MapResult
type mapResultNode[M, A, R, S any] struct {
	inner Computation[M, A, R]
	f     func(R) S
}

// MapResult transforms the result of c with f. f must be pure; it re-runs
// only when the result of c changes.
func MapResult[M, A, R, S any](c Computation[M, A, R], f func(R) S) Computation[M, A, S] {
	return &mapResultNode[M, A, R, S]{inner: c, f: f}
}

func (n *mapResultNode[M, A, R, S]) Model() ModelWitness[M]   { return n.inner.Model() }
func (n *mapResultNode[M, A, R, S]) Action() ActionWitness[A] { return n.inner.Action() }

func (n *mapResultNode[M, A, R, S]) build(inject func(A) effect.Event) instance[M, A, S] {
	return &mapResultInst[M, A, R, S]{inner: n.inner.build(inject), f: n.f}
}

type mapResultInst[M, A, R, S any] struct {
	inner instance[M, A, R]
	f     func(R) S

	has     bool
	lastRev rev
	last    S
}

func (i *mapResultInst[M, A, R, S]) sync(sc scope, m M) (M, bool) { return i.inner.sync(sc, m) }

func (i *mapResultInst[M, A, R, S]) apply(ac *applyCtx, sc scope, m M, a A) M {
	return i.inner.apply(ac, sc, m, a)
}

func (i *mapResultInst[M, A, R, S]) compute(sc scope, m M) (S, rev) {
	r, rr := i.inner.compute(sc, m)
	if !i.has || rr != i.lastRev {
		i.last, i.lastRev, i.has = i.f(r), rr, true
	}
	return i.last, rr
}

func (i *mapResultInst[M, A, R, S]) deps(sc scope) rev { return i.inner.deps(sc) }

// Settable is the result of [State]: the current model and a way to
// replace it.
type Settable[M any] struct {
	Value M
	Set   func(M) effect.Event
}

// State is a leaf whose action replaces its model.
func State[M any](w ModelWitness[M]) Computation[M, M, Settable[M]] {
	return Leaf(Const(Unit{}), w, ActionWitness[M]{Debug: w.Debug},
		func(_ func(M) effect.Event, _ func(effect.Event), _ Unit, _ M, next M) M { return next },
		func(inject func(M) effect.Event, _ Unit, m M) Settable[M] {
			return Settable[M]{Value: m, Set: inject}
		},
	)
}

// retyped views a computation through type-equality tokens for its model
// and result.
type retypedNode[M, A, R, M2, R2 any] struct {
	inner Computation[M, A, R]
	model TypeEq[M2, M]
	res   TypeEq[R, R2]
}

func retype[M, A, R, M2, R2 any](c Computation[M, A, R], model TypeEq[M2, M], res TypeEq[R, R2]) Computation[M2, A, R2] {
	return &retypedNode[M, A, R, M2, R2]{inner: c, model: model, res: res}
}

func (n *retypedNode[M, A, R, M2, R2]) Model() ModelWitness[M2] {
	w := n.inner.Model()
	return ModelWitness[M2]{
		Equal:   func(a, b M2) bool { return w.Equal(n.model.To(a), n.model.To(b)) },
		Default: func() M2 { return n.model.From(w.Default()) },
		Debug:   func(m M2) string { return w.Debug(n.model.To(m)) },
	}
}

func (n *retypedNode[M, A, R, M2, R2]) Action() ActionWitness[A] { return n.inner.Action() }

func (n *retypedNode[M, A, R, M2, R2]) build(inject func(A) effect.Event) instance[M2, A, R2] {
	return &retypedInst[M, A, R, M2, R2]{inner: n.inner.build(inject), n: n}
}

type retypedInst[M, A, R, M2, R2 any] struct {
	inner instance[M, A, R]
	n     *retypedNode[M, A, R, M2, R2]
}

func (i *retypedInst[M, A, R, M2, R2]) sync(sc scope, m M2) (M2, bool) {
	next, changed := i.inner.sync(sc, i.n.model.To(m))
	if !changed {
		return m, false
	}
	return i.n.model.From(next), true
}

func (i *retypedInst[M, A, R, M2, R2]) apply(ac *applyCtx, sc scope, m M2, a A) M2 {
	return i.n.model.From(i.inner.apply(ac, sc, i.n.model.To(m), a))
}

func (i *retypedInst[M, A, R, M2, R2]) compute(sc scope, m M2) (R2, rev) {
	r, rr := i.inner.compute(sc, i.n.model.To(m))
	return i.n.res.To(r), rr
}

func (i *retypedInst[M, A, R, M2, R2]) deps(sc scope) rev { return i.inner.deps(sc) }

// String renders the action for logs.
func (s SubAction[A1, A2]) String() string {
	if s.into {
		return fmt.Sprintf("into(%v)", s.a2)
	}
	return fmt.Sprintf("from(%v)", s.a1)
}
