// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package arbor

import "sync/atomic"

// rev is a revision stamp. Every stamp comes from one process-wide clock,
// so stamps from different cells and nodes are comparable: a larger stamp
// is a later change.
type rev = uint64

var clock atomic.Uint64

func tick() rev { return clock.Add(1) }

// Cell is a host-maintained readable input.
// Stamp must grow whenever the value returned by Get changes.
type Cell[T any] interface {
	Get() T
	Stamp() uint64
}

// Var is a settable Cell. It is the stand-in for an external incremental
// engine's input node. Var is not safe for concurrent use.
type Var[T any] struct {
	value T
	stamp rev
}

// NewVar returns a Var holding v.
func NewVar[T any](v T) *Var[T] {
	return &Var[T]{value: v, stamp: tick()}
}

// Get returns the current value.
func (v *Var[T]) Get() T { return v.value }

// Stamp returns the revision of the current value.
func (v *Var[T]) Stamp() uint64 { return v.stamp }

// Set replaces the value.
func (v *Var[T]) Set(x T) {
	v.value = x
	v.stamp = tick()
}

// Update replaces the value with f applied to it.
func (v *Var[T]) Update(f func(T) T) {
	v.Set(f(v.value))
}

// Value is a read-only input expression supplied to a node.
//
// A Value is built once, at composition time, from host cells ([Watch]),
// constants ([Const]), bindings handed out by [Sub], [Assoc] and
// [LeafIncr], and the derivations [Derive], [Derive2], [Both] and [CutoffValue].
// Evaluation happens inside a live node instance and yields the value and
// the revision of the newest input it depends on. Derivations are
// memoized per live instance on those revisions.
type Value[T any] interface {
	eval(sc scope) (T, rev)
	// revision reports the newest input revision without running
	// derivations. Bindings missing from sc count as unchanged.
	revision(sc scope) rev
}

type constValue[T any] struct{ v T }

func (c constValue[T]) eval(scope) (T, rev) { return c.v, 0 }
func (c constValue[T]) revision(scope) rev  { return 0 }

// Const is a Value that never changes.
func Const[T any](v T) Value[T] {
	return constValue[T]{v: v}
}

type cellValue[T any] struct{ c Cell[T] }

func (c cellValue[T]) eval(scope) (T, rev) { return c.c.Get(), c.c.Stamp() }
func (c cellValue[T]) revision(scope) rev  { return c.c.Stamp() }

// Watch reads a host cell.
func Watch[T any](c Cell[T]) Value[T] {
	return cellValue[T]{c: c}
}

type mapValue[A, B any] struct {
	src Value[A]
	f   func(A) B
}

func (m *mapValue[A, B]) eval(sc scope) (B, rev) {
	a, r := m.src.eval(sc)
	if e, ok := sc.memo.lookup(m); ok && e.revs == [2]rev{r} {
		return as[B](e.val), r
	}
	b := m.f(a)
	sc.memo.store(m, memoEntry{revs: [2]rev{r}, val: b})
	return b, r
}

func (m *mapValue[A, B]) revision(sc scope) rev { return m.src.revision(sc) }

// Derive maps a Value with f. f must be pure; it is re-run only when the
// revision of v moves.
func Derive[A, B any](v Value[A], f func(A) B) Value[B] {
	return &mapValue[A, B]{src: v, f: f}
}

type map2Value[A, B, C any] struct {
	a Value[A]
	b Value[B]
	f func(A, B) C
}

func (m *map2Value[A, B, C]) eval(sc scope) (C, rev) {
	a, ra := m.a.eval(sc)
	b, rb := m.b.eval(sc)
	r := max(ra, rb)
	if e, ok := sc.memo.lookup(m); ok && e.revs == [2]rev{ra, rb} {
		return as[C](e.val), r
	}
	c := m.f(a, b)
	sc.memo.store(m, memoEntry{revs: [2]rev{ra, rb}, val: c})
	return c, r
}

func (m *map2Value[A, B, C]) revision(sc scope) rev {
	return max(m.a.revision(sc), m.b.revision(sc))
}

// Derive2 combines two Values with f.
func Derive2[A, B, C any](a Value[A], b Value[B], f func(A, B) C) Value[C] {
	return &map2Value[A, B, C]{a: a, b: b, f: f}
}

// Both pairs two Values.
func Both[A, B any](a Value[A], b Value[B]) Value[Pair[A, B]] {
	return Derive2(a, b, func(x A, y B) Pair[A, B] { return Pair[A, B]{Fst: x, Snd: y} })
}

type cutoffValue[T any] struct {
	src   Value[T]
	equal func(a, b T) bool
}

type cutoffEntry[T any] struct {
	val T
	src rev
	out rev
}

func (c *cutoffValue[T]) eval(sc scope) (T, rev) {
	v, r := c.src.eval(sc)
	if e, ok := sc.memo.lookup(c); ok {
		last := e.val.(cutoffEntry[T])
		if r == last.src {
			return last.val, last.out
		}
		if c.equal(last.val, v) {
			last.src = r
			sc.memo.store(c, memoEntry{val: last})
			return last.val, last.out
		}
	}
	sc.memo.store(c, memoEntry{val: cutoffEntry[T]{val: v, src: r, out: r}})
	return v, r
}

func (c *cutoffValue[T]) revision(sc scope) rev { return c.src.revision(sc) }

// CutoffValue stops propagation of changes judged equal by equal: while
// the new value equals the last one, readers see the old value and the old
// revision.
func CutoffValue[T any](v Value[T], equal func(a, b T) bool) Value[T] {
	return &cutoffValue[T]{src: v, equal: equal}
}

// bindingID names a value bound by an enclosing node.
type bindingID uint64

var bindings atomic.Uint64

func newBindingID() bindingID { return bindingID(bindings.Add(1)) }

type bindingValue[T any] struct{ id bindingID }

func (b bindingValue[T]) eval(sc scope) (T, rev) {
	v, r, ok := sc.lookup(b.id)
	if !ok {
		representation(ErrUnboundBinding, "binding %d", b.id)
	}
	return as[T](v), r
}

func (b bindingValue[T]) revision(sc scope) rev {
	_, r, _ := sc.lookup(b.id)
	return r
}

// env is an immutable chain of bound values.
type env struct {
	id   bindingID
	val  any
	rev  rev
	next *env
}

// scope is the evaluation context of a live instance: the bindings of its
// enclosing nodes and the instance's own memo table.
type scope struct {
	env  *env
	memo *memoTable
}

func (s scope) bind(id bindingID, v any, r rev) scope {
	return scope{env: &env{id: id, val: v, rev: r, next: s.env}, memo: s.memo}
}

func (s scope) with(m *memoTable) scope {
	return scope{env: s.env, memo: m}
}

func (s scope) lookup(id bindingID) (any, rev, bool) {
	for e := s.env; e != nil; e = e.next {
		if e.id == id {
			return e.val, e.rev, true
		}
	}
	return nil, 0, false
}

// as recovers a T stored as any. Storage sites are typed, so the only
// value that fails the assertion is a nil interface, which reads as zero.
func as[T any](v any) T {
	t, _ := v.(T)
	return t
}

type memoEntry struct {
	revs [2]rev
	val  any
}

// memoTable caches derivations for one live instance, keyed by the
// derivation node.
type memoTable struct {
	entries map[any]memoEntry
}

func newMemo() *memoTable {
	return &memoTable{entries: make(map[any]memoEntry)}
}

func (m *memoTable) lookup(key any) (memoEntry, bool) {
	if m == nil {
		return memoEntry{}, false
	}
	e, ok := m.entries[key]
	return e, ok
}

func (m *memoTable) store(key any, e memoEntry) {
	if m == nil {
		return
	}
	m.entries[key] = e
}
