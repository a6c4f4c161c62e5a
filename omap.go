// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package arbor

import (
	"cmp"
	"iter"
	"strings"

	"github.com/google/btree"
	gocmp "github.com/google/go-cmp/cmp"
)

// Order is a key comparator: negative when a < b, zero when equal,
// positive when a > b.
type Order[K any] func(a, b K) int

// Ordered returns the natural order of K.
func Ordered[K cmp.Ordered]() Order[K] {
	return cmp.Compare[K]
}

type entry[K, V any] struct {
	key K
	val V
	rev rev
}

const btreeDegree = 16

// Map is an immutable map ordered by its Order.
//
// Updates return a new Map and leave the receiver unchanged; the two share
// structure copy-on-write. Every entry carries the revision at which it
// was last set, which lets [Assoc] tell which elements changed.
//
// The zero Map is empty and has no order; it can be read but not
// updated. Use [NewMap] or [MapOf].
type Map[K, V any] struct {
	order Order[K]
	t     *btree.BTreeG[entry[K, V]]
}

// NewMap returns an empty Map ordered by order.
func NewMap[K, V any](order Order[K]) Map[K, V] {
	return Map[K, V]{order: order}
}

// MapOf builds a Map in the natural order of K.
func MapOf[K cmp.Ordered, V any](m map[K]V) Map[K, V] {
	out := NewMap[K, V](Ordered[K]())
	for k, v := range m {
		out = out.Set(k, v)
	}
	return out
}

// Order returns the comparator of m.
func (m Map[K, V]) Order() Order[K] { return m.order }

// Len returns the number of entries.
func (m Map[K, V]) Len() int {
	if m.t == nil {
		return 0
	}
	return m.t.Len()
}

// Get returns the value stored under k.
func (m Map[K, V]) Get(k K) (V, bool) {
	v, _, ok := m.lookup(k)
	return v, ok
}

// Has reports whether k is present.
func (m Map[K, V]) Has(k K) bool {
	_, _, ok := m.lookup(k)
	return ok
}

func (m Map[K, V]) lookup(k K) (V, rev, bool) {
	if m.t == nil {
		var zero V
		return zero, 0, false
	}
	e, ok := m.t.Get(entry[K, V]{key: k})
	return e.val, e.rev, ok
}

// Set returns a Map with k bound to v.
func (m Map[K, V]) Set(k K, v V) Map[K, V] {
	return m.setRev(k, v, tick())
}

func (m Map[K, V]) setRev(k K, v V, r rev) Map[K, V] {
	out := m.clone()
	out.t.ReplaceOrInsert(entry[K, V]{key: k, val: v, rev: r})
	return out
}

// Delete returns a Map without k.
func (m Map[K, V]) Delete(k K) Map[K, V] {
	if !m.Has(k) {
		return m
	}
	out := m.clone()
	out.t.Delete(entry[K, V]{key: k})
	return out
}

func (m Map[K, V]) clone() Map[K, V] {
	if m.order == nil {
		panic("arbor: update of a Map without order; use NewMap")
	}
	if m.t == nil {
		order := m.order
		return Map[K, V]{order: order, t: btree.NewG(btreeDegree, func(a, b entry[K, V]) bool {
			return order(a.key, b.key) < 0
		})}
	}
	return Map[K, V]{order: m.order, t: m.t.Clone()}
}

// All iterates the entries in key order.
func (m Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m.t == nil {
			return
		}
		m.t.Ascend(func(e entry[K, V]) bool {
			return yield(e.key, e.val)
		})
	}
}

func (m Map[K, V]) entries() iter.Seq[entry[K, V]] {
	return func(yield func(entry[K, V]) bool) {
		if m.t == nil {
			return
		}
		m.t.Ascend(yield)
	}
}

// Keys returns the keys in order.
func (m Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.Len())
	for k := range m.All() {
		keys = append(keys, k)
	}
	return keys
}

// EqualFunc reports whether m and o hold the same keys with values equal
// under eq. Keys are compared with m's order.
func (m Map[K, V]) EqualFunc(o Map[K, V], eq func(a, b V) bool) bool {
	if m.Len() != o.Len() {
		return false
	}
	if m.Len() == 0 {
		return true
	}
	next, stop := iter.Pull(o.entries())
	defer stop()
	for e := range m.entries() {
		f, ok := next()
		if !ok || m.order(e.key, f.key) != 0 || !eq(e.val, f.val) {
			return false
		}
	}
	return true
}

// Equal reports structural equality of keys and values. It lets go-cmp
// compare models and results that contain a Map.
func (m Map[K, V]) Equal(o Map[K, V]) bool {
	return m.EqualFunc(o, func(a, b V) bool { return gocmp.Equal(a, b) })
}

// String renders the entries in key order.
func (m Map[K, V]) String() string {
	return debugMap(m, func(v V) string { return render(v) })
}

func debugMap[K, V any](m Map[K, V], debug func(V) string) string {
	return debugMapKeyed(m, func(_ K, v V) string { return debug(v) })
}

func debugMapKeyed[K, V any](m Map[K, V], debug func(K, V) string) string {
	var b strings.Builder
	b.WriteString("{")
	i := 0
	for k, v := range m.All() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(render(k))
		b.WriteString(": ")
		b.WriteString(debug(k, v))
		i++
	}
	b.WriteString("}")
	return b.String()
}

// mapBuilder fills a fresh Map in place. The Map returned by done must
// not be written through the builder again.
type mapBuilder[K, V any] struct {
	m Map[K, V]
}

// newMapBuilder with a nil order builds an empty Map without order.
func newMapBuilder[K, V any](order Order[K]) *mapBuilder[K, V] {
	if order == nil {
		return &mapBuilder[K, V]{}
	}
	return &mapBuilder[K, V]{m: NewMap[K, V](order).clone()}
}

func (b *mapBuilder[K, V]) put(k K, v V, r rev) {
	b.m.t.ReplaceOrInsert(entry[K, V]{key: k, val: v, rev: r})
}

func (b *mapBuilder[K, V]) done() Map[K, V] { return b.m }
