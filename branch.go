// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package arbor

import (
	"fmt"
	"reflect"

	"code.hybscloud.com/arbor/effect"
)

// Branch is a computation with result R whose model and action types are
// hidden. Branches with unrelated models and actions can sit side by side
// in one [Enum].
type Branch[R any] struct {
	p packed[R]
}

// packed is the erased view of a branch.
type packed[R any] interface {
	build(inject func(box any) effect.Event) erased[R]
	defaultModel() any
	equalModel(a, b any) bool
	debugModel(m any) string
	debugAction(box any) string
}

// erased is a live branch instance over erased models and actions.
type erased[R any] interface {
	sync(sc scope, m any) (any, bool)
	apply(ac *applyCtx, sc scope, m any, box any) any
	compute(sc scope, m any) (R, rev)
	deps(sc scope) rev
}

// Pack hides the model and action types of c.
func Pack[M, A, R any](c Computation[M, A, R]) Branch[R] {
	return Branch[R]{p: packedComputation[M, A, R]{c: c}}
}

type packedComputation[M, A, R any] struct {
	c Computation[M, A, R]
}

// actionBox carries a branch action, so that nil interface actions keep
// their type.
type actionBox[A any] struct{ a A }

func (p packedComputation[M, A, R]) build(inject func(box any) effect.Event) erased[R] {
	return erasedInst[M, A, R]{inner: p.c.build(func(a A) effect.Event {
		return inject(actionBox[A]{a: a})
	})}
}

func (p packedComputation[M, A, R]) defaultModel() any { return p.c.Model().Default() }

func (p packedComputation[M, A, R]) equalModel(a, b any) bool {
	return p.c.Model().Equal(model[M](a), model[M](b))
}

func (p packedComputation[M, A, R]) debugModel(m any) string {
	return p.c.Model().Debug(model[M](m))
}

func (p packedComputation[M, A, R]) debugAction(box any) string {
	b, ok := box.(actionBox[A])
	if !ok {
		return render(box)
	}
	return p.c.Action().Debug(b.a)
}

// model recovers a branch model. A nil interface is the zero M.
func model[M any](m any) M {
	if m == nil {
		var zero M
		return zero
	}
	t, ok := m.(M)
	if !ok {
		representation(ErrModelType, "have %T, want %v", m, reflect.TypeFor[M]())
	}
	return t
}

func action[A any](box any) A {
	b, ok := box.(actionBox[A])
	if !ok {
		representation(ErrActionType, "have %s, want %v", boxType(box), reflect.TypeFor[A]())
	}
	return b.a
}

func boxType(box any) string {
	if b, ok := box.(interface{ payload() any }); ok {
		return fmt.Sprintf("%T", b.payload())
	}
	return fmt.Sprintf("%T", box)
}

func (b actionBox[A]) payload() any { return b.a }

type erasedInst[M, A, R any] struct {
	inner instance[M, A, R]
}

func (e erasedInst[M, A, R]) sync(sc scope, m any) (any, bool) {
	next, changed := e.inner.sync(sc, model[M](m))
	return next, changed
}

func (e erasedInst[M, A, R]) apply(ac *applyCtx, sc scope, m any, box any) any {
	a := action[A](box)
	return e.inner.apply(ac, sc, model[M](m), a)
}

func (e erasedInst[M, A, R]) compute(sc scope, m any) (R, rev) {
	return e.inner.compute(sc, model[M](m))
}

func (e erasedInst[M, A, R]) deps(sc scope) rev { return e.inner.deps(sc) }

// CaseAction addresses an action to one branch of an [Enum].
type CaseAction[K any] struct {
	Key K
	box any
}

// Case builds a CaseAction for the branch under key. a must have the
// action type of that branch; a mismatch is reported when the action is
// applied.
func Case[K, A any](key K, a A) CaseAction[K] {
	return CaseAction[K]{Key: key, box: actionBox[A]{a: a}}
}

// Payload returns the action carried by c.
func (c CaseAction[K]) Payload() any {
	if b, ok := c.box.(interface{ payload() any }); ok {
		return b.payload()
	}
	return nil
}

func (c CaseAction[K]) String() string {
	return fmt.Sprintf("%s: %s", render(c.Key), render(c.Payload()))
}
