// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package arbor

import (
	"fmt"
	"reflect"
)

// TypeEq is evidence that X and Y denote the same type, as a pair of
// total conversions. It lets generic code treat a value of one as the
// other without an unchecked assertion.
//
// Tokens are only made by [Refl], [Via] and [Prove]. The zero token is
// not evidence of anything; using it panics.
type TypeEq[X, Y any] struct {
	to   func(X) Y
	from func(Y) X
}

// Refl is the token for X = X.
func Refl[X any]() TypeEq[X, X] {
	return TypeEq[X, X]{to: identity[X], from: identity[X]}
}

func identity[X any](x X) X { return x }

// Via builds a token from a conversion pair. It is for defined types that
// share an underlying type: the package defining Y supplies
//
//	arbor.Via(func(x X) Y { return Y(x) }, func(y Y) X { return X(y) })
//
// The conversions must be mutual inverses.
func Via[X, Y any](to func(X) Y, from func(Y) X) TypeEq[X, Y] {
	return TypeEq[X, Y]{to: to, from: from}
}

// Prove checks at run time that X and Y are identical types.
func Prove[X, Y any]() (TypeEq[X, Y], error) {
	tx, ty := reflect.TypeFor[X](), reflect.TypeFor[Y]()
	if tx != ty {
		return TypeEq[X, Y]{}, fmt.Errorf("%w: %v and %v", ErrTypeMismatch, tx, ty)
	}
	return TypeEq[X, Y]{
		to:   func(x X) Y { return as[Y](any(x)) },
		from: func(y Y) X { return as[X](any(y)) },
	}, nil
}

// To converts an X to a Y.
func (t TypeEq[X, Y]) To(x X) Y {
	if t.to == nil {
		representation(ErrTypeMismatch, "zero TypeEq[%v, %v]", reflect.TypeFor[X](), reflect.TypeFor[Y]())
	}
	return t.to(x)
}

// From converts a Y back to an X.
func (t TypeEq[X, Y]) From(y Y) X {
	if t.from == nil {
		representation(ErrTypeMismatch, "zero TypeEq[%v, %v]", reflect.TypeFor[X](), reflect.TypeFor[Y]())
	}
	return t.from(y)
}

// Symm flips a token.
func Symm[X, Y any](t TypeEq[X, Y]) TypeEq[Y, X] {
	return TypeEq[Y, X]{to: t.from, from: t.to}
}

// Trans chains two tokens.
func Trans[X, Y, Z any](a TypeEq[X, Y], b TypeEq[Y, Z]) TypeEq[X, Z] {
	return TypeEq[X, Z]{
		to:   func(x X) Z { return b.To(a.To(x)) },
		from: func(z Z) X { return a.From(b.From(z)) },
	}
}
