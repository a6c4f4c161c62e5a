// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package arbor

import (
	"fmt"
	"reflect"

	gocmp "github.com/google/go-cmp/cmp"
	"github.com/kr/pretty"
)

// ModelWitness carries the capabilities a model type must provide:
// equality for cutoff, a default for fresh state, and a debug rendering.
type ModelWitness[M any] struct {
	Equal   func(a, b M) bool
	Default func() M
	Debug   func(M) string
}

// Comparable is the witness of a comparable model type, using ==.
func Comparable[M comparable](def M) ModelWitness[M] {
	return Witness(def, func(a, b M) bool { return a == b })
}

// Deep is the witness of an arbitrary model type, compared structurally
// with go-cmp. Models holding unexported fields must provide an Equal
// method or use [Witness].
func Deep[M any](def M, opts ...gocmp.Option) ModelWitness[M] {
	return Witness(def, func(a, b M) bool { return gocmp.Equal(a, b, opts...) })
}

// Witness builds a model witness from a default and an equality.
// Default returns def each time; def must not be mutated.
func Witness[M any](def M, equal func(a, b M) bool) ModelWitness[M] {
	return ModelWitness[M]{
		Equal:   equal,
		Default: func() M { return def },
		Debug:   func(m M) string { return render(m) },
	}
}

// WithDebug returns w with its debug rendering replaced.
func (w ModelWitness[M]) WithDebug(debug func(M) string) ModelWitness[M] {
	w.Debug = debug
	return w
}

// ActionWitness carries the capabilities of an action type.
type ActionWitness[A any] struct {
	Debug func(A) string
}

// Actions is the witness of any action type, rendered with kr/pretty.
func Actions[A any]() ActionWitness[A] {
	return ActionWitness[A]{Debug: func(a A) string { return render(a) }}
}

// render prints scalars plainly and everything else as Go syntax.
func render(v any) string {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return fmt.Sprint(v)
	}
	return pretty.Sprintf("%# v", v)
}

func unitWitness() ModelWitness[Unit] { return Comparable(Unit{}) }

func pairWitness[A, B any](a ModelWitness[A], b ModelWitness[B]) ModelWitness[Pair[A, B]] {
	return ModelWitness[Pair[A, B]]{
		Equal: func(x, y Pair[A, B]) bool { return a.Equal(x.Fst, y.Fst) && b.Equal(x.Snd, y.Snd) },
		Default: func() Pair[A, B] {
			return Pair[A, B]{Fst: a.Default(), Snd: b.Default()}
		},
		Debug: func(p Pair[A, B]) string { return "(" + a.Debug(p.Fst) + ", " + b.Debug(p.Snd) + ")" },
	}
}

// mapWitness defaults to an empty Map without order; the owner of the
// model gives it one before the first update.
func mapWitness[K, V any](w ModelWitness[V]) ModelWitness[Map[K, V]] {
	return ModelWitness[Map[K, V]]{
		Equal:   func(a, b Map[K, V]) bool { return a.EqualFunc(b, w.Equal) },
		Default: func() Map[K, V] { return Map[K, V]{} },
		Debug:   func(m Map[K, V]) string { return debugMap(m, w.Debug) },
	}
}
