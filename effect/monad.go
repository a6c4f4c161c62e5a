// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// Monad operations for units of work.
//
// Minimal definition: Pure (unit) and Bind are necessary and sufficient.
// Map and Then are derived operations kept to avoid intermediate closures.

// Bind sequences two units of work.
// It runs m, then passes the result to f to get the next unit of work.
func Bind[A, B any](m Eff[A], f func(A) Eff[B]) Eff[B] {
	return func(k func(B) Resumed) Resumed {
		return m(func(a A) Resumed {
			return f(a)(k)
		})
	}
}

// Map applies a pure function to the result of a unit of work.
func Map[A, B any](m Eff[A], f func(A) B) Eff[B] {
	return func(k func(B) Resumed) Resumed {
		return m(func(a A) Resumed {
			return k(f(a))
		})
	}
}

// Then sequences two units of work, discarding the first result.
func Then[A, B any](m Eff[A], n Eff[B]) Eff[B] {
	return func(k func(B) Resumed) Resumed {
		return m(func(_ A) Resumed {
			return n(k)
		})
	}
}

// Sequence runs events left to right. An empty sequence is [Done].
func Sequence(events ...Event) Event {
	if len(events) == 0 {
		return Done()
	}
	ev := events[len(events)-1]
	for i := len(events) - 2; i >= 0; i-- {
		ev = Then(events[i], ev)
	}
	return ev
}

// Ignore discards the result of m.
func Ignore[A any](m Eff[A]) Event {
	return Map(m, func(A) struct{} { return struct{}{} })
}
