// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// Bracket acquires a resource, runs use with it, and then runs release,
// whether use completed or failed. A failure of use is raised again after
// release; its result is returned otherwise.
//
// Release runs when use finishes, before the rest of the unit of work.
// If the host abandons the work while use is suspended, release does not
// run.
func Bracket[R, A any](acquire Eff[R], release func(R) Event, use func(R) Eff[A]) Eff[A] {
	return Bind(acquire, func(r R) Eff[A] {
		return Bind(Attempt(use(r)), func(res Either[error, A]) Eff[A] {
			return Then(release(r), MatchEither(res, Fail[A], Pure[A]))
		})
	})
}

// OnError runs cleanup only if body fails, then raises the failure again.
func OnError[A any](body Eff[A], cleanup func(error) Event) Eff[A] {
	return Recover(body, func(err error) Eff[A] {
		return Then(cleanup(err), Fail[A](err))
	})
}
