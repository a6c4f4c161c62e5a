// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// Call is a request/response operation: the host answers Query with a
// value of type R, now or later.
type Call[Q, R any] struct {
	Phantom[R]
	Query Q
}

// Request performs a Call and resumes with the response.
func Request[Q, R any](q Q) Eff[R] {
	return Perform(Call[Q, R]{Query: q})
}

// RequestThen performs a Call and turns the response into an event.
// Component code uses it to chain a follow-up action onto a response:
//
//	effect.RequestThen[string, int]("load", func(n int) effect.Event { return inject(Loaded{n}) })
func RequestThen[Q, R any](q Q, then func(R) Event) Event {
	return Bind(Request[Q, R](q), then)
}
