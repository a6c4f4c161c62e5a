// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package effect provides the deferred units of work that arbor components
// hand to their host.
//
// The core type [Eff] is a continuation-passing computation whose answer
// type is fixed to [Resumed]. An Eff does nothing until a host runs it;
// constructing one is pure. Components produce them through an inject
// function (action → [Event]) and hand them to the host through a schedule
// function.
//
// # Combinators
//
// Minimal monad operations:
//
//   - [Pure]: Lift a value into a unit of work with no effects
//   - [Bind]: Sequence two units of work
//
// Derived operations:
//
//   - [Map]: Transform the result, equivalent to Bind(m, func(a) Pure(f(a)))
//   - [Then]: Sequence, discarding the first result
//   - [Sequence]: Run events left to right
//
// Error recovery:
//
//   - [Fail]: Abort with an error; the continuation is never resumed
//   - [Recover]: Run a body, handing failures raised inside it to a handler
//   - [Attempt]: Reify failure as [Either]
//
// Resource safety:
//
//   - [Bracket]: Acquire, use, and release even when use fails
//   - [OnError]: Clean up on failure, then fail again
//
// # Operations
//
// Effects are types implementing the F-bounded [Op] constraint. [Perform]
// suspends the computation on an operation; whoever runs the unit of work
// decides how to resume it.
//
//   - [Op], [Phantom]: Operation result markers
//   - [Call], [Request]: Request/response operation
//   - [Throw]: The operation raised by [Fail]
//
// # Running
//
//   - [Handle]: Run to completion with an F-bounded [Handler]
//   - [Step]: Run until completion or the first suspension
//   - [Suspension]: Pending operation with a one-shot resumption handle
//
// Hosts with asynchronous responses use [Step]: a [Suspension] may be
// parked and resumed later, exactly once. Nil completion convention: a nil
// [Resumed] value is read as "completed with the zero value".
//
// # Affine Continuations
//
// [Affine] wraps a continuation with one-shot enforcement; [Suspension] is
// built on it.
//
// # Example
//
//	fetch := effect.Bind(
//		effect.Request[string, int]("answer"),
//		func(n int) effect.Eff[int] { return effect.Pure(n * 2) },
//	)
//
//	got := effect.Handle(fetch, effect.HandleFunc[int](func(op effect.Operation) (effect.Resumed, bool) {
//		switch op.(type) {
//		case effect.Call[string, int]:
//			return 21, true
//		default:
//			panic("unhandled effect")
//		}
//	}))
//	// got == 42
package effect
