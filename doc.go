// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package arbor composes statically typed, stateful, incrementally
// recomputed components.
//
// A component is a [Computation] with a model type, an action type and a
// result type. Computations are built once by composing constructors and
// never change afterwards; a host allocates their live state and drives
// them. [Driver] is the reference host.
//
// # Nodes
//
//   - [Return], [Pure]: A result with no state and no actions
//   - [Leaf]: A state machine over snapshots of its input and model
//   - [LeafIncr]: The same state machine written over derivations
//   - [Cutoff], [CutoffModel]: Reuse the previous result while the model stays equal
//   - [Sub]: Feed the result of one computation into another
//   - [Assoc], [AssocAs]: One element per key of an input map
//   - [Enum]: One selected branch out of a fixed set of [Branch] values
//   - [MapResult], [State]: Derived helpers
//
// # Inputs
//
// Nodes read their inputs through [Value]. Values are built from host
// cells ([Watch] over a [Cell], for example a [Var]), constants ([Const]),
// the bindings handed out by Sub, Assoc and LeafIncr, and the derivations
// [Derive], [Derive2], [Both] and [CutoffValue]. Every change to a cell
// is stamped by one process-wide clock, and derivations and node results
// are recomputed only when a stamp they depend on moves.
//
// # Types
//
// Models and actions carry witnesses: [ModelWitness] supplies equality, a
// default and a debug rendering, [ActionWitness] a debug rendering.
// [TypeEq] tokens prove two type names denote one type, so collections
// named elsewhere can stand for the maps Assoc works with. Unit is the
// model of stateless nodes and [Never] the action type of nodes that
// accept none.
//
// # Errors
//
// Wiring mistakes the type system cannot rule out, such as an Enum
// selector yielding a key with no branch, panic with a
// [*RepresentationError]. Actions addressed to state that no longer
// exists are dropped; the driver logs and counts them.
//
// # Effects
//
// Leaves wrap actions into [effect.Event] values with inject and hand
// them to the host with schedule. The driver runs them in [Driver.Flush],
// applying [Deliver] operations and passing other operations to a
// [Performer].
package arbor
