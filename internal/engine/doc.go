// Package engine implements the calculator state machine.
//
// An Engine holds two operand slots and at most one pending binary
// operation. Every public method runs to completion synchronously and leaves
// the engine in a displayable state: a numeral being typed, a computed
// result, or the Error sentinel. Failures never surface as Go errors from
// the mutating methods; Compute, ChooseOperation and ApplyUnary report them
// through an Outcome instead, together with the history record the caller
// should persist on success.
//
// The engine has no knowledge of persistence or rendering. Callers read
// Snapshot().Display() after each mutation and forward Outcome.Record to a
// history recorder.
package engine
