// Package engine runs the round-based worker simulation.
//
// ARCHITECTURE:
//
// Single control loop:
// One goroutine owns every worker's queue and counter. Within a round,
// workers drain in index order and every throw is appended to its target
// immediately. There is no locking because nothing is shared.
//
// Same-round visibility:
// Worker i keeps dequeuing until its queue is empty at the moment it is
// checked. Items thrown to a worker that has not drained yet this round
// (including worker i itself) are processed this round; items thrown to a
// worker that already drained wait until the next round. Replacing this
// with a buffered end-of-round exchange changes the activity counts.
//
// Overflow control:
// Every transformed value passes through the OverflowStrategy chosen at
// construction. ModuloBy uses the LCM of all divisors, computed once
// before round 1, so divisibility tests are unchanged by the reduction.
// ModuloBy reduces inside the arithmetic (expr.EvalMod); DivideAndFloor
// evaluates with checked int64 arithmetic and fails on overflow.
//
// CRITICAL PATTERNS:
//
// Logical clock:
// Every throw is stamped with a seq from Clock.Next(). Observers order
// events by seq, never by wall-clock time.
//
// Determinism:
// Same definitions, strategy and round count always give the same
// counters, queues and event sequence.
package engine
