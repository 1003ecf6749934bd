// Package store provides an in-memory SQLite index over simulation throws.
//
// The index exists for the lifetime of one process. It is filled from
// engine observer events and answers the questions the trace command asks:
// per-worker activity, activity per round and throw destinations.
//
// # Tables
//
//   - runs: one row per engine run (id, definitions hash, strategy, totals)
//   - throws: one row per processed item, keyed by (run_id, seq)
//
// # Ordering
//
// All ordering uses the logical seq written by the engine clock, never
// wall time, so two runs over the same input produce identical query
// results.
package store
