package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/keepaway/internal/ir"
)

// DefaultMaxStepsPerRound is the default limit on items processed in one
// round. A worker that keeps throwing to itself never drains; the quota
// turns that into an error instead of a hang.
const DefaultMaxStepsPerRound = 1_000_000

// worker is the mutable runtime state of one definition.
type worker struct {
	def      ir.Definition
	queue    *itemQueue
	activity int64
}

// Engine is the single control loop over all workers.
//
// INVARIANTS:
//   - workers are in definition order and never reordered
//   - every target is a valid index (checked in New)
//   - the strategy is fixed for the lifetime of the engine
type Engine struct {
	workers  []worker
	strategy OverflowStrategy
	clock    *Clock
	round    int
	steps    int64
	runID    string
	defsHash string

	maxStepsPerRound int
	observers        []Observer
	idGen            RunIDGenerator
	logger           *slog.Logger
}

// Option allows configuration of engine parameters.
type Option func(*Engine)

// WithMaxStepsPerRound sets the per-round step quota. Zero disables it.
func WithMaxStepsPerRound(n int) Option {
	return func(e *Engine) {
		e.maxStepsPerRound = n
	}
}

// WithObserver registers an observer. Observers are called in
// registration order.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, o)
	}
}

// WithRunIDGenerator overrides the run id generator (default UUIDv7).
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(e *Engine) {
		e.idGen = g
	}
}

// WithLogger overrides the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New builds runtime state from definitions: one worker per definition,
// queues seeded from the starting items, counters at zero.
//
// Definitions are copied; later changes to defs do not affect the engine.
// Returns an invariant error for out-of-range targets, non-positive
// divisors or strategy parameters.
func New(defs []ir.Definition, strategy OverflowStrategy, opts ...Option) (*Engine, error) {
	if strategy == nil || strategy.param() <= 0 {
		return nil, &RuntimeError{
			Code:    ErrCodeInvalidStrategy,
			Message: fmt.Sprintf("invalid overflow strategy %v", strategy),
			Worker:  -1,
		}
	}

	workers := make([]worker, len(defs))
	for i, d := range defs {
		if d.Divisor <= 0 {
			return nil, NewDivisorError(i, d.Divisor)
		}
		for _, t := range []int{d.IfTrue, d.IfFalse} {
			if t < 0 || t >= len(defs) {
				return nil, NewTargetError(i, t, len(defs))
			}
		}
		d = d.Clone()
		d.Index = i
		workers[i] = worker{def: d, queue: newItemQueue(d.Items)}
	}

	hash, err := ir.DefinitionsHash(defs)
	if err != nil {
		return nil, fmt.Errorf("hash definitions: %w", err)
	}

	e := &Engine{
		workers:          workers,
		strategy:         strategy,
		clock:            NewClock(),
		defsHash:         hash,
		maxStepsPerRound: DefaultMaxStepsPerRound,
		idGen:            UUIDv7Generator{},
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.runID = e.idGen.Generate()

	return e, nil
}

// Result summarizes a completed run.
type Result struct {
	RunID           string  `json:"run_id"`
	DefinitionsHash string  `json:"definitions_hash"`
	Strategy        string  `json:"strategy"`
	Rounds          int     `json:"rounds"`
	Steps           int64   `json:"steps"`
	Activity        []int64 `json:"activity"`
}

// RunID returns the id assigned to this engine's run.
func (e *Engine) RunID() string {
	return e.runID
}

// Round returns the number of completed rounds.
func (e *Engine) Round() int {
	return e.round
}

// Run executes rounds more rounds. Calling Run again continues from the
// current state.
//
// The context is checked between rounds. On any error the run is aborted
// and no Result is returned.
func (e *Engine) Run(ctx context.Context, rounds int) (*Result, error) {
	if rounds < 0 {
		return nil, fmt.Errorf("rounds must be non-negative, got %d", rounds)
	}

	e.logger.Info("simulation starting",
		"run_id", e.runID,
		"workers", len(e.workers),
		"rounds", rounds,
		"strategy", e.strategy.String(),
	)

	for r := 0; r < rounds; r++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		steps, err := e.runRound()
		if err != nil {
			return nil, err
		}
		e.logger.Debug("round complete", "round", e.round, "steps", steps)
	}

	res := &Result{
		RunID:           e.runID,
		DefinitionsHash: e.defsHash,
		Strategy:        e.strategy.String(),
		Rounds:          e.round,
		Steps:           e.steps,
		Activity:        e.Activity(),
	}
	e.logger.Info("simulation complete", "run_id", e.runID, "rounds", e.round, "steps", e.steps)
	return res, nil
}

// runRound drains every worker in index order.
func (e *Engine) runRound() (int, error) {
	e.round++
	steps := 0

	for i := range e.workers {
		w := &e.workers[i]
		// The queue is re-checked after every item; throws to workers that
		// have not drained yet, including w itself, are picked up this round.
		for {
			item, ok := w.queue.pop()
			if !ok {
				break
			}
			steps++
			if e.maxStepsPerRound > 0 && steps > e.maxStepsPerRound {
				return steps, NewQuotaError(i, e.round, e.maxStepsPerRound)
			}
			w.activity++
			e.steps++

			v, err := e.strategy.transform(w.def.Operation, item)
			if err != nil {
				return steps, &RuntimeError{
					Code:    ErrCodeTransformFailed,
					Message: fmt.Sprintf("operation %q failed", w.def.Operation.String()),
					Worker:  i,
					Round:   e.round,
					Err:     err,
				}
			}

			to := w.def.Target(v)
			if to < 0 || to >= len(e.workers) {
				return steps, NewTargetError(i, to, len(e.workers))
			}
			e.workers[to].queue.push(v)

			if err := e.notifyThrow(Throw{
				Seq:   e.clock.Next(),
				Round: e.round,
				From:  i,
				To:    to,
				Item:  item,
				Worry: v,
			}); err != nil {
				return steps, err
			}
		}
	}

	if len(e.observers) > 0 {
		snap := e.Snapshot()
		for _, o := range e.observers {
			if err := o.OnRoundEnd(snap); err != nil {
				return steps, e.observerError(err)
			}
		}
	}
	return steps, nil
}

func (e *Engine) notifyThrow(t Throw) error {
	for _, o := range e.observers {
		if err := o.OnThrow(t); err != nil {
			return e.observerError(err)
		}
	}
	return nil
}

func (e *Engine) observerError(err error) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeObserverFailed,
		Message: "observer rejected event",
		Worker:  -1,
		Round:   e.round,
		Err:     err,
	}
}

// Activity returns a copy of every worker's activity counter.
func (e *Engine) Activity() []int64 {
	out := make([]int64, len(e.workers))
	for i, w := range e.workers {
		out[i] = w.activity
	}
	return out
}

// Queues returns a copy of every worker's queue in FIFO order.
func (e *Engine) Queues() [][]int64 {
	out := make([][]int64, len(e.workers))
	for i, w := range e.workers {
		out[i] = w.queue.snapshot()
	}
	return out
}

// Snapshot returns counters and queues after the last completed round.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Round:    e.round,
		Activity: e.Activity(),
		Queues:   e.Queues(),
	}
}
