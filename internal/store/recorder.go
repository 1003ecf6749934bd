package store

import (
	"context"
	"errors"

	"github.com/roach88/keepaway/internal/engine"
)

// ErrRecorderNotStarted is returned when events arrive before Begin.
var ErrRecorderNotStarted = errors.New("recorder: Begin was not called")

// Recorder writes engine events into a Store. Throws are buffered and
// flushed in one transaction at the end of every round.
//
//	rec := store.NewRecorder(ctx, s)
//	e, _ := engine.New(defs, strategy, engine.WithObserver(rec))
//	rec.Begin(e.RunID(), hash, strategy.String(), len(defs))
//	res, _ := e.Run(ctx, rounds)
//	rec.Finish(res)
type Recorder struct {
	ctx   context.Context
	store *Store
	runID string
	buf   []engine.Throw
}

var _ engine.Observer = (*Recorder)(nil)

// NewRecorder creates a recorder writing to s.
func NewRecorder(ctx context.Context, s *Store) *Recorder {
	return &Recorder{ctx: ctx, store: s}
}

// Begin records the run row. It must be called before the run starts.
func (r *Recorder) Begin(runID, definitionsHash, strategy string, workers int) error {
	r.runID = runID
	return r.store.RecordRun(r.ctx, Run{
		ID:              runID,
		DefinitionsHash: definitionsHash,
		Strategy:        strategy,
		Workers:         workers,
	})
}

// Finish stores the run totals.
func (r *Recorder) Finish(res *engine.Result) error {
	run, err := r.store.ReadRun(r.ctx, r.runID)
	if err != nil {
		return err
	}
	run.Rounds = res.Rounds
	run.Steps = res.Steps
	return r.store.RecordRun(r.ctx, run)
}

// RunID returns the id passed to Begin.
func (r *Recorder) RunID() string {
	return r.runID
}

// OnThrow implements engine.Observer.
func (r *Recorder) OnThrow(t engine.Throw) error {
	if r.runID == "" {
		return ErrRecorderNotStarted
	}
	r.buf = append(r.buf, t)
	return nil
}

// OnRoundEnd implements engine.Observer.
func (r *Recorder) OnRoundEnd(engine.Snapshot) error {
	if r.runID == "" {
		return ErrRecorderNotStarted
	}
	err := r.store.WriteThrows(r.ctx, r.runID, r.buf)
	r.buf = r.buf[:0]
	return err
}
