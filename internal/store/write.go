package store

import (
	"context"
	"fmt"

	"github.com/roach88/keepaway/internal/engine"
	"github.com/roach88/keepaway/internal/ir"
)

// Run is the stored summary of one engine run.
type Run struct {
	ID              string
	DefinitionsHash string
	Strategy        string
	Workers         int
	Rounds          int
	Steps           int64
	EngineVersion   string
	IRVersion       string
}

// RecordRun inserts a run, or updates its totals if the id exists.
// Empty version fields default to the current ir versions.
func (s *Store) RecordRun(ctx context.Context, r Run) error {
	if r.EngineVersion == "" {
		r.EngineVersion = ir.EngineVersion
	}
	if r.IRVersion == "" {
		r.IRVersion = ir.IRVersion
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, definitions_hash, strategy, workers, rounds, steps, engine_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET rounds = excluded.rounds, steps = excluded.steps
	`,
		r.ID,
		r.DefinitionsHash,
		r.Strategy,
		r.Workers,
		r.Rounds,
		r.Steps,
		r.EngineVersion,
		r.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// WriteThrows inserts throws for a run in one transaction. Either all
// rows are written or none are.
func (s *Store) WriteThrows(ctx context.Context, runID string, throws []engine.Throw) error {
	if len(throws) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write throws: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO throws (run_id, seq, round, from_worker, to_worker, item, worry)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write throws: prepare: %w", err)
	}
	defer stmt.Close()

	for _, t := range throws {
		if _, err := stmt.ExecContext(ctx, runID, t.Seq, t.Round, t.From, t.To, t.Item, t.Worry); err != nil {
			return fmt.Errorf("write throws: seq %d: %w", t.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write throws: commit: %w", err)
	}
	return nil
}
