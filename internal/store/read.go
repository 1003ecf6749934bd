package store

import (
	"context"
	"database/sql"
	"fmt"
)

// WorkerCount is a count keyed by worker index.
type WorkerCount struct {
	Worker int   `json:"worker"`
	Count  int64 `json:"count"`
}

// RoundCount is a count keyed by round.
type RoundCount struct {
	Round int   `json:"round"`
	Count int64 `json:"count"`
}

// ReadRun returns the stored run. Returns sql.ErrNoRows if it does not exist.
func (s *Store) ReadRun(ctx context.Context, runID string) (Run, error) {
	var r Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, definitions_hash, strategy, workers, rounds, steps, engine_version, ir_version
		FROM runs
		WHERE id = ?
	`, runID).Scan(&r.ID, &r.DefinitionsHash, &r.Strategy, &r.Workers, &r.Rounds, &r.Steps, &r.EngineVersion, &r.IRVersion)
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", runID, err)
	}
	return r, nil
}

// ActivityByWorker returns how many items every worker processed, in
// worker order. Workers that never processed an item are included with
// a zero count.
func (s *Store) ActivityByWorker(ctx context.Context, runID string) ([]WorkerCount, error) {
	run, err := s.ReadRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT from_worker, COUNT(*)
		FROM throws
		WHERE run_id = ?
		GROUP BY from_worker
		ORDER BY from_worker ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	out := make([]WorkerCount, run.Workers)
	for i := range out {
		out[i].Worker = i
	}
	for rows.Next() {
		var wc WorkerCount
		if err := rows.Scan(&wc.Worker, &wc.Count); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		if wc.Worker >= 0 && wc.Worker < len(out) {
			out[wc.Worker] = wc
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity: %w", err)
	}
	return out, nil
}

// RoundActivity returns the items one worker processed per round, for
// rounds where it processed at least one.
func (s *Store) RoundActivity(ctx context.Context, runID string, worker int) ([]RoundCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT round, COUNT(*)
		FROM throws
		WHERE run_id = ? AND from_worker = ?
		GROUP BY round
		ORDER BY round ASC
	`, runID, worker)
	if err != nil {
		return nil, fmt.Errorf("query round activity: %w", err)
	}
	defer rows.Close()

	out := []RoundCount{}
	for rows.Next() {
		var rc RoundCount
		if err := rows.Scan(&rc.Round, &rc.Count); err != nil {
			return nil, fmt.Errorf("scan round activity: %w", err)
		}
		out = append(out, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate round activity: %w", err)
	}
	return out, nil
}

// Destinations returns how many items one worker threw to each target,
// in target order.
func (s *Store) Destinations(ctx context.Context, runID string, worker int) ([]WorkerCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT to_worker, COUNT(*)
		FROM throws
		WHERE run_id = ? AND from_worker = ?
		GROUP BY to_worker
		ORDER BY to_worker ASC
	`, runID, worker)
	if err != nil {
		return nil, fmt.Errorf("query destinations: %w", err)
	}
	return scanWorkerCounts(rows)
}

func scanWorkerCounts(rows *sql.Rows) ([]WorkerCount, error) {
	defer rows.Close()

	out := []WorkerCount{}
	for rows.Next() {
		var wc WorkerCount
		if err := rows.Scan(&wc.Worker, &wc.Count); err != nil {
			return nil, fmt.Errorf("scan counts: %w", err)
		}
		out = append(out, wc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return out, nil
}
