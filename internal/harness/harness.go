package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/roach88/keepaway/internal/compiler"
	"github.com/roach88/keepaway/internal/config"
	"github.com/roach88/keepaway/internal/engine"
	"github.com/roach88/keepaway/internal/ir"
	"github.com/roach88/keepaway/internal/metric"
	"github.com/roach88/keepaway/internal/parser"
	"github.com/roach88/keepaway/internal/puzzle"
	"github.com/roach88/keepaway/internal/store"
)

// Harness holds what one scenario run needs.
type Harness struct {
	store  *store.Store
	config *config.Config
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory store for isolation.
// Parse and runtime failures are reported in the result so scenarios can
// expect them; the returned error is reserved for scenarios that cannot be
// set up at all.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}

	st, err := store.OpenMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		config: cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	result := NewResult()
	runErr := h.execute(ctx, scenario, result)
	result.Err = runErr

	if err := h.check(ctx, scenario, result, runErr); err != nil {
		return nil, err
	}
	return result, nil
}

func (h *Harness) execute(ctx context.Context, s *Scenario, result *Result) error {
	profile, err := h.config.Profile(s.Profile)
	if err != nil {
		return err
	}
	if s.Rounds != nil {
		if profile, err = h.config.Override(profile, *s.Rounds); err != nil {
			return err
		}
	}
	result.Profile = profile.Name

	defs, err := loadDefinitions(s)
	if err != nil {
		return err
	}

	strategy, err := profile.Strategy(defs)
	if err != nil {
		return err
	}

	rec := store.NewRecorder(ctx, h.store)
	rounds := engine.ObserverFuncs{
		RoundEnd: func(snap engine.Snapshot) error {
			result.Rounds = append(result.Rounds, RoundActivity{Round: snap.Round, Activity: snap.Activity})
			return nil
		},
	}

	opts := []engine.Option{
		engine.WithObserver(rec),
		engine.WithObserver(rounds),
		engine.WithLogger(h.logger),
		engine.WithRunIDGenerator(engine.NewFixedGenerator("scenario-" + s.Name)),
	}
	if s.MaxStepsPerRound > 0 {
		opts = append(opts, engine.WithMaxStepsPerRound(s.MaxStepsPerRound))
	}

	e, err := engine.New(defs, strategy, opts...)
	if err != nil {
		return err
	}
	result.RunID = e.RunID()
	if err := rec.Begin(e.RunID(), ir.MustDefinitionsHash(defs), strategy.String(), len(defs)); err != nil {
		return err
	}

	res, err := e.Run(ctx, profile.Rounds)
	if err != nil {
		return err
	}
	if err := rec.Finish(res); err != nil {
		return err
	}

	result.Activity = res.Activity
	result.Queues = e.Queues()
	if len(res.Activity) >= 2 {
		if result.Business, err = metric.Business(res.Activity); err != nil {
			return err
		}
	}
	return nil
}

// loadDefinitions reads the scenario's worker description.
func loadDefinitions(s *Scenario) ([]ir.Definition, error) {
	src := puzzle.Input
	switch {
	case s.Notes != "":
		src = s.Notes
	case s.Input != "":
		data, err := os.ReadFile(s.Input)
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		src = string(data)
	}

	if s.format() == FormatCUE {
		return compiler.CompileString(src)
	}
	return parser.Parse(src)
}

func (h *Harness) check(ctx context.Context, s *Scenario, result *Result, runErr error) error {
	want := s.Expect

	if want.Error != "" {
		switch {
		case runErr == nil:
			result.AddError(fmt.Sprintf("expected error containing %q, run succeeded", want.Error))
		case !strings.Contains(runErr.Error(), want.Error):
			result.AddError(fmt.Sprintf("expected error containing %q, got %q", want.Error, runErr.Error()))
		}
		return nil
	}

	if runErr != nil {
		result.AddError(fmt.Sprintf("run failed: %v", runErr))
		return nil
	}

	if want.Activity != nil && !slices.Equal(want.Activity, result.Activity) {
		result.AddError(fmt.Sprintf("activity: expected %v, got %v", want.Activity, result.Activity))
	}

	if want.Business != nil && *want.Business != result.Business {
		result.AddError(fmt.Sprintf("business: expected %d, got %d", *want.Business, result.Business))
	}

	if want.Queues != nil {
		if !slices.EqualFunc(want.Queues, result.Queues, func(a, b []int64) bool {
			return slices.Equal(a, b)
		}) {
			result.AddError(fmt.Sprintf("queues: expected %v, got %v", want.Queues, result.Queues))
		}
	}

	workers := make([]int, 0, len(want.Destinations))
	for w := range want.Destinations {
		workers = append(workers, w)
	}
	slices.Sort(workers)
	for _, w := range workers {
		got, err := h.store.Destinations(ctx, result.RunID, w)
		if err != nil {
			return fmt.Errorf("failed to query destinations: %w", err)
		}
		gotMap := make(map[int]int64, len(got))
		for _, wc := range got {
			gotMap[wc.Worker] = wc.Count
		}
		if !maps.Equal(want.Destinations[w], gotMap) {
			result.AddError(fmt.Sprintf("destinations of worker %d: expected %v, got %v", w, want.Destinations[w], gotMap))
		}
	}

	return nil
}
