package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/keepaway/internal/engine"
	"github.com/roach88/keepaway/internal/ir"
	"github.com/roach88/keepaway/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	InputOptions
	Profile  string
	Rounds   int
	Worker   int // -1 for every worker
	MaxSteps int
}

// WorkerTrace is the per-worker breakdown of a traced run.
type WorkerTrace struct {
	Worker       int                 `json:"worker"`
	Activity     int64               `json:"activity"`
	Rounds       []store.RoundCount  `json:"rounds"`
	Destinations []store.WorkerCount `json:"destinations"`
}

// TraceResult holds the queried throw index.
type TraceResult struct {
	RunID   string        `json:"run_id"`
	Profile string        `json:"profile"`
	Rounds  int           `json:"rounds"`
	Steps   int64         `json:"steps"`
	Workers []WorkerTrace `json:"workers"`
}

func (r TraceResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s: profile %s, %d round(s), %d throw(s)", r.RunID, r.Profile, r.Rounds, r.Steps)
	for _, w := range r.Workers {
		fmt.Fprintf(&b, "\nworker %d: %d item(s)", w.Worker, w.Activity)
		if len(w.Destinations) > 0 {
			b.WriteString("\n  to:")
			for _, d := range w.Destinations {
				fmt.Fprintf(&b, " %d×%d", d.Worker, d.Count)
			}
		}
		if len(w.Rounds) > 0 {
			b.WriteString("\n  per round:")
			for _, rc := range w.Rounds {
				fmt.Fprintf(&b, " %d:%d", rc.Round, rc.Count)
			}
		}
	}
	return b.String()
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [file]",
		Short: "Run one profile and break activity down per worker",
		Long: `Run one profile with every throw recorded in an in-memory index,
then report per worker how many items it processed, which workers it threw
to and how its activity was spread over the rounds.

Nothing is written to disk.

Examples:
  keepaway trace
  keepaway trace notes.txt --worker 2
  keepaway trace notes.txt --profile part2 --rounds 100 --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args, cmd)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVar(&opts.Profile, "profile", "part1", "profile to run")
	cmd.Flags().IntVar(&opts.Rounds, "rounds", 0, "override the profile round count")
	cmd.Flags().IntVar(&opts.Worker, "worker", -1, "report only this worker (-1 for every worker)")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", engine.DefaultMaxStepsPerRound, "per-round step quota (0 disables)")

	return cmd
}

func runTrace(opts *TraceOptions, args []string, cmd *cobra.Command) error {
	f := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	ctx := cmd.Context()

	profiles, cfg, err := selectProfiles(opts.Profile)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, err)
	}
	profile := profiles[0]
	if cmd.Flags().Changed("rounds") {
		if profile, err = cfg.Override(profile, opts.Rounds); err != nil {
			return f.Fail(ExitCommandError, ErrCodeConfig, err)
		}
	}

	in, err := opts.loadInput(cmd, args, f)
	if err != nil {
		return err
	}
	defs := in.Definitions
	if opts.Worker < -1 || opts.Worker >= len(defs) {
		return f.Fail(ExitCommandError, ErrCodeConfig, fmt.Errorf("worker %d out of range: %d worker(s)", opts.Worker, len(defs)))
	}

	strategy, err := profile.Strategy(defs)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeRunFailed, err)
	}

	st, err := store.OpenMemory()
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err)
	}
	defer st.Close()

	rec := store.NewRecorder(ctx, st)
	e, err := engine.New(defs, strategy,
		engine.WithObserver(rec),
		engine.WithLogger(opts.Logger(cmd.ErrOrStderr())),
		engine.WithMaxStepsPerRound(opts.MaxSteps),
	)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeRunFailed, err)
	}
	if err := rec.Begin(e.RunID(), ir.MustDefinitionsHash(defs), strategy.String(), len(defs)); err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err)
	}

	res, err := e.Run(ctx, profile.Rounds)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeRunFailed, err)
	}
	if err := rec.Finish(res); err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err)
	}
	f.VerboseLog("Recorded %d throw(s) for run %s", res.Steps, res.RunID)

	result, err := queryTrace(cmd, st, res, profile.Name, opts.Worker)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err)
	}
	return f.Success(result)
}

func queryTrace(cmd *cobra.Command, st *store.Store, res *engine.Result, profile string, only int) (TraceResult, error) {
	ctx := cmd.Context()
	result := TraceResult{RunID: res.RunID, Profile: profile, Rounds: res.Rounds, Steps: res.Steps, Workers: []WorkerTrace{}}

	activity, err := st.ActivityByWorker(ctx, res.RunID)
	if err != nil {
		return result, err
	}

	for _, wc := range activity {
		if only >= 0 && wc.Worker != only {
			continue
		}
		rounds, err := st.RoundActivity(ctx, res.RunID, wc.Worker)
		if err != nil {
			return result, err
		}
		dests, err := st.Destinations(ctx, res.RunID, wc.Worker)
		if err != nil {
			return result, err
		}
		result.Workers = append(result.Workers, WorkerTrace{
			Worker:       wc.Worker,
			Activity:     wc.Count,
			Rounds:       rounds,
			Destinations: dests,
		})
	}
	return result, nil
}
