package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/keepaway/internal/config"
	"github.com/roach88/keepaway/internal/engine"
	"github.com/roach88/keepaway/internal/ir"
	"github.com/roach88/keepaway/internal/metric"
)

// SolveOptions holds flags for the solve command.
type SolveOptions struct {
	*RootOptions
	InputOptions
	Profile  string // run only this profile
	Rounds   int    // override the profile round count when set
	MaxSteps int    // per-round step quota
}

// Answer is the outcome of one profile.
type Answer struct {
	Profile  string  `json:"profile"`
	RunID    string  `json:"run_id"`
	Strategy string  `json:"strategy"`
	Rounds   int     `json:"rounds"`
	Steps    int64   `json:"steps"`
	Activity []int64 `json:"activity"`
	Business int64   `json:"business"`
}

// SolveResult holds every profile's answer.
type SolveResult struct {
	Input           string   `json:"input"`
	DefinitionsHash string   `json:"definitions_hash"`
	Answers         []Answer `json:"answers"`
}

func (r SolveResult) String() string {
	var b strings.Builder
	for i, a := range r.Answers {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %d", a.Profile, a.Business)
	}
	return b.String()
}

// NewSolveCommand creates the solve command.
func NewSolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "solve [file]",
		Short: "Run the simulation and print the answers",
		Long: `Run every profile against a worker description and print the
product of the two most active workers' counters.

Without a file the embedded notes are used; "-" reads stdin.

Examples:
  keepaway solve
  keepaway solve notes.txt --profile part1
  keepaway solve notes.txt --profile part2 --rounds 20
  keepaway solve workers.cue --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(opts, args, cmd)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVar(&opts.Profile, "profile", "", "run only the named profile")
	cmd.Flags().IntVar(&opts.Rounds, "rounds", 0, "override the profile round count")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", engine.DefaultMaxStepsPerRound, "per-round step quota (0 disables)")

	return cmd
}

func runSolve(opts *SolveOptions, args []string, cmd *cobra.Command) error {
	f := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	profiles, cfg, err := selectProfiles(opts.Profile)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, err)
	}
	if cmd.Flags().Changed("rounds") {
		for i := range profiles {
			if profiles[i], err = cfg.Override(profiles[i], opts.Rounds); err != nil {
				return f.Fail(ExitCommandError, ErrCodeConfig, err)
			}
		}
	}

	in, err := opts.loadInput(cmd, args, f)
	if err != nil {
		return err
	}

	hash, err := ir.DefinitionsHash(in.Definitions)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeGeneric, err)
	}
	result := SolveResult{Input: in.Name, DefinitionsHash: hash, Answers: []Answer{}}

	for _, p := range profiles {
		answer, err := solveProfile(cmd, opts, p, in.Definitions)
		if err != nil {
			return f.Fail(ExitFailure, ErrCodeRunFailed, fmt.Errorf("profile %s: %w", p.Name, err))
		}
		f.VerboseLog("%s: activity %v", p.Name, answer.Activity)
		result.Answers = append(result.Answers, answer)
	}

	return f.Success(result)
}

// selectProfiles returns the named profile, or every profile if name is
// empty.
func selectProfiles(name string) ([]config.Profile, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if name == "" {
		return cfg.Profiles(), cfg, nil
	}
	p, err := cfg.Profile(name)
	if err != nil {
		return nil, nil, err
	}
	return []config.Profile{p}, cfg, nil
}

func solveProfile(cmd *cobra.Command, opts *SolveOptions, p config.Profile, defs []ir.Definition) (Answer, error) {
	strategy, err := p.Strategy(defs)
	if err != nil {
		return Answer{}, err
	}

	e, err := engine.New(defs, strategy,
		engine.WithLogger(opts.Logger(cmd.ErrOrStderr())),
		engine.WithMaxStepsPerRound(opts.MaxSteps),
	)
	if err != nil {
		return Answer{}, err
	}

	res, err := e.Run(cmd.Context(), p.Rounds)
	if err != nil {
		return Answer{}, err
	}

	business, err := metric.Business(res.Activity)
	if err != nil {
		return Answer{}, err
	}

	return Answer{
		Profile:  p.Name,
		RunID:    res.RunID,
		Strategy: res.Strategy,
		Rounds:   res.Rounds,
		Steps:    res.Steps,
		Activity: res.Activity,
		Business: business,
	}, nil
}
