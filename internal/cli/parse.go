package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/keepaway/internal/ir"
)

// ParseOptions holds flags for the parse command.
type ParseOptions struct {
	*RootOptions
	InputOptions
	Canonical bool // print the canonical JSON form used for hashing
}

// WorkerView is the printable form of a definition.
type WorkerView struct {
	Index     int     `json:"index"`
	Label     int     `json:"label"`
	Items     []int64 `json:"items"`
	Operation string  `json:"operation"`
	Divisor   int64   `json:"divisor"`
	IfTrue    int     `json:"if_true"`
	IfFalse   int     `json:"if_false"`
	Line      int     `json:"line,omitempty"`
}

// ParseResult holds the decoded description.
type ParseResult struct {
	Input           string       `json:"input"`
	DefinitionsHash string       `json:"definitions_hash"`
	Workers         []WorkerView `json:"workers"`
}

func (r ParseResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d worker(s), hash %s", r.Input, len(r.Workers), r.DefinitionsHash)
	for _, w := range r.Workers {
		fmt.Fprintf(&b, "\n  %d: items %v, new = %s, divisible by %d ? %d : %d",
			w.Index, w.Items, w.Operation, w.Divisor, w.IfTrue, w.IfFalse)
	}
	return b.String()
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a worker description and print the workers",
		Long: `Parse a worker description, text or CUE, and print the decoded
workers with their content hash.

Examples:
  keepaway parse notes.txt
  keepaway parse workers.cue --format json
  keepaway parse notes.txt --canonical`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(opts, args, cmd)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().BoolVar(&opts.Canonical, "canonical", false, "print canonical JSON instead of the summary")

	return cmd
}

func runParse(opts *ParseOptions, args []string, cmd *cobra.Command) error {
	f := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	in, err := opts.loadInput(cmd, args, f)
	if err != nil {
		return err
	}

	if opts.Canonical {
		data, err := ir.MarshalCanonical(ir.DefinitionsValue(in.Definitions))
		if err != nil {
			return f.Fail(ExitFailure, ErrCodeGeneric, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	hash, err := ir.DefinitionsHash(in.Definitions)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeGeneric, err)
	}

	result := ParseResult{Input: in.Name, DefinitionsHash: hash, Workers: make([]WorkerView, len(in.Definitions))}
	for i, d := range in.Definitions {
		result.Workers[i] = WorkerView{
			Index:     d.Index,
			Label:     d.Label,
			Items:     d.Items,
			Operation: d.Operation.String(),
			Divisor:   d.Divisor,
			IfTrue:    d.IfTrue,
			IfFalse:   d.IfFalse,
			Line:      d.Pos.Line,
		}
	}
	return f.Success(result)
}
