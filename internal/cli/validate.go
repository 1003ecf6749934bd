package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/keepaway/internal/parser"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	InputOptions
	Strict bool // treat warnings as failures
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                     `json:"valid"`
	Workers  int                      `json:"workers"`
	Findings []parser.ValidationError `json:"findings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a worker description without running it",
		Long: `Parse a worker description and report every finding: invariant
violations as errors, duplicate or out-of-order headers as warnings.

Exit codes:
  0 - No errors (warnings allowed unless --strict)
  1 - Parse failure or validation errors
  2 - Command error (unreadable input, etc.)`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "treat warnings as failures")

	return cmd
}

func runValidate(opts *ValidateOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	in, err := opts.loadInput(cmd, args, formatter)
	if err != nil {
		return err
	}

	findings := parser.Validate(in.Definitions)
	failed := parser.HasErrors(findings) || (opts.Strict && len(findings) > 0)

	result := ValidationResult{Valid: !failed, Workers: len(in.Definitions), Findings: findings}
	if formatter.Format == "json" {
		return outputValidationJSON(formatter.Writer, result)
	}
	return outputValidationText(formatter.Writer, in.Name, result)
}

// outputValidationJSON writes the envelope with status "error" when the
// description is not valid.
func outputValidationJSON(w io.Writer, result ValidationResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if !result.Valid {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    result.Findings[0].Code,
			Message: result.Findings[0].Message,
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if !result.Valid {
		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d finding(s)", len(result.Findings)))
	}
	return nil
}

func outputValidationText(w io.Writer, name string, result ValidationResult) error {
	if result.Valid && len(result.Findings) == 0 {
		fmt.Fprintf(w, "✓ %s: %d worker(s) valid\n", name, result.Workers)
		return nil
	}

	if result.Valid {
		fmt.Fprintf(w, "✓ %s: %d worker(s) valid with warnings\n", name, result.Workers)
	} else {
		fmt.Fprintf(w, "✗ %s: validation failed\n", name)
	}
	fmt.Fprintln(w)

	for _, finding := range result.Findings {
		fmt.Fprintf(w, "  %s\n", finding.Error())
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d finding(s)", len(result.Findings)))
	}
	return nil
}
