package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables that override global flags,
// e.g. KEEPAWAY_FORMAT=json.
const EnvPrefix = "keepaway"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Logger returns a text logger on w. Verbose lowers the level to Debug.
func (o *RootOptions) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewRootCommand creates the root command for the keepaway CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "keepaway",
		Short: "keepaway - worry-level routing simulator",
		Long: `Simulate workers that pass items between each other.

Each worker drains its queue in turn, transforms every item's worry level,
reduces it and throws it to the worker its divisibility test names.
The answer is the product of the two largest activity counters.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Flags win over KEEPAWAY_* variables, which win over defaults.
			opts.Format = v.GetString("format")
			opts.Verbose = v.GetBool("verbose")

			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.PersistentFlags()); err != nil {
		panic(fmt.Sprintf("bind flags: %v", err))
	}

	// Add subcommands
	cmd.AddCommand(NewSolveCommand(opts))
	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
