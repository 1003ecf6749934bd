package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/keepaway/internal/compiler"
	"github.com/roach88/keepaway/internal/ir"
	"github.com/roach88/keepaway/internal/parser"
	"github.com/roach88/keepaway/internal/puzzle"
)

// EmbeddedInput is the source name reported for the built-in notes.
const EmbeddedInput = "<embedded>"

// InputOptions selects and decodes a worker description.
type InputOptions struct {
	CUE bool // parse the CUE form regardless of extension
}

func (o *InputOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.CUE, "cue", false, "read the CUE form of the worker description")
}

// Input is a decoded worker description.
type Input struct {
	Name        string
	Definitions []ir.Definition
}

// readSource returns the raw description named by args: the embedded
// notes with no argument, stdin for "-", a file otherwise.
func readSource(cmd *cobra.Command, args []string) (name, src string, err error) {
	if len(args) == 0 {
		return EmbeddedInput, puzzle.Input, nil
	}

	path := args[0]
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return "<stdin>", string(data), err
	}

	data, err := os.ReadFile(path)
	return path, string(data), err
}

// decode parses src as text notes or, for --cue and .cue files, as CUE.
func (o *InputOptions) decode(name, src string) ([]ir.Definition, error) {
	if o.CUE || strings.HasSuffix(name, ".cue") {
		return compiler.CompileString(src)
	}
	return parser.Parse(src)
}

// loadInput reads and decodes the worker description named by args.
// Read failures are ExitCommandError; parse failures are ExitFailure.
// Both are reported through f.
func (o *InputOptions) loadInput(cmd *cobra.Command, args []string, f *OutputFormatter) (*Input, error) {
	name, src, err := readSource(cmd, args)
	if errors.Is(err, os.ErrNotExist) {
		return nil, f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Errorf("input not found: %s", name))
	}
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeReadFailed, fmt.Errorf("%s: %w", name, err))
	}

	defs, err := o.decode(name, src)
	if err != nil {
		return nil, f.Fail(ExitFailure, ErrCodeParseFailed, fmt.Errorf("%s: %w", name, err))
	}
	f.VerboseLog("Read %d worker(s) from %s", len(defs), name)
	return &Input{Name: name, Definitions: defs}, nil
}
