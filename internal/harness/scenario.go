package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Input formats.
const (
	FormatText = "text"
	FormatCUE  = "cue"
)

// Scenario defines one simulation check.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are named after it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Input is a path to a worker description. Relative paths are resolved
	// against the scenario file by LoadScenario.
	Input string `yaml:"input,omitempty"`

	// Notes is an inline worker description.
	Notes string `yaml:"notes,omitempty"`

	// Format selects the parser: "text" or "cue". Defaults to "cue" for
	// inputs ending in .cue and "text" otherwise.
	Format string `yaml:"format,omitempty"`

	// Profile names a config profile.
	Profile string `yaml:"profile"`

	// Rounds overrides the profile round count.
	Rounds *int `yaml:"rounds,omitempty"`

	// MaxStepsPerRound overrides the engine step quota.
	MaxStepsPerRound int `yaml:"max_steps_per_round,omitempty"`

	// Expect is the expected outcome.
	Expect Expect `yaml:"expect"`
}

// Expect lists the checks applied to a run. Unset fields are not checked.
type Expect struct {
	Activity []int64   `yaml:"activity,omitempty"`
	Business *int64    `yaml:"business,omitempty"`
	Queues   [][]int64 `yaml:"queues,omitempty"`

	// Destinations maps a worker to the number of items it threw to each
	// target over the whole run.
	Destinations map[int]map[int]int64 `yaml:"destinations,omitempty"`

	// Error is a substring of the error the run must fail with.
	Error string `yaml:"error,omitempty"`
}

func (e Expect) empty() bool {
	return e.Activity == nil && e.Business == nil && e.Queues == nil &&
		e.Destinations == nil && e.Error == ""
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Input != "" && !filepath.IsAbs(scenario.Input) {
		scenario.Input = filepath.Join(filepath.Dir(path), scenario.Input)
	}
	if scenario.Input != "" {
		if _, err := os.Stat(scenario.Input); err != nil {
			return nil, fmt.Errorf("invalid scenario: input file not found: %s", scenario.Input)
		}
	}

	return scenario, nil
}

// ParseScenario decodes a scenario from YAML. Input paths are left as
// written.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "expects:" vs "expect:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// format returns the effective input format.
func (s *Scenario) format() string {
	if s.Format != "" {
		return s.Format
	}
	if strings.HasSuffix(s.Input, ".cue") {
		return FormatCUE
	}
	return FormatText
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Profile == "" {
		return fmt.Errorf("profile is required")
	}

	if s.Input != "" && s.Notes != "" {
		return fmt.Errorf("input and notes are mutually exclusive")
	}

	switch s.Format {
	case "", FormatText, FormatCUE:
	default:
		return fmt.Errorf("unknown format %q", s.Format)
	}

	if s.Rounds != nil && *s.Rounds < 0 {
		return fmt.Errorf("rounds must be non-negative")
	}

	if s.MaxStepsPerRound < 0 {
		return fmt.Errorf("max_steps_per_round must be non-negative")
	}

	if s.Expect.empty() {
		return fmt.Errorf("expect must name at least one check")
	}

	if s.Expect.Error != "" && (s.Expect.Activity != nil || s.Expect.Business != nil ||
		s.Expect.Queues != nil || s.Expect.Destinations != nil) {
		return fmt.Errorf("expect.error cannot be combined with outcome checks")
	}

	return nil
}
