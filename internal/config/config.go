// Package config loads simulation profiles.
//
// Profiles are declared in an embedded CUE document. The #Profile schema
// constrains every profile and every command-line override, so a bad
// round count or strategy name is rejected with a source position before
// a run starts.
package config

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"

	"github.com/roach88/keepaway/internal/engine"
	"github.com/roach88/keepaway/internal/ir"
)

//go:embed profiles.cue
var builtin string

// StrategyKind names an overflow strategy in a profile.
type StrategyKind string

const (
	// StrategyDivide divides every transformed value by the profile divisor.
	StrategyDivide StrategyKind = "divide"

	// StrategyModulo reduces every transformed value modulo the LCM of the
	// worker divisors.
	StrategyModulo StrategyKind = "modulo"
)

// Profile is one named simulation setup.
type Profile struct {
	Name     string       `json:"name"`
	Rounds   int          `json:"rounds"`
	Strategy StrategyKind `json:"strategy"`
	Divisor  int64        `json:"divisor"`
}

// profileDoc is the decoded CUE shape of a profile.
type profileDoc struct {
	Rounds   int    `json:"rounds"`
	Strategy string `json:"strategy"`
	Divisor  int64  `json:"divisor"`
}

// Config holds the loaded profiles in declaration order.
type Config struct {
	schema   cue.Value
	profiles []Profile
}

// Load compiles the built-in profiles.
func Load() (*Config, error) {
	return LoadString(builtin)
}

// LoadString compiles profiles from CUE source. The source must declare
// #Profile and a profiles struct.
func LoadString(src string) (*Config, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename("profiles.cue"))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := v.Validate(); err != nil {
		return nil, formatCUEError(err)
	}

	schema := v.LookupPath(cue.ParsePath("#Profile"))
	if !schema.Exists() {
		return nil, fmt.Errorf("profiles: #Profile schema is missing")
	}

	profilesVal := v.LookupPath(cue.ParsePath("profiles"))
	if !profilesVal.Exists() {
		return nil, fmt.Errorf("profiles: no profiles declared")
	}

	iter, err := profilesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	cfg := &Config{schema: schema}
	for iter.Next() {
		p, err := decodeProfile(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		cfg.profiles = append(cfg.profiles, p)
	}
	return cfg, nil
}

func decodeProfile(name string, v cue.Value) (Profile, error) {
	var doc profileDoc
	if err := v.Decode(&doc); err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", name, formatCUEError(err))
	}
	return Profile{
		Name:     name,
		Rounds:   doc.Rounds,
		Strategy: StrategyKind(doc.Strategy),
		Divisor:  doc.Divisor,
	}, nil
}

// Profiles returns every profile in declaration order.
func (c *Config) Profiles() []Profile {
	out := make([]Profile, len(c.profiles))
	copy(out, c.profiles)
	return out
}

// Profile returns the named profile.
func (c *Config) Profile(name string) (Profile, error) {
	for _, p := range c.profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("unknown profile %q", name)
}

// Override returns p with its round count replaced. The result is
// checked against #Profile.
func (c *Config) Override(p Profile, rounds int) (Profile, error) {
	v := c.schema.
		FillPath(cue.ParsePath("rounds"), rounds).
		FillPath(cue.ParsePath("strategy"), string(p.Strategy)).
		FillPath(cue.ParsePath("divisor"), p.Divisor)
	if err := v.Validate(); err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", p.Name, formatCUEError(err))
	}
	return decodeProfile(p.Name, v)
}

// Strategy builds the engine strategy the profile names.
func (p Profile) Strategy(defs []ir.Definition) (engine.OverflowStrategy, error) {
	switch p.Strategy {
	case StrategyDivide:
		return engine.DivideAndFloor{Divisor: p.Divisor}, nil
	case StrategyModulo:
		s, err := engine.ModuloByLCM(defs)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", p.Name, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("profile %s: unknown strategy %q", p.Name, p.Strategy)
	}
}

// Error reports a profile that does not satisfy the schema.
type Error struct {
	Message string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("profiles.cue:%d:%d: %s", e.Line, e.Column, e.Message)
	}
	return e.Message
}

func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if pos := errors.Positions(first); len(pos) > 0 {
		return &Error{Message: first.Error(), Line: pos[0].Line(), Column: pos[0].Column()}
	}
	return &Error{Message: first.Error()}
}
