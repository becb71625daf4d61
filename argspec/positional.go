package argspec

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// PositionalConfig declares a position-bound argument. Only Name is
// required; a zero Arity means exactly one token.
type PositionalConfig struct {
	Name        string
	Description string
	// Display overrides the uppercase usage placeholder derived from Name.
	// Remainder positionals cannot override it.
	Display    string
	Arity      Arity
	Converter  Converter
	Default    *cty.Value
	Choices    []cty.Value
	Group      string
	NoWait     bool
	Hidden     bool
	Deprecated bool
}

// Positional is an argument bound by position, not by name.
type Positional struct {
	common
	valued
	name    string
	display string
}

// NewPositional validates cfg and returns the immutable spec.
func NewPositional(cfg PositionalConfig) (*Positional, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("positional name cannot be empty")
	}
	if !ValidName(cfg.Name) {
		return nil, fmt.Errorf("malformed positional name %q", cfg.Name)
	}
	if cfg.Arity.IsRemainder() && cfg.Display != "" {
		return nil, fmt.Errorf("remainder positional %q cannot override its display name", cfg.Name)
	}
	v, err := normalizeValued(cfg.Arity, cfg.Converter, cfg.Default, cfg.Choices, cfg.NoWait)
	if err != nil {
		return nil, fmt.Errorf("positional %q: %w", cfg.Name, err)
	}
	return &Positional{
		common:  common{description: cfg.Description, group: cfg.Group, hidden: cfg.Hidden, deprecated: cfg.Deprecated},
		valued:  v,
		name:    cfg.Name,
		display: cfg.Display,
	}, nil
}

func (p *Positional) Identifier() string { return p.name }

// DisplayName is the usage placeholder: the declared override, or the
// uppercased name.
func (p *Positional) DisplayName() string {
	if p.display != "" {
		return p.display
	}
	return strings.ToUpper(p.name)
}

func (p *Positional) Kind() Kind { return KindPositional }

func (p *Positional) isSpec() {}
