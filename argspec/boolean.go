package argspec

import "fmt"

// BooleanConfig declares a presence-only flag. At least one alias is
// required.
type BooleanConfig struct {
	Aliases     []string
	Description string
	Group       string
	// Helper implies Standalone and Terminator and cannot be combined with
	// Hidden or Deprecated.
	Helper     bool
	Standalone bool
	Terminator bool
	Hidden     bool
	Deprecated bool
}

// Boolean is an argument identified by an alias and carrying no value;
// presence toggles the bound result to true.
type Boolean struct {
	common
	aliased
}

// NewBoolean validates cfg and returns the immutable spec.
func NewBoolean(cfg BooleanConfig) (*Boolean, error) {
	canonical, err := canonicalAliases(cfg.Aliases)
	if err != nil {
		return nil, fmt.Errorf("flag: %w", err)
	}
	ref := canonicalAlias(canonical)
	if cfg.Helper && (cfg.Hidden || cfg.Deprecated) {
		return nil, fmt.Errorf("helper flag %q cannot be hidden or deprecated", ref)
	}
	return &Boolean{
		common: common{description: cfg.Description, group: cfg.Group, hidden: cfg.Hidden, deprecated: cfg.Deprecated},
		aliased: aliased{
			aliases:    canonical,
			canonical:  ref,
			identifier: identifierFor(canonical),
			helper:     cfg.Helper,
			standalone: cfg.Standalone || cfg.Helper,
			terminator: cfg.Terminator || cfg.Helper,
		},
	}, nil
}

func (b *Boolean) Kind() Kind { return KindBoolean }

func (b *Boolean) isSpec() {}
