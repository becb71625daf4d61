package argspec

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// NamedValueConfig declares an alias-bound argument carrying one or more
// values. At least one alias is required; a zero Arity means exactly one
// token.
type NamedValueConfig struct {
	Aliases     []string
	Description string
	Arity       Arity
	Converter   Converter
	Default     *cty.Value
	Choices     []cty.Value
	Group       string
	// AttachedOnly restricts the accepted syntax to the attached forms
	// --name=value and -nVALUE, rejecting a spaced value.
	AttachedOnly bool
	NoWait       bool
	// Helper marks the canonical help/version style of spec; it implies
	// Standalone and Terminator and cannot be combined with Hidden or
	// Deprecated.
	Helper     bool
	Standalone bool
	Terminator bool
	Hidden     bool
	Deprecated bool
}

// NamedValue is an argument identified by an alias and carrying values.
type NamedValue struct {
	common
	valued
	aliased
	attachedOnly bool
}

// NewNamedValue validates cfg and returns the immutable spec.
func NewNamedValue(cfg NamedValueConfig) (*NamedValue, error) {
	canonical, err := canonicalAliases(cfg.Aliases)
	if err != nil {
		return nil, fmt.Errorf("named value: %w", err)
	}
	ref := canonicalAlias(canonical)
	if cfg.Arity.IsRemainder() {
		return nil, fmt.Errorf("option %q cannot use the remainder arity", ref)
	}
	if cfg.Helper && (cfg.Hidden || cfg.Deprecated) {
		return nil, fmt.Errorf("helper option %q cannot be hidden or deprecated", ref)
	}
	// a terminator halts validation, so its own conversion cannot run with
	// the structural checks
	nowait := cfg.NoWait || cfg.Terminator || cfg.Helper
	v, err := normalizeValued(cfg.Arity, cfg.Converter, cfg.Default, cfg.Choices, nowait)
	if err != nil {
		return nil, fmt.Errorf("option %q: %w", ref, err)
	}
	return &NamedValue{
		common: common{description: cfg.Description, group: cfg.Group, hidden: cfg.Hidden, deprecated: cfg.Deprecated},
		valued: v,
		aliased: aliased{
			aliases:    canonical,
			canonical:  ref,
			identifier: identifierFor(canonical),
			helper:     cfg.Helper,
			standalone: cfg.Standalone || cfg.Helper,
			terminator: cfg.Terminator || cfg.Helper,
		},
		attachedOnly: cfg.AttachedOnly,
	}, nil
}

func (n *NamedValue) Kind() Kind { return KindNamed }

// AttachedOnly reports whether a value must be attached with '=' or glued
// to the short alias.
func (n *NamedValue) AttachedOnly() bool { return n.attachedOnly }

func (n *NamedValue) isSpec() {}

// normalizeValued applies defaults and validates the value machinery shared
// by Positional and NamedValue.
func normalizeValued(arity Arity, converter Converter, def *cty.Value, choices []cty.Value, nowait bool) (valued, error) {
	if err := arity.validate(); err != nil {
		return valued{}, err
	}
	if converter == nil {
		converter = ToString
	}
	v := valued{arity: arity, converter: converter, choices: choices, nowait: nowait}
	if def != nil {
		d := *def
		if len(choices) > 0 && !memberOf(d, choices) {
			target := choices[0].Type()
			coerced, err := convert.Convert(d, target)
			if err != nil || !memberOf(coerced, choices) {
				return valued{}, fmt.Errorf("default value %s is not one of the declared choices", ValueText(d))
			}
			v.coercedFrom = d.Type().FriendlyName()
			v.coercedTo = target.FriendlyName()
			d = coerced
		}
		v.def = &d
	}
	return v, nil
}

func memberOf(val cty.Value, choices []cty.Value) bool {
	for _, c := range choices {
		if val.RawEquals(c) {
			return true
		}
	}
	return false
}
