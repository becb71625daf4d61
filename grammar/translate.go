// This file translates decoded manifest blocks into argument specs and
// frozen commands. Expressions for arity, type, default and choices are
// evaluated here, against an empty context: manifests are static
// declarations, not programs.

package grammar

import (
	"context"
	"fmt"
	"math/big"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/argram/argspec"
	"github.com/vk/argram/command"
)

// translate builds the command subtree rooted at block. route is the
// space-joined path from the manifest root, used to look up registered
// handlers and callbacks.
func (l *Loader) translate(ctx context.Context, block *commandBlock, route string) (*command.Command, error) {
	logger := loggerFrom(ctx)
	logger.Debug("translating command block", "route", route)

	bindings, err := l.translateArguments(ctx, block, route)
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", route, err)
	}

	cmd, err := command.New(command.Config{
		Name:        block.Name,
		Description: block.Description,
		Usage:       block.Usage,
		Epilog:      block.Epilog,
		Notes:       block.Notes,
		Examples:    block.Examples,
		Bindings:    bindings,
		Handler:     l.handlerFor(route),
		Conflicts:   translateConflicts(block.Conflicts),
		Metadata:    translateMetadata(block.Metadata),
	})
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", route, err)
	}

	for _, child := range block.Commands {
		sub, err := l.translate(ctx, child, route+" "+child.Name)
		if err != nil {
			return nil, err
		}
		if err := cmd.Attach(sub); err != nil {
			return nil, fmt.Errorf("command %q: %w", route, err)
		}
	}
	return cmd, nil
}

// translateArguments builds the binding list for one command block.
// gohcl groups blocks by type, so the order is positionals in file
// order, then options, then flags; within a kind the file order holds.
func (l *Loader) translateArguments(ctx context.Context, block *commandBlock, route string) ([]command.Binding, error) {
	var bindings []command.Binding

	bind := func(spec argspec.Spec) {
		bindings = append(bindings, command.Binding{
			Spec:     spec,
			Callback: l.callbackFor(route, spec.Identifier()),
		})
	}

	for _, b := range block.Positionals {
		spec, err := translatePositional(ctx, b)
		if err != nil {
			return nil, err
		}
		bind(spec)
	}
	for _, b := range block.Options {
		spec, err := translateOption(ctx, b)
		if err != nil {
			return nil, err
		}
		bind(spec)
	}
	for _, b := range block.Flags {
		spec, err := translateFlag(b)
		if err != nil {
			return nil, err
		}
		bind(spec)
	}
	return bindings, nil
}

func translatePositional(ctx context.Context, b *positionalBlock) (*argspec.Positional, error) {
	arity, err := parseArity(b.Arity)
	if err != nil {
		return nil, fmt.Errorf("positional %q: %w", b.Name, err)
	}
	conv, ty, err := translateConverter(ctx, b.Type)
	if err != nil {
		return nil, fmt.Errorf("positional %q: %w", b.Name, err)
	}
	def, err := evalDefault(b.Default, ty)
	if err != nil {
		return nil, fmt.Errorf("positional %q: %w", b.Name, err)
	}
	choices, err := evalChoices(b.Choices, ty)
	if err != nil {
		return nil, fmt.Errorf("positional %q: %w", b.Name, err)
	}
	return argspec.NewPositional(argspec.PositionalConfig{
		Name:        b.Name,
		Description: b.Description,
		Display:     b.DisplayName,
		Arity:       arity,
		Converter:   conv,
		Default:     def,
		Choices:     choices,
		Group:       b.Group,
		NoWait:      b.NoWait,
		Hidden:      b.Hidden,
		Deprecated:  b.Deprecated,
	})
}

func translateOption(ctx context.Context, b *optionBlock) (*argspec.NamedValue, error) {
	arity, err := parseArity(b.Arity)
	if err != nil {
		return nil, fmt.Errorf("option %q: %w", b.Alias, err)
	}
	conv, ty, err := translateConverter(ctx, b.Type)
	if err != nil {
		return nil, fmt.Errorf("option %q: %w", b.Alias, err)
	}
	def, err := evalDefault(b.Default, ty)
	if err != nil {
		return nil, fmt.Errorf("option %q: %w", b.Alias, err)
	}
	choices, err := evalChoices(b.Choices, ty)
	if err != nil {
		return nil, fmt.Errorf("option %q: %w", b.Alias, err)
	}
	return argspec.NewNamedValue(argspec.NamedValueConfig{
		Aliases:      append([]string{b.Alias}, b.Aliases...),
		Description:  b.Description,
		Arity:        arity,
		Converter:    conv,
		Default:      def,
		Choices:      choices,
		Group:        b.Group,
		AttachedOnly: b.AttachedOnly,
		NoWait:       b.NoWait,
		Standalone:   b.Standalone,
		Terminator:   b.Terminator,
		Hidden:       b.Hidden,
		Deprecated:   b.Deprecated,
	})
}

func translateFlag(b *flagBlock) (*argspec.Boolean, error) {
	return argspec.NewBoolean(argspec.BooleanConfig{
		Aliases:     append([]string{b.Alias}, b.Aliases...),
		Description: b.Description,
		Group:       b.Group,
		Standalone:  b.Standalone,
		Terminator:  b.Terminator,
		Hidden:      b.Hidden,
		Deprecated:  b.Deprecated,
	})
}

func translateConflicts(blocks []*conflictBlock) [][2]string {
	if len(blocks) == 0 {
		return nil
	}
	pairs := make([][2]string, 0, len(blocks))
	for _, b := range blocks {
		pairs = append(pairs, [2]string{b.First, b.Second})
	}
	return pairs
}

func translateMetadata(b *metadataBlock) *command.Metadata {
	if b == nil {
		return nil
	}
	return &command.Metadata{
		Version:     b.Version,
		License:     b.License,
		Homepage:    b.Homepage,
		Support:     b.Support,
		Bugtracker:  b.Bugtracker,
		Copyright:   b.Copyright,
		Developers:  b.Developers,
		Maintainers: b.Maintainers,
	}
}

// parseArity reads an arity attribute. The markers follow the usual
// shell conventions: "?", "*", "+" and "..." for the variable shapes,
// a number (or numeric string) for an exact count. Absent means one.
func parseArity(expr hcl.Expression) (argspec.Arity, error) {
	if expr == nil {
		return argspec.One(), nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return argspec.Arity{}, fmt.Errorf("invalid arity: %w", diags)
	}
	if val.IsNull() {
		return argspec.One(), nil
	}

	switch val.Type() {
	case cty.Number:
		return exactArity(val)
	case cty.String:
		switch s := val.AsString(); s {
		case "?":
			return argspec.ZeroOrOne(), nil
		case "*":
			return argspec.ZeroOrMore(), nil
		case "+":
			return argspec.OneOrMore(), nil
		case "...":
			return argspec.Remainder(), nil
		default:
			n, err := strconv.Atoi(s)
			if err != nil {
				return argspec.Arity{}, fmt.Errorf("unknown arity marker %q", s)
			}
			if n < 1 {
				return argspec.Arity{}, fmt.Errorf("arity count must be at least 1, got %d", n)
			}
			return argspec.Exactly(n), nil
		}
	default:
		return argspec.Arity{}, fmt.Errorf("arity must be a marker string or a count, got %s", val.Type().FriendlyName())
	}
}

func exactArity(val cty.Value) (argspec.Arity, error) {
	n, acc := val.AsBigFloat().Int64()
	if acc != big.Exact {
		return argspec.Arity{}, fmt.Errorf("arity count must be a whole number")
	}
	if n < 1 {
		return argspec.Arity{}, fmt.Errorf("arity count must be at least 1, got %d", n)
	}
	return argspec.Exactly(int(n)), nil
}

// translateConverter resolves a type attribute into the converter the
// spec will run on raw values. Without a declared type the spec keeps
// its default string conversion, and defaults and choices are taken as
// written.
func translateConverter(ctx context.Context, expr hcl.Expression) (argspec.Converter, cty.Type, error) {
	if expr == nil {
		return nil, cty.NilType, nil
	}
	ty, err := typeExprToCtyType(ctx, expr)
	if err != nil {
		return nil, cty.NilType, err
	}
	return argspec.To(ty), ty, nil
}

// evalDefault evaluates a default attribute. Null means no default,
// matching an absent attribute. A declared type constrains the value.
func evalDefault(expr hcl.Expression, ty cty.Type) (*cty.Value, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid default: %w", diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	if wantsConversion(ty) {
		converted, err := convert.Convert(val, ty)
		if err != nil {
			return nil, fmt.Errorf("default does not conform to the declared type: %w", err)
		}
		val = converted
	}
	return &val, nil
}

// evalChoices evaluates a choices attribute into the allowed value set.
func evalChoices(expr hcl.Expression, ty cty.Type) ([]cty.Value, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid choices: %w", diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.CanIterateElements() {
		return nil, fmt.Errorf("choices must be a list, got %s", val.Type().FriendlyName())
	}

	var out []cty.Value
	for it := val.ElementIterator(); it.Next(); {
		_, el := it.Element()
		if wantsConversion(ty) {
			converted, err := convert.Convert(el, ty)
			if err != nil {
				return nil, fmt.Errorf("choice %s does not conform to the declared type: %w", argspec.ValueText(el), err)
			}
			el = converted
		}
		out = append(out, el)
	}
	return out, nil
}

func wantsConversion(ty cty.Type) bool {
	return ty != cty.NilType && ty != cty.DynamicPseudoType
}
