package argspec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/argram/argspec"
	"github.com/zclconf/go-cty/cty"
)

func ctyPtr(v cty.Value) *cty.Value { return &v }

func TestValidAlias(t *testing.T) {
	valid := []string{"-v", "--verbose", "-n", "--dry-run", "--c++", "--log2", "-X"}
	for _, alias := range valid {
		assert.True(t, argspec.ValidAlias(alias), alias)
	}

	invalid := []string{"", "-", "--", "---x", "--x-", "--x--y", "-1", "--1st", "verbose", "--with space"}
	for _, alias := range invalid {
		assert.False(t, argspec.ValidAlias(alias), alias)
	}
}

func TestNewPositional(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		p, err := argspec.NewPositional(argspec.PositionalConfig{Name: "target"})
		require.NoError(t, err)
		assert.Equal(t, "target", p.Identifier())
		assert.Equal(t, "TARGET", p.DisplayName())
		assert.Equal(t, argspec.KindPositional, p.Kind())
		assert.True(t, p.Arity().Satisfied(1))
		assert.False(t, p.Arity().Satisfied(0))

		_, declared := p.Default()
		assert.False(t, declared)

		v, err := p.Converter()("hello")
		require.NoError(t, err)
		assert.Equal(t, cty.StringVal("hello"), v)
	})

	t.Run("display override", func(t *testing.T) {
		p, err := argspec.NewPositional(argspec.PositionalConfig{Name: "path", Display: "FILE"})
		require.NoError(t, err)
		assert.Equal(t, "FILE", p.DisplayName())
		assert.Equal(t, "path", p.Identifier())
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := argspec.NewPositional(argspec.PositionalConfig{})
		assert.ErrorContains(t, err, "name cannot be empty")
	})

	t.Run("malformed name rejected", func(t *testing.T) {
		_, err := argspec.NewPositional(argspec.PositionalConfig{Name: "--target"})
		assert.ErrorContains(t, err, "malformed positional name")
	})

	t.Run("remainder forbids display override", func(t *testing.T) {
		_, err := argspec.NewPositional(argspec.PositionalConfig{
			Name:    "rest",
			Arity:   argspec.Remainder(),
			Display: "REST",
		})
		assert.ErrorContains(t, err, "cannot override its display name")
	})

	t.Run("exact arity below one rejected", func(t *testing.T) {
		_, err := argspec.NewPositional(argspec.PositionalConfig{
			Name:  "coords",
			Arity: argspec.Exactly(0),
		})
		assert.ErrorContains(t, err, "at least 1")
	})
}

func TestDefaultChoiceValidation(t *testing.T) {
	choices := []cty.Value{cty.StringVal("slow"), cty.StringVal("steady")}

	t.Run("member default accepted", func(t *testing.T) {
		p, err := argspec.NewPositional(argspec.PositionalConfig{
			Name:    "mode",
			Choices: choices,
			Default: ctyPtr(cty.StringVal("slow")),
		})
		require.NoError(t, err)
		def, declared := p.Default()
		assert.True(t, declared)
		assert.Equal(t, cty.StringVal("slow"), def)
		_, _, coerced := p.CoercedDefault()
		assert.False(t, coerced)
	})

	t.Run("non member default rejected", func(t *testing.T) {
		_, err := argspec.NewPositional(argspec.PositionalConfig{
			Name:    "mode",
			Choices: choices,
			Default: ctyPtr(cty.StringVal("fast")),
		})
		assert.ErrorContains(t, err, "not one of the declared choices")
	})

	t.Run("coercible default accepted with a record", func(t *testing.T) {
		p, err := argspec.NewPositional(argspec.PositionalConfig{
			Name:    "retries",
			Choices: []cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(5)},
			Default: ctyPtr(cty.StringVal("5")),
		})
		require.NoError(t, err)
		def, declared := p.Default()
		require.True(t, declared)
		assert.Equal(t, cty.NumberIntVal(5), def)
		from, to, coerced := p.CoercedDefault()
		assert.True(t, coerced)
		assert.Equal(t, "string", from)
		assert.Equal(t, "number", to)
	})

	t.Run("default without choices is kept verbatim", func(t *testing.T) {
		p, err := argspec.NewPositional(argspec.PositionalConfig{
			Name:    "retries",
			Default: ctyPtr(cty.StringVal("5")),
		})
		require.NoError(t, err)
		def, _ := p.Default()
		assert.Equal(t, cty.StringVal("5"), def)
	})
}

func TestNewNamedValue(t *testing.T) {
	t.Run("canonical alias order is shorts then longs, each sorted", func(t *testing.T) {
		n, err := argspec.NewNamedValue(argspec.NamedValueConfig{
			Aliases: []string{"--threads", "-t", "--thread-count", "-T"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"-T", "-t", "--thread-count", "--threads"}, n.Aliases())
		assert.Equal(t, "--thread-count", n.Canonical())
		assert.Equal(t, "thread-count", n.Identifier())
		assert.Equal(t, argspec.KindNamed, n.Kind())
	})

	t.Run("short only alias", func(t *testing.T) {
		n, err := argspec.NewNamedValue(argspec.NamedValueConfig{Aliases: []string{"-t"}})
		require.NoError(t, err)
		assert.Equal(t, "-t", n.Canonical())
		assert.Equal(t, "t", n.Identifier())
	})

	t.Run("no aliases rejected", func(t *testing.T) {
		_, err := argspec.NewNamedValue(argspec.NamedValueConfig{})
		assert.ErrorContains(t, err, "at least one alias")
	})

	t.Run("duplicate alias rejected", func(t *testing.T) {
		_, err := argspec.NewNamedValue(argspec.NamedValueConfig{Aliases: []string{"-t", "-t"}})
		assert.ErrorContains(t, err, "appears more than once")
	})

	t.Run("malformed alias rejected", func(t *testing.T) {
		_, err := argspec.NewNamedValue(argspec.NamedValueConfig{Aliases: []string{"---x"}})
		assert.ErrorContains(t, err, "malformed alias")
	})

	t.Run("remainder arity rejected", func(t *testing.T) {
		_, err := argspec.NewNamedValue(argspec.NamedValueConfig{
			Aliases: []string{"--rest"},
			Arity:   argspec.Remainder(),
		})
		assert.ErrorContains(t, err, "remainder")
	})

	t.Run("helper implies standalone and terminator", func(t *testing.T) {
		n, err := argspec.NewNamedValue(argspec.NamedValueConfig{
			Aliases: []string{"--show"},
			Helper:  true,
		})
		require.NoError(t, err)
		assert.True(t, n.Helper())
		assert.True(t, n.Standalone())
		assert.True(t, n.Terminator())
		assert.True(t, n.NoWait(), "a terminator cannot validate with the structural checks")
	})

	t.Run("helper excludes hidden and deprecated", func(t *testing.T) {
		_, err := argspec.NewNamedValue(argspec.NamedValueConfig{
			Aliases: []string{"--show"},
			Helper:  true,
			Hidden:  true,
		})
		assert.ErrorContains(t, err, "cannot be hidden or deprecated")

		_, err = argspec.NewNamedValue(argspec.NamedValueConfig{
			Aliases:    []string{"--show"},
			Helper:     true,
			Deprecated: true,
		})
		assert.ErrorContains(t, err, "cannot be hidden or deprecated")
	})

	t.Run("attached only is carried", func(t *testing.T) {
		n, err := argspec.NewNamedValue(argspec.NamedValueConfig{
			Aliases:      []string{"--token"},
			AttachedOnly: true,
		})
		require.NoError(t, err)
		assert.True(t, n.AttachedOnly())
	})
}

func TestNewBoolean(t *testing.T) {
	t.Run("basic flag", func(t *testing.T) {
		b, err := argspec.NewBoolean(argspec.BooleanConfig{Aliases: []string{"-d", "--debug"}})
		require.NoError(t, err)
		assert.Equal(t, argspec.KindBoolean, b.Kind())
		assert.Equal(t, "debug", b.Identifier())
		assert.Equal(t, "--debug", b.Canonical())
		assert.False(t, b.Standalone())
	})

	t.Run("helper implications", func(t *testing.T) {
		b, err := argspec.NewBoolean(argspec.BooleanConfig{Aliases: []string{"-h", "--help"}, Helper: true})
		require.NoError(t, err)
		assert.True(t, b.Standalone())
		assert.True(t, b.Terminator())
	})

	t.Run("helper excludes hidden", func(t *testing.T) {
		_, err := argspec.NewBoolean(argspec.BooleanConfig{Aliases: []string{"-h"}, Helper: true, Hidden: true})
		assert.ErrorContains(t, err, "cannot be hidden or deprecated")
	})
}

func TestSpecInterfaces(t *testing.T) {
	p, err := argspec.NewPositional(argspec.PositionalConfig{Name: "target"})
	require.NoError(t, err)
	n, err := argspec.NewNamedValue(argspec.NamedValueConfig{Aliases: []string{"--url"}})
	require.NoError(t, err)
	b, err := argspec.NewBoolean(argspec.BooleanConfig{Aliases: []string{"--quiet"}})
	require.NoError(t, err)

	var _ argspec.Spec = p
	var _ argspec.Spec = n
	var _ argspec.Spec = b
	var _ argspec.Valued = p
	var _ argspec.Valued = n
	var _ argspec.Named = n
	var _ argspec.Named = b
}
