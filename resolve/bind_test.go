package resolve_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/argram/argspec"
	"github.com/vk/argram/command"
	"github.com/vk/argram/fault"
	"github.com/zclconf/go-cty/cty"
)

func TestDashTokensTreatedAsValues(t *testing.T) {
	root := newCommand(t, command.Config{
		Name: "tool",
		Bindings: []command.Binding{
			{Spec: newPositional(t, argspec.PositionalConfig{
				Name:  "inputs",
				Arity: argspec.OneOrMore(),
			})},
		},
	})

	out, err := resolveTokens(t, root, "-", "-5", "-273.15")
	require.NoError(t, err)

	want := cty.TupleVal([]cty.Value{
		cty.StringVal("-"), cty.StringVal("-5"), cty.StringVal("-273.15"),
	})
	assert.True(t, out.Namespace.Value("inputs").RawEquals(want))
}

func TestMalformedTokens(t *testing.T) {
	root := newCommand(t, command.Config{Name: "tool"})

	for _, tok := range []string{"---x", "--x-", "--a--b", "--9lives", "--sp ace"} {
		t.Run(tok, func(t *testing.T) {
			_, err := resolveTokens(t, root, tok)
			f := asFault(t, err)
			assert.Equal(t, fault.CodeMalformedToken, f.Code)
			assert.Equal(t, tok, f.Context.Token)
			assert.Equal(t, 0, f.Context.Offset)
		})
	}
}

func TestShortPrefixFallback(t *testing.T) {
	build := func() *command.Command {
		return newCommand(t, command.Config{
			Name: "tool",
			Bindings: []command.Binding{
				{Spec: newOption(t, argspec.NamedValueConfig{
					Aliases:   []string{"-n", "--number"},
					Converter: argspec.ToNumber,
				})},
				{Spec: newFlag(t, argspec.BooleanConfig{Aliases: []string{"-v", "--verbose"}})},
			},
		})
	}

	t.Run("glued short form binds as attached", func(t *testing.T) {
		out, err := resolveTokens(t, build(), "-n5")
		require.NoError(t, err)
		assert.True(t, out.Namespace.Value("number").RawEquals(cty.NumberIntVal(5)))
	})

	t.Run("explicit attached short form binds too", func(t *testing.T) {
		out, err := resolveTokens(t, build(), "-n=5")
		require.NoError(t, err)
		assert.True(t, out.Namespace.Value("number").RawEquals(cty.NumberIntVal(5)))
	})

	t.Run("flags never take a glued value", func(t *testing.T) {
		_, err := resolveTokens(t, build(), "-v5")
		f := asFault(t, err)
		assert.Equal(t, fault.CodeUnrecognizedOption, f.Code)
		assert.Equal(t, "-v5", f.Context.Token)
	})
}

func TestAttachedOnlyOption(t *testing.T) {
	build := func() *command.Command {
		return newCommand(t, command.Config{
			Name: "tool",
			Bindings: []command.Binding{
				{Spec: newOption(t, argspec.NamedValueConfig{
					Aliases:      []string{"--define"},
					AttachedOnly: true,
				})},
			},
		})
	}

	out, err := resolveTokens(t, build(), "--define=x")
	require.NoError(t, err)
	assert.Equal(t, "x", out.Namespace.Text("define"))

	_, err = resolveTokens(t, build(), "--define", "x")
	f := asFault(t, err)
	assert.Equal(t, fault.CodeAttachedValueRequired, f.Code)
	assert.Contains(t, f.Hint, "--define=<value>")
}

func TestBooleanRejectsAttachedValue(t *testing.T) {
	root := newCommand(t, command.Config{
		Name: "tool",
		Bindings: []command.Binding{
			{Spec: newFlag(t, argspec.BooleanConfig{Aliases: []string{"--debug"}})},
		},
	})

	_, err := resolveTokens(t, root, "--debug=true")
	f := asFault(t, err)
	assert.Equal(t, fault.CodeBooleanAssignment, f.Code)
	assert.Contains(t, f.Summary, `"--debug"`)
}

func TestUnknownOptionSuggestions(t *testing.T) {
	root := newCommand(t, command.Config{
		Name: "grid",
		Bindings: []command.Binding{
			{Spec: newOption(t, argspec.NamedValueConfig{Aliases: []string{"-t", "--threads"}})},
			{Spec: newOption(t, argspec.NamedValueConfig{
				Aliases: []string{"--secret"},
				Hidden:  true,
			})},
		},
	})

	t.Run("close match is suggested", func(t *testing.T) {
		_, err := resolveTokens(t, root, "--thredas")
		f := asFault(t, err)
		assert.Equal(t, fault.CodeUnrecognizedOption, f.Code)
		require.NotEmpty(t, f.Context.Suggestions)
		assert.Equal(t, "--threads", f.Context.Suggestions[0])
		assert.Contains(t, f.Hint, "did you mean '--threads'?")
	})

	t.Run("hidden aliases are never suggested", func(t *testing.T) {
		_, err := resolveTokens(t, root, "--secrte")
		f := asFault(t, err)
		assert.NotContains(t, f.Context.Suggestions, "--secret")
	})

	t.Run("no match falls back to the help hint", func(t *testing.T) {
		_, err := resolveTokens(t, root, "--zzzzzzzz")
		f := asFault(t, err)
		assert.Empty(t, f.Context.Suggestions)
		assert.Equal(t, "run 'grid --help' to see all options", f.Hint)
	})
}

func TestUnknownCommandRouting(t *testing.T) {
	newTree := func(t *testing.T) *command.Command {
		t.Helper()
		root := newCommand(t, command.Config{Name: "tool"})
		require.NoError(t, root.Attach(newCommand(t, command.Config{Name: "build"})))
		require.NoError(t, root.Attach(newCommand(t, command.Config{Name: "deploy"})))
		service := newCommand(t, command.Config{Name: "service"})
		require.NoError(t, service.Attach(newCommand(t, command.Config{Name: "start"})))
		require.NoError(t, service.Attach(newCommand(t, command.Config{Name: "stop"})))
		require.NoError(t, root.Attach(service))
		return root
	}

	t.Run("misspelled command at the root", func(t *testing.T) {
		_, err := resolveTokens(t, newTree(t), "bild")
		f := asFault(t, err)
		assert.Equal(t, fault.CodeUnknownCommand, f.Code)
		assert.Equal(t, `unknown command "bild" at offset 0`, f.Summary)
		assert.Equal(t, []string{"build"}, f.Context.Suggestions)
	})

	t.Run("misspelled nested subcommand", func(t *testing.T) {
		_, err := resolveTokens(t, newTree(t), "service", "strt")
		f := asFault(t, err)
		assert.Equal(t, fault.CodeUnknownSubcommand, f.Code)
		assert.Equal(t, `unknown subcommand "strt" at offset 0`, f.Summary)
		assert.Equal(t, []string{"start"}, f.Context.Suggestions)
		assert.Contains(t, f.Hint, "'tool service --help'")
	})
}

func TestUnexpectedPositionalsAccumulate(t *testing.T) {
	root := newCommand(t, command.Config{
		Name: "tool",
		Bindings: []command.Binding{
			{Spec: newFlag(t, argspec.BooleanConfig{Aliases: []string{"--debug"}})},
		},
	})

	_, err := resolveTokens(t, root, "x", "--debug", "y", "z")
	b := asBundle(t, err)

	require.Equal(t, 1, b.Len())
	f := b.Causes[0].Fault
	assert.Equal(t, fault.CodeUnexpectedPositional, f.Code)
	assert.Contains(t, f.Summary, `"x" at offset 0`)
	assert.Equal(t, []string{"x", "y", "z"}, f.Context.Leftover)
}

func TestSpacedValuePull(t *testing.T) {
	build := func() *command.Command {
		return newCommand(t, command.Config{
			Name: "tool",
			Bindings: []command.Binding{
				{Spec: newPositional(t, argspec.PositionalConfig{
					Name:  "rest",
					Arity: argspec.ZeroOrOne(),
				})},
				{Spec: newOption(t, argspec.NamedValueConfig{
					Aliases: []string{"--files"},
					Arity:   argspec.ZeroOrMore(),
				})},
				{Spec: newOption(t, argspec.NamedValueConfig{
					Aliases:   []string{"--offset"},
					Converter: argspec.ToNumber,
				})},
				{Spec: newFlag(t, argspec.BooleanConfig{Aliases: []string{"--verbose"}})},
			},
		})
	}

	t.Run("pull stops at the next option-shaped token", func(t *testing.T) {
		out, err := resolveTokens(t, build(), "--files", "a", "b", "--verbose", "c")
		require.NoError(t, err)

		want := cty.TupleVal([]cty.Value{cty.StringVal("a"), cty.StringVal("b")})
		assert.True(t, out.Namespace.Value("files").RawEquals(want))
		assert.True(t, out.Namespace.Bool("verbose"))
		assert.Equal(t, "c", out.Namespace.Text("rest"))
	})

	t.Run("negative numbers are pulled as values", func(t *testing.T) {
		out, err := resolveTokens(t, build(), "--offset", "-5")
		require.NoError(t, err)
		assert.True(t, out.Namespace.Value("offset").RawEquals(cty.NumberIntVal(-5)))
	})

	t.Run("an attached value closes consumption", func(t *testing.T) {
		out, err := resolveTokens(t, build(), "--files=a", "b")
		require.NoError(t, err)

		want := cty.TupleVal([]cty.Value{cty.StringVal("a")})
		assert.True(t, out.Namespace.Value("files").RawEquals(want))
		assert.Equal(t, "b", out.Namespace.Text("rest"))
	})
}

func TestAttachedListSplitting(t *testing.T) {
	build := func() *command.Command {
		return newCommand(t, command.Config{
			Name: "tool",
			Bindings: []command.Binding{
				{Spec: newOption(t, argspec.NamedValueConfig{
					Aliases: []string{"--files"},
					Arity:   argspec.ZeroOrMore(),
				})},
			},
		})
	}
	pair := cty.TupleVal([]cty.Value{cty.StringVal("a"), cty.StringVal("b")})

	t.Run("colon separated", func(t *testing.T) {
		out, err := resolveTokens(t, build(), "--files=a:b")
		require.NoError(t, err)
		assert.True(t, out.Namespace.Value("files").RawEquals(pair))
	})

	t.Run("comma separated", func(t *testing.T) {
		out, err := resolveTokens(t, build(), "--files=a,b")
		require.NoError(t, err)
		assert.True(t, out.Namespace.Value("files").RawEquals(pair))
	})

	t.Run("no separator keeps one value", func(t *testing.T) {
		out, err := resolveTokens(t, build(), "--files=solo")
		require.NoError(t, err)
		one := cty.TupleVal([]cty.Value{cty.StringVal("solo")})
		assert.True(t, out.Namespace.Value("files").RawEquals(one))
	})
}

func TestEmptyAttachedValue(t *testing.T) {
	t.Run("required option warns then faults on arity", func(t *testing.T) {
		root := newCommand(t, command.Config{
			Name: "tool",
			Bindings: []command.Binding{
				{Spec: newOption(t, argspec.NamedValueConfig{Aliases: []string{"--name"}})},
			},
		})

		_, err := resolveTokens(t, root, "--name=")
		b := asBundle(t, err)
		require.Equal(t, 2, b.Len())
		assert.Equal(t, fault.CodeEmptyAttachedValue, b.Causes[0].Fault.Code)
		assert.True(t, b.Causes[0].Fault.IsWarning())
		assert.Equal(t, fault.CodeMissingParameter, b.Causes[1].Fault.Code)
		assert.Contains(t, b.Causes[1].Fault.Summary, "at offset 0")
	})

	t.Run("optional option warns and resolves", func(t *testing.T) {
		root := newCommand(t, command.Config{
			Name: "tool",
			Bindings: []command.Binding{
				{Spec: newOption(t, argspec.NamedValueConfig{
					Aliases: []string{"--label"},
					Arity:   argspec.ZeroOrOne(),
				})},
			},
		})

		out, err := resolveTokens(t, root, "--label=")
		require.NoError(t, err)
		require.NotNil(t, out.Warnings)
		assert.True(t, out.Warnings.Soft)
		warnings := out.Warnings.Warnings()
		require.Len(t, warnings, 1)
		assert.Equal(t, fault.CodeEmptyAttachedValue, warnings[0].Code)
		assert.Equal(t, cty.NilVal, out.Namespace.Value("label"))
	})
}

func TestDuplicateOccurrences(t *testing.T) {
	t.Run("non-repeatable option faults and keeps the last value", func(t *testing.T) {
		root := newCommand(t, command.Config{
			Name: "tool",
			Bindings: []command.Binding{
				{Spec: newOption(t, argspec.NamedValueConfig{Aliases: []string{"--name"}})},
			},
		})

		_, err := resolveTokens(t, root, "--name=a", "--name=b")
		b := asBundle(t, err)
		require.Equal(t, 1, b.Len())
		f := b.Causes[0].Fault
		assert.Equal(t, fault.CodeDuplicateArgument, f.Code)
		assert.Equal(t, `option "--name" at offset 1 was already provided`, f.Summary)
	})

	t.Run("repeated flag faults", func(t *testing.T) {
		root := newCommand(t, command.Config{
			Name: "tool",
			Bindings: []command.Binding{
				{Spec: newFlag(t, argspec.BooleanConfig{Aliases: []string{"-d", "--debug"}})},
			},
		})

		_, err := resolveTokens(t, root, "-d", "--debug")
		b := asBundle(t, err)
		require.Equal(t, 1, b.Len())
		assert.Equal(t, fault.CodeDuplicateArgument, b.Causes[0].Fault.Code)
	})

	t.Run("repeatable arity accumulates across occurrences", func(t *testing.T) {
		root := newCommand(t, command.Config{
			Name: "tool",
			Bindings: []command.Binding{
				{Spec: newOption(t, argspec.NamedValueConfig{
					Aliases: []string{"--tag"},
					Arity:   argspec.OneOrMore(),
				})},
			},
		})

		out, err := resolveTokens(t, root, "--tag", "a", "--tag", "b")
		require.NoError(t, err)
		want := cty.TupleVal([]cty.Value{cty.StringVal("a"), cty.StringVal("b")})
		assert.True(t, out.Namespace.Value("tag").RawEquals(want))
	})
}

func TestDegradedTerminatorScan(t *testing.T) {
	build := func(cb command.Callback) *command.Command {
		return newCommand(t, command.Config{
			Name: "tool",
			Bindings: []command.Binding{
				{
					Spec: newOption(t, argspec.NamedValueConfig{
						Aliases:    []string{"--eval"},
						Terminator: true,
					}),
					Callback: cb,
				},
			},
		})
	}

	t.Run("attached payload fires after a bad token", func(t *testing.T) {
		var got cty.Value
		cb := func(v cty.Value) error { got = v; return nil }

		out, err := resolveTokens(t, build(cb), "--bad!", "--eval=x")
		require.NoError(t, err)
		require.NotNil(t, out.Terminated)
		assert.Equal(t, "--eval", out.Terminated.Canonical())
		assert.True(t, got.RawEquals(cty.StringVal("x")))
	})

	t.Run("unsatisfied arity cannot fire", func(t *testing.T) {
		_, err := resolveTokens(t, build(nil), "--bad!", "--eval")
		f := asFault(t, err)
		assert.Equal(t, fault.CodeMalformedToken, f.Code)
		assert.Equal(t, "--bad!", f.Context.Token)
	})
}

func TestTerminatorCallbackFailure(t *testing.T) {
	boom := errors.New("pager broke")
	root := newCommand(t, command.Config{
		Name: "tool",
		Bindings: []command.Binding{
			{
				Spec: newFlag(t, argspec.BooleanConfig{
					Aliases:    []string{"--wizard"},
					Terminator: true,
				}),
				Callback: func(cty.Value) error { return boom },
			},
		},
	})

	_, err := resolveTokens(t, root, "--wizard")
	f := asFault(t, err)
	assert.Equal(t, fault.CodeDelegated, f.Code)
	assert.Contains(t, f.Summary, "pager broke")
}

func TestStandaloneLeadingPosition(t *testing.T) {
	root := newCommand(t, command.Config{
		Name: "tool",
		Bindings: []command.Binding{
			{Spec: newFlag(t, argspec.BooleanConfig{Aliases: []string{"--debug"}})},
		},
	})

	// --help comes first; the pending --debug token still violates the
	// standalone rule
	_, err := resolveTokens(t, root, "--help", "--debug")
	f := asFault(t, err)
	assert.Equal(t, fault.CodeStandaloneUsage, f.Code)
	assert.Contains(t, f.Summary, `"--help"`)
}
