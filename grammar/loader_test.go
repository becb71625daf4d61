package grammar_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/argram/argspec"
	"github.com/vk/argram/command"
	"github.com/vk/argram/grammar"
	"github.com/vk/argram/resolve"
)

// parseOne loads a single-root manifest from source.
func parseOne(t *testing.T, l *grammar.Loader, src string) *command.Command {
	t.Helper()
	roots, err := l.Parse(context.Background(), "inline.hcl", []byte(src))
	require.NoError(t, err)
	require.Len(t, roots, 1)
	return roots[0]
}

func TestManifestBuildsCommandTree(t *testing.T) {
	root := parseOne(t, grammar.New(), `
		command "grid" {
			description = "burst load orchestrator"

			positional "target" {
				description  = "grid files to run"
				arity        = "+"
				display_name = "TARGET"
			}

			option "--threads" {
				aliases     = ["-t"]
				type        = number
				default     = 4
				description = "worker pool size"
			}

			option "--mode" {
				choices = ["fast", "slow"]
				default = "slow"
			}

			flag "--debug" {
				aliases = ["-d"]
			}

			conflict "threads" "debug" {}

			metadata {
				version    = "2.1.0"
				license    = "MIT"
				homepage   = "https://example.com/grid"
				developers = ["V. K."]
			}

			command "status" {
				description = "show cluster status"
				flag "--all" {}
			}
		}`)

	assert.Equal(t, "grid", root.Name())
	assert.Equal(t, "burst load orchestrator", root.Description())
	assert.False(t, root.Active())

	require.Len(t, root.Positionals(), 1)
	target := root.Positionals()[0]
	assert.Equal(t, "TARGET", target.DisplayName())
	assert.Equal(t, "grid files to run", target.Description())
	assert.Equal(t, argspec.OneOrMore(), target.Arity())

	threads, ok := root.Lookup("-t")
	require.True(t, ok)
	assert.Equal(t, "--threads", threads.Canonical())
	byLong, ok := root.Lookup("--threads")
	require.True(t, ok)
	assert.Same(t, threads, byLong)

	mode, ok := root.Lookup("--mode")
	require.True(t, ok)
	require.Len(t, mode.(*argspec.NamedValue).Choices(), 2)

	assert.Equal(t, [][2]string{{"threads", "debug"}}, root.Conflicts())

	require.NotNil(t, root.Metadata())
	assert.Equal(t, "2.1.0", root.Version())
	assert.Equal(t, "MIT", root.Metadata().License)
	assert.Equal(t, []string{"V. K."}, root.Metadata().Developers)

	t.Run("metadata injects the version helper on the root only", func(t *testing.T) {
		_, ok := root.Lookup("--version")
		assert.True(t, ok)

		status, ok := root.Child("status")
		require.True(t, ok)
		_, ok = status.Lookup("--version")
		assert.False(t, ok)
		_, ok = status.Lookup("--help")
		assert.True(t, ok)
	})

	t.Run("the built tree resolves real invocations", func(t *testing.T) {
		out, err := resolve.New(root).Resolve(context.Background(),
			[]string{"a.hcl", "b.hcl", "--threads", "8"})
		require.NoError(t, err)
		require.NotNil(t, out.Namespace)

		assert.Equal(t, cty.TupleVal([]cty.Value{
			cty.StringVal("a.hcl"), cty.StringVal("b.hcl"),
		}), out.Namespace.Value("target"))
		assert.Equal(t, cty.NumberIntVal(8), out.Namespace.Value("threads"))
		assert.Equal(t, "slow", out.Namespace.Text("mode"))

		_, err = resolve.New(root).Resolve(context.Background(),
			[]string{"a.hcl", "--mode", "turbo"})
		require.Error(t, err, "a value outside the choices must be rejected")
	})

	t.Run("subcommands resolve through descent", func(t *testing.T) {
		out, err := resolve.New(root).Resolve(context.Background(),
			[]string{"status", "--all"})
		require.NoError(t, err)
		assert.Equal(t, "grid status", out.Command.Route())
		assert.True(t, out.Namespace.Bool("all"))
	})
}

func TestDeclaredTypesDriveConversion(t *testing.T) {
	root := parseOne(t, grammar.New(), `
		command "calc" {
			option "--port" {
				type = number
			}
			option "--strict" {
				type = bool
			}
			option "--name" {
				type = string
				default = 5
			}
		}`)

	out, err := resolve.New(root).Resolve(context.Background(),
		[]string{"--port", "8080", "--strict", "true"})
	require.NoError(t, err)

	assert.Equal(t, cty.NumberIntVal(8080), out.Namespace.Value("port"))
	assert.Equal(t, cty.True, out.Namespace.Value("strict"))

	// the numeric default was converted to the declared string type
	assert.Equal(t, "5", out.Namespace.Text("name"))
}

func TestArgumentModifiers(t *testing.T) {
	root := parseOne(t, grammar.New(), `
		command "tool" {
			option "--define" {
				attached_only = true
			}
			option "--eval" {
				terminator = true
			}
			flag "--quiet" {
				standalone = true
			}
			flag "--old" {
				deprecated = true
			}
			flag "--secret" {
				hidden = true
			}
			positional "extras" {
				arity = "..."
			}
		}`)

	define, ok := root.Lookup("--define")
	require.True(t, ok)
	assert.True(t, define.(*argspec.NamedValue).AttachedOnly())

	eval, ok := root.Lookup("--eval")
	require.True(t, ok)
	assert.True(t, eval.Terminator())
	assert.True(t, eval.(*argspec.NamedValue).NoWait(), "a terminator cannot validate with the structural checks")

	quiet, ok := root.Lookup("--quiet")
	require.True(t, ok)
	assert.True(t, quiet.Standalone())

	old, ok := root.Lookup("--old")
	require.True(t, ok)
	assert.True(t, old.Deprecated())

	secret, ok := root.Lookup("--secret")
	require.True(t, ok)
	assert.True(t, secret.Hidden())

	require.Len(t, root.Positionals(), 1)
	assert.True(t, root.Positionals()[0].Arity().IsRemainder())
}

func TestHandlerAndCallbackRegistration(t *testing.T) {
	t.Run("registrations are consumed by route", func(t *testing.T) {
		var seen cty.Value
		loader := grammar.New(
			grammar.WithHandler("tool run", func(ns *command.Namespace) (cty.Value, error) {
				return cty.StringVal("ran " + ns.Text("job")), nil
			}),
			grammar.WithCallback("tool run", "verbose", func(v cty.Value) error {
				seen = v
				return nil
			}),
		)
		root := parseOne(t, loader, `
			command "tool" {
				command "run" {
					positional "job" {}
					flag "--verbose" {}
				}
			}`)

		run, ok := root.Child("run")
		require.True(t, ok)
		assert.True(t, run.Active())

		out, err := resolve.New(root).Resolve(context.Background(),
			[]string{"run", "backup", "--verbose"})
		require.NoError(t, err)
		assert.Equal(t, cty.StringVal("ran backup"), out.Result)
		assert.Nil(t, out.Namespace, "active commands return a result, not a namespace")
		assert.Equal(t, cty.True, seen)
	})

	t.Run("an unconsumed registration is an error", func(t *testing.T) {
		loader := grammar.New(
			grammar.WithHandler("tool deploy", func(ns *command.Namespace) (cty.Value, error) {
				return cty.NilVal, nil
			}),
		)
		_, err := loader.Parse(context.Background(), "inline.hcl", []byte(`
			command "tool" {
				command "run" {}
			}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `no command block consumed the registered handler for route "tool deploy"`)
	})

	t.Run("an unconsumed callback names its spec", func(t *testing.T) {
		loader := grammar.New(
			grammar.WithCallback("tool", "verbsoe", func(cty.Value) error { return nil }),
		)
		_, err := loader.Parse(context.Background(), "inline.hcl", []byte(`
			command "tool" {
				flag "--verbose" {}
			}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `callback for "verbsoe" at route "tool"`)
	})
}

func TestManifestErrors(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "unbalanced braces",
			src:     `command "x" {`,
			wantErr: "parsing inline.hcl",
		},
		{
			name:    "no command block",
			src:     "# just a comment\n",
			wantErr: "declares no command block",
		},
		{
			name: "unknown attribute",
			src: `command "x" {
				bogus = 1
			}`,
			wantErr: "decoding inline.hcl",
		},
		{
			name: "duplicate alias",
			src: `command "x" {
				option "--out" {}
				flag "--out" {}
			}`,
			wantErr: `alias "--out" is declared more than once`,
		},
		{
			name: "conflict over unknown identifier",
			src: `command "x" {
				flag "--a" {}
				conflict "a" "b" {}
			}`,
			wantErr: `conflict references unknown identifier "b"`,
		},
		{
			name: "bad arity marker",
			src: `command "x" {
				positional "p" { arity = "!" }
			}`,
			wantErr: `positional "p": unknown arity marker "!"`,
		},
		{
			name: "fractional arity",
			src: `command "x" {
				option "--n" { arity = 2.5 }
			}`,
			wantErr: "whole number",
		},
		{
			name: "unknown type keyword",
			src: `command "x" {
				option "--n" { type = widget }
			}`,
			wantErr: `unknown primitive type "widget"`,
		},
		{
			name: "collection of any",
			src: `command "x" {
				option "--n" { type = list(any) }
			}`,
			wantErr: "collection types cannot contain type 'any'",
		},
		{
			name: "choices must be a list",
			src: `command "x" {
				option "--n" { choices = "fast" }
			}`,
			wantErr: "choices must be a list",
		},
		{
			name: "default against declared type",
			src: `command "x" {
				option "--n" {
					type    = number
					default = "nope"
				}
			}`,
			wantErr: "default does not conform to the declared type",
		},
		{
			name: "remainder rejects display override",
			src: `command "x" {
				positional "rest" {
					arity        = "..."
					display_name = "REST"
				}
			}`,
			wantErr: "cannot override its display name",
		},
		{
			name: "metadata without version",
			src: `command "x" {
				metadata {
					license = "MIT"
				}
			}`,
			wantErr: "decoding inline.hcl",
		},
		{
			name: "error names the nested route",
			src: `command "x" {
				command "y" {
					option "--n" { arity = "!" }
				}
			}`,
			wantErr: `command "x y"`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := grammar.New().Parse(context.Background(), "inline.hcl", []byte(tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadDirAggregatesManifests(t *testing.T) {
	write := func(t *testing.T, dir, name, src string) {
		t.Helper()
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	}

	t.Run("collects roots across nested files in path order", func(t *testing.T) {
		dir := t.TempDir()
		write(t, dir, "alpha.hcl", `command "alpha" {}`)
		write(t, dir, "sub/beta.hcl", `command "beta" {}`)
		write(t, dir, "notes.txt", `not a manifest`)

		roots, err := grammar.New().LoadDir(context.Background(), dir)
		require.NoError(t, err)
		require.Len(t, roots, 2)
		assert.Equal(t, "alpha", roots[0].Name())
		assert.Equal(t, "beta", roots[1].Name())
	})

	t.Run("rejects colliding root names", func(t *testing.T) {
		dir := t.TempDir()
		write(t, dir, "one.hcl", `command "alpha" {}`)
		write(t, dir, "two.hcl", `command "alpha" {}`)

		_, err := grammar.New().LoadDir(context.Background(), dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `root command "alpha" already declared`)
	})

	t.Run("rejects a directory without manifests", func(t *testing.T) {
		_, err := grammar.New().LoadDir(context.Background(), t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no .hcl manifests under")
	})

	t.Run("registrations may span files", func(t *testing.T) {
		dir := t.TempDir()
		write(t, dir, "a.hcl", `command "alpha" {}`)
		write(t, dir, "b.hcl", `command "beta" {}`)

		loader := grammar.New(
			grammar.WithHandler("beta", func(ns *command.Namespace) (cty.Value, error) {
				return cty.True, nil
			}),
		)
		roots, err := loader.LoadDir(context.Background(), dir)
		require.NoError(t, err)
		require.Len(t, roots, 2)
		assert.False(t, roots[0].Active())
		assert.True(t, roots[1].Active())
	})
}

func TestLoadFileMatchesParse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tool.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
		command "tool" {
			flag "--debug" {}
		}`), 0o644))

	roots, err := grammar.New().LoadFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, "tool", roots[0].Name())

	_, err = grammar.New().LoadFile(context.Background(), filepath.Join(dir, "absent.hcl"))
	require.Error(t, err, "a missing file surfaces the parser diagnostics")
}
