package grammar

import (
	"context"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/argram/argspec"
)

// parseExpr builds the syntax node an attribute would carry.
func parseExpr(t *testing.T, src string) hcl.Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(src), "inline.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors(), "parsing %q: %s", src, diags.Error())
	return expr
}

func TestTypeExprTranslation(t *testing.T) {
	ctx := context.Background()

	t.Run("primitives and collections", func(t *testing.T) {
		cases := []struct {
			src  string
			want cty.Type
		}{
			{"string", cty.String},
			{"number", cty.Number},
			{"bool", cty.Bool},
			{"any", cty.DynamicPseudoType},
			{"list(string)", cty.List(cty.String)},
			{"map(number)", cty.Map(cty.Number)},
			{"set(bool)", cty.Set(cty.Bool)},
			{"list(list(string))", cty.List(cty.List(cty.String))},
		}
		for _, tc := range cases {
			ty, err := typeExprToCtyType(ctx, parseExpr(t, tc.src))
			require.NoError(t, err, "source %q", tc.src)
			assert.True(t, ty.Equals(tc.want), "source %q gave %s", tc.src, ty.FriendlyName())
		}
	})

	t.Run("nil expression defaults to any", func(t *testing.T) {
		ty, err := typeExprToCtyType(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, cty.DynamicPseudoType, ty)
	})

	t.Run("rejects malformed declarations", func(t *testing.T) {
		cases := []struct {
			src     string
			wantErr string
		}{
			{"widget", `unknown primitive type "widget"`},
			{"tuple(string)", `unknown type constructor function "tuple"`},
			{"list(any)", "collection types cannot contain type 'any'"},
			{"list(string, number)", "exactly one argument"},
			{`"string"`, "unsupported expression for type definition"},
		}
		for _, tc := range cases {
			_, err := typeExprToCtyType(ctx, parseExpr(t, tc.src))
			require.Error(t, err, "source %q", tc.src)
			assert.Contains(t, err.Error(), tc.wantErr, "source %q", tc.src)
		}
	})
}

func TestArityMarkers(t *testing.T) {
	t.Run("recognized markers", func(t *testing.T) {
		cases := []struct {
			src  string
			want argspec.Arity
		}{
			{`"?"`, argspec.ZeroOrOne()},
			{`"*"`, argspec.ZeroOrMore()},
			{`"+"`, argspec.OneOrMore()},
			{`"..."`, argspec.Remainder()},
			{`2`, argspec.Exactly(2)},
			{`"3"`, argspec.Exactly(3)},
			{`1`, argspec.Exactly(1)},
			{`null`, argspec.One()},
		}
		for _, tc := range cases {
			got, err := parseArity(parseExpr(t, tc.src))
			require.NoError(t, err, "source %s", tc.src)
			assert.Equal(t, tc.want, got, "source %s", tc.src)
		}
	})

	t.Run("absent attribute means one", func(t *testing.T) {
		got, err := parseArity(nil)
		require.NoError(t, err)
		assert.Equal(t, argspec.One(), got)
	})

	t.Run("rejects everything else", func(t *testing.T) {
		cases := []struct {
			src     string
			wantErr string
		}{
			{`"!"`, `unknown arity marker "!"`},
			{`"??"`, `unknown arity marker "??"`},
			{`0`, "at least 1"},
			{`"-2"`, "at least 1"},
			{`2.5`, "whole number"},
			{`true`, "marker string or a count"},
			{`["*"]`, "marker string or a count"},
		}
		for _, tc := range cases {
			_, err := parseArity(parseExpr(t, tc.src))
			require.Error(t, err, "source %s", tc.src)
			assert.Contains(t, err.Error(), tc.wantErr, "source %s", tc.src)
		}
	})
}
