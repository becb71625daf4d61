package argspec

import "github.com/zclconf/go-cty/cty"

// Kind discriminates the three spec variants.
type Kind int

const (
	KindPositional Kind = iota
	KindNamed
	KindBoolean
)

// String returns the kind word used in fault messages and help output.
func (k Kind) String() string {
	switch k {
	case KindPositional:
		return "positional"
	case KindNamed:
		return "option"
	case KindBoolean:
		return "flag"
	}
	return "unknown"
}

// Spec is the interface shared by all three variants. It is sealed: only
// Positional, NamedValue and Boolean implement it.
type Spec interface {
	// Identifier is the namespace key of the bound value: the positional
	// name, or the canonical long alias of a named spec without dashes.
	Identifier() string
	Kind() Kind
	// Description is the one-line help text, empty when undeclared.
	Description() string
	Group() string
	Hidden() bool
	Deprecated() bool

	isSpec()
}

// Named is implemented by the alias-addressed variants, NamedValue and
// Boolean.
type Named interface {
	Spec
	// Aliases returns the canonical alias list: sorted shorts, then sorted
	// longs.
	Aliases() []string
	// Canonical returns the alias used when the spec is referenced in
	// messages: the first long alias, or the first short one.
	Canonical() string
	Helper() bool
	Standalone() bool
	Terminator() bool
}

// Valued is implemented by the variants that collect value tokens,
// Positional and NamedValue.
type Valued interface {
	Spec
	Arity() Arity
	Converter() Converter
	// Default returns the declared default and whether one was declared.
	// Absence is distinct from a null value of the target type.
	Default() (cty.Value, bool)
	Choices() []cty.Value
	// NoWait reports deferred validation: conversion of collected tokens
	// runs after all structural checks instead of with them.
	NoWait() bool
	// CoercedDefault reports that the declared default was implicitly
	// converted to the choice set's type at construction.
	CoercedDefault() (from, to string, coerced bool)
}

// common carries the attributes every variant shares.
type common struct {
	description string
	group       string
	hidden      bool
	deprecated  bool
}

func (c common) Description() string { return c.description }
func (c common) Group() string       { return c.group }
func (c common) Hidden() bool        { return c.hidden }
func (c common) Deprecated() bool    { return c.deprecated }

// valued carries the value-collection machinery shared by Positional and
// NamedValue.
type valued struct {
	arity     Arity
	converter Converter
	def       *cty.Value
	choices   []cty.Value
	nowait    bool

	coercedFrom string
	coercedTo   string
}

func (v valued) Arity() Arity         { return v.arity }
func (v valued) Converter() Converter { return v.converter }
func (v valued) Choices() []cty.Value { return v.choices }
func (v valued) NoWait() bool         { return v.nowait }

func (v valued) Default() (cty.Value, bool) {
	if v.def == nil {
		return cty.NilVal, false
	}
	return *v.def, true
}

func (v valued) CoercedDefault() (from, to string, coerced bool) {
	return v.coercedFrom, v.coercedTo, v.coercedFrom != ""
}

// aliased carries the alias machinery shared by NamedValue and Boolean.
type aliased struct {
	aliases    []string
	canonical  string
	identifier string
	helper     bool
	standalone bool
	terminator bool
}

func (a aliased) Aliases() []string  { return a.aliases }
func (a aliased) Canonical() string  { return a.canonical }
func (a aliased) Identifier() string { return a.identifier }
func (a aliased) Helper() bool       { return a.helper }
func (a aliased) Standalone() bool   { return a.standalone }
func (a aliased) Terminator() bool   { return a.terminator }
