package command

import (
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// Namespace maps argument identifiers to their bound, converted values. A
// fresh one is produced per invocation and never shared between
// invocations. Entries distinguish supplied values from defaulted ones so
// exclusivity checks can ignore defaults.
type Namespace struct {
	values   map[string]cty.Value
	supplied map[string]bool
}

// NewNamespace returns an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{
		values:   make(map[string]cty.Value),
		supplied: make(map[string]bool),
	}
}

// Bind records a value for id. supplied marks values the invocation
// actually provided, as opposed to defaults filled in afterwards. A later
// Bind for the same id replaces the earlier value.
func (ns *Namespace) Bind(id string, v cty.Value, supplied bool) {
	ns.values[id] = v
	if supplied {
		ns.supplied[id] = true
	}
}

// Get returns the value bound to id.
func (ns *Namespace) Get(id string) (cty.Value, bool) {
	v, ok := ns.values[id]
	return v, ok
}

// Value returns the value bound to id, or cty.NilVal when the identifier
// is absent. Absence is the unset marker: it is distinct from a null value
// of the target type.
func (ns *Namespace) Value(id string) cty.Value {
	return ns.values[id]
}

// Bool is a convenience for flag results; it returns false for absent
// identifiers and non-boolean values.
func (ns *Namespace) Bool(id string) bool {
	v, ok := ns.values[id]
	if !ok || v.IsNull() || !v.Type().Equals(cty.Bool) {
		return false
	}
	return v.True()
}

// Text is a convenience for string results; absent identifiers and
// non-string values yield "".
func (ns *Namespace) Text(id string) string {
	v, ok := ns.values[id]
	if !ok || v.IsNull() || !v.Type().Equals(cty.String) {
		return ""
	}
	return v.AsString()
}

// Supplied reports whether the invocation explicitly provided id.
func (ns *Namespace) Supplied(id string) bool {
	return ns.supplied[id]
}

// Identifiers returns every bound identifier in sorted order.
func (ns *Namespace) Identifiers() []string {
	out := make([]string, 0, len(ns.values))
	for id := range ns.values {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// SuppliedIdentifiers returns the explicitly provided identifiers in
// sorted order.
func (ns *Namespace) SuppliedIdentifiers() []string {
	out := make([]string, 0, len(ns.supplied))
	for id := range ns.supplied {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of bound identifiers.
func (ns *Namespace) Len() int { return len(ns.values) }
