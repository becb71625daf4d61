package argspec

import (
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Converter turns one raw token into a typed value. Specs without an
// explicit converter use ToString.
type Converter func(raw string) (cty.Value, error)

// ToString is the identity converter; every raw token is a valid string.
var ToString Converter = func(raw string) (cty.Value, error) {
	return cty.StringVal(raw), nil
}

// To builds a converter targeting an arbitrary cty type using the standard
// cty conversion rules, so "12" converts to cty.Number and "true" to
// cty.Bool the same way HCL attribute values would.
func To(ty cty.Type) Converter {
	return func(raw string) (cty.Value, error) {
		v, err := convert.Convert(cty.StringVal(raw), ty)
		if err != nil {
			return cty.NilVal, err
		}
		return v, nil
	}
}

// ToNumber converts raw tokens to cty.Number.
var ToNumber = To(cty.Number)

// ToBool converts raw tokens to cty.Bool.
var ToBool = To(cty.Bool)

// ValueText renders a value for messages and help text: strings verbatim,
// primitives through the standard string conversion, everything else in
// cty's debug notation.
func ValueText(v cty.Value) string {
	if v == cty.NilVal {
		return "<unset>"
	}
	if v.IsNull() {
		return "null"
	}
	if v.Type().Equals(cty.String) {
		return v.AsString()
	}
	if s, err := convert.Convert(v, cty.String); err == nil && !s.IsNull() {
		return s.AsString()
	}
	return v.GoString()
}
