package fault

import "fmt"

// AggregateRatio is the width ratio applied to each cause panel when a
// bundle is rendered, so grouped faults read as one report.
const AggregateRatio = 2.0 / 3.0

// RenderOptions are per-cause presentation overrides carried alongside a
// fault inside a bundle. Zero values mean "no override".
type RenderOptions struct {
	Ratio float64
}

// Cause pairs one fault with the render overrides its bundle assigned.
type Cause struct {
	Fault *Fault
	Opts  RenderOptions
}

// Bundle is an ordered collection of faults accumulated over a whole
// invocation. Order is accumulation order and is part of the contract:
// callers and tests rely on arity faults preceding conversion faults,
// conversion faults preceding choice faults, and so on.
//
// Soft marks a bundle that should be reported without terminating the
// host process, such as warning-only bundles on an otherwise successful
// resolution.
type Bundle struct {
	Causes []Cause
	Soft   bool
}

// NewBundle builds a bundle from faults in the given order, applying the
// aggregate width ratio to every cause.
func NewBundle(faults ...*Fault) *Bundle {
	b := &Bundle{}
	for _, f := range faults {
		b.Append(f)
	}
	return b
}

// Append adds one fault to the end of the bundle.
func (b *Bundle) Append(f *Fault) {
	if f == nil {
		return
	}
	b.Causes = append(b.Causes, Cause{Fault: f, Opts: RenderOptions{Ratio: AggregateRatio}})
}

// Extend appends every fault from other, preserving order.
func (b *Bundle) Extend(other *Bundle) {
	if other == nil {
		return
	}
	for _, c := range other.Causes {
		b.Append(c.Fault)
	}
}

// Len reports the number of accumulated faults.
func (b *Bundle) Len() int {
	return len(b.Causes)
}

// HasErrors reports whether at least one cause is an error rather than a
// warning.
func (b *Bundle) HasErrors() bool {
	for _, c := range b.Causes {
		if c.Fault.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns the error-severity faults in accumulation order.
func (b *Bundle) Errors() []*Fault {
	var out []*Fault
	for _, c := range b.Causes {
		if c.Fault.Severity == SeverityError {
			out = append(out, c.Fault)
		}
	}
	return out
}

// Warnings returns the warning-severity faults in accumulation order.
func (b *Bundle) Warnings() []*Fault {
	var out []*Fault
	for _, c := range b.Causes {
		if c.Fault.Severity == SeverityWarning {
			out = append(out, c.Fault)
		}
	}
	return out
}

func (b *Bundle) Error() string {
	errs := b.Errors()
	switch len(errs) {
	case 0:
		switch len(b.Causes) {
		case 0:
			return "no faults"
		case 1:
			return b.Causes[0].Fault.Error()
		default:
			return fmt.Sprintf("%s, and %d more warnings", b.Causes[0].Fault.Error(), len(b.Causes)-1)
		}
	case 1:
		return errs[0].Error()
	default:
		return fmt.Sprintf("%s, and %d other faults", errs[0].Error(), len(errs)-1)
	}
}

// Unwrap exposes the causes to errors.Is and errors.As.
func (b *Bundle) Unwrap() []error {
	out := make([]error, 0, len(b.Causes))
	for _, c := range b.Causes {
		out = append(out, c.Fault)
	}
	return out
}
