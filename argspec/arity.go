package argspec

import (
	"fmt"
)

type arityKind int

const (
	// arityDefault is the zero value and behaves exactly like arityOne, so
	// configs that leave Arity unset get the conventional one-value contract.
	arityDefault arityKind = iota
	arityOne
	arityZeroOrOne
	arityZeroOrMore
	arityOneOrMore
	arityExactly
	arityRemainder
)

// Arity is the cardinality contract governing how many raw tokens a spec
// consumes. The zero value is equivalent to One.
type Arity struct {
	kind arityKind
	n    int
}

// One accepts exactly one token. This is the default for valued specs.
func One() Arity { return Arity{kind: arityOne} }

// ZeroOrOne accepts zero or one token.
func ZeroOrOne() Arity { return Arity{kind: arityZeroOrOne} }

// ZeroOrMore accepts any number of tokens, including none.
func ZeroOrMore() Arity { return Arity{kind: arityZeroOrMore} }

// OneOrMore accepts any number of tokens but at least one.
func OneOrMore() Arity { return Arity{kind: arityOneOrMore} }

// Exactly accepts precisely n tokens. n must be at least 1; spec
// constructors reject anything lower.
func Exactly(n int) Arity { return Arity{kind: arityExactly, n: n} }

// Remainder consumes every remaining token unconditionally, including ones
// that look like named arguments. Only the last positional of a command may
// carry it.
func Remainder() Arity { return Arity{kind: arityRemainder} }

// Fit is the outcome of checking a token count against an arity.
type Fit int

const (
	// FitUnder means the count does not yet satisfy the arity.
	FitUnder Fit = iota
	// FitExact means the count satisfies the arity.
	FitExact
	// FitOver means the count exceeds what the arity can accept.
	FitOver
)

func (f Fit) String() string {
	switch f {
	case FitUnder:
		return "under"
	case FitExact:
		return "exact"
	case FitOver:
		return "over"
	}
	return "unknown"
}

func (a Arity) normal() arityKind {
	if a.kind == arityDefault {
		return arityOne
	}
	return a.kind
}

// Fit reports whether count tokens under-fill, exactly fill, or overfill
// this arity. It is pure and is the only arity policy in the engine:
// "can take another token" is Fit(count+1) != FitOver and "is satisfied"
// is Fit(count) != FitUnder.
func (a Arity) Fit(count int) Fit {
	switch a.normal() {
	case arityOne:
		switch {
		case count < 1:
			return FitUnder
		case count == 1:
			return FitExact
		default:
			return FitOver
		}
	case arityZeroOrOne:
		if count > 1 {
			return FitOver
		}
		return FitExact
	case arityZeroOrMore, arityRemainder:
		return FitExact
	case arityOneOrMore:
		if count < 1 {
			return FitUnder
		}
		return FitExact
	case arityExactly:
		switch {
		case count < a.n:
			return FitUnder
		case count == a.n:
			return FitExact
		default:
			return FitOver
		}
	}
	return FitExact
}

// Satisfied reports whether count tokens fulfill the arity.
func (a Arity) Satisfied(count int) bool { return a.Fit(count) != FitUnder }

// TakesAnother reports whether the spec may consume one more token on top
// of count already collected.
func (a Arity) TakesAnother(count int) bool { return a.Fit(count+1) != FitOver }

// IsRemainder reports whether this is the greedy trailing-capture mode.
func (a Arity) IsRemainder() bool { return a.kind == arityRemainder }

// Min is the smallest token count that satisfies the arity.
func (a Arity) Min() int {
	switch a.normal() {
	case arityOne, arityOneOrMore:
		return 1
	case arityExactly:
		return a.n
	}
	return 0
}

// Max returns the largest acceptable token count, with ok false when the
// arity is unbounded.
func (a Arity) Max() (n int, ok bool) {
	switch a.normal() {
	case arityOne, arityZeroOrOne:
		return 1, true
	case arityExactly:
		return a.n, true
	}
	return 0, false
}

// Repeatable reports whether the same named spec may appear multiple times
// in one invocation, accumulating values across occurrences.
func (a Arity) Repeatable() bool {
	k := a.normal()
	return k == arityZeroOrMore || k == arityOneOrMore
}

// Multiple reports whether the bound result is a list rather than a single
// value. Exactly(1) binds a scalar, like One.
func (a Arity) Multiple() bool {
	switch a.normal() {
	case arityZeroOrMore, arityOneOrMore, arityRemainder:
		return true
	case arityExactly:
		return a.n > 1
	}
	return false
}

// Count returns the fixed count for Exactly arities.
func (a Arity) Count() (n int, ok bool) {
	if a.kind == arityExactly {
		return a.n, true
	}
	return 0, false
}

func (a Arity) validate() error {
	if a.kind == arityExactly && a.n < 1 {
		return fmt.Errorf("exact arity requires a count of at least 1, got %d", a.n)
	}
	return nil
}

func (a Arity) String() string {
	switch a.normal() {
	case arityOne:
		return "one"
	case arityZeroOrOne:
		return "zero-or-one"
	case arityZeroOrMore:
		return "zero-or-more"
	case arityOneOrMore:
		return "one-or-more"
	case arityExactly:
		return fmt.Sprintf("exactly(%d)", a.n)
	case arityRemainder:
		return "remainder"
	}
	return "unknown"
}
