package fault

import (
	"fmt"
	"strings"
)

// Context carries the machine-readable details of a fault. Fields are
// populated per fault kind; Offset is -1 when no token position applies.
// Offsets are 0-based positions into the token slice handed to the
// resolved command, after any subcommand names were consumed.
type Context struct {
	Token       string
	Offset      int
	Spec        string
	Group       string
	Value       string
	Want        int
	Have        int
	Leftover    []string
	Suggestions []string
}

// Fault is a single error or warning raised during resolution. It is a
// plain value; rendering and process control happen elsewhere.
type Fault struct {
	Severity Severity
	Code     Code
	Title    string
	Summary  string
	Hint     string
	Context  Context
}

func (f *Fault) Error() string {
	return f.Code.String() + ": " + f.Summary
}

// IsWarning reports whether the fault is advisory.
func (f *Fault) IsWarning() bool {
	return f.Severity == SeverityWarning
}

func newError(code Code, title, summary, hint string, ctx Context) *Fault {
	return &Fault{Severity: SeverityError, Code: code, Title: title, Summary: summary, Hint: hint, Context: ctx}
}

func newWarning(code Code, title, summary, hint string, ctx Context) *Fault {
	return &Fault{Severity: SeverityWarning, Code: code, Title: title, Summary: summary, Hint: hint, Context: ctx}
}

func helpHint(route, what string) string {
	return fmt.Sprintf("run '%s --help' to see %s", route, what)
}

func suggestHint(suggestions []string, route, what string) string {
	if len(suggestions) == 0 {
		return helpHint(route, what)
	}
	return fmt.Sprintf("did you mean '%s'? you can also run '%s --help' to see %s", suggestions[0], route, what)
}

// UnknownCommand reports a first token that matched no child of a root
// command that declares no positionals of its own.
func UnknownCommand(token string, offset int, route string, candidates []string) *Fault {
	suggestions := CloseMatches(token, candidates, 5)
	return newError(CodeUnknownCommand,
		"unknown command",
		fmt.Sprintf("unknown command %q at offset %d", token, offset),
		suggestHint(suggestions, route, "available commands"),
		Context{Token: token, Offset: offset, Suggestions: suggestions},
	)
}

// UnknownSubcommand is the nested-command variant of UnknownCommand.
func UnknownSubcommand(token string, offset int, route string, candidates []string) *Fault {
	suggestions := CloseMatches(token, candidates, 5)
	return newError(CodeUnknownSubcommand,
		"unknown subcommand",
		fmt.Sprintf("unknown subcommand %q at offset %d", token, offset),
		suggestHint(suggestions, route, "available subcommands"),
		Context{Token: token, Offset: offset, Suggestions: suggestions},
	)
}

// MalformedToken reports a dash-prefixed token that does not fit the alias
// grammar, such as "---x" or "--x-".
func MalformedToken(token string, offset int, route string) *Fault {
	return newError(CodeMalformedToken,
		"malformed option or flag",
		fmt.Sprintf("bad form of option or flag %q at offset %d", token, offset),
		fmt.Sprintf("run '%s --help' to see valid spellings and forms (e.g., --name=value)", route),
		Context{Token: token, Offset: offset},
	)
}

// UnrecognizedOption reports an alias that matched no named spec of the
// resolved command.
func UnrecognizedOption(alias string, offset int, route string, known []string) *Fault {
	suggestions := CloseMatches(alias, known, 5)
	return newError(CodeUnrecognizedOption,
		"unknown option or flag",
		fmt.Sprintf("unknown option or flag %q at offset %d", alias, offset),
		suggestHint(suggestions, route, "all options"),
		Context{Token: alias, Offset: offset, Suggestions: suggestions},
	)
}

// BooleanAssignment reports a value attached to a presence-only flag.
func BooleanAssignment(alias string, offset int) *Fault {
	return newError(CodeBooleanAssignment,
		"flag cannot take a value",
		fmt.Sprintf("flag %q at offset %d cannot have an attached value", alias, offset),
		fmt.Sprintf("remove everything from '=' (for example: %s)", alias),
		Context{Token: alias, Offset: offset},
	)
}

// AttachedValueRequired reports a spaced use of an attached-only option.
func AttachedValueRequired(alias string, offset int) *Fault {
	return newError(CodeAttachedValueRequired,
		"missing attached value",
		fmt.Sprintf("option %q at offset %d must include an attached value", alias, offset),
		fmt.Sprintf("use the attached form: %s=<value>", alias),
		Context{Token: alias, Offset: offset},
	)
}

// DuplicateArgument reports a non-repeatable named spec supplied twice.
// Kind is the spec kind word used in messages ("option" or "flag").
func DuplicateArgument(kind, alias string, offset int) *Fault {
	return newError(CodeDuplicateArgument,
		"duplicated "+kind,
		fmt.Sprintf("%s %q at offset %d was already provided", kind, alias, offset),
		fmt.Sprintf("keep a single %s; it can be specified only once", kind),
		Context{Token: alias, Offset: offset, Spec: alias},
	)
}

// StandaloneUsage reports a standalone spec combined with any other
// argument in the same invocation.
func StandaloneUsage(kind, alias, route string, offset int) *Fault {
	return newError(CodeStandaloneUsage,
		"standalone "+kind,
		fmt.Sprintf("%s %q at offset %d must be used alone", kind, alias, offset),
		fmt.Sprintf("remove other arguments or run '%s %s' by itself", route, alias),
		Context{Token: alias, Offset: offset, Spec: alias},
	)
}

// MissingParameter reports a one-arity option that received no value.
// offset is -1 when the option was never supplied at all.
func MissingParameter(alias string, offset int) *Fault {
	summary := fmt.Sprintf("option %q requires a value", alias)
	if offset >= 0 {
		summary = fmt.Sprintf("option %q at offset %d requires a value", alias, offset)
	}
	return newError(CodeMissingParameter,
		"missing option value",
		summary,
		fmt.Sprintf("provide a value (e.g., %s=<value>)", alias),
		Context{Token: alias, Offset: offset, Spec: alias, Want: 1, Have: 0},
	)
}

// MissingAtLeastOne reports a one-or-more option that received no value.
// offset is -1 when the option was never supplied at all.
func MissingAtLeastOne(alias string, offset int) *Fault {
	summary := fmt.Sprintf("option %q requires at least one value", alias)
	if offset >= 0 {
		summary = fmt.Sprintf("option %q at offset %d requires at least one value", alias, offset)
	}
	return newError(CodeMissingAtLeastOne,
		"missing value",
		summary,
		fmt.Sprintf("provide one or more values after %s", alias),
		Context{Token: alias, Offset: offset, Spec: alias, Want: 1, Have: 0},
	)
}

// NotEnoughValues reports a fixed-count spec that collected fewer values
// than it declares.
func NotEnoughValues(ident string, positional bool, want, have int) *Fault {
	var summary string
	if positional {
		summary = fmt.Sprintf("positional %q requires exactly %d values but received %d", ident, want, have)
	} else {
		summary = fmt.Sprintf("option %q requires exactly %d values but received %d", ident, want, have)
	}
	plural := "s"
	if want-have == 1 {
		plural = ""
	}
	return newError(CodeNotEnoughValues,
		"not enough values",
		summary,
		"add the missing value"+plural,
		Context{Spec: ident, Offset: -1, Want: want, Have: have},
	)
}

// MissingArgument reports a required positional that received nothing.
func MissingArgument(name, route string) *Fault {
	return newError(CodeMissingArgument,
		"missing positional",
		fmt.Sprintf("required positional %q is missing", name),
		fmt.Sprintf("add the missing value; run '%s --help' to see the expected order", route),
		Context{Spec: name, Offset: -1},
	)
}

// ArityMismatch reports a fixed-arity spec that received more values than
// it can accept, typically through an attached value list.
func ArityMismatch(ident string, want, have int) *Fault {
	return newError(CodeArityMismatch,
		"extra values",
		fmt.Sprintf("%q received %d values but accepts at most %d", ident, have, want),
		"remove the extra values or repeat the option per value",
		Context{Spec: ident, Offset: -1, Want: want, Have: have},
	)
}

// UnexpectedPositional reports a plain token offered after every declared
// positional was satisfied.
func UnexpectedPositional(token string, offset int, route string) *Fault {
	return newError(CodeUnexpectedPositional,
		"unexpected positional",
		fmt.Sprintf("unexpected positional argument %q at offset %d", token, offset),
		fmt.Sprintf("remove this extra value or run '%s --help' to see the expected usage", route),
		Context{Token: token, Offset: offset},
	)
}

// EmptyValue reports an empty string collected where a value is required.
func EmptyValue(ident string, offset int) *Fault {
	return newError(CodeEmptyValue,
		"empty value",
		fmt.Sprintf("empty value for %q at offset %d", ident, offset),
		"provide a non-empty value",
		Context{Spec: ident, Offset: offset},
	)
}

// InvalidChoice reports a converted value outside the declared choice set.
func InvalidChoice(ident, value string, allowed []string) *Fault {
	return newError(CodeInvalidChoice,
		"invalid choice",
		fmt.Sprintf("value %q for %q is not a valid choice", value, ident),
		"use one of: "+strings.Join(allowed, " · "),
		Context{Spec: ident, Offset: -1, Value: value},
	)
}

// GroupConflict reports more than one supplied member of a mutual-exclusion
// group.
func GroupConflict(group string, members []string) *Fault {
	return newError(CodeGroupConflict,
		"conflicting arguments",
		fmt.Sprintf("arguments %s are mutually exclusive (group %q)", quoteJoin(members), group),
		"keep only one of them",
		Context{Group: group, Offset: -1, Leftover: members},
	)
}

// Conflict reports two supplied arguments bound by a declared conflict pair.
func Conflict(a, b string) *Fault {
	return newError(CodeGroupConflict,
		"conflicting arguments",
		fmt.Sprintf("arguments %q and %q cannot be used together", a, b),
		"keep only one of them",
		Context{Offset: -1, Leftover: []string{a, b}},
	)
}

// ConversionError reports a raw value the spec's converter rejected.
// Converters are delegated code, so the delegated code number applies.
func ConversionError(ident, raw string, offset int, route string, cause error) *Fault {
	return newError(CodeDelegated,
		"conversion error",
		fmt.Sprintf("value %q for %q cannot be converted: %s", raw, ident, cause),
		fmt.Sprintf("use a valid value for %q; run '%s --help' to see examples", ident, route),
		Context{Spec: ident, Offset: offset, Value: raw},
	)
}

// Delegated reports a failure inside a user-supplied callback or handler.
func Delegated(kind, ident string, cause error) *Fault {
	return newError(CodeDelegated,
		"delegated "+kind+" error",
		fmt.Sprintf("%s %q failed: %s", kind, ident, cause),
		"check additional logs for more details",
		Context{Spec: ident, Offset: -1},
	)
}

// UnparsedTokens reports stream tokens left unconsumed after binding.
func UnparsedTokens(leftover []string, route string) *Fault {
	return newError(CodeUnparsedTokens,
		"unparsed input",
		"unparsed input remains",
		fmt.Sprintf("remove the extra inputs; run '%s --help' to see valid forms", route),
		Context{Offset: -1, Leftover: leftover},
	)
}

// EmptyAttachedValue warns about an attached form with nothing after '='.
func EmptyAttachedValue(alias string, offset int, attachedOnly bool) *Fault {
	hint := fmt.Sprintf("add a value after '=' (for example: %s=<value>)", alias)
	if !attachedOnly {
		hint += fmt.Sprintf(" or remove '=' and pass it after a space (for example: %s <value>)", alias)
	}
	return newWarning(CodeEmptyAttachedValue,
		"empty attached value",
		fmt.Sprintf("empty attached value for option %q at offset %d", alias, offset),
		hint,
		Context{Token: alias, Offset: offset},
	)
}

// DeprecatedArgument warns about a supplied spec marked deprecated.
// Kind is the spec kind word ("positional", "option" or "flag").
func DeprecatedArgument(kind, ident string, offset int, route string) *Fault {
	var summary string
	if kind == "positional" {
		summary = fmt.Sprintf("positional argument at offset %d is deprecated", offset)
	} else {
		summary = fmt.Sprintf("%s %q at offset %d is deprecated", kind, ident, offset)
	}
	return newWarning(CodeDeprecatedArgument,
		"deprecated "+kind,
		summary,
		helpHint(route, "current usage and alternatives"),
		Context{Spec: ident, Offset: offset},
	)
}

// ImplicitCoercion warns that a declared default was silently converted to
// the spec's value type when it was materialized.
func ImplicitCoercion(ident, from, to string) *Fault {
	return newWarning(CodeImplicitCoercion,
		"implicit coercion",
		fmt.Sprintf("default value for %q was coerced from %s to %s", ident, from, to),
		fmt.Sprintf("declare the default as %s to silence this warning", to),
		Context{Spec: ident, Offset: -1},
	)
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	if len(quoted) > 1 {
		last := len(quoted) - 1
		return strings.Join(quoted[:last], ", ") + " and " + quoted[last]
	}
	return strings.Join(quoted, "")
}
