package fault

import "strconv"

// Code is a stable numeric identifier for a fault condition. Errors live in
// the 11xxx range, warnings in 12xxx. Values are part of the public contract:
// they appear in rendered panels and logs and must never be renumbered.
type Code int

const (
	// Routing errors.
	CodeUnknownCommand    Code = 11101
	CodeUnknownSubcommand Code = 11102

	// Named-argument errors.
	CodeMalformedToken        Code = 11111
	CodeUnrecognizedOption    Code = 11112
	CodeBooleanAssignment     Code = 11113
	CodeAttachedValueRequired Code = 11114
	CodeDuplicateArgument     Code = 11115
	CodeStandaloneUsage       Code = 11116
	CodeMissingParameter      Code = 11117
	CodeArityMismatch         Code = 11118
	CodeMissingAtLeastOne     Code = 11119

	// Positional errors.
	CodeUnexpectedPositional Code = 11121

	// Value errors.
	CodeNotEnoughValues Code = 11122
	CodeEmptyValue      Code = 11123
	CodeInvalidChoice   Code = 11124
	CodeMissingArgument Code = 11125
	CodeGroupConflict   Code = 11126

	// Delegated failures (converters, callbacks, handlers).
	CodeDelegated Code = 11131

	// Leftover input.
	CodeUnparsedTokens Code = 11141

	// Warnings.
	CodeEmptyAttachedValue Code = 12111
	CodeDeprecatedArgument Code = 12112
	CodeImplicitCoercion   Code = 12131
)

// String returns the numeric form, the way codes appear in panel headers.
func (c Code) String() string {
	return strconv.Itoa(int(c))
}

// Severity of a fault. Errors terminate the invocation that raised them;
// warnings are advisory and never terminate anything.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}
