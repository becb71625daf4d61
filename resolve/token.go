package resolve

import (
	"os"
	"regexp"
	"strings"
)

// namedPattern recognizes option-shaped tokens: an alias part, optionally
// followed by '=' and an attached payload (which may be empty). The alias
// part mirrors the argspec alias grammar.
var namedPattern = regexp.MustCompile(`^(--?[A-Za-z](?:-?[A-Za-z0-9+])*)(=(.*))?$`)

// digitDash matches tokens like "-5" and "-273.15", which are treated as
// plain values, never as aliases.
var digitDash = regexp.MustCompile(`^-\d`)

// namedToken is a classified option-shaped token.
type namedToken struct {
	alias    string
	value    string
	attached bool
}

// parseNamed classifies an option-shaped token. The bare "-" (stdin
// convention) and negative numbers are plain tokens and do not parse.
func parseNamed(token string) (namedToken, bool) {
	if !strings.HasPrefix(token, "-") || isPlainDash(token) {
		return namedToken{}, false
	}
	m := namedPattern.FindStringSubmatch(token)
	if m == nil {
		return namedToken{}, false
	}
	return namedToken{
		alias:    m[1],
		value:    m[3],
		attached: m[2] != "",
	}, true
}

// isPlainDash reports the dash-prefixed tokens that are values by
// convention: "-" alone and negative numbers.
func isPlainDash(token string) bool {
	return token == "-" || digitDash.MatchString(token)
}

// isPlain reports whether a token is offered to positionals rather than
// classified as option-shaped or malformed.
func isPlain(token string) bool {
	return !strings.HasPrefix(token, "-") || isPlainDash(token)
}

// stopsPull reports whether a token ends the spaced-value pull of a named
// spec: any dash token that is not a plain value by convention.
func stopsPull(token string) bool {
	return strings.HasPrefix(token, "-") && !isPlainDash(token)
}

// splitAttached splits an attached payload into values. The separator is
// picked once per payload: the platform path-list separator, then ":",
// then ",". Callers only split for specs that accept more than one value.
func splitAttached(payload string) []string {
	if sep := string(os.PathListSeparator); strings.Contains(payload, sep) {
		return strings.Split(payload, sep)
	}
	if strings.Contains(payload, ":") {
		return strings.Split(payload, ":")
	}
	if strings.Contains(payload, ",") {
		return strings.Split(payload, ",")
	}
	return []string{payload}
}
