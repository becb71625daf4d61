package argspec

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// aliasPattern accepts "-x" and "--long-name" forms: one or two leading
// dashes, a letter, then letters, digits or '+' separated by single dashes.
// Leading digits, trailing dashes and doubled inner dashes are all rejected.
var aliasPattern = regexp.MustCompile(`^--?[A-Za-z](?:-?[A-Za-z0-9+])*$`)

// namePattern accepts positional names: a letter followed by letters,
// digits, underscores or single inner dashes.
var namePattern = regexp.MustCompile(`^[A-Za-z](?:-?[A-Za-z0-9_])*$`)

// ValidAlias reports whether s is a well-formed short or long alias.
func ValidAlias(s string) bool { return aliasPattern.MatchString(s) }

// IsLong reports whether alias uses the double-dash form.
func IsLong(alias string) bool { return strings.HasPrefix(alias, "--") }

// IsShort reports whether alias uses the single-dash form.
func IsShort(alias string) bool { return !IsLong(alias) && strings.HasPrefix(alias, "-") }

// Strip removes the leading dashes from an alias.
func Strip(alias string) string { return strings.TrimLeft(alias, "-") }

// canonicalAliases validates the alias set of one spec and returns it in
// canonical order: sorted short aliases first, then sorted long aliases.
func canonicalAliases(aliases []string) ([]string, error) {
	if len(aliases) == 0 {
		return nil, fmt.Errorf("at least one alias is required")
	}
	seen := make(map[string]bool, len(aliases))
	var shorts, longs []string
	for _, alias := range aliases {
		if !ValidAlias(alias) {
			return nil, fmt.Errorf("malformed alias %q (want -x or --long-name)", alias)
		}
		if seen[alias] {
			return nil, fmt.Errorf("alias %q appears more than once", alias)
		}
		seen[alias] = true
		if IsLong(alias) {
			longs = append(longs, alias)
		} else {
			shorts = append(shorts, alias)
		}
	}
	sort.Strings(shorts)
	sort.Strings(longs)
	return append(shorts, longs...), nil
}

// identifierFor derives the namespace identifier of a named spec: the first
// canonical long alias without dashes, or the first short alias when no
// long form exists.
func identifierFor(canonical []string) string {
	for _, alias := range canonical {
		if IsLong(alias) {
			return Strip(alias)
		}
	}
	return Strip(canonical[0])
}

// canonicalAlias picks the display alias: the first long form, or the first
// short form when no long form exists.
func canonicalAlias(canonical []string) string {
	for _, alias := range canonical {
		if IsLong(alias) {
			return alias
		}
	}
	return canonical[0]
}

// ValidName reports whether name is a well-formed positional or command
// name.
func ValidName(name string) bool { return namePattern.MatchString(name) }
