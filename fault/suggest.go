package fault

import (
	"sort"

	"github.com/agext/levenshtein"
)

// suggestCutoff is the minimum similarity score a candidate needs to be
// offered in a "did you mean" hint.
const suggestCutoff = 0.6

// CloseMatches returns up to max candidates similar to input, best first.
// Ties keep the candidates' declaration order so suggestions are stable
// across runs.
func CloseMatches(input string, candidates []string, max int) []string {
	type scored struct {
		name  string
		score float64
	}
	var matches []scored
	for _, c := range candidates {
		if c == "" {
			continue
		}
		score := levenshtein.Match(input, c, nil)
		if score >= suggestCutoff {
			matches = append(matches, scored{name: c, score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if max > 0 && len(matches) > max {
		matches = matches[:max]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}
