package normalization

import (
	"strings"
)

// Candidate ranking for "did you mean" ingredient suggestions.
//
// The score is deliberately a small documented function instead of a fuzzy-match
// library: the ranking is part of the API contract and has to stay stable and
// testable. Weights: +2 per exact token pair, +1 per substring containment in
// either direction. Tokens of length <= 2 are dropped before scoring.

const (
	scoreExactToken     = 2
	scoreSubstringToken = 1
	minTokenLength      = 3
)

// Tokenize splits a name on whitespace and commas, lowercases, and drops short
// tokens.
func Tokenize(name string) []string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if len(f) < minTokenLength {
			continue
		}
		out = append(out, f)
	}
	return out
}

// ScoreNames scores an unmapped free-text name against a candidate canonical
// name, summed over all token pairs.
func ScoreNames(unmapped, candidate string) int {
	return ScoreTokens(Tokenize(unmapped), Tokenize(candidate))
}

func ScoreTokens(unmapped, candidate []string) int {
	score := 0
	for _, u := range unmapped {
		for _, c := range candidate {
			switch {
			case u == c:
				score += scoreExactToken
			case strings.Contains(u, c) || strings.Contains(c, u):
				score += scoreSubstringToken
			}
		}
	}
	return score
}
