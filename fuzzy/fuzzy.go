// Package fuzzy resolves free-form employee names against known candidates
// using SequenceMatcher similarity, the same measure the swap callers (humans,
// Zapier webhooks) were tuned against.
package fuzzy

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultCutoff is the minimum similarity ratio for a match.
const DefaultCutoff = 0.6

// Matcher picks the best-scoring candidate at or above Cutoff.
type Matcher struct {
	Cutoff float64
}

func NewMatcher() Matcher {
	return Matcher{Cutoff: DefaultCutoff}
}

// Resolve returns the candidate most similar to name. Comparison is
// case-insensitive; ties go to the earlier candidate.
func (m Matcher) Resolve(name string, candidates []string) (string, bool) {
	cutoff := m.Cutoff
	if cutoff <= 0 {
		cutoff = DefaultCutoff
	}

	target := chars(name)
	best := ""
	bestRatio := 0.0
	for _, cand := range candidates {
		ratio := difflib.NewMatcher(target, chars(cand)).Ratio()
		if ratio >= cutoff && ratio > bestRatio {
			best = cand
			bestRatio = ratio
		}
	}
	return best, best != ""
}

func chars(s string) []string {
	return strings.Split(strings.ToLower(strings.TrimSpace(s)), "")
}
