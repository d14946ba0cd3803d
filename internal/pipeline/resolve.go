package pipeline

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"

	"github.com/sells-group/deed-cli/internal/registry"
)

// matchThreshold is the minimum 0-100 similarity score at which a county
// name is accepted as a match.
const matchThreshold = 70

// ratioParams makes a substitution cost one deletion plus one insertion, so
// the distance matches the indel distance used by ratio-style fuzzy scorers.
var ratioParams = levenshtein.NewParams().SubCost(2)

// Score computes a 0-100 similarity between two strings from their
// normalized edit distance. Identical strings score 100; completely
// dissimilar strings score near 0. Comparison is case-insensitive.
func Score(a, b string) int {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 100
	}
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 100
	}
	dist := levenshtein.Distance(a, b, ratioParams)
	return int(math.Round(100 * float64(total-dist) / float64(total)))
}

// ResolveCounty fuzzy-matches a free-text county name against the registry
// and returns the canonical name of the single best-scoring entry. The best
// match is accepted only if it scores at least matchThreshold; otherwise a
// NoMatchError carries the input and the rejected best candidate.
//
// Tie-break policy: among entries sharing the maximum score, the first in
// registry order wins. Only a strictly greater score replaces the current
// best, so the result is deterministic for a given registry.
func ResolveCounty(freeText string, reg *registry.Registry) (string, error) {
	best := -1
	bestName := ""
	for _, c := range reg.Counties() {
		if s := Score(freeText, c.Name); s > best {
			best = s
			bestName = c.Name
		}
	}

	if best < matchThreshold {
		return "", &NoMatchError{Input: freeText, Best: bestName, BestScore: best}
	}
	return bestName, nil
}
