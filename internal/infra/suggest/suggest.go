// Where: internal/infra/suggest/suggest.go
// What: "Did you mean" lookups by edit distance.
// Why: Point mistyped commands and region codes at the nearest valid value.
package suggest

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Closest returns the candidate nearest to input. Matches farther than
// maxDistance are rejected; a non-positive maxDistance scales with the input
// length.
func Closest(input string, candidates []string, maxDistance int) (string, bool) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" || len(candidates) == 0 {
		return "", false
	}
	if maxDistance <= 0 {
		maxDistance = len(input)/3 + 1
	}

	ranked := Rank(input, candidates)
	best := ranked[0]
	if levenshtein.ComputeDistance(input, strings.ToLower(best)) > maxDistance {
		return "", false
	}
	return best, true
}

// Rank orders candidates by edit distance to input, then alphabetically.
func Rank(input string, candidates []string) []string {
	input = strings.ToLower(strings.TrimSpace(input))
	type scored struct {
		value    string
		distance int
	}
	scores := make([]scored, 0, len(candidates))
	for _, candidate := range candidates {
		scores = append(scores, scored{
			value:    candidate,
			distance: levenshtein.ComputeDistance(input, strings.ToLower(candidate)),
		})
	}
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].distance != scores[j].distance {
			return scores[i].distance < scores[j].distance
		}
		return scores[i].value < scores[j].value
	})
	out := make([]string, len(scores))
	for i, s := range scores {
		out[i] = s.value
	}
	return out
}
