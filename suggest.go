package realaddress

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance caps the edit distance accepted by SuggestCities.
const maxSuggestDistance = 3

// fuzzyMatch compares two strings with optional Levenshtein distance tolerance.
// If maxDist is 0, performs exact case-insensitive match.
func fuzzyMatch(query, candidate string, maxDist int) bool {
	if maxDist == 0 {
		return strings.EqualFold(query, candidate)
	}
	dist := levenshtein.ComputeDistance(toLower(query), toLower(candidate))
	return dist <= maxDist
}

type citySuggestion struct {
	name string
	dist int
}

// SuggestCities returns dataset city names within maxDist edits of name,
// closest first. It is meant for "did you mean" hints after
// RandomAddressByCity finds nothing; it never affects exact lookups.
// maxDist is clamped to [0, 3].
func (d *Dataset) SuggestCities(name string, maxDist int) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if maxDist < 0 {
		maxDist = 0
	}
	if maxDist > maxSuggestDistance {
		maxDist = maxSuggestDistance
	}

	var found []citySuggestion
	for _, city := range d.ListCities() {
		if !fuzzyMatch(name, city, maxDist) {
			continue
		}
		found = append(found, citySuggestion{
			name: city,
			dist: levenshtein.ComputeDistance(toLower(name), toLower(city)),
		})
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].dist < found[j].dist
	})

	out := make([]string, len(found))
	for i, s := range found {
		out[i] = s.name
	}
	return out
}

// SuggestCities returns bundled city names close to name.
func SuggestCities(name string, maxDist int) []string {
	return defaultDS().SuggestCities(name, maxDist)
}
