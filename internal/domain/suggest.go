package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// SuggestionMinLength is the shortest trimmed input accepted.
	SuggestionMinLength = 2
	// SuggestionLimit caps the number of titles returned.
	SuggestionLimit = 10
	// SuggestionFetchSize is how many hits are pulled before de-duplication.
	SuggestionFetchSize = 20
)

// PrepareSuggestionInput trims text and rejects input shorter than
// SuggestionMinLength characters.
func PrepareSuggestionInput(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < SuggestionMinLength {
		return "", fmt.Errorf("%w: suggestion query must be at least %d characters", ErrInvalidInput, SuggestionMinLength)
	}
	return trimmed, nil
}

// BuildSuggestionQuery reuses the search text clause with no filters.
func BuildSuggestionQuery(text string) IndexQuery {
	return IndexQuery{Must: []TextMatch{NewTextMatch(text)}}
}

// ReduceSuggestions projects hits to titles, drops repeats keeping the first
// occurrence, and truncates to SuggestionLimit.
func ReduceSuggestions(hits []Hit) []string {
	seen := make(map[string]struct{}, len(hits))
	titles := make([]string, 0, SuggestionLimit)

	for _, h := range hits {
		if len(titles) == SuggestionLimit {
			break
		}
		if _, dup := seen[h.Course.Title]; dup {
			continue
		}
		seen[h.Course.Title] = struct{}{}
		titles = append(titles, h.Course.Title)
	}

	return titles
}
