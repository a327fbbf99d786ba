package search

import (
	"strings"
	"unicode/utf8"
)

// suggestMinChars is the minimum normalized input length before suggestions
// are produced.
const suggestMinChars = 2

// Suggest returns up to limit unique completion candidates for a partial
// query: brands containing it, names containing it, and name tokens longer
// than two characters containing it. Traversal follows index insertion
// order, so the selection is deterministic for a given snapshot.
func (e *Engine) Suggest(partial string, limit int) []string {
	if limit < 1 {
		limit = e.defaultLimit
	}

	normalized := strings.ToLower(strings.TrimSpace(partial))
	if utf8.RuneCountInString(normalized) < suggestMinChars {
		return []string{}
	}

	seen := make(map[string]struct{})
	suggestions := make([]string, 0, limit)
	add := func(candidate string) bool {
		if _, dup := seen[candidate]; dup {
			return len(suggestions) < limit
		}
		seen[candidate] = struct{}{}
		suggestions = append(suggestions, candidate)
		return len(suggestions) < limit
	}

	for _, doc := range e.store.Documents() {
		if strings.Contains(strings.ToLower(doc.Brand), normalized) {
			if !add(doc.Brand) {
				return suggestions
			}
		}
		if strings.Contains(strings.ToLower(doc.Name), normalized) {
			if !add(doc.Name) {
				return suggestions
			}
		}
		for _, token := range strings.Fields(doc.Name) {
			if utf8.RuneCountInString(token) <= suggestMinChars {
				continue
			}
			if strings.Contains(strings.ToLower(token), normalized) {
				if !add(token) {
					return suggestions
				}
			}
		}
	}
	return suggestions
}
