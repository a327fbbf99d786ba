// Package search implements the query engine over the resident catalog
// index: scored free-text search, autocomplete suggestions, and aggregate
// statistics. All operations are pure synchronous reads against the current
// index snapshot; they never trigger or wait for a rebuild.
package search

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mobimart/search-service/internal/index"
)

// Relevance weights. Exact full-string matches on name and brand dominate,
// per-word matches accumulate additively, and the recency/connectivity
// bonuses are tie-breaking nudges that can never outweigh a substring match.
// Changing any of these changes observable result ordering.
const (
	scoreNameExact        = 1000
	scoreBrandExact       = 800
	scoreNameSubstring    = 500
	scoreBrandSubstring   = 400
	scoreWordInText       = 100
	scoreNameTokenPrefix  = 200
	scoreBrandTokenPrefix = 150
	scoreRecentYear       = 10
	scoreLatestYear       = 20
	scoreFiveG            = 5

	recentYearFloor = 2023
	latestYearFloor = 2024
)

// Result is one search response: the matched documents in rank order plus
// the total match count before truncation. Scores are an internal artifact
// and are never exposed.
type Result struct {
	Query     string           `json:"query"`
	TotalHits int              `json:"total_hits"`
	Results   []index.Document `json:"results"`
}

// Engine serves read queries against a Store.
type Engine struct {
	store        *index.Store
	defaultLimit int
}

// NewEngine creates an Engine. defaultLimit is used when a caller passes a
// non-positive limit; it is itself clamped to at least 1.
func NewEngine(store *index.Store, defaultLimit int) *Engine {
	if defaultLimit < 1 {
		defaultLimit = 10
	}
	return &Engine{store: store, defaultLimit: defaultLimit}
}

// Search scores every resident document against the query, drops
// non-matches, orders by score descending then price ascending then
// locale-aware name, and returns at most limit documents. An empty or
// whitespace-only query yields an empty result, not an error.
func (e *Engine) Search(query string, limit int) *Result {
	if limit < 1 {
		limit = e.defaultLimit
	}

	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return &Result{Query: query, Results: []index.Document{}}
	}
	words := strings.Fields(normalized)

	docs := e.store.Documents()
	type scoredDoc struct {
		doc   index.Document
		score int
	}
	matches := make([]scoredDoc, 0, len(docs)/4+1)
	for _, doc := range docs {
		if s := score(doc, normalized, words); s > 0 {
			matches = append(matches, scoredDoc{doc: doc, score: s})
		}
	}

	// Collators are stateful, so build one per call rather than sharing.
	coll := collate.New(language.English)
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		if matches[i].doc.Price != matches[j].doc.Price {
			return matches[i].doc.Price < matches[j].doc.Price
		}
		return coll.CompareString(matches[i].doc.Name, matches[j].doc.Name) < 0
	})

	total := len(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	results := make([]index.Document, len(matches))
	for i, m := range matches {
		results[i] = m.doc
	}
	return &Result{Query: query, TotalHits: total, Results: results}
}

// score computes the integer relevance of one document for the normalized
// query and its word list. Zero means no relevance signal at all.
func score(doc index.Document, query string, words []string) int {
	name := strings.ToLower(doc.Name)
	brand := strings.ToLower(doc.Brand)

	s := 0
	if name == query {
		s += scoreNameExact
	}
	if brand == query {
		s += scoreBrandExact
	}
	if strings.Contains(name, query) {
		s += scoreNameSubstring
	}
	if strings.Contains(brand, query) {
		s += scoreBrandSubstring
	}

	nameTokens := strings.Fields(name)
	brandTokens := strings.Fields(brand)
	for _, word := range words {
		if strings.Contains(doc.SearchText, word) {
			s += scoreWordInText
		}
		if anyTokenHasPrefix(nameTokens, word) {
			s += scoreNameTokenPrefix
		}
		if anyTokenHasPrefix(brandTokens, word) {
			s += scoreBrandTokenPrefix
		}
	}

	if doc.ReleaseYear >= recentYearFloor {
		s += scoreRecentYear
	}
	if doc.ReleaseYear >= latestYearFloor {
		s += scoreLatestYear
	}
	if doc.FiveG {
		s += scoreFiveG
	}
	return s
}

func anyTokenHasPrefix(tokens []string, prefix string) bool {
	for _, token := range tokens {
		if strings.HasPrefix(token, prefix) {
			return true
		}
	}
	return false
}
