package search

import (
	"testing"
	"time"

	"github.com/mobimart/search-service/internal/index"
)

// TestSuggestBrandMatch covers the canonical autocomplete case: a brand
// fragment returns the brand.
func TestSuggestBrandMatch(t *testing.T) {
	e := NewEngine(galaxyStore(), 5)

	got := e.Suggest("sam", 5)
	if len(got) != 1 || got[0] != "Samsung" {
		t.Errorf("Suggest(\"sam\") = %v, want [Samsung]", got)
	}
}

// TestSuggestMinimumLength verifies inputs below two characters yield no
// suggestions.
func TestSuggestMinimumLength(t *testing.T) {
	e := NewEngine(galaxyStore(), 5)

	for _, q := range []string{"s", "", " ", "  a  "} {
		if got := e.Suggest(q, 5); len(got) != 0 {
			t.Errorf("Suggest(%q) = %v, want []", q, got)
		}
	}
}

// TestSuggestNameAndTokenCandidates verifies names and long name tokens are
// offered alongside brands, deduplicated, in index order.
func TestSuggestNameAndTokenCandidates(t *testing.T) {
	e := NewEngine(galaxyStore(), 5)

	got := e.Suggest("gal", 5)
	want := []string{"Galaxy S24", "Galaxy", "Galaxy A14"}
	if len(got) != len(want) {
		t.Fatalf("Suggest(\"gal\") = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Suggest(\"gal\")[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestSuggestShortTokensExcluded verifies name tokens of two characters or
// fewer are never offered as standalone suggestions.
func TestSuggestShortTokensExcluded(t *testing.T) {
	s := index.NewStore()
	s.Swap([]index.Document{
		{ID: 1, Name: "Mi 11", Brand: "Xiaomi", Slug: "mi-11", SearchText: "mi 11 xiaomi 4g"},
	}, time.Now())
	e := NewEngine(s, 5)

	got := e.Suggest("mi", 5)
	for _, c := range got {
		if c == "Mi" || c == "11" {
			t.Errorf("short token %q offered as suggestion", c)
		}
	}
	// The brand and full name still qualify.
	if len(got) != 2 || got[0] != "Xiaomi" || got[1] != "Mi 11" {
		t.Errorf("Suggest(\"mi\") = %v, want [Xiaomi, Mi 11]", got)
	}
}

// TestSuggestLimit verifies the limit caps candidates and a non-positive
// limit falls back to the engine default.
func TestSuggestLimit(t *testing.T) {
	s := index.NewStore()
	docs := make([]index.Document, 0, 10)
	names := []string{"Nord A", "Nord B", "Nord C", "Nord D", "Nord E", "Nord F"}
	for i, n := range names {
		docs = append(docs, index.Document{ID: i + 1, Name: n, Brand: "OnePlus", Slug: n})
	}
	s.Swap(docs, time.Now())
	e := NewEngine(s, 3)

	if got := e.Suggest("nord", 2); len(got) != 2 {
		t.Errorf("limit 2: got %d suggestions", len(got))
	}
	if got := e.Suggest("nord", 0); len(got) != 3 {
		t.Errorf("limit 0: expected default 3, got %d", len(got))
	}
}

// TestSuggestCaseInsensitive verifies matching ignores case while returned
// candidates keep their catalog casing.
func TestSuggestCaseInsensitive(t *testing.T) {
	e := NewEngine(galaxyStore(), 5)

	got := e.Suggest("SAM", 5)
	if len(got) != 1 || got[0] != "Samsung" {
		t.Errorf("Suggest(\"SAM\") = %v, want [Samsung]", got)
	}
}
