package search

import (
	"strings"
	"testing"
	"time"

	"github.com/mobimart/search-service/internal/index"
)

// galaxyStore builds a two-phone index used across the ranking tests.
func galaxyStore() *index.Store {
	s := index.NewStore()
	s.Swap(galaxyDocs(), time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	return s
}

func galaxyDocs() []index.Document {
	return []index.Document{
		{
			ID: 1, Name: "Galaxy S24", Brand: "Samsung", Price: 250000,
			ReleaseYear: 2024, FiveG: true, Slug: "galaxy-s24",
			SearchText: "galaxy s24 samsung 5g",
		},
		{
			ID: 2, Name: "Galaxy A14", Brand: "Samsung", Price: 45000,
			ReleaseYear: 2023, FiveG: false, Slug: "galaxy-a14",
			SearchText: "galaxy a14 samsung 4g",
		},
	}
}

// TestSearchNameSubstringRanking covers the flagship-vs-budget ordering for
// a shared name prefix: both Galaxy phones match "galaxy", and the S24's
// recency and 5G bonuses put it first despite its higher price.
func TestSearchNameSubstringRanking(t *testing.T) {
	e := NewEngine(galaxyStore(), 10)

	res := e.Search("galaxy", 10)
	if res.TotalHits != 2 || len(res.Results) != 2 {
		t.Fatalf("expected 2 hits, got total=%d len=%d", res.TotalHits, len(res.Results))
	}
	if res.Results[0].Name != "Galaxy S24" || res.Results[1].Name != "Galaxy A14" {
		t.Errorf("wrong order: %s, %s", res.Results[0].Name, res.Results[1].Name)
	}
}

// TestSearchScoreWeights pins the additive weight model: name substring 500,
// per-word text match 100, name-token prefix 200, recency 10+20, 5G 5.
func TestSearchScoreWeights(t *testing.T) {
	docs := galaxyDocs()
	words := []string{"galaxy"}

	if got := score(docs[0], "galaxy", words); got != 835 {
		t.Errorf("Galaxy S24 score = %d, want 835", got)
	}
	if got := score(docs[1], "galaxy", words); got != 810 {
		t.Errorf("Galaxy A14 score = %d, want 810", got)
	}
}

// TestSearchBrandQuery verifies that a brand query matches both phones and
// that the release/5G bonuses still break the tie in the S24's favour.
func TestSearchBrandQuery(t *testing.T) {
	e := NewEngine(galaxyStore(), 10)

	res := e.Search("samsung", 10)
	if len(res.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(res.Results))
	}
	if res.Results[0].Name != "Galaxy S24" {
		t.Errorf("expected Galaxy S24 first, got %s", res.Results[0].Name)
	}
}

// TestSearchExactNameDominates verifies an exact name match outranks every
// substring-only candidate.
func TestSearchExactNameDominates(t *testing.T) {
	e := NewEngine(galaxyStore(), 10)

	res := e.Search("Galaxy S24", 10)
	if len(res.Results) == 0 {
		t.Fatal("expected results")
	}
	if res.Results[0].Name != "Galaxy S24" {
		t.Errorf("expected exact match first, got %s", res.Results[0].Name)
	}

	exact := score(galaxyDocs()[0], "galaxy s24", []string{"galaxy", "s24"})
	other := score(galaxyDocs()[1], "galaxy s24", []string{"galaxy", "s24"})
	if exact <= other+1000 {
		t.Errorf("exact bonus not dominant: exact=%d other=%d", exact, other)
	}
}

// TestSearchEmptyQuery verifies that empty and whitespace-only queries
// return an empty result set rather than an error or a full scan.
func TestSearchEmptyQuery(t *testing.T) {
	e := NewEngine(galaxyStore(), 10)

	for _, q := range []string{"", "   ", "\t\n"} {
		res := e.Search(q, 10)
		if res.TotalHits != 0 || len(res.Results) != 0 {
			t.Errorf("query %q: expected empty result, got %+v", q, res)
		}
	}
}

// TestSearchNoMatches verifies that a query with no relevance signal yields
// zero hits even though the recency and 5G bonuses exist.
func TestSearchNoMatches(t *testing.T) {
	e := NewEngine(galaxyStore(), 10)

	res := e.Search("zzzzz", 10)
	if res.TotalHits != 0 || len(res.Results) != 0 {
		t.Errorf("expected no hits, got %+v", res)
	}
}

// TestSearchLimitTruncation verifies limit caps the returned slice while
// TotalHits reports the pre-truncation count.
func TestSearchLimitTruncation(t *testing.T) {
	e := NewEngine(galaxyStore(), 10)

	res := e.Search("galaxy", 1)
	if res.TotalHits != 2 {
		t.Errorf("TotalHits = %d, want 2", res.TotalHits)
	}
	if len(res.Results) != 1 {
		t.Errorf("len(Results) = %d, want 1", len(res.Results))
	}
}

// TestSearchNonPositiveLimit verifies that zero and negative limits fall
// back to the engine default instead of failing.
func TestSearchNonPositiveLimit(t *testing.T) {
	e := NewEngine(galaxyStore(), 1)

	for _, limit := range []int{0, -5} {
		res := e.Search("galaxy", limit)
		if len(res.Results) != 1 {
			t.Errorf("limit %d: expected default limit 1 applied, got %d results", limit, len(res.Results))
		}
	}
}

// TestSearchTieBreaks verifies the composite sort key: equal scores order by
// ascending price, and equal prices order by name.
func TestSearchTieBreaks(t *testing.T) {
	s := index.NewStore()
	s.Swap([]index.Document{
		{ID: 1, Name: "Nord Z", Brand: "OnePlus", Price: 30000, SearchText: "nord z oneplus 4g"},
		{ID: 2, Name: "Nord A", Brand: "OnePlus", Price: 30000, SearchText: "nord a oneplus 4g"},
		{ID: 3, Name: "Nord M", Brand: "OnePlus", Price: 20000, SearchText: "nord m oneplus 4g"},
	}, time.Now())
	e := NewEngine(s, 10)

	res := e.Search("nord", 10)
	if len(res.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(res.Results))
	}
	got := []string{res.Results[0].Name, res.Results[1].Name, res.Results[2].Name}
	want := []string{"Nord M", "Nord A", "Nord Z"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

// TestSearchOrderingInvariant checks every adjacent result pair respects the
// composite key (score desc, price asc, name asc) across a varied index.
func TestSearchOrderingInvariant(t *testing.T) {
	s := index.NewStore()
	s.Swap([]index.Document{
		{ID: 1, Name: "Galaxy S24 Ultra", Brand: "Samsung", Price: 129999, ReleaseYear: 2024, FiveG: true, SearchText: "galaxy s24 ultra samsung 5g"},
		{ID: 2, Name: "Galaxy S24", Brand: "Samsung", Price: 79999, ReleaseYear: 2024, FiveG: true, SearchText: "galaxy s24 samsung 5g"},
		{ID: 3, Name: "Galaxy A14", Brand: "Samsung", Price: 15999, ReleaseYear: 2023, SearchText: "galaxy a14 samsung 4g"},
		{ID: 4, Name: "Galaxy M34", Brand: "Samsung", Price: 15999, ReleaseYear: 2023, FiveG: true, SearchText: "galaxy m34 samsung 5g"},
		{ID: 5, Name: "Pixel 8", Brand: "Google", Price: 69999, ReleaseYear: 2023, FiveG: true, SearchText: "pixel 8 google 5g"},
	}, time.Now())
	e := NewEngine(s, 10)

	for _, q := range []string{"galaxy", "samsung", "galaxy s24", "pixel"} {
		res := e.Search(q, 10)
		words := strings.Fields(strings.ToLower(q))
		for i := 0; i+1 < len(res.Results); i++ {
			a, b := res.Results[i], res.Results[i+1]
			sa := score(a, strings.ToLower(q), words)
			sb := score(b, strings.ToLower(q), words)
			if sa < sb {
				t.Errorf("query %q: %s (score %d) before %s (score %d)", q, a.Name, sa, b.Name, sb)
			}
			if sa == sb && a.Price > b.Price {
				t.Errorf("query %q: %s (price %d) before %s (price %d) at equal score", q, a.Name, a.Price, b.Name, b.Price)
			}
		}
		for _, r := range res.Results {
			if score(r, strings.ToLower(q), words) <= 0 {
				t.Errorf("query %q: zero-score document %s returned", q, r.Name)
			}
		}
	}
}

// TestSearchCaseInsensitive verifies queries are matched case-insensitively.
func TestSearchCaseInsensitive(t *testing.T) {
	e := NewEngine(galaxyStore(), 10)

	upper := e.Search("GALAXY", 10)
	lower := e.Search("galaxy", 10)
	if upper.TotalHits != lower.TotalHits {
		t.Errorf("case sensitivity leak: %d vs %d hits", upper.TotalHits, lower.TotalHits)
	}
}

// TestSearchEmptyIndex verifies queries against a never-built index return
// cleanly.
func TestSearchEmptyIndex(t *testing.T) {
	e := NewEngine(index.NewStore(), 10)

	res := e.Search("anything", 10)
	if res.TotalHits != 0 || len(res.Results) != 0 {
		t.Errorf("expected empty result from empty index, got %+v", res)
	}
}
