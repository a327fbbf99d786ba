package index

import (
	"errors"
	"strings"
	"testing"

	"github.com/mobimart/search-service/internal/catalog"
	apperrors "github.com/mobimart/search-service/pkg/errors"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

// TestProjectFullItem verifies that a fully populated catalog item maps
// field-for-field onto a Document.
func TestProjectFullItem(t *testing.T) {
	item := catalog.Item{
		ID:          42,
		Name:        "Galaxy S24 Ultra",
		Brand:       "Samsung",
		RAMGB:       intPtr(12),
		StorageGB:   intPtr(256),
		BatteryMAh:  intPtr(5000),
		DisplayInch: floatPtr(6.8),
		ReleaseYear: intPtr(2024),
		FiveG:       true,
		Slug:        "galaxy-s24-ultra",
		Chipset:     strPtr("Snapdragon 8 Gen 3"),
		OS:          strPtr("Android 14"),
		LowestPrice: intPtr(129999),
	}

	doc, err := Project(item)
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}

	if doc.ID != 42 || doc.Name != "Galaxy S24 Ultra" || doc.Brand != "Samsung" {
		t.Errorf("identity fields mismatch: %+v", doc)
	}
	if doc.Price != 129999 || doc.RAMGB != 12 || doc.StorageGB != 256 {
		t.Errorf("numeric fields mismatch: %+v", doc)
	}
	if doc.BatteryMAh != 5000 || doc.DisplayInch != 6.8 || doc.ReleaseYear != 2024 {
		t.Errorf("spec fields mismatch: %+v", doc)
	}
	if !doc.FiveG || doc.Slug != "galaxy-s24-ultra" {
		t.Errorf("flag/slug mismatch: %+v", doc)
	}
}

// TestProjectDefaults verifies that missing optional fields default to zero
// values rather than failing the projection.
func TestProjectDefaults(t *testing.T) {
	item := catalog.Item{
		ID:    7,
		Name:  "Feature Phone",
		Brand: "Nokia",
		Slug:  "feature-phone",
	}

	doc, err := Project(item)
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}
	if doc.Price != 0 {
		t.Errorf("expected price 0 for missing offer, got %d", doc.Price)
	}
	if doc.RAMGB != 0 || doc.StorageGB != 0 || doc.BatteryMAh != 0 {
		t.Errorf("expected zero spec defaults, got %+v", doc)
	}
	if doc.DisplayInch != 0 || doc.ReleaseYear != 0 {
		t.Errorf("expected zero display/year defaults, got %+v", doc)
	}
}

// TestProjectRejectsMalformed verifies that items missing identity fields or
// carrying a negative price are rejected with ErrMalformedRow.
func TestProjectRejectsMalformed(t *testing.T) {
	base := catalog.Item{ID: 1, Name: "Phone", Brand: "Brand", Slug: "phone"}

	tests := []struct {
		name   string
		mutate func(*catalog.Item)
	}{
		{"empty name", func(i *catalog.Item) { i.Name = "" }},
		{"whitespace name", func(i *catalog.Item) { i.Name = "   " }},
		{"empty brand", func(i *catalog.Item) { i.Brand = "" }},
		{"empty slug", func(i *catalog.Item) { i.Slug = "" }},
		{"negative price", func(i *catalog.Item) { i.LowestPrice = intPtr(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := base
			tt.mutate(&item)
			_, err := Project(item)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, apperrors.ErrMalformedRow) {
				t.Errorf("expected ErrMalformedRow, got %v", err)
			}
		})
	}
}

// TestProjectSearchText verifies the precomputed search text contains the
// lower-cased name, brand, and spec phrases.
func TestProjectSearchText(t *testing.T) {
	item := catalog.Item{
		ID:          3,
		Name:        "Redmi Note 13",
		Brand:       "Xiaomi",
		RAMGB:       intPtr(8),
		StorageGB:   intPtr(128),
		BatteryMAh:  intPtr(5000),
		DisplayInch: floatPtr(6.67),
		ReleaseYear: intPtr(2024),
		FiveG:       true,
		Slug:        "redmi-note-13",
		Chipset:     strPtr("Dimensity 6080"),
		OS:          strPtr("Android 13"),
	}

	doc, err := Project(item)
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}

	for _, want := range []string{
		"redmi note 13", "xiaomi", "8gb ram", "128gb storage",
		"5g", "5000mah", "6.67 inch", "dimensity 6080", "android 13",
	} {
		if !strings.Contains(doc.SearchText, want) {
			t.Errorf("search text missing %q: %q", want, doc.SearchText)
		}
	}
	if doc.SearchText != strings.ToLower(doc.SearchText) {
		t.Errorf("search text not lower-cased: %q", doc.SearchText)
	}
}

// TestProjectSearchTextFourG verifies that non-5G phones are searchable via
// the "4g" phrase and never match "5g" through it.
func TestProjectSearchTextFourG(t *testing.T) {
	item := catalog.Item{ID: 4, Name: "Galaxy A14", Brand: "Samsung", Slug: "galaxy-a14"}

	doc, err := Project(item)
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}
	if !strings.Contains(doc.SearchText, "4g") {
		t.Errorf("expected 4g phrase in %q", doc.SearchText)
	}
	if strings.Contains(doc.SearchText, "5g") {
		t.Errorf("unexpected 5g phrase in %q", doc.SearchText)
	}
}
