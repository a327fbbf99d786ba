// Package index holds the resident search index: the flat document set
// projected from the catalog, the atomic snapshot holder, and the builder
// that replaces it.
package index

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mobimart/search-service/internal/catalog"
	apperrors "github.com/mobimart/search-service/pkg/errors"
)

// Document is the unit of indexing: one catalog phone flattened for
// scoring. Price 0 is the "unknown" sentinel, never negative. SearchText is
// the precomputed lower-case join of the human-readable fields so per-query
// scoring never re-derives it.
type Document struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Price       int     `json:"price"`
	RAMGB       int     `json:"ram_gb,omitempty"`
	StorageGB   int     `json:"storage_gb,omitempty"`
	BatteryMAh  int     `json:"battery_mah,omitempty"`
	DisplayInch float64 `json:"display_inch,omitempty"`
	ReleaseYear int     `json:"release_year,omitempty"`
	FiveG       bool    `json:"five_g"`
	Slug        string  `json:"slug"`
	SearchText  string  `json:"-"`
}

// Project turns a catalog item into a Document, applying the defaulting
// rules for optional fields and validating the invariants that the rest of
// the engine assumes.
func Project(item catalog.Item) (Document, error) {
	name := strings.TrimSpace(item.Name)
	brand := strings.TrimSpace(item.Brand)
	slug := strings.TrimSpace(item.Slug)
	switch {
	case name == "":
		return Document{}, fmt.Errorf("%w: item %d has no name", apperrors.ErrMalformedRow, item.ID)
	case brand == "":
		return Document{}, fmt.Errorf("%w: item %d has no brand", apperrors.ErrMalformedRow, item.ID)
	case slug == "":
		return Document{}, fmt.Errorf("%w: item %d has no slug", apperrors.ErrMalformedRow, item.ID)
	}

	doc := Document{
		ID:          item.ID,
		Name:        name,
		Brand:       brand,
		Price:       intOrZero(item.LowestPrice),
		RAMGB:       intOrZero(item.RAMGB),
		StorageGB:   intOrZero(item.StorageGB),
		BatteryMAh:  intOrZero(item.BatteryMAh),
		DisplayInch: floatOrZero(item.DisplayInch),
		ReleaseYear: intOrZero(item.ReleaseYear),
		FiveG:       item.FiveG,
		Slug:        slug,
	}
	if doc.Price < 0 {
		return Document{}, fmt.Errorf("%w: item %d has negative price %d", apperrors.ErrMalformedRow, item.ID, doc.Price)
	}
	doc.SearchText = buildSearchText(doc, item)
	return doc, nil
}

// buildSearchText joins the searchable fields into one lower-cased string:
// name, brand, RAM, storage, connectivity generation, battery, display,
// chipset, and OS.
func buildSearchText(doc Document, item catalog.Item) string {
	parts := []string{doc.Name, doc.Brand}
	if doc.RAMGB > 0 {
		parts = append(parts, strconv.Itoa(doc.RAMGB)+"gb ram")
	}
	if doc.StorageGB > 0 {
		parts = append(parts, strconv.Itoa(doc.StorageGB)+"gb storage")
	}
	if doc.FiveG {
		parts = append(parts, "5g")
	} else {
		parts = append(parts, "4g")
	}
	if doc.BatteryMAh > 0 {
		parts = append(parts, strconv.Itoa(doc.BatteryMAh)+"mah")
	}
	if doc.DisplayInch > 0 {
		parts = append(parts, strconv.FormatFloat(doc.DisplayInch, 'f', -1, 64)+" inch")
	}
	if item.Chipset != nil && *item.Chipset != "" {
		parts = append(parts, *item.Chipset)
	}
	if item.OS != nil && *item.OS != "" {
		parts = append(parts, *item.OS)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
