// Package catalog exposes the phone catalog as a read-only data source for
// the search index. The catalog itself (phones, brands, vendor offers) is
// owned by the marketplace backend; this package only reads it.
package catalog

import "context"

// Item is one catalog row as fetched from the source: a phone joined with
// its brand name and its single lowest vendor price. Pointer fields are
// optional upstream; the index builder applies the defaulting rules
// (missing numeric spec -> 0, missing price -> 0 "unknown" sentinel).
type Item struct {
	ID          int
	Name        string
	Brand       string
	RAMGB       *int
	StorageGB   *int
	BatteryMAh  *int
	DisplayInch *float64
	ReleaseYear *int
	FiveG       bool
	Slug        string
	Chipset     *string
	OS          *string
	LowestPrice *int
}

// Source yields a consistent full snapshot of the catalog per call. No
// incremental or cursor protocol: the index is always rebuilt from scratch.
type Source interface {
	ListItems(ctx context.Context) ([]Item, error)
}
