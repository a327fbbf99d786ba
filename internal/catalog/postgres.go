package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	apperrors "github.com/mobimart/search-service/pkg/errors"
	"github.com/mobimart/search-service/pkg/postgres"
)

// listQuery fetches every phone with its brand name and minimum vendor
// price. LEFT JOIN keeps phones that have no offers yet; their price scans
// as NULL and defaults to the 0 sentinel at projection time.
const listQuery = `
SELECT p.id, p.name, b.name AS brand,
       p.ram_gb, p.storage_gb, p.battery_mah, p.display_inch,
       p.release_year, p.five_g, p.slug, p.chipset, p.os,
       MIN(o.price) AS lowest_price
FROM phones p
JOIN brands b ON b.id = p.brand_id
LEFT JOIN vendor_offers o ON o.phone_id = p.id
GROUP BY p.id, p.name, b.name,
         p.ram_gb, p.storage_gb, p.battery_mah, p.display_inch,
         p.release_year, p.five_g, p.slug, p.chipset, p.os
ORDER BY p.id`

// PostgresSource reads the catalog from the marketplace's Postgres database.
type PostgresSource struct {
	client *postgres.Client
	logger *slog.Logger
}

// NewPostgresSource wraps a postgres client as a catalog Source.
func NewPostgresSource(client *postgres.Client) *PostgresSource {
	return &PostgresSource{
		client: client,
		logger: slog.Default().With("component", "catalog-source"),
	}
}

// ListItems returns the full catalog snapshot.
func (s *PostgresSource) ListItems(ctx context.Context) ([]Item, error) {
	rows, err := s.client.DB.QueryContext(ctx, listQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: querying catalog: %w", apperrors.ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			item        Item
			ram         sql.NullInt64
			storage     sql.NullInt64
			battery     sql.NullInt64
			display     sql.NullFloat64
			releaseYear sql.NullInt64
			chipset     sql.NullString
			osName      sql.NullString
			lowestPrice sql.NullInt64
		)
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Brand,
			&ram, &storage, &battery, &display,
			&releaseYear, &item.FiveG, &item.Slug, &chipset, &osName,
			&lowestPrice,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning catalog row: %w", apperrors.ErrMalformedRow, err)
		}
		if ram.Valid {
			v := int(ram.Int64)
			item.RAMGB = &v
		}
		if storage.Valid {
			v := int(storage.Int64)
			item.StorageGB = &v
		}
		if battery.Valid {
			v := int(battery.Int64)
			item.BatteryMAh = &v
		}
		if display.Valid {
			v := display.Float64
			item.DisplayInch = &v
		}
		if releaseYear.Valid {
			v := int(releaseYear.Int64)
			item.ReleaseYear = &v
		}
		if chipset.Valid {
			v := chipset.String
			item.Chipset = &v
		}
		if osName.Valid {
			v := osName.String
			item.OS = &v
		}
		if lowestPrice.Valid {
			v := int(lowestPrice.Int64)
			item.LowestPrice = &v
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating catalog rows: %w", apperrors.ErrCatalogUnavailable, err)
	}
	s.logger.Debug("catalog fetched", "items", len(items))
	return items, nil
}
