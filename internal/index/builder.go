package index

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mobimart/search-service/internal/catalog"
	apperrors "github.com/mobimart/search-service/pkg/errors"
)

// Builder constructs a fresh index generation from a full catalog fetch and
// swaps it into the Store. It carries no retry policy of its own; that
// belongs to whoever triggers the rebuild.
type Builder struct {
	source catalog.Source
	store  *Store
	logger *slog.Logger
}

// NewBuilder creates a Builder over the given source and store.
func NewBuilder(source catalog.Source, store *Store) *Builder {
	return &Builder{
		source: source,
		store:  store,
		logger: slog.Default().With("component", "index-builder"),
	}
}

// Rebuild fetches the full catalog, projects every row into a Document, and
// atomically replaces the resident index. Any fetch or projection failure
// aborts the build and leaves the previous index untouched. Returns the
// number of indexed documents.
func (b *Builder) Rebuild(ctx context.Context) (int, error) {
	start := time.Now()

	items, err := b.source.ListItems(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: fetching catalog: %w", apperrors.ErrBuildFailed, err)
	}

	docs := make([]Document, 0, len(items))
	for _, item := range items {
		doc, err := Project(item)
		if err != nil {
			return 0, fmt.Errorf("%w: projecting item %d: %w", apperrors.ErrBuildFailed, item.ID, err)
		}
		docs = append(docs, doc)
	}

	b.store.Swap(docs, time.Now().UTC())
	b.logger.Info("index rebuilt",
		"documents", len(docs),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return len(docs), nil
}
