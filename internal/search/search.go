// Package search defines the full-text index tours can be searched through
// in place of the Postgres text search.
package search

import (
	"context"

	"github.com/parasjain182005/Travel-Website/internal/domain"
)

// Hits is one page of matching tour ids in rank order.
type Hits struct {
	IDs   []string
	Total int
}

// Engine indexes and searches tours.
type Engine interface {
	// Index adds or replaces a tour document.
	Index(ctx context.Context, tour *domain.Tour) error

	// Delete removes a tour document. A missing document is not an error.
	Delete(ctx context.Context, id string) error

	// BulkIndex adds or replaces many tour documents.
	BulkIndex(ctx context.Context, tours []domain.Tour) error

	// Search returns the ids matching filter. Page and PerPage follow
	// domain.TourFilter.
	Search(ctx context.Context, filter domain.TourFilter) (Hits, error)

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error
}
