package search

import (
	"context"

	"github.com/plotmatch/plotmatch/internal/domain"
)

// Embedder vectorizes query text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Index runs nearest-neighbor queries against the plots collection.
type Index interface {
	Search(ctx context.Context, vector []float32, limit int) ([]domain.SearchHit, error)
}

// MetadataProvider resolves metadata for a movie. A nil result means absent;
// implementations absorb their own failures and never return errors.
type MetadataProvider interface {
	Lookup(ctx context.Context, title string, year int) *domain.MovieDetails
}
