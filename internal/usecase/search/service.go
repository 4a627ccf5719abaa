package search

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/plotmatch/plotmatch/internal/domain"
)

// Service is the search orchestrator: embed the query, run the
// nearest-neighbor search, enrich every hit with metadata, return the full
// enriched set in the index's rank order. Filtering and deduplication for
// display belong to the presentation layer, not here.
type Service struct {
	embed Embedder
	index Index
	meta  MetadataProvider
	limit int
}

// New creates a search service. limit is the fixed result count requested
// from the vector index per search.
func New(embed Embedder, index Index, meta MetadataProvider, limit int) *Service {
	return &Service{embed: embed, index: index, meta: meta, limit: limit}
}

// Search runs the full pipeline for one query. The query must be non-empty
// after trimming. Embedding and index failures are fatal to the request;
// metadata failures degrade individual hits to an absent record.
func (s *Service) Search(ctx context.Context, query string) ([]domain.SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidQuery
	}

	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.index.Search(ctx, emb.Embedding, s.limit)
	if err != nil {
		return nil, fmt.Errorf("index search: %w", err)
	}

	s.enrich(ctx, hits)
	return hits, nil
}

// enrich joins metadata onto every hit concurrently. Each lookup writes into
// the slot of its originating hit, so the index's rank order survives any
// completion order. The barrier waits for the whole batch; lookups return
// nil on failure, so Wait never reports an error.
func (s *Service) enrich(ctx context.Context, hits []domain.SearchHit) {
	var g errgroup.Group
	for i := range hits {
		g.Go(func() error {
			hits[i].TMDB = s.meta.Lookup(ctx, hits[i].Payload.Title, hits[i].Payload.ReleaseYear)
			return nil
		})
	}
	_ = g.Wait()
}
