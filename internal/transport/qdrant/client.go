package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/plotmatch/plotmatch/internal/domain"
	"github.com/plotmatch/plotmatch/internal/metrics"
)

// Client is a REST client for the points/search endpoint of a pre-provisioned
// Qdrant collection. It is a pass-through: hits come back already rank-ordered
// by descending similarity and no client-side reranking is applied.
type Client struct {
	baseURL        string
	apiKey         string
	collection     string
	scoreThreshold float64
	http           *http.Client
	logger         *zap.Logger
}

// Config holds connection parameters for the vector index.
type Config struct {
	URL            string
	APIKey         string
	Collection     string
	ScoreThreshold float64 // 0 = pass-through, no server-side cutoff
	Timeout        time.Duration
	Logger         *zap.Logger
}

// New creates a vector index client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:        cfg.URL,
		apiKey:         cfg.APIKey,
		collection:     cfg.Collection,
		scoreThreshold: cfg.ScoreThreshold,
		http:           &http.Client{Timeout: timeout},
		logger:         logger,
	}
}

type searchRequest struct {
	Vector         []float32 `json:"vector"`
	Limit          int       `json:"limit"`
	WithPayload    bool      `json:"with_payload"`
	ScoreThreshold *float64  `json:"score_threshold,omitempty"`
}

type searchResponse struct {
	Result []struct {
		ID      domain.PointID      `json:"id"`
		Score   float64             `json:"score"`
		Payload domain.MoviePayload `json:"payload"`
	} `json:"result"`
}

// Search runs a nearest-neighbor query and returns the hits in index order.
// Any transport, service, or response-shape error propagates to the caller;
// there is no partial-results fallback.
func (c *Client) Search(ctx context.Context, vector []float32, limit int) ([]domain.SearchHit, error) {
	reqBody := searchRequest{
		Vector:      vector,
		Limit:       limit,
		WithPayload: true,
	}
	if c.scoreThreshold > 0 {
		reqBody.ScoreThreshold = &c.scoreThreshold
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.IndexSearchesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("index search: %w: %w", err, domain.ErrIndexUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		metrics.IndexSearchesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("index search: status %s: %w", resp.Status, domain.ErrIndexUnavailable)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		metrics.IndexSearchesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("decode index response: %w: %w", err, domain.ErrIndexUnavailable)
	}

	metrics.IndexSearchesTotal.WithLabelValues("success").Inc()
	metrics.IndexSearchDuration.Observe(time.Since(start).Seconds())

	hits := make([]domain.SearchHit, len(decoded.Result))
	for i, r := range decoded.Result {
		hits[i] = domain.SearchHit{
			ID:      r.ID,
			Score:   r.Score,
			Payload: r.Payload,
		}
	}

	c.logger.Debug("index search completed",
		zap.Int("hits", len(hits)),
		zap.Duration("latency", time.Since(start)),
	)
	return hits, nil
}

// HealthCheck verifies the collection is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	url := fmt.Sprintf("%s/collections/%s", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build collection request: %w", err)
	}
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("collection info: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("collection info: status %s", resp.Status)
	}
	return nil
}
