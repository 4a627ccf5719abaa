package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/plotmatch/plotmatch/internal/domain"
	"github.com/plotmatch/plotmatch/internal/metrics"
)

// Embedder vectorizes text via an OpenAI-compatible embeddings API serving
// a sentence-transformer model (all-MiniLM-L6-v2 in the default setup).
// The underlying client is built once on first use and reused for the
// process lifetime; concurrent first calls share the same initialization.
type Embedder struct {
	cfg Config

	once   sync.Once
	client *openai.Client
}

// Config holds the embedding provider settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	Logger     *zap.Logger
}

// NewEmbedder creates an OpenAI-compatible embedding provider.
// The transport client is not built until the first Embed call.
func NewEmbedder(cfg Config) *Embedder {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Embedder{cfg: cfg}
}

func (e *Embedder) getClient() *openai.Client {
	e.once.Do(func() {
		clientCfg := openai.DefaultConfig(e.cfg.APIKey)
		if e.cfg.BaseURL != "" {
			clientCfg.BaseURL = e.cfg.BaseURL
		}
		e.client = openai.NewClientWithConfig(clientCfg)
		e.cfg.Logger.Info("Embedding client initialized",
			zap.String("model", e.cfg.Model),
			zap.Int("dimensions", e.cfg.Dimensions),
		)
	})
	return e.client
}

// Embed implements domain.Embedder. Returns the vector and usage with
// transport-level metrics. Any provider or shape error is fatal to the call.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          openai.EmbeddingModel(e.cfg.Model),
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}

	start := time.Now()

	resp, err := e.getClient().CreateEmbeddings(ctx, req)

	duration := time.Since(start)

	model := e.cfg.Model
	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues("openai", model, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues("openai", model, "api_error").Inc()
		return domain.EmbeddingResult{}, parseAPIError(err)
	}

	if len(resp.Data) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues("openai", model, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues("openai", model, "empty_response").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrEmbeddingProviderError)
	}

	vec := resp.Data[0].Embedding
	if e.cfg.Dimensions > 0 && len(vec) != e.cfg.Dimensions {
		metrics.EmbeddingRequestsTotal.WithLabelValues("openai", model, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues("openai", model, "dim_mismatch").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf(
			"embedding dimension mismatch: got %d, want %d: %w",
			len(vec), e.cfg.Dimensions, domain.ErrEmbeddingProviderError,
		)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues("openai", model, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues("openai", model).Observe(duration.Seconds())

	return domain.EmbeddingResult{
		Embedding:    vec,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.getClient().ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrEmbeddingProviderError.
func parseAPIError(err error) error {
	wrap := domain.ErrEmbeddingProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("embedding API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("embedding API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("embedding request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
