package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/plotmatch/plotmatch/internal/domain"
	"github.com/plotmatch/plotmatch/internal/metrics"
)

// Client wraps the movie metadata service. Lookup is a two-step call:
// search by title and year, then fetch full details for the first match.
type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	heroIDs      []int
	http         *http.Client
	logger       *zap.Logger
}

// Config holds metadata service settings.
type Config struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	HeroMovieIDs []int
	Timeout      time.Duration
	Logger       *zap.Logger
}

// New creates a metadata client.
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
		apiKey:       cfg.APIKey,
		baseURL:      cfg.BaseURL,
		imageBaseURL: cfg.ImageBaseURL,
		heroIDs:      cfg.HeroMovieIDs,
		http:         &http.Client{Timeout: timeout},
		logger:       logger,
	}
}

// Lookup resolves metadata for a movie by title and release year.
// A search miss and any error in either step both yield nil: one movie's
// metadata failure must never abort the batch it belongs to. This is the
// deliberate opposite of the vector index client's fatal-on-error policy.
func (c *Client) Lookup(ctx context.Context, title string, year int) *domain.MovieDetails {
	start := time.Now()

	details, err := c.lookup(ctx, title, year)
	if err != nil {
		metrics.MetadataLookupsTotal.WithLabelValues("error").Inc()
		c.logger.Warn("metadata lookup failed",
			zap.String("title", title),
			zap.Int("year", year),
			zap.Error(err),
		)
		return nil
	}

	metrics.MetadataLookupDuration.Observe(time.Since(start).Seconds())
	if details == nil {
		metrics.MetadataLookupsTotal.WithLabelValues("miss").Inc()
		return nil
	}
	metrics.MetadataLookupsTotal.WithLabelValues("found").Inc()
	return details
}

func (c *Client) lookup(ctx context.Context, title string, year int) (*domain.MovieDetails, error) {
	id, found, err := c.searchMovie(ctx, title, year)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return c.details(ctx, id)
}

type searchResponse struct {
	Results []struct {
		ID int `json:"id"`
	} `json:"results"`
}

// searchMovie finds the metadata service id for a title and year.
// The first search result wins; there is no disambiguation between
// same-title same-year movies.
func (c *Client) searchMovie(ctx context.Context, title string, year int) (int, bool, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("query", title)
	q.Set("year", strconv.Itoa(year))

	var decoded searchResponse
	if err := c.getJSON(ctx, c.baseURL+"/search/movie?"+q.Encode(), &decoded); err != nil {
		return 0, false, fmt.Errorf("search movie %q (%d): %w", title, year, err)
	}
	if len(decoded.Results) == 0 {
		return 0, false, nil
	}
	return decoded.Results[0].ID, true, nil
}

type detailsResponse struct {
	ID          int     `json:"id"`
	PosterPath  string  `json:"poster_path"`
	Overview    string  `json:"overview"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	ReleaseDate string  `json:"release_date"`
	Genres      []struct {
		Name string `json:"name"`
	} `json:"genres"`
	ExternalIDs struct {
		IMDBID string `json:"imdb_id"`
	} `json:"external_ids"`
}

// details fetches the full record for a matched id, requesting credits and
// external identifiers in the same response.
func (c *Client) details(ctx context.Context, id int) (*domain.MovieDetails, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("append_to_response", "credits,external_ids")

	var decoded detailsResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/movie/%d?%s", c.baseURL, id, q.Encode()), &decoded); err != nil {
		return nil, fmt.Errorf("movie details %d: %w", id, err)
	}

	genres := make([]string, 0, len(decoded.Genres))
	for _, g := range decoded.Genres {
		genres = append(genres, g.Name)
	}

	return &domain.MovieDetails{
		TMDBID:      decoded.ID,
		PosterPath:  decoded.PosterPath,
		Overview:    decoded.Overview,
		VoteAverage: decoded.VoteAverage,
		VoteCount:   decoded.VoteCount,
		ReleaseDate: decoded.ReleaseDate,
		IMDBID:      decoded.ExternalIDs.IMDBID,
		Genres:      genres,
	}, nil
}

// HeroMovies fetches the configured featured titles concurrently, preserving
// the configured order. Any single failure fails the whole fetch; callers
// degrade to an empty list.
func (c *Client) HeroMovies(ctx context.Context) ([]domain.HeroMovie, error) {
	movies := make([]domain.HeroMovie, len(c.heroIDs))

	g, ctx := errgroup.WithContext(ctx)
	for i, id := range c.heroIDs {
		g.Go(func() error {
			q := url.Values{}
			q.Set("api_key", c.apiKey)
			q.Set("language", "en-US")

			var decoded struct {
				ID           int    `json:"id"`
				Title        string `json:"title"`
				PosterPath   string `json:"poster_path"`
				BackdropPath string `json:"backdrop_path"`
				Overview     string `json:"overview"`
			}
			if err := c.getJSON(ctx, fmt.Sprintf("%s/movie/%d?%s", c.baseURL, id, q.Encode()), &decoded); err != nil {
				return fmt.Errorf("hero movie %d: %w", id, err)
			}
			movies[i] = domain.HeroMovie{
				TMDBID:       decoded.ID,
				Title:        decoded.Title,
				PosterPath:   decoded.PosterPath,
				BackdropPath: decoded.BackdropPath,
				Overview:     decoded.Overview,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return movies, nil
}

// PosterURL builds a full image URL for a poster path. Size follows the
// metadata service's naming (w500, original).
func (c *Client) PosterURL(posterPath, size string) string {
	if posterPath == "" {
		return ""
	}
	if size == "" {
		size = "w500"
	}
	return c.imageBaseURL + "/" + size + posterPath
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", err, domain.ErrMetadataUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("status %s: %w", resp.Status, domain.ErrMetadataUnavailable)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w: %w", err, domain.ErrMetadataUnavailable)
	}
	return nil
}
