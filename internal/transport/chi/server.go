package chi

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/plotmatch/plotmatch/internal/display"
	"github.com/plotmatch/plotmatch/internal/domain"
	"github.com/plotmatch/plotmatch/internal/logger"
	healthuc "github.com/plotmatch/plotmatch/internal/usecase/health"
)

//go:embed templates/*.html
var templateFS embed.FS

// SearchService runs the search pipeline for one query.
type SearchService interface {
	Search(ctx context.Context, query string) ([]domain.SearchHit, error)
}

// MovieCatalog provides featured titles and image URL resolution.
type MovieCatalog interface {
	HeroMovies(ctx context.Context) ([]domain.HeroMovie, error)
	PosterURL(posterPath, size string) string
}

// HealthService aggregates component health checks.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Server is the HTTP API and page server.
type Server struct {
	search SearchService
	movies MovieCatalog
	health HealthService
	logger *zap.Logger
	page   *template.Template
}

// NewServer creates an HTTP server over the search pipeline.
func NewServer(search SearchService, movies MovieCatalog, health HealthService, log *zap.Logger) *Server {
	return &Server{
		search: search,
		movies: movies,
		health: health,
		logger: log,
		page:   template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

// Routes mounts all handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.handleIndex)
	r.Post("/api/search", s.handleSearch)
	r.Get("/api/movies/hero", s.handleHeroMovies)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Result []domain.SearchHit `json:"result"`
}

// handleSearch runs the pipeline and returns the raw enriched result set:
// full rank order, no display filtering, tmdb null where metadata is absent.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	hits, err := s.search.Search(r.Context(), req.Query)
	if err != nil {
		s.writeSearchError(r.Context(), w, err)
		return
	}

	if hits == nil {
		hits = []domain.SearchHit{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Result: hits})
}

// writeSearchError maps pipeline errors to HTTP responses. Messages stay
// generic; internals go to the log only.
func (s *Server) writeSearchError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidQuery) {
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}
	logger.FromContext(ctx).Error("search pipeline failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Failed to perform search")
}

type heroResponse struct {
	Movies []domain.HeroMovie `json:"movies"`
}

// handleHeroMovies serves the landing-page featured titles. A fetch failure
// degrades to an empty list rather than an error page.
func (s *Server) handleHeroMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := s.movies.HeroMovies(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Warn("hero movies fetch failed", zap.Error(err))
		movies = []domain.HeroMovie{}
	}
	writeJSON(w, http.StatusOK, heroResponse{Movies: movies})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// pageData feeds the index template.
type pageData struct {
	Query     string
	Cards     []display.Card
	Searched  bool
	FailedMsg string
}

// handleIndex renders the search page. With a q parameter it runs the
// pipeline server-side and renders the curated cards.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := pageData{Query: r.URL.Query().Get("q")}

	if data.Query != "" {
		hits, err := s.search.Search(r.Context(), data.Query)
		switch {
		case errors.Is(err, domain.ErrInvalidQuery):
			// Blank after trimming; fall through to the empty form.
		case err != nil:
			logger.FromContext(r.Context()).Error("search pipeline failed", zap.Error(err))
			data.FailedMsg = "Search failed. Please try again."
		default:
			data.Searched = true
			data.Cards = display.Curate(hits, func(path string) string {
				return s.movies.PosterURL(path, "w500")
			})
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.ExecuteTemplate(w, "index.html", data); err != nil {
		logger.FromContext(r.Context()).Error("render page", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
