package sdk

// Wire types mirror the server's JSON responses. The SDK keeps its own
// copies so importers never depend on server internals.

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Result []SearchHit `json:"result"`
}

type heroResponse struct {
	Movies []HeroMovie `json:"movies"`
}

// MoviePayload is the indexed record stored alongside each vector.
type MoviePayload struct {
	Title       string `json:"title"`
	Director    string `json:"director"`
	ReleaseYear int    `json:"release_year"`
	Plot        string `json:"plot"`
}

// MovieDetails is enrichment metadata resolved per hit. Nil when the
// lookup found nothing or failed.
type MovieDetails struct {
	TMDBID      int      `json:"id"`
	PosterPath  string   `json:"poster_path"`
	Overview    string   `json:"overview"`
	VoteAverage float64  `json:"vote_average"`
	VoteCount   int      `json:"vote_count"`
	ReleaseDate string   `json:"release_date"`
	IMDBID      string   `json:"imdb_id"`
	Genres      []string `json:"genres"`
}

// SearchHit is one ranked result. Hits arrive ordered by descending score.
type SearchHit struct {
	ID      string        `json:"id"`
	Score   float64       `json:"score"`
	Payload MoviePayload  `json:"payload"`
	TMDB    *MovieDetails `json:"tmdb"`
}

// HeroMovie is a featured landing-page title.
type HeroMovie struct {
	TMDBID       int    `json:"id"`
	Title        string `json:"title"`
	PosterPath   string `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`
	Overview     string `json:"overview"`
}

// HealthReport aggregates per-component checks.
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
