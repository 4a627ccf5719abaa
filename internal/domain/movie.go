package domain

import (
	"bytes"
	"fmt"
	"strconv"
)

// PointID is a vector index point identifier. Qdrant encodes point ids as
// either JSON numbers or strings depending on how the collection was loaded,
// so unmarshalling accepts both forms.
type PointID string

// UnmarshalJSON accepts a JSON number or string.
func (p *PointID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty point id")
	}
	if data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("invalid point id %s: %w", data, err)
		}
		*p = PointID(s)
		return nil
	}
	*p = PointID(data)
	return nil
}

// MarshalJSON emits the id as a JSON string.
func (p PointID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(p))), nil
}

// MoviePayload carries the movie attributes stored alongside each vector
// in the plots collection.
type MoviePayload struct {
	Title       string `json:"title"`
	Director    string `json:"director"`
	ReleaseYear int    `json:"release_year"`
	Plot        string `json:"plot"`
}

// MovieDetails holds the metadata fetched for a matched movie. Absence of a
// record is represented by a nil pointer, never a zero-valued struct.
type MovieDetails struct {
	TMDBID      int      `json:"id"`
	PosterPath  string   `json:"poster_path"`
	Overview    string   `json:"overview"`
	VoteAverage float64  `json:"vote_average"`
	VoteCount   int      `json:"vote_count"`
	ReleaseDate string   `json:"release_date"`
	IMDBID      string   `json:"imdb_id,omitempty"`
	Genres      []string `json:"genres,omitempty"`
}

// SearchHit is one similarity match from the vector index, optionally joined
// with its metadata record. Hits arrive rank-ordered by descending score and
// keep that order through enrichment.
type SearchHit struct {
	ID      PointID       `json:"id"`
	Score   float64       `json:"score"`
	Payload MoviePayload  `json:"payload"`
	TMDB    *MovieDetails `json:"tmdb"`
}

// HeroMovie is a featured title shown on the landing page.
type HeroMovie struct {
	TMDBID       int    `json:"id"`
	Title        string `json:"title"`
	PosterPath   string `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`
	Overview     string `json:"overview"`
}
