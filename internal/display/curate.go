// Package display curates the orchestrator's raw result set for rendering.
// The orchestrator's contract is "enrich and preserve rank"; dropping
// incomplete cards and collapsing duplicate titles happens here.
package display

import (
	"math"
	"strings"

	"github.com/plotmatch/plotmatch/internal/domain"
)

// Card is one rendered result.
type Card struct {
	Title        string   `json:"title"`
	Director     string   `json:"director"`
	Year         int      `json:"year"`
	Genres       []string `json:"genres"`
	Rating       float64  `json:"rating"`
	Votes        int      `json:"votes"`
	Overview     string   `json:"overview"`
	PosterURL    string   `json:"poster_url"`
	IMDBURL      string   `json:"imdb_url,omitempty"`
	ScorePercent int      `json:"score_percent"`
}

// PosterResolver builds a full image URL from a poster path.
type PosterResolver func(posterPath string) string

// Curate filters and deduplicates an enriched result set for display.
// A hit must carry both a poster and an overview; duplicate titles are
// collapsed case-insensitively, keeping the first (highest-ranked)
// occurrence. Input order is preserved.
func Curate(hits []domain.SearchHit, poster PosterResolver) []Card {
	cards := make([]Card, 0, len(hits))
	seen := make(map[string]struct{}, len(hits))

	for _, h := range hits {
		if h.TMDB == nil || h.TMDB.PosterPath == "" || h.TMDB.Overview == "" {
			continue
		}

		key := strings.ToLower(h.Payload.Title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		card := Card{
			Title:        h.Payload.Title,
			Director:     h.Payload.Director,
			Year:         h.Payload.ReleaseYear,
			Genres:       h.TMDB.Genres,
			Rating:       h.TMDB.VoteAverage,
			Votes:        h.TMDB.VoteCount,
			Overview:     h.TMDB.Overview,
			ScorePercent: scorePercent(h.Score),
		}
		if poster != nil {
			card.PosterURL = poster(h.TMDB.PosterPath)
		}
		if h.TMDB.IMDBID != "" {
			card.IMDBURL = "https://www.imdb.com/title/" + h.TMDB.IMDBID
		}
		cards = append(cards, card)
	}

	return cards
}

func scorePercent(score float64) int {
	return int(math.Round(score * 100))
}
