package qdrant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/plotmatch/plotmatch/internal/domain"
	"github.com/plotmatch/plotmatch/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterPipelineMetrics()
	os.Exit(m.Run())
}

func TestSearch_RequestShape(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/movie_plots/points/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("api-key") != "index-key" {
			t.Errorf("unexpected api-key header: %s", r.Header.Get("api-key"))
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"result":[]}`))
	}))
	defer server.Close()

	c := New(Config{
		URL:        server.URL,
		APIKey:     "index-key",
		Collection: "movie_plots",
	})

	if _, err := c.Search(context.Background(), []float32{0.1, 0.2}, 50); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if captured["limit"] != float64(50) {
		t.Errorf("expected limit 50, got %v", captured["limit"])
	}
	if captured["with_payload"] != true {
		t.Error("expected with_payload true")
	}
	if _, present := captured["score_threshold"]; present {
		t.Error("score_threshold must be omitted when disabled")
	}
}

func TestSearch_ScoreThresholdSentWhenConfigured(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		_, _ = w.Write([]byte(`{"result":[]}`))
	}))
	defer server.Close()

	c := New(Config{
		URL:            server.URL,
		APIKey:         "index-key",
		Collection:     "movie_plots",
		ScoreThreshold: 0.3,
	})

	if _, err := c.Search(context.Background(), []float32{0.1}, 20); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if captured["score_threshold"] != 0.3 {
		t.Errorf("expected score_threshold 0.3, got %v", captured["score_threshold"])
	}
}

func TestSearch_ParsesHitsInOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"result": [
				{"id": 101, "score": 0.91, "payload": {"title": "The Matrix", "director": "The Wachowskis", "release_year": 1999, "plot": "A hacker learns the truth."}},
				{"id": "点-2", "score": 0.85, "payload": {"title": "Inception", "director": "Christopher Nolan", "release_year": 2010, "plot": "Dreams within dreams."}}
			]
		}`))
	}))
	defer server.Close()

	c := New(Config{URL: server.URL, APIKey: "k", Collection: "movie_plots"})

	hits, err := c.Search(context.Background(), []float32{0.1}, 20)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].ID != "101" || hits[0].Score != 0.91 {
		t.Errorf("unexpected first hit: %+v", hits[0])
	}
	if hits[0].Payload.Title != "The Matrix" || hits[0].Payload.ReleaseYear != 1999 {
		t.Errorf("unexpected first payload: %+v", hits[0].Payload)
	}
	if hits[1].Score != 0.85 {
		t.Errorf("ranking order not preserved: %+v", hits)
	}
	if hits[0].TMDB != nil {
		t.Error("index hits must carry no metadata")
	}
}

func TestSearch_ServiceErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := New(Config{URL: server.URL, APIKey: "k", Collection: "movie_plots"})

	_, err := c.Search(context.Background(), []float32{0.1}, 20)
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Fatalf("expected ErrIndexUnavailable, got %v", err)
	}
}

func TestSearch_TransportErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // unreachable

	c := New(Config{URL: server.URL, APIKey: "k", Collection: "movie_plots"})

	_, err := c.Search(context.Background(), []float32{0.1}, 20)
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Fatalf("expected ErrIndexUnavailable, got %v", err)
	}
}

func TestSearch_MalformedResponsePropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	c := New(Config{URL: server.URL, APIKey: "k", Collection: "movie_plots"})

	_, err := c.Search(context.Background(), []float32{0.1}, 20)
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Fatalf("expected ErrIndexUnavailable for malformed body, got %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/movie_plots" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"result":{"status":"green"}}`))
	}))
	defer server.Close()

	c := New(Config{URL: server.URL, APIKey: "k", Collection: "movie_plots"})
	if err := c.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck failed: %v", err)
	}
}
