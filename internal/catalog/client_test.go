package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(server.URL, "test-key", "https://img.example.com/w500", "en-US", zap.NewNop())
}

func TestPopularMapsAndLimits(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/popular" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("api_key") != "test-key" {
			t.Error("missing api_key")
		}
		if r.URL.Query().Get("language") != "en-US" {
			t.Error("missing language")
		}

		results := make([]map[string]any, 0, 5)
		for i := 1; i <= 5; i++ {
			results = append(results, map[string]any{
				"id":           i,
				"title":        "Movie",
				"overview":     "A movie.",
				"poster_path":  "/p.jpg",
				"vote_average": 7.4,
			})
		}
		json.NewEncoder(w).Encode(map[string]any{"results": results})
	})

	movies, err := client.Popular(context.Background(), 3)
	if err != nil {
		t.Fatalf("Popular: %v", err)
	}
	if len(movies) != 3 {
		t.Fatalf("movies = %d, want limit 3", len(movies))
	}

	movie := movies[0]
	if movie.ID != "1" {
		t.Errorf("id = %q", movie.ID)
	}
	if movie.ImageURL != "https://img.example.com/w500/p.jpg" {
		t.Errorf("image = %q", movie.ImageURL)
	}
	// 7.4 / 2 rounds to 4 stars.
	if movie.Rating != 4 {
		t.Errorf("rating = %d, want 4", movie.Rating)
	}
	if movie.Duration != "N/A" {
		t.Errorf("duration = %q, want N/A for list result", movie.Duration)
	}
}

func TestMovieByIDMapsDetails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":           603,
			"title":        "The Matrix",
			"overview":     "A hacker learns the truth.",
			"poster_path":  "",
			"vote_average": 8.2,
			"runtime":      136,
			"genres": []map[string]any{
				{"id": 28, "name": "Action"},
				{"id": 878, "name": "Science Fiction"},
			},
		})
	})

	movie, err := client.MovieByID(context.Background(), "603")
	if err != nil {
		t.Fatalf("MovieByID: %v", err)
	}

	if movie.Duration != "2h 16min" {
		t.Errorf("duration = %q, want 2h 16min", movie.Duration)
	}
	if movie.Genre != "Action, Science Fiction" {
		t.Errorf("genre = %q", movie.Genre)
	}
	if movie.ImageURL != placeholderPoster {
		t.Errorf("image = %q, want placeholder for missing poster", movie.ImageURL)
	}
	if movie.Rating != 4 {
		t.Errorf("rating = %d, want 4", movie.Rating)
	}
}

func TestDiscoverPassesFilters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discover/movie" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("with_genres") != "28" {
			t.Errorf("with_genres = %q", q.Get("with_genres"))
		}
		if q.Get("primary_release_year") != "1999" {
			t.Errorf("primary_release_year = %q", q.Get("primary_release_year"))
		}
		if q.Get("sort_by") != "vote_average.desc" {
			t.Errorf("sort_by = %q", q.Get("sort_by"))
		}
		if q.Get("page") != "2" {
			t.Errorf("page = %q", q.Get("page"))
		}
		json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	})

	if _, err := client.Discover(context.Background(), 28, 1999, 2, "vote_average.desc"); err != nil {
		t.Fatalf("Discover: %v", err)
	}
}

func TestDiscoverDefaultsSortBy(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("sort_by") != "popularity.desc" {
			t.Errorf("sort_by = %q", r.URL.Query().Get("sort_by"))
		}
		if r.URL.Query().Has("primary_release_year") {
			t.Error("unexpected year filter")
		}
		json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	})

	if _, err := client.Discover(context.Background(), 0, 0, 1, ""); err != nil {
		t.Fatalf("Discover: %v", err)
	}
}

func TestGenres(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/genre/movie/list" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"genres": []map[string]any{
				{"id": 28, "name": "Action"},
				{"id": 35, "name": "Comedy"},
			},
		})
	})

	genres, err := client.Genres(context.Background())
	if err != nil {
		t.Fatalf("Genres: %v", err)
	}
	if len(genres) != 2 || genres[1].Name != "Comedy" {
		t.Errorf("genres = %+v", genres)
	}
}

func TestNon200IsAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	if _, err := client.Popular(context.Background(), 12); err == nil {
		t.Fatal("want error for non-200 response")
	}
}
