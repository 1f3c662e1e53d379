package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"cinema-tickets/internal/data/entity"
)

const placeholderPoster = "https://via.placeholder.com/500x750?text=No+Image"

// Client talks to the upstream movie catalog (TMDB-compatible API).
type Client struct {
	baseURL      string
	apiKey       string
	imageBaseURL string
	language     string
	http         *http.Client
	log          *zap.Logger
}

func NewClient(baseURL, apiKey, imageBaseURL, language string, log *zap.Logger) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		imageBaseURL: strings.TrimRight(imageBaseURL, "/"),
		language:     language,
		http:         &http.Client{Timeout: 10 * time.Second},
		log:          log.With(zap.String("service", "catalog")),
	}
}

type movieResult struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	GenreIDs    []int   `json:"genre_ids"`
	Runtime     int     `json:"runtime"`
	Genres      []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

type listResponse struct {
	Page         int           `json:"page"`
	Results      []movieResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

type genreListResponse struct {
	Genres []entity.Genre `json:"genres"`
}

// Popular returns the current popular movies, capped at limit.
func (c *Client) Popular(ctx context.Context, limit int) ([]entity.Movie, error) {
	var resp listResponse
	if err := c.get(ctx, "/movie/popular", url.Values{"page": {"1"}}, &resp); err != nil {
		return nil, err
	}

	results := resp.Results
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return c.moviesFromResults(results), nil
}

// Discover lists movies matching the optional genre, year and sort filters.
func (c *Client) Discover(ctx context.Context, genreID, year, page int, sortBy string) ([]entity.Movie, error) {
	if sortBy == "" {
		sortBy = "popularity.desc"
	}
	params := url.Values{
		"page":          {strconv.Itoa(page)},
		"include_adult": {"false"},
		"include_video": {"false"},
		"sort_by":       {sortBy},
	}
	if genreID > 0 {
		params.Set("with_genres", strconv.Itoa(genreID))
	}
	if year > 0 {
		params.Set("primary_release_year", strconv.Itoa(year))
	}

	var resp listResponse
	if err := c.get(ctx, "/discover/movie", params, &resp); err != nil {
		return nil, err
	}

	return c.moviesFromResults(resp.Results), nil
}

// Search finds movies by title.
func (c *Client) Search(ctx context.Context, query string, page int) ([]entity.Movie, error) {
	params := url.Values{
		"query":         {query},
		"page":          {strconv.Itoa(page)},
		"include_adult": {"false"},
	}

	var resp listResponse
	if err := c.get(ctx, "/search/movie", params, &resp); err != nil {
		return nil, err
	}

	return c.moviesFromResults(resp.Results), nil
}

// Genres returns the genre catalog used for filtering.
func (c *Client) Genres(ctx context.Context) ([]entity.Genre, error) {
	var resp genreListResponse
	if err := c.get(ctx, "/genre/movie/list", nil, &resp); err != nil {
		return nil, err
	}

	return resp.Genres, nil
}

// MovieByID fetches full movie details, including runtime and named genres.
func (c *Client) MovieByID(ctx context.Context, movieID string) (*entity.Movie, error) {
	var result movieResult
	if err := c.get(ctx, "/movie/"+url.PathEscape(movieID), nil, &result); err != nil {
		return nil, err
	}

	movie := c.movieFromResult(result)
	return &movie, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)

	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("catalog request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("catalog returned non-200",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("catalog request: unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode catalog response: %w", err)
	}

	return nil
}

func (c *Client) moviesFromResults(results []movieResult) []entity.Movie {
	movies := make([]entity.Movie, 0, len(results))
	for _, result := range results {
		movies = append(movies, c.movieFromResult(result))
	}
	return movies
}

func (c *Client) movieFromResult(result movieResult) entity.Movie {
	genreNames := make([]string, 0, len(result.Genres))
	for _, genre := range result.Genres {
		genreNames = append(genreNames, genre.Name)
	}

	return entity.Movie{
		ID:          strconv.Itoa(result.ID),
		Title:       result.Title,
		Description: result.Overview,
		Duration:    formatRuntime(result.Runtime),
		Genre:       strings.Join(genreNames, ", "),
		ImageURL:    c.posterURL(result.PosterPath),
		// Upstream rates out of 10; the app shows 5 stars.
		Rating: int(math.Round(result.VoteAverage / 2)),
	}
}

func (c *Client) posterURL(posterPath string) string {
	if posterPath == "" {
		return placeholderPoster
	}
	return c.imageBaseURL + posterPath
}

func formatRuntime(minutes int) string {
	if minutes <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%dh %dmin", minutes/60, minutes%60)
}
