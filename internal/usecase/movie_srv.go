package usecase

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"cinema-tickets/internal/catalog"
	"cinema-tickets/internal/data/entity"
	"cinema-tickets/internal/data/repository"
	"cinema-tickets/pkg/docstore"
)

const (
	popularMovieLimit = 12
	byDateMovieLimit  = 12
)

type MovieService interface {
	GetPopularMovies(ctx context.Context) ([]entity.Movie, error)
	GetMovies(ctx context.Context, genreID, year, page int, sortBy string) ([]entity.Movie, error)
	SearchMovies(ctx context.Context, query string, page int) ([]entity.Movie, error)
	GetGenres(ctx context.Context) ([]entity.Genre, error)
	GetMovieByID(ctx context.Context, movieID string) (*entity.Movie, error)
	// GetMoviesByScreeningDate lists the movies that have a screening
	// scheduled on the given date.
	GetMoviesByScreeningDate(ctx context.Context, date string) ([]entity.Movie, error)
}

type movieService struct {
	repo    *repository.Repository
	catalog *catalog.Client
	cache   *catalog.Cache
	guard   *docstore.Guard
	log     *zap.Logger
}

func NewMovieService(
	repo *repository.Repository,
	catalogClient *catalog.Client,
	cache *catalog.Cache,
	guard *docstore.Guard,
	log *zap.Logger,
) MovieService {
	return &movieService{
		repo:    repo,
		catalog: catalogClient,
		cache:   cache,
		guard:   guard,
		log:     log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) GetPopularMovies(ctx context.Context) ([]entity.Movie, error) {
	const cacheKey = "movies:popular"

	var movies []entity.Movie
	if s.cache.Get(ctx, cacheKey, &movies) {
		return movies, nil
	}

	movies, err := s.catalog.Popular(ctx, popularMovieLimit)
	if err != nil {
		return nil, fmt.Errorf("get popular movies: %w", err)
	}

	s.cache.Set(ctx, cacheKey, movies)
	return movies, nil
}

func (s *movieService) GetMovies(ctx context.Context, genreID, year, page int, sortBy string) ([]entity.Movie, error) {
	cacheKey := fmt.Sprintf("movies:genre:%d:year:%d:sort:%s:page:%d", genreID, year, sortBy, page)

	var movies []entity.Movie
	if s.cache.Get(ctx, cacheKey, &movies) {
		return movies, nil
	}

	movies, err := s.catalog.Discover(ctx, genreID, year, page, sortBy)
	if err != nil {
		return nil, fmt.Errorf("get movies: %w", err)
	}

	s.cache.Set(ctx, cacheKey, movies)
	return movies, nil
}

// SearchMovies skips the cache; queries are too varied to be worth caching.
func (s *movieService) SearchMovies(ctx context.Context, query string, page int) ([]entity.Movie, error) {
	movies, err := s.catalog.Search(ctx, query, page)
	if err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}

	return movies, nil
}

func (s *movieService) GetGenres(ctx context.Context) ([]entity.Genre, error) {
	const cacheKey = "genres"

	var genres []entity.Genre
	if s.cache.Get(ctx, cacheKey, &genres) {
		return genres, nil
	}

	genres, err := s.catalog.Genres(ctx)
	if err != nil {
		return nil, fmt.Errorf("get genres: %w", err)
	}

	s.cache.Set(ctx, cacheKey, genres)
	return genres, nil
}

func (s *movieService) GetMovieByID(ctx context.Context, movieID string) (*entity.Movie, error) {
	cacheKey := "movie:" + movieID

	var cached entity.Movie
	if s.cache.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	movie, err := s.catalog.MovieByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}

	s.cache.Set(ctx, cacheKey, movie)
	return movie, nil
}

func (s *movieService) GetMoviesByScreeningDate(ctx context.Context, date string) ([]entity.Movie, error) {
	screenings, err := s.repo.Screening.FindByDate(ctx, date)
	if err != nil {
		if status := s.guard.Check(err); status.IsExceeded || status.IsUnavailable {
			return nil, &UnavailableError{Message: status.Message}
		}
		return nil, fmt.Errorf("get screenings by date: %w", err)
	}

	movieIDs := make([]string, 0, byDateMovieLimit)
	seen := make(map[string]struct{})
	for _, screening := range screenings {
		if _, ok := seen[screening.MovieID]; ok {
			continue
		}
		seen[screening.MovieID] = struct{}{}
		movieIDs = append(movieIDs, screening.MovieID)
		if len(movieIDs) == byDateMovieLimit {
			break
		}
	}

	// Fetch details concurrently; a movie the catalog no longer knows is
	// skipped rather than failing the whole listing.
	results := make([]*entity.Movie, len(movieIDs))
	var wg sync.WaitGroup
	for i, movieID := range movieIDs {
		wg.Add(1)
		go func(i int, movieID string) {
			defer wg.Done()
			movie, err := s.GetMovieByID(ctx, movieID)
			if err != nil {
				s.log.Warn("failed to resolve movie", zap.String("movie_id", movieID), zap.Error(err))
				return
			}
			results[i] = movie
		}(i, movieID)
	}
	wg.Wait()

	movies := make([]entity.Movie, 0, len(results))
	for _, movie := range results {
		if movie != nil {
			movies = append(movies, *movie)
		}
	}

	return movies, nil
}
