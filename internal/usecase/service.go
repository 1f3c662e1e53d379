package usecase

import (
	"go.uber.org/zap"

	"cinema-tickets/internal/catalog"
	"cinema-tickets/internal/data/repository"
	"cinema-tickets/internal/queue"
	"cinema-tickets/pkg/docstore"
)

// Service bundles the application services consumed by the HTTP layer.
type Service struct {
	Movie     MovieService
	Screening ScreeningService
	Booking   BookingService
}

func NewService(
	store docstore.Store,
	repo *repository.Repository,
	catalogClient *catalog.Client,
	cache *catalog.Cache,
	publisher *queue.Publisher,
	guard *docstore.Guard,
	log *zap.Logger,
) *Service {
	movie := NewMovieService(repo, catalogClient, cache, guard, log)
	screening := NewScreeningService(repo, guard, log)
	booking := NewBookingService(store, repo, publisher, guard, log)

	return &Service{
		Movie:     movie,
		Screening: screening,
		Booking:   booking,
	}
}
