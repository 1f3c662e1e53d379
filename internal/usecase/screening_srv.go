package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"cinema-tickets/internal/data/entity"
	"cinema-tickets/internal/data/repository"
	"cinema-tickets/internal/seatmap"
	"cinema-tickets/pkg/docstore"
)

const (
	screeningDays       = 3
	screeningTotalSeats = 100
	dateLayout          = "2006-01-02"
)

var (
	screeningTimes = []string{"16:00", "18:15", "20:30", "22:15"}
	screeningHalls = []string{"Hall A", "Hall B", "Hall C", "Hall D"}
	ticketPrices   = []float64{25, 28}
)

type ScreeningService interface {
	// EnsureScreenings returns the upcoming screenings for a movie,
	// provisioning a fresh schedule when none exist.
	EnsureScreenings(ctx context.Context, movieID string) []entity.Screening
	GetScreeningByID(ctx context.Context, screeningID string) (*entity.Screening, error)
	// GetSeatsForScreening returns the persisted seat layout, generating
	// and storing one on first access.
	GetSeatsForScreening(ctx context.Context, screeningID string) ([]entity.Seat, error)
}

type screeningService struct {
	repo  *repository.Repository
	guard *docstore.Guard
	log   *zap.Logger
	now   func() time.Time
}

func NewScreeningService(repo *repository.Repository, guard *docstore.Guard, log *zap.Logger) ScreeningService {
	return &screeningService{
		repo:  repo,
		guard: guard,
		log:   log.With(zap.String("service", "screening")),
		now:   time.Now,
	}
}

// EnsureScreenings never fails the caller: any store trouble degrades to an
// empty schedule so the movie page still renders.
func (s *screeningService) EnsureScreenings(ctx context.Context, movieID string) []entity.Screening {
	existing, err := s.repo.Screening.FindByMovieID(ctx, movieID)
	if err != nil {
		s.guard.Check(err)
		s.log.Warn("failed to load screenings", zap.String("movie_id", movieID), zap.Error(err))
		return []entity.Screening{}
	}

	today := s.now().Format(dateLayout)

	upcoming := make([]entity.Screening, 0, len(existing))
	for _, screening := range existing {
		if screening.Date >= today {
			upcoming = append(upcoming, screening)
		}
	}
	if len(upcoming) > 0 {
		return upcoming
	}

	// Everything on record has passed. Drop the stale schedule and
	// provision a new one.
	if len(existing) > 0 {
		staleIDs := make([]string, 0, len(existing))
		for _, screening := range existing {
			staleIDs = append(staleIDs, screening.ID)
		}
		if err := s.repo.Screening.DeleteBatch(ctx, staleIDs); err != nil {
			s.guard.Check(err)
			s.log.Warn("failed to delete stale screenings", zap.String("movie_id", movieID), zap.Error(err))
			return []entity.Screening{}
		}
	}

	screenings := s.generateSchedule(movieID)
	if err := s.repo.Screening.CreateBatch(ctx, screenings); err != nil {
		s.guard.Check(err)
		s.log.Warn("failed to create screenings", zap.String("movie_id", movieID), zap.Error(err))
		return []entity.Screening{}
	}

	s.log.Info("provisioned screenings",
		zap.String("movie_id", movieID),
		zap.Int("count", len(screenings)))
	return screenings
}

func (s *screeningService) GetScreeningByID(ctx context.Context, screeningID string) (*entity.Screening, error) {
	screening, err := s.repo.Screening.FindByID(ctx, screeningID)
	if err != nil {
		if status := s.guard.Check(err); status.IsExceeded || status.IsUnavailable {
			return nil, &UnavailableError{Message: status.Message}
		}
		return nil, fmt.Errorf("get screening: %w", err)
	}
	if screening == nil {
		return nil, ErrScreeningNotFound
	}

	return screening, nil
}

func (s *screeningService) GetSeatsForScreening(ctx context.Context, screeningID string) ([]entity.Seat, error) {
	seats, err := s.repo.Seat.FindByScreeningID(ctx, screeningID)
	if err != nil {
		// The layout is deterministic per screening, so a generated
		// fallback matches whatever a healthy store would return.
		s.guard.Check(err)
		s.log.Warn("falling back to generated seats", zap.String("screening_id", screeningID), zap.Error(err))
		return seatmap.Generate(screeningID), nil
	}

	if len(seats) > 0 {
		return seats, nil
	}

	seats = seatmap.Generate(screeningID)
	if err := s.repo.Seat.CreateBatch(ctx, screeningID, seats); err != nil {
		s.guard.Check(err)
		s.log.Warn("failed to persist seat layout", zap.String("screening_id", screeningID), zap.Error(err))
	}

	return seats, nil
}

// generateSchedule builds the screening slots for the next few days. Ids are
// left empty; the repository assigns them on insert.
func (s *screeningService) generateSchedule(movieID string) []entity.Screening {
	screenings := make([]entity.Screening, 0, screeningDays*len(screeningTimes))

	for day := 0; day < screeningDays; day++ {
		date := s.now().AddDate(0, 0, day).Format(dateLayout)
		for _, showTime := range screeningTimes {
			screenings = append(screenings, entity.Screening{
				MovieID:        movieID,
				Date:           date,
				Time:           showTime,
				Hall:           screeningHalls[rand.Intn(len(screeningHalls))],
				Price:          ticketPrices[rand.Intn(len(ticketPrices))],
				AvailableSeats: 30 + rand.Intn(50),
				TotalSeats:     screeningTotalSeats,
			})
		}
	}

	return screenings
}
