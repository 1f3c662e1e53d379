package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cinema-tickets/internal/data/entity"
	"cinema-tickets/internal/data/repository"
	"cinema-tickets/internal/dto/request"
	"cinema-tickets/internal/queue"
	"cinema-tickets/pkg/docstore"
)

type BookingService interface {
	// CreateBooking atomically reserves the requested seats: all seats
	// flip to unavailable, capacity drops, and the booking is written in
	// one transaction, or nothing changes at all.
	CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*entity.Booking, error)
	CheckSeatsAvailability(ctx context.Context, screeningID string, seatIDs []string) (bool, []string)
	GetUserBookings(ctx context.Context, userID string) ([]entity.Booking, error)
	GetBookingByID(ctx context.Context, userID, bookingID string) (*entity.Booking, error)
	CancelBooking(ctx context.Context, userID, bookingID string) (*entity.Booking, error)
}

type bookingService struct {
	store     docstore.Store
	repo      *repository.Repository
	publisher *queue.Publisher
	guard     *docstore.Guard
	log       *zap.Logger
	now       func() time.Time
}

func NewBookingService(
	store docstore.Store,
	repo *repository.Repository,
	publisher *queue.Publisher,
	guard *docstore.Guard,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		store:     store,
		repo:      repo,
		publisher: publisher,
		guard:     guard,
		log:       log.With(zap.String("service", "booking")),
		now:       time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*entity.Booking, error) {
	seatIDs := dedupe(req.Seats)

	var booking *entity.Booking
	err := s.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		// All reads happen before any write so the transaction can be
		// retried cleanly on conflict.
		screening, err := s.repo.Screening.GetTx(tx, req.ScreeningID)
		if err != nil {
			return err
		}
		if screening == nil {
			return ErrScreeningNotFound
		}

		for _, seatID := range seatIDs {
			seat, err := s.repo.Seat.GetTx(tx, req.ScreeningID, seatID)
			if err != nil {
				return err
			}
			if seat == nil || !seat.IsAvailable {
				return &SeatUnavailableError{SeatID: seatID}
			}
		}

		if screening.AvailableSeats < len(seatIDs) {
			return ErrInsufficientSeats
		}

		booking = &entity.Booking{
			ID:            s.store.NewID(),
			UserID:        userID,
			ScreeningID:   screening.ID,
			MovieID:       req.MovieID,
			MovieTitle:    req.MovieTitle,
			MovieImageURL: req.MovieImageURL,
			ScreeningDate: screening.Date,
			ScreeningTime: screening.Time,
			Seats:         seatIDs,
			TotalPrice:    screening.Price * float64(len(seatIDs)),
			// Whole seconds keep the RFC 3339 form sortable as text.
			BookingDate: s.now().UTC().Truncate(time.Second),
			Status:      entity.BookingStatusConfirmed,
		}

		if err := s.repo.Screening.UpdateAvailableSeatsTx(tx, screening.ID, screening.AvailableSeats-len(seatIDs)); err != nil {
			return err
		}
		for _, seatID := range seatIDs {
			if err := s.repo.Seat.MarkUnavailableTx(tx, screening.ID, seatID); err != nil {
				return err
			}
		}

		return s.repo.Booking.CreateTx(tx, booking)
	})
	if err != nil {
		return nil, s.writeError("create booking", err)
	}

	s.log.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("user_id", userID),
		zap.String("screening_id", booking.ScreeningID),
		zap.Int("seats", len(seatIDs)))

	s.publishCreated(ctx, booking)
	return booking, nil
}

// CheckSeatsAvailability is advisory; the transaction in CreateBooking is
// what actually decides. Store trouble reports everything as taken.
func (s *bookingService) CheckSeatsAvailability(ctx context.Context, screeningID string, seatIDs []string) (bool, []string) {
	seatIDs = dedupe(seatIDs)

	unavailable := make([]string, 0)
	for _, seatID := range seatIDs {
		seat, err := s.repo.Seat.FindByID(ctx, screeningID, seatID)
		if err != nil {
			s.guard.Check(err)
			s.log.Warn("seat availability check failed", zap.String("screening_id", screeningID), zap.Error(err))
			return false, seatIDs
		}
		if seat == nil || !seat.IsAvailable {
			unavailable = append(unavailable, seatID)
		}
	}

	return len(unavailable) == 0, unavailable
}

// GetUserBookings degrades to an empty history when the store is down; the
// bookings page renders either way.
func (s *bookingService) GetUserBookings(ctx context.Context, userID string) ([]entity.Booking, error) {
	bookings, err := s.repo.Booking.FindByUserID(ctx, userID)
	if err != nil {
		s.guard.Check(err)
		s.log.Warn("failed to load bookings", zap.String("user_id", userID), zap.Error(err))
		return []entity.Booking{}, nil
	}

	return bookings, nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, userID, bookingID string) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, s.writeError("get booking", err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if booking.UserID != userID {
		return nil, ErrForbidden
	}

	return booking, nil
}

// CancelBooking flips the status only. Seats and screening capacity are
// left as they were when the booking was made.
func (s *bookingService) CancelBooking(ctx context.Context, userID, bookingID string) (*entity.Booking, error) {
	booking, err := s.GetBookingByID(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == entity.BookingStatusCancelled {
		return booking, nil
	}

	if err := s.repo.Booking.UpdateStatus(ctx, bookingID, entity.BookingStatusCancelled); err != nil {
		return nil, s.writeError("cancel booking", err)
	}
	booking.Status = entity.BookingStatusCancelled

	s.log.Info("booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("user_id", userID))

	s.publishCancelled(ctx, booking)
	return booking, nil
}

// writeError classifies store failures through the guard, surfacing domain
// errors untouched.
func (s *bookingService) writeError(op string, err error) error {
	var seatErr *SeatUnavailableError
	if errors.As(err, &seatErr) {
		return err
	}
	for _, domainErr := range []error{ErrScreeningNotFound, ErrBookingNotFound, ErrInsufficientSeats, ErrForbidden} {
		if errors.Is(err, domainErr) {
			return err
		}
	}

	if status := s.guard.Check(err); status.IsExceeded || status.IsUnavailable {
		return &UnavailableError{Message: status.Message}
	}

	return fmt.Errorf("%s: %w", op, err)
}

// Events are best effort; a broker outage never fails the booking.
func (s *bookingService) publishCreated(ctx context.Context, booking *entity.Booking) {
	err := s.publisher.PublishBookingCreated(ctx, queue.BookingCreatedEvent{
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		ScreeningID: booking.ScreeningID,
		MovieID:     booking.MovieID,
		Seats:       booking.Seats,
		TotalPrice:  booking.TotalPrice,
		BookedAt:    booking.BookingDate,
	})
	if err != nil {
		s.log.Warn("failed to publish booking event", zap.String("booking_id", booking.ID), zap.Error(err))
	}
}

func (s *bookingService) publishCancelled(ctx context.Context, booking *entity.Booking) {
	err := s.publisher.PublishBookingCancelled(ctx, queue.BookingCancelledEvent{
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		CancelledAt: s.now().UTC(),
	})
	if err != nil {
		s.log.Warn("failed to publish cancel event", zap.String("booking_id", booking.ID), zap.Error(err))
	}
}

// dedupe drops duplicate seat ids, keeping first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
