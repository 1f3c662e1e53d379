package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"cinema-tickets/internal/data/entity"
	"cinema-tickets/pkg/docstore"
)

const bookingCollection = "bookings"

// BookingPath returns the document path for a booking.
func BookingPath(bookingID string) string {
	return docstore.Join(bookingCollection, bookingID)
}

type BookingRepository interface {
	FindByID(ctx context.Context, bookingID string) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID string) ([]entity.Booking, error)
	UpdateStatus(ctx context.Context, bookingID string, status entity.BookingStatus) error

	CreateTx(tx docstore.Tx, booking *entity.Booking) error
}

type bookingRepository struct {
	store docstore.Store
	log   *zap.Logger
}

func NewBookingRepository(store docstore.Store, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		store: store,
		log:   log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) FindByID(ctx context.Context, bookingID string) (*entity.Booking, error) {
	doc, err := r.store.Get(ctx, BookingPath(bookingID))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		r.log.Error("failed to get booking", zap.String("booking_id", bookingID), zap.Error(err))
		return nil, fmt.Errorf("get booking: %w", err)
	}

	var booking entity.Booking
	if err := docInto(doc.ID(), doc.Data, &booking); err != nil {
		return nil, err
	}

	return &booking, nil
}

// FindByUserID lists a user's bookings, newest first.
func (r *bookingRepository) FindByUserID(ctx context.Context, userID string) ([]entity.Booking, error) {
	docs, err := r.store.Query(ctx, docstore.Query{
		Collection: bookingCollection,
		Field:      "userId",
		Value:      userID,
		OrderBy:    "bookingDate",
		Desc:       true,
	})
	if err != nil {
		r.log.Error("failed to query bookings", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("query bookings: %w", err)
	}

	bookings := make([]entity.Booking, 0, len(docs))
	for _, doc := range docs {
		var booking entity.Booking
		if err := docInto(doc.ID(), doc.Data, &booking); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, bookingID string, status entity.BookingStatus) error {
	err := r.store.Update(ctx, BookingPath(bookingID), map[string]any{
		"status": string(status),
	})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return err
		}
		r.log.Error("failed to update booking status",
			zap.String("booking_id", bookingID),
			zap.String("status", string(status)),
			zap.Error(err))
		return fmt.Errorf("update booking status: %w", err)
	}

	return nil
}

func (r *bookingRepository) CreateTx(tx docstore.Tx, booking *entity.Booking) error {
	data, err := docData(booking)
	if err != nil {
		return err
	}

	tx.Set(BookingPath(booking.ID), data)
	return nil
}
