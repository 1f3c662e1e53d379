package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"cinema-tickets/internal/data/entity"
	"cinema-tickets/pkg/docstore"
)

// SeatPath returns the document path for a seat within a screening.
func SeatPath(screeningID, seatID string) string {
	return docstore.Join(screeningCollection, screeningID, "seats", seatID)
}

func seatCollection(screeningID string) string {
	return docstore.Join(screeningCollection, screeningID, "seats")
}

type SeatRepository interface {
	FindByScreeningID(ctx context.Context, screeningID string) ([]entity.Seat, error)
	FindByID(ctx context.Context, screeningID, seatID string) (*entity.Seat, error)
	CreateBatch(ctx context.Context, screeningID string, seats []entity.Seat) error

	GetTx(tx docstore.Tx, screeningID, seatID string) (*entity.Seat, error)
	MarkUnavailableTx(tx docstore.Tx, screeningID, seatID string) error
}

type seatRepository struct {
	store docstore.Store
	log   *zap.Logger
}

func NewSeatRepository(store docstore.Store, log *zap.Logger) SeatRepository {
	return &seatRepository{
		store: store,
		log:   log.With(zap.String("repository", "seat")),
	}
}

func (r *seatRepository) FindByScreeningID(ctx context.Context, screeningID string) ([]entity.Seat, error) {
	docs, err := r.store.GetAll(ctx, seatCollection(screeningID))
	if err != nil {
		r.log.Error("failed to list seats", zap.String("screening_id", screeningID), zap.Error(err))
		return nil, fmt.Errorf("list seats: %w", err)
	}

	seats := make([]entity.Seat, 0, len(docs))
	for _, doc := range docs {
		var seat entity.Seat
		if err := docInto(doc.ID(), doc.Data, &seat); err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}

	return seats, nil
}

func (r *seatRepository) FindByID(ctx context.Context, screeningID, seatID string) (*entity.Seat, error) {
	doc, err := r.store.Get(ctx, SeatPath(screeningID, seatID))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		r.log.Error("failed to get seat", zap.String("seat_id", seatID), zap.Error(err))
		return nil, fmt.Errorf("get seat: %w", err)
	}

	var seat entity.Seat
	if err := docInto(doc.ID(), doc.Data, &seat); err != nil {
		return nil, err
	}

	return &seat, nil
}

// CreateBatch persists a seat layout under the screening. Seat ids double as
// document ids so a seat can be addressed directly during booking.
func (r *seatRepository) CreateBatch(ctx context.Context, screeningID string, seats []entity.Seat) error {
	batch := r.store.Batch()
	for _, seat := range seats {
		data, err := docData(seat)
		if err != nil {
			return err
		}
		batch.Set(SeatPath(screeningID, seat.ID), data)
	}

	if err := batch.Commit(ctx); err != nil {
		r.log.Error("failed to create seats",
			zap.String("screening_id", screeningID),
			zap.Int("count", len(seats)),
			zap.Error(err))
		return fmt.Errorf("create seats: %w", err)
	}

	return nil
}

func (r *seatRepository) GetTx(tx docstore.Tx, screeningID, seatID string) (*entity.Seat, error) {
	doc, err := tx.Get(SeatPath(screeningID, seatID))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get seat: %w", err)
	}

	var seat entity.Seat
	if err := docInto(doc.ID(), doc.Data, &seat); err != nil {
		return nil, err
	}

	return &seat, nil
}

func (r *seatRepository) MarkUnavailableTx(tx docstore.Tx, screeningID, seatID string) error {
	tx.Update(SeatPath(screeningID, seatID), map[string]any{
		"isAvailable": false,
	})
	return nil
}
