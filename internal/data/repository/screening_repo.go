package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"cinema-tickets/internal/data/entity"
	"cinema-tickets/pkg/docstore"
)

const screeningCollection = "screenings"

// ScreeningPath returns the document path for a screening.
func ScreeningPath(screeningID string) string {
	return docstore.Join(screeningCollection, screeningID)
}

type ScreeningRepository interface {
	FindByID(ctx context.Context, screeningID string) (*entity.Screening, error)
	FindByMovieID(ctx context.Context, movieID string) ([]entity.Screening, error)
	FindByDate(ctx context.Context, date string) ([]entity.Screening, error)
	CreateBatch(ctx context.Context, screenings []entity.Screening) error
	DeleteBatch(ctx context.Context, screeningIDs []string) error

	GetTx(tx docstore.Tx, screeningID string) (*entity.Screening, error)
	UpdateAvailableSeatsTx(tx docstore.Tx, screeningID string, availableSeats int) error
}

type screeningRepository struct {
	store docstore.Store
	log   *zap.Logger
}

func NewScreeningRepository(store docstore.Store, log *zap.Logger) ScreeningRepository {
	return &screeningRepository{
		store: store,
		log:   log.With(zap.String("repository", "screening")),
	}
}

func (r *screeningRepository) FindByID(ctx context.Context, screeningID string) (*entity.Screening, error) {
	doc, err := r.store.Get(ctx, ScreeningPath(screeningID))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		r.log.Error("failed to get screening", zap.String("screening_id", screeningID), zap.Error(err))
		return nil, fmt.Errorf("get screening: %w", err)
	}

	var screening entity.Screening
	if err := docInto(doc.ID(), doc.Data, &screening); err != nil {
		return nil, err
	}

	return &screening, nil
}

func (r *screeningRepository) FindByMovieID(ctx context.Context, movieID string) ([]entity.Screening, error) {
	docs, err := r.store.Query(ctx, docstore.Query{
		Collection: screeningCollection,
		Field:      "movieId",
		Value:      movieID,
		OrderBy:    "date",
	})
	if err != nil {
		r.log.Error("failed to query screenings by movie", zap.String("movie_id", movieID), zap.Error(err))
		return nil, fmt.Errorf("query screenings: %w", err)
	}

	return screeningsFromDocs(docs)
}

func (r *screeningRepository) FindByDate(ctx context.Context, date string) ([]entity.Screening, error) {
	docs, err := r.store.Query(ctx, docstore.Query{
		Collection: screeningCollection,
		Field:      "date",
		Value:      date,
	})
	if err != nil {
		r.log.Error("failed to query screenings by date", zap.String("date", date), zap.Error(err))
		return nil, fmt.Errorf("query screenings: %w", err)
	}

	return screeningsFromDocs(docs)
}

// CreateBatch writes the screenings in a single batch, assigning fresh ids
// to entries that carry none. Assigned ids are written back in place.
func (r *screeningRepository) CreateBatch(ctx context.Context, screenings []entity.Screening) error {
	batch := r.store.Batch()
	for i := range screenings {
		if screenings[i].ID == "" {
			screenings[i].ID = r.store.NewID()
		}

		data, err := docData(screenings[i])
		if err != nil {
			return err
		}
		batch.Set(ScreeningPath(screenings[i].ID), data)
	}

	if err := batch.Commit(ctx); err != nil {
		r.log.Error("failed to create screenings", zap.Int("count", len(screenings)), zap.Error(err))
		return fmt.Errorf("create screenings: %w", err)
	}

	return nil
}

func (r *screeningRepository) DeleteBatch(ctx context.Context, screeningIDs []string) error {
	if len(screeningIDs) == 0 {
		return nil
	}

	batch := r.store.Batch()
	for _, id := range screeningIDs {
		batch.Delete(ScreeningPath(id))
	}

	if err := batch.Commit(ctx); err != nil {
		r.log.Error("failed to delete screenings", zap.Int("count", len(screeningIDs)), zap.Error(err))
		return fmt.Errorf("delete screenings: %w", err)
	}

	return nil
}

func (r *screeningRepository) GetTx(tx docstore.Tx, screeningID string) (*entity.Screening, error) {
	doc, err := tx.Get(ScreeningPath(screeningID))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get screening: %w", err)
	}

	var screening entity.Screening
	if err := docInto(doc.ID(), doc.Data, &screening); err != nil {
		return nil, err
	}

	return &screening, nil
}

func (r *screeningRepository) UpdateAvailableSeatsTx(tx docstore.Tx, screeningID string, availableSeats int) error {
	tx.Update(ScreeningPath(screeningID), map[string]any{
		"availableSeats": availableSeats,
	})
	return nil
}

func screeningsFromDocs(docs []docstore.Document) ([]entity.Screening, error) {
	screenings := make([]entity.Screening, 0, len(docs))
	for _, doc := range docs {
		var screening entity.Screening
		if err := docInto(doc.ID(), doc.Data, &screening); err != nil {
			return nil, err
		}
		screenings = append(screenings, screening)
	}
	return screenings, nil
}
