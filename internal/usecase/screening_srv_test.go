package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"cinema-tickets/internal/data/entity"
	"cinema-tickets/internal/data/repository"
	"cinema-tickets/internal/seatmap"
	"cinema-tickets/pkg/docstore"
)

func newScreeningFixture(t *testing.T) (*docstore.MemoryStore, *repository.Repository, *screeningService) {
	t.Helper()

	store := docstore.NewMemoryStore()
	log := zap.NewNop()
	repo := repository.NewRepository(store, log)
	guard := docstore.NewGuard()

	service := NewScreeningService(repo, guard, log).(*screeningService)
	service.now = func() time.Time {
		return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	}

	return store, repo, service
}

func TestEnsureScreeningsProvisionsSchedule(t *testing.T) {
	_, _, service := newScreeningFixture(t)
	ctx := context.Background()

	screenings := service.EnsureScreenings(ctx, "mov-1")
	if len(screenings) != screeningDays*len(screeningTimes) {
		t.Fatalf("screenings = %d, want %d", len(screenings), screeningDays*len(screeningTimes))
	}

	wantDates := map[string]int{"2026-01-15": 0, "2026-01-16": 0, "2026-01-17": 0}
	for _, screening := range screenings {
		if screening.ID == "" {
			t.Error("screening persisted without id")
		}
		if screening.MovieID != "mov-1" {
			t.Errorf("movie id = %q", screening.MovieID)
		}
		if _, ok := wantDates[screening.Date]; !ok {
			t.Errorf("unexpected date %q", screening.Date)
		}
		wantDates[screening.Date]++
		if screening.TotalSeats != screeningTotalSeats {
			t.Errorf("total seats = %d", screening.TotalSeats)
		}
		if screening.AvailableSeats < 30 || screening.AvailableSeats > 79 {
			t.Errorf("available seats = %d, want 30..79", screening.AvailableSeats)
		}
		if screening.Price != 25 && screening.Price != 28 {
			t.Errorf("price = %v", screening.Price)
		}
	}
	for date, count := range wantDates {
		if count != len(screeningTimes) {
			t.Errorf("date %s has %d screenings, want %d", date, count, len(screeningTimes))
		}
	}
}

func TestEnsureScreeningsIsIdempotent(t *testing.T) {
	store, _, service := newScreeningFixture(t)
	ctx := context.Background()

	first := service.EnsureScreenings(ctx, "mov-1")
	writes := store.Writes()

	second := service.EnsureScreenings(ctx, "mov-1")
	if store.Writes() != writes {
		t.Errorf("second call wrote %d documents", store.Writes()-writes)
	}
	if len(second) != len(first) {
		t.Fatalf("second call returned %d screenings, want %d", len(second), len(first))
	}
}

func TestEnsureScreeningsReplacesStaleSchedule(t *testing.T) {
	_, repo, service := newScreeningFixture(t)
	ctx := context.Background()

	stale := []entity.Screening{
		{ID: "old-1", MovieID: "mov-1", Date: "2026-01-10", Time: "16:00", Hall: "Hall A", Price: 25, AvailableSeats: 50, TotalSeats: 100},
		{ID: "old-2", MovieID: "mov-1", Date: "2026-01-14", Time: "20:30", Hall: "Hall C", Price: 28, AvailableSeats: 42, TotalSeats: 100},
	}
	if err := repo.Screening.CreateBatch(ctx, stale); err != nil {
		t.Fatalf("seed stale screenings: %v", err)
	}

	screenings := service.EnsureScreenings(ctx, "mov-1")
	if len(screenings) != screeningDays*len(screeningTimes) {
		t.Fatalf("screenings = %d, want fresh schedule", len(screenings))
	}
	for _, screening := range screenings {
		if screening.Date < "2026-01-15" {
			t.Errorf("stale date %q survived", screening.Date)
		}
	}

	for _, id := range []string{"old-1", "old-2"} {
		screening, err := repo.Screening.FindByID(ctx, id)
		if err != nil {
			t.Fatalf("FindByID: %v", err)
		}
		if screening != nil {
			t.Errorf("stale screening %s not deleted", id)
		}
	}
}

func TestEnsureScreeningsKeepsTodaysScreenings(t *testing.T) {
	store, repo, service := newScreeningFixture(t)
	ctx := context.Background()

	today := []entity.Screening{
		{ID: "today-1", MovieID: "mov-1", Date: "2026-01-15", Time: "22:15", Hall: "Hall D", Price: 25, AvailableSeats: 10, TotalSeats: 100},
	}
	if err := repo.Screening.CreateBatch(ctx, today); err != nil {
		t.Fatalf("seed screenings: %v", err)
	}
	writes := store.Writes()

	screenings := service.EnsureScreenings(ctx, "mov-1")
	if len(screenings) != 1 || screenings[0].ID != "today-1" {
		t.Fatalf("screenings = %v, want the existing one", screenings)
	}
	if store.Writes() != writes {
		t.Error("existing schedule was rewritten")
	}
}

func TestEnsureScreeningsStoreDownDegrades(t *testing.T) {
	store, _, service := newScreeningFixture(t)
	store.FailWith(errors.New("connection refused"))

	screenings := service.EnsureScreenings(context.Background(), "mov-1")
	if screenings == nil {
		t.Fatal("want empty slice, got nil")
	}
	if len(screenings) != 0 {
		t.Errorf("screenings = %d, want 0", len(screenings))
	}
}

func TestGetScreeningByID(t *testing.T) {
	_, repo, service := newScreeningFixture(t)
	ctx := context.Background()

	seed := []entity.Screening{
		{ID: "scr-1", MovieID: "mov-1", Date: "2026-01-20", Time: "18:15", Hall: "Hall B", Price: 25, AvailableSeats: 40, TotalSeats: 100},
	}
	if err := repo.Screening.CreateBatch(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	screening, err := service.GetScreeningByID(ctx, "scr-1")
	if err != nil {
		t.Fatalf("GetScreeningByID: %v", err)
	}
	if screening.Hall != "Hall B" || screening.AvailableSeats != 40 {
		t.Errorf("screening = %+v", screening)
	}

	if _, err := service.GetScreeningByID(ctx, "missing"); !errors.Is(err, ErrScreeningNotFound) {
		t.Errorf("err = %v, want ErrScreeningNotFound", err)
	}
}

func TestGetSeatsForScreeningPersistsLayout(t *testing.T) {
	store, repo, service := newScreeningFixture(t)
	ctx := context.Background()

	seats, err := service.GetSeatsForScreening(ctx, "scr-1")
	if err != nil {
		t.Fatalf("GetSeatsForScreening: %v", err)
	}
	if len(seats) != 96 {
		t.Fatalf("seats = %d, want 96", len(seats))
	}

	persisted, err := repo.Seat.FindByScreeningID(ctx, "scr-1")
	if err != nil {
		t.Fatalf("FindByScreeningID: %v", err)
	}
	if len(persisted) != 96 {
		t.Fatalf("persisted = %d, want 96", len(persisted))
	}

	// A second read serves the stored layout without regenerating.
	writes := store.Writes()
	again, err := service.GetSeatsForScreening(ctx, "scr-1")
	if err != nil {
		t.Fatalf("second GetSeatsForScreening: %v", err)
	}
	if store.Writes() != writes {
		t.Error("second read rewrote the layout")
	}
	if len(again) != 96 {
		t.Fatalf("second read = %d seats", len(again))
	}
}

func TestGetSeatsForScreeningStoreDownFallsBack(t *testing.T) {
	store, _, service := newScreeningFixture(t)
	store.FailWith(errors.New("connection refused"))

	seats, err := service.GetSeatsForScreening(context.Background(), "scr-1")
	if err != nil {
		t.Fatalf("GetSeatsForScreening: %v", err)
	}

	want := seatmap.Generate("scr-1")
	if len(seats) != len(want) {
		t.Fatalf("seats = %d, want %d", len(seats), len(want))
	}
	for i := range want {
		if seats[i] != want[i] {
			t.Fatalf("seat %d = %+v, want %+v", i, seats[i], want[i])
		}
	}
}
