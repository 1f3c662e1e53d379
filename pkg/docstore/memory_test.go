package docstore

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestMemoryStoreCRUD(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, "things/a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing = %v, want ErrNotFound", err)
	}

	if err := store.Set(ctx, "things/a", map[string]any{"name": "first", "count": float64(1)}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	doc, err := store.Get(ctx, "things/a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.ID() != "a" || doc.Data["name"] != "first" {
		t.Errorf("doc = %+v", doc)
	}

	if err := store.Update(ctx, "things/a", map[string]any{"count": float64(2)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	doc, _ = store.Get(ctx, "things/a")
	if doc.Data["count"] != float64(2) || doc.Data["name"] != "first" {
		t.Errorf("merged doc = %+v", doc.Data)
	}

	if err := store.Update(ctx, "things/missing", map[string]any{"x": 1}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update missing = %v, want ErrNotFound", err)
	}

	if err := store.Delete(ctx, "things/a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "things/a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get deleted = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreQuery(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	seed := map[string]map[string]any{
		"orders/1": {"owner": "u1", "placed": "2026-01-01T10:00:00Z"},
		"orders/2": {"owner": "u2", "placed": "2026-01-02T10:00:00Z"},
		"orders/3": {"owner": "u1", "placed": "2026-01-03T10:00:00Z"},
		"other/x":  {"owner": "u1"},
	}
	for path, data := range seed {
		if err := store.Set(ctx, path, data); err != nil {
			t.Fatalf("Set %s: %v", path, err)
		}
	}

	docs, err := store.Query(ctx, Query{
		Collection: "orders",
		Field:      "owner",
		Value:      "u1",
		OrderBy:    "placed",
		Desc:       true,
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("docs = %d, want 2", len(docs))
	}
	if docs[0].ID() != "3" || docs[1].ID() != "1" {
		t.Errorf("order = [%s %s], want newest first", docs[0].ID(), docs[1].ID())
	}

	all, err := store.GetAll(ctx, "orders")
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("GetAll = %d docs, want 3", len(all))
	}
}

func TestMemoryStoreBatch(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "things/old", map[string]any{"v": 1}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	batch := store.Batch()
	batch.Set("things/a", map[string]any{"v": 1})
	batch.Set("things/b", map[string]any{"v": 2})
	batch.Delete("things/old")
	if err := batch.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	docs, err := store.GetAll(ctx, "things")
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("docs = %d, want 2", len(docs))
	}
	if _, err := store.Get(ctx, "things/old"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted doc still present")
	}
}

func TestTransactionReadAfterWrite(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	err := store.RunTransaction(ctx, func(tx Tx) error {
		tx.Set("things/a", map[string]any{"v": 1})
		_, err := tx.Get("things/a")
		return err
	})
	if !errors.Is(err, ErrReadAfterWrite) {
		t.Fatalf("err = %v, want ErrReadAfterWrite", err)
	}
}

func TestTransactionAppliesAllOrNothing(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "things/a", map[string]any{"v": float64(1)}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	boom := errors.New("boom")
	err := store.RunTransaction(ctx, func(tx Tx) error {
		tx.Update("things/a", map[string]any{"v": float64(2)})
		tx.Set("things/b", map[string]any{"v": float64(3)})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	doc, _ := store.Get(ctx, "things/a")
	if doc.Data["v"] != float64(1) {
		t.Errorf("aborted transaction leaked a write: %+v", doc.Data)
	}
	if _, err := store.Get(ctx, "things/b"); !errors.Is(err, ErrNotFound) {
		t.Error("aborted transaction created a document")
	}
}

func TestTransactionConflictRetries(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "counters/c", map[string]any{"n": float64(0)}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Concurrent increments must serialize through optimistic retries.
	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.RunTransaction(ctx, func(tx Tx) error {
				doc, err := tx.Get("counters/c")
				if err != nil {
					return err
				}
				n := doc.Data["n"].(float64)
				tx.Update("counters/c", map[string]any{"n": n + 1})
				return nil
			})
			if err != nil && !errors.Is(err, ErrTxConflict) {
				t.Errorf("RunTransaction: %v", err)
			}
		}()
	}
	wg.Wait()

	doc, err := store.Get(ctx, "counters/c")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	// Every committed transaction incremented exactly once; none may be
	// lost to a stale read.
	n := doc.Data["n"].(float64)
	if n < 1 || n > workers {
		t.Fatalf("counter = %v, want 1..%d", n, workers)
	}
	writes := store.Writes()
	if int(n) != writes-1 {
		t.Errorf("counter = %v but writes = %d", n, writes)
	}
}

func TestTransactionExhaustsRetries(t *testing.T) {
	store := NewMemoryStore()
	store.MaxAttempts = 1
	ctx := context.Background()

	if err := store.Set(ctx, "things/a", map[string]any{"v": float64(0)}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	err := store.RunTransaction(ctx, func(tx Tx) error {
		if _, err := tx.Get("things/a"); err != nil {
			return err
		}
		// Invalidate our own read before committing.
		if err := store.Set(ctx, "things/a", map[string]any{"v": float64(9)}); err != nil {
			return err
		}
		tx.Update("things/a", map[string]any{"v": float64(1)})
		return nil
	})
	if !errors.Is(err, ErrTxConflict) {
		t.Fatalf("err = %v, want ErrTxConflict", err)
	}
}

func TestFailWithForcesErrors(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	boom := errors.New("boom")
	store.FailWith(boom)

	if err := store.Set(ctx, "things/a", nil); !errors.Is(err, boom) {
		t.Errorf("Set = %v, want forced error", err)
	}
	if _, err := store.Get(ctx, "things/a"); !errors.Is(err, boom) {
		t.Errorf("Get = %v, want forced error", err)
	}
	err := store.RunTransaction(ctx, func(tx Tx) error {
		_, err := tx.Get("things/a")
		return err
	})
	if !errors.Is(err, boom) {
		t.Errorf("RunTransaction = %v, want forced error", err)
	}

	store.FailWith(nil)
	if err := store.Set(ctx, "things/a", map[string]any{"v": 1}); err != nil {
		t.Errorf("Set after reset: %v", err)
	}
}

func TestDocumentPathHelpers(t *testing.T) {
	path := Join("screenings", "s1", "seats", "A1")
	if path != "screenings/s1/seats/A1" {
		t.Fatalf("Join = %q", path)
	}

	doc := Document{Path: path}
	if doc.ID() != "A1" {
		t.Errorf("ID = %q, want A1", doc.ID())
	}
	if CollectionOf(path) != "screenings/s1/seats" {
		t.Errorf("CollectionOf = %q", CollectionOf(path))
	}
}
