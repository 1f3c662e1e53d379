// Package docstore defines the transactional document store contract the
// services are written against, together with a postgres-backed adapter and
// an in-memory implementation used by tests and infrastructure-free setups.
//
// Documents are addressed by slash-joined path segments, e.g.
// "screenings/{id}" or "screenings/{id}/seats/{id}". The last segment is the
// document id; everything before it is the collection.
package docstore

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when the addressed document does not exist.
	ErrNotFound = errors.New("docstore: document not found")

	// ErrReadAfterWrite is returned by transactional reads issued after a
	// write has already been staged. Transactions must perform all reads
	// before the first write.
	ErrReadAfterWrite = errors.New("docstore: transaction read after staged write")

	// ErrTxConflict is returned when a transaction keeps losing optimistic
	// conflicts and runs out of retries.
	ErrTxConflict = errors.New("docstore: transaction aborted after repeated conflicts")
)

// Document is one stored document: its full path and decoded field set.
// Data holds JSON-normalized values (string, float64, bool, []any, nested
// maps), regardless of the backing implementation.
type Document struct {
	Path string
	Data map[string]any
}

// ID returns the document id, the last segment of the path.
func (d Document) ID() string {
	if i := strings.LastIndexByte(d.Path, '/'); i >= 0 {
		return d.Path[i+1:]
	}
	return d.Path
}

// CollectionOf returns the collection part of a document path.
func CollectionOf(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return ""
}

// Join builds a path from segments.
func Join(segments ...string) string {
	return strings.Join(segments, "/")
}

// Query selects documents of one collection, optionally filtered by equality
// on a single top-level field and ordered by another. Field values are
// compared by their text representation.
type Query struct {
	Collection string
	Field      string // equality filter; empty means no filter
	Value      string
	OrderBy    string // optional top-level field to order by
	Desc       bool
}

// Tx is a serializable transaction with optimistic reads and buffered
// writes. Every Get must happen before the first Set/Update; staged writes
// are applied atomically at commit, and the store re-runs the whole
// transaction function when a document read by it was modified concurrently
// before commit.
type Tx interface {
	Get(path string) (Document, error)
	Set(path string, data map[string]any)
	Update(path string, fields map[string]any)
}

// Batch buffers multi-document writes that are applied all-or-nothing on
// Commit. Batches provide atomicity but no isolation: they do not conflict-
// check against concurrent readers the way transactions do.
type Batch interface {
	Set(path string, data map[string]any)
	Delete(path string)
	Commit(ctx context.Context) error
}

// Store is the document store contract consumed by the repositories.
type Store interface {
	Get(ctx context.Context, path string) (Document, error)
	GetAll(ctx context.Context, collection string) ([]Document, error)
	Query(ctx context.Context, q Query) ([]Document, error)
	Set(ctx context.Context, path string, data map[string]any) error
	Update(ctx context.Context, path string, fields map[string]any) error
	Delete(ctx context.Context, path string) error
	Batch() Batch

	// RunTransaction executes fn inside a serializable transaction,
	// retrying it a bounded number of times on optimistic conflicts.
	// Any error returned by fn aborts the transaction and is returned
	// unchanged.
	RunTransaction(ctx context.Context, fn func(tx Tx) error) error

	// NewID returns a fresh document id.
	NewID() string
}
