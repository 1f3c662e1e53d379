package docstore

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store implementation. It provides the same
// optimistic transaction semantics as the postgres adapter via per-document
// version counters, which makes it a faithful stand-in for concurrency
// tests. It also counts writes so provisioning idempotency can be asserted.
type MemoryStore struct {
	mu     sync.Mutex
	docs   map[string]*memDoc
	writes int
	forced error

	// MaxAttempts bounds transaction retries. Zero means the default.
	MaxAttempts int
}

type memDoc struct {
	data    map[string]any
	version uint64
}

const defaultTxAttempts = 5

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*memDoc)}
}

// FailWith makes every subsequent operation return err until called again
// with nil. It exists so callers can exercise degraded-store paths.
func (s *MemoryStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forced = err
}

// Writes reports the number of document writes (sets, updates, deletes,
// including batched and transactional ones) applied so far.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *MemoryStore) Get(ctx context.Context, path string) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.forced != nil {
		return Document{}, s.forced
	}
	doc, ok := s.docs[path]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{Path: path, Data: copyData(doc.data)}, nil
}

func (s *MemoryStore) GetAll(ctx context.Context, collection string) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.forced != nil {
		return nil, s.forced
	}
	var out []Document
	for path, doc := range s.docs {
		if CollectionOf(path) == collection {
			out = append(out, Document{Path: path, Data: copyData(doc.data)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (s *MemoryStore) Query(ctx context.Context, q Query) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.forced != nil {
		return nil, s.forced
	}
	var out []Document
	for path, doc := range s.docs {
		if CollectionOf(path) != q.Collection {
			continue
		}
		if q.Field != "" && textValue(doc.data[q.Field]) != q.Value {
			continue
		}
		out = append(out, Document{Path: path, Data: copyData(doc.data)})
	}
	sort.Slice(out, func(i, j int) bool {
		if q.OrderBy != "" {
			a := textValue(out[i].Data[q.OrderBy])
			b := textValue(out[j].Data[q.OrderBy])
			if a != b {
				if q.Desc {
					return a > b
				}
				return a < b
			}
		}
		return out[i].Path < out[j].Path
	})
	return out, nil
}

func (s *MemoryStore) Set(ctx context.Context, path string, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.forced != nil {
		return s.forced
	}
	s.applySet(path, data)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, path string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.forced != nil {
		return s.forced
	}
	return s.applyUpdate(path, fields)
}

func (s *MemoryStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.forced != nil {
		return s.forced
	}
	s.applyDelete(path)
	return nil
}

func (s *MemoryStore) NewID() string { return uuid.NewString() }

// applySet, applyUpdate and applyDelete expect s.mu to be held.

func (s *MemoryStore) applySet(path string, data map[string]any) {
	doc, ok := s.docs[path]
	if !ok {
		doc = &memDoc{}
		s.docs[path] = doc
	}
	doc.data = copyData(data)
	doc.version++
	s.writes++
}

func (s *MemoryStore) applyUpdate(path string, fields map[string]any) error {
	doc, ok := s.docs[path]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		doc.data[k] = v
	}
	doc.version++
	s.writes++
	return nil
}

func (s *MemoryStore) applyDelete(path string) {
	if _, ok := s.docs[path]; ok {
		delete(s.docs, path)
		s.writes++
	}
}

// Batch

type memoryBatch struct {
	store *MemoryStore
	ops   []memoryOp
}

type memoryOp struct {
	kind   byte // 's' set, 'u' update, 'd' delete
	path   string
	fields map[string]any
}

func (s *MemoryStore) Batch() Batch { return &memoryBatch{store: s} }

func (b *memoryBatch) Set(path string, data map[string]any) {
	b.ops = append(b.ops, memoryOp{kind: 's', path: path, fields: copyData(data)})
}

func (b *memoryBatch) Delete(path string) {
	b.ops = append(b.ops, memoryOp{kind: 'd', path: path})
}

func (b *memoryBatch) Commit(ctx context.Context) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	if b.store.forced != nil {
		return b.store.forced
	}
	for _, op := range b.ops {
		switch op.kind {
		case 's':
			b.store.applySet(op.path, op.fields)
		case 'd':
			b.store.applyDelete(op.path)
		}
	}
	return nil
}

// Transactions

type memoryTx struct {
	store *MemoryStore
	reads map[string]uint64 // path -> version observed (0 = absent)
	ops   []memoryOp
}

func (s *MemoryStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	attempts := s.MaxAttempts
	if attempts <= 0 {
		attempts = defaultTxAttempts
	}
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		tx := &memoryTx{store: s, reads: make(map[string]uint64)}
		if err := fn(tx); err != nil {
			return err
		}
		ok, err := s.tryCommit(tx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return ErrTxConflict
}

func (tx *memoryTx) Get(path string) (Document, error) {
	if len(tx.ops) > 0 {
		return Document{}, ErrReadAfterWrite
	}
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	if tx.store.forced != nil {
		return Document{}, tx.store.forced
	}
	doc, ok := tx.store.docs[path]
	if !ok {
		tx.reads[path] = 0
		return Document{}, ErrNotFound
	}
	tx.reads[path] = doc.version
	return Document{Path: path, Data: copyData(doc.data)}, nil
}

func (tx *memoryTx) Set(path string, data map[string]any) {
	tx.ops = append(tx.ops, memoryOp{kind: 's', path: path, fields: copyData(data)})
}

func (tx *memoryTx) Update(path string, fields map[string]any) {
	tx.ops = append(tx.ops, memoryOp{kind: 'u', path: path, fields: copyData(fields)})
}

// tryCommit verifies that nothing read by the transaction changed since it
// was read, then applies the staged writes. It returns false (and no error)
// when the transaction lost an optimistic conflict and must be re-run.
func (s *MemoryStore) tryCommit(tx *memoryTx) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.forced != nil {
		return false, s.forced
	}
	for path, seen := range tx.reads {
		var current uint64
		if doc, ok := s.docs[path]; ok {
			current = doc.version
		}
		if current != seen {
			return false, nil
		}
	}
	for _, op := range tx.ops {
		switch op.kind {
		case 's':
			s.applySet(op.path, op.fields)
		case 'u':
			if err := s.applyUpdate(op.path, op.fields); err != nil {
				return false, err
			}
		case 'd':
			s.applyDelete(op.path)
		}
	}
	return true, nil
}

// helpers

// textValue renders a JSON-normalized field value the way the postgres
// adapter's ->> operator would, so equality filters behave identically
// across implementations.
func textValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func copyData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
