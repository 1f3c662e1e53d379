package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresConfig carries the connection settings for the postgres adapter.
type PostgresConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// PostgresStore implements Store on a single jsonb documents table.
// Transactions run at serializable isolation; serialization failures
// (SQLSTATE 40001/40P01) are retried, which gives the optimistic-conflict
// retry the contract promises.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  *zap.Logger

	// MaxAttempts bounds transaction retries. Zero means the default.
	MaxAttempts int
}

const documentsSchema = `
CREATE TABLE IF NOT EXISTS documents (
	path       text PRIMARY KEY,
	collection text NOT NULL,
	data       jsonb NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS documents_collection_idx ON documents (collection);
`

// NewPostgresStore opens a connection pool and verifies it with a ping.
func NewPostgresStore(cfg PostgresConfig, log *zap.Logger) (*PostgresStore, error) {
	connStr := fmt.Sprintf("user=%s password=%s dbname=%s sslmode=disable host=%s port=%s",
		cfg.User, cfg.Password, cfg.Name, cfg.Host, cfg.Port)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute
	poolConfig.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{pool: pool, log: log.With(zap.String("store", "postgres"))}, nil
}

// Migrate creates the documents table when it does not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, documentsSchema); err != nil {
		return fmt.Errorf("migrate documents table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() { s.pool.Close() }

func (s *PostgresStore) NewID() string { return uuid.NewString() }

func (s *PostgresStore) Get(ctx context.Context, path string) (Document, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM documents WHERE path = $1`, path).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get document %s: %w", path, err)
	}
	return decodeDocument(path, raw)
}

func (s *PostgresStore) GetAll(ctx context.Context, collection string) ([]Document, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT path, data FROM documents WHERE collection = $1 ORDER BY path`, collection)
	if err != nil {
		return nil, fmt.Errorf("list collection %s: %w", collection, err)
	}
	defer rows.Close()
	return scanDocuments(rows)
}

func (s *PostgresStore) Query(ctx context.Context, q Query) ([]Document, error) {
	sql := `SELECT path, data FROM documents WHERE collection = $1`
	args := []any{q.Collection}
	if q.Field != "" {
		sql += ` AND data->>$2 = $3`
		args = append(args, q.Field, q.Value)
	}
	if q.OrderBy != "" {
		sql += fmt.Sprintf(` ORDER BY data->>$%d`, len(args)+1)
		if q.Desc {
			sql += ` DESC`
		}
		args = append(args, q.OrderBy)
	} else {
		sql += ` ORDER BY path`
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query collection %s: %w", q.Collection, err)
	}
	defer rows.Close()
	return scanDocuments(rows)
}

func (s *PostgresStore) Set(ctx context.Context, path string, data map[string]any) error {
	return setDocument(ctx, s.pool, path, data)
}

func (s *PostgresStore) Update(ctx context.Context, path string, fields map[string]any) error {
	return updateDocument(ctx, s.pool, path, fields)
}

func (s *PostgresStore) Delete(ctx context.Context, path string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM documents WHERE path = $1`, path); err != nil {
		return fmt.Errorf("delete document %s: %w", path, err)
	}
	return nil
}

// execer covers both the pool and an open pgx transaction.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func setDocument(ctx context.Context, db execer, path string, data map[string]any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", path, err)
	}
	_, err = db.Exec(ctx, `
		INSERT INTO documents (path, collection, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (path) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		path, CollectionOf(path), raw)
	if err != nil {
		return fmt.Errorf("set document %s: %w", path, err)
	}
	return nil
}

func updateDocument(ctx context.Context, db execer, path string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode update for %s: %w", path, err)
	}
	tag, err := db.Exec(ctx,
		`UPDATE documents SET data = data || $2::jsonb, updated_at = now() WHERE path = $1`,
		path, raw)
	if err != nil {
		return fmt.Errorf("update document %s: %w", path, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Batch

type postgresBatch struct {
	store *PostgresStore
	ops   []postgresOp
}

type postgresOp struct {
	kind   byte // 's' set, 'u' update, 'd' delete
	path   string
	fields map[string]any
}

func (s *PostgresStore) Batch() Batch { return &postgresBatch{store: s} }

func (b *postgresBatch) Set(path string, data map[string]any) {
	b.ops = append(b.ops, postgresOp{kind: 's', path: path, fields: data})
}

func (b *postgresBatch) Delete(path string) {
	b.ops = append(b.ops, postgresOp{kind: 'd', path: path})
}

func (b *postgresBatch) Commit(ctx context.Context) error {
	tx, err := b.store.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, op := range b.ops {
		switch op.kind {
		case 's':
			err = setDocument(ctx, tx, op.path, op.fields)
		case 'd':
			_, err = tx.Exec(ctx, `DELETE FROM documents WHERE path = $1`, op.path)
		}
		if err != nil {
			return fmt.Errorf("apply batch op on %s: %w", op.path, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// Transactions

type postgresTx struct {
	ctx context.Context
	tx  pgx.Tx
	ops []postgresOp
}

func (s *PostgresStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	attempts := s.MaxAttempts
	if attempts <= 0 {
		attempts = defaultTxAttempts
	}
	for i := 0; i < attempts; i++ {
		err := s.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}
		s.log.Debug("transaction serialization conflict, retrying",
			zap.Int("attempt", i+1), zap.Error(err))
	}
	return ErrTxConflict
}

func (s *PostgresStore) runOnce(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	ptx := &postgresTx{ctx: ctx, tx: tx}
	if err := fn(ptx); err != nil {
		return err
	}
	for _, op := range ptx.ops {
		switch op.kind {
		case 's':
			err = setDocument(ctx, tx, op.path, op.fields)
		case 'u':
			err = updateDocument(ctx, tx, op.path, op.fields)
		}
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (tx *postgresTx) Get(path string) (Document, error) {
	if len(tx.ops) > 0 {
		return Document{}, ErrReadAfterWrite
	}
	var raw []byte
	err := tx.tx.QueryRow(tx.ctx, `SELECT data FROM documents WHERE path = $1`, path).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get document %s: %w", path, err)
	}
	return decodeDocument(path, raw)
}

func (tx *postgresTx) Set(path string, data map[string]any) {
	tx.ops = append(tx.ops, postgresOp{kind: 's', path: path, fields: data})
}

func (tx *postgresTx) Update(path string, fields map[string]any) {
	tx.ops = append(tx.ops, postgresOp{kind: 'u', path: path, fields: fields})
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

// row scanning

func decodeDocument(path string, raw []byte) (Document, error) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return Document{}, fmt.Errorf("decode document %s: %w", path, err)
	}
	return Document{Path: path, Data: data}, nil
}

func scanDocuments(rows pgx.Rows) ([]Document, error) {
	var out []Document
	for rows.Next() {
		var (
			path string
			raw  []byte
		)
		if err := rows.Scan(&path, &raw); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		doc, err := decodeDocument(path, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}
