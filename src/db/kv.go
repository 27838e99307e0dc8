package db

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// KV is the whole-value key/string persistence contract every store is
// built on. There are no partial updates and no cross-key transactions;
// callers read a document, mutate it, and write it back whole.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// PgKV stores documents in the app_state table.
type PgKV struct {
	pool *pgxpool.Pool
}

func NewPgKV(pool *pgxpool.Pool) *PgKV {
	return &PgKV{pool: pool}
}

// Get returns the stored value, or "" if the key has never been written.
func (s *PgKV) Get(ctx context.Context, key string) (string, error) {
	var value string
	query := `SELECT value FROM app_state WHERE key = $1`
	err := s.pool.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *PgKV) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO app_state (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`
	_, err := s.pool.Exec(ctx, query, key, value)
	return err
}

// MemKV is an in-memory KV used by tests.
type MemKV struct {
	mu sync.RWMutex
	m  map[string]string

	// FailWrites makes Set return an error, for exercising the
	// logged-and-swallowed write-failure path.
	FailWrites bool
}

func NewMemKV() *MemKV {
	return &MemKV{m: make(map[string]string)}
}

func (s *MemKV) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m[key], nil
}

func (s *MemKV) Set(ctx context.Context, key, value string) error {
	if s.FailWrites {
		return errors.New("write disabled")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}
