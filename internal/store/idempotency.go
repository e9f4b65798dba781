package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

type IdempotentResponse struct {
	Status int
	Body   []byte
}

// GetIdempotentResponse returns the recorded response for a key, or
// ErrNotFound if the key has never been used.
func (s *Store) GetIdempotentResponse(ctx context.Context, key, method, path string) (*IdempotentResponse, error) {
	r := &IdempotentResponse{}
	err := s.pool.QueryRow(ctx,
		`SELECT status, body FROM idempotency_keys
		 WHERE key = $1 AND method = $2 AND path = $3`,
		key, method, path,
	).Scan(&r.Status, &r.Body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// SaveIdempotentResponse records a completed mutation so a double submit
// replays the original response instead of running twice.
func (s *Store) SaveIdempotentResponse(ctx context.Context, key, method, path string, status int, body []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO idempotency_keys (key, method, path, status, body)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (key, method, path) DO NOTHING`,
		key, method, path, status, body,
	)
	return err
}
