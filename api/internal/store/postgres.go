package store

import (
	"context"
	"database/sql"
)

// PostgresStore persists sessions in the user_sessions table so keys
// survive restarts. Schema lives in migrations/. An empty api_key means
// the user has no stored key, same as a missing row.
type PostgresStore struct{ DB *sql.DB }

func NewPostgresStore(db *sql.DB) *PostgresStore { return &PostgresStore{DB: db} }

func (s *PostgresStore) SetKey(ctx context.Context, userID int64, apiKey string) error {
	const q = `
insert into user_sessions (user_id, api_key)
values ($1, $2)
on conflict (user_id) do update
set api_key = excluded.api_key,
    updated_at = now()`
	_, err := s.DB.ExecContext(ctx, q, userID, apiKey)
	return err
}

func (s *PostgresStore) GetKey(ctx context.Context, userID int64) (string, error) {
	const q = `select api_key from user_sessions where user_id = $1`
	var key string
	err := s.DB.QueryRowContext(ctx, q, userID).Scan(&key)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return key, nil
}

func (s *PostgresStore) DeleteKey(ctx context.Context, userID int64) error {
	const q = `update user_sessions set api_key = '', updated_at = now() where user_id = $1`
	_, err := s.DB.ExecContext(ctx, q, userID)
	return err
}

func (s *PostgresStore) MarkPending(ctx context.Context, userID int64) error {
	const q = `
insert into user_sessions (user_id, pending)
values ($1, true)
on conflict (user_id) do update
set pending = true,
    updated_at = now()`
	_, err := s.DB.ExecContext(ctx, q, userID)
	return err
}

func (s *PostgresStore) ClearPending(ctx context.Context, userID int64) error {
	const q = `update user_sessions set pending = false, updated_at = now() where user_id = $1`
	_, err := s.DB.ExecContext(ctx, q, userID)
	return err
}

func (s *PostgresStore) IsPending(ctx context.Context, userID int64) (bool, error) {
	const q = `select pending from user_sessions where user_id = $1`
	var pending bool
	err := s.DB.QueryRowContext(ctx, q, userID).Scan(&pending)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return pending, nil
}
