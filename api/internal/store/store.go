package store

import "context"

// SessionStore keeps each user's OpenRouter API key plus the transient
// "waiting for key" marker set by /set_api_key. Absence of a key is a
// normal state, not an error: GetKey returns "" for unknown users.
type SessionStore interface {
	SetKey(ctx context.Context, userID int64, apiKey string) error
	GetKey(ctx context.Context, userID int64) (string, error)
	DeleteKey(ctx context.Context, userID int64) error

	MarkPending(ctx context.Context, userID int64) error
	ClearPending(ctx context.Context, userID int64) error
	IsPending(ctx context.Context, userID int64) (bool, error)
}
