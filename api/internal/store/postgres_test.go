package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestPostgresStore_GetKey(t *testing.T) {
	tests := []struct {
		name        string
		userID      int64
		mockRows    *sqlmock.Rows
		mockError   error
		expectedKey string
		expectedErr bool
	}{
		{
			name:        "stored key",
			userID:      123,
			mockRows:    sqlmock.NewRows([]string{"api_key"}).AddRow("sk-or-abc"),
			expectedKey: "sk-or-abc",
		},
		{
			name:        "no session row",
			userID:      456,
			mockError:   sql.ErrNoRows,
			expectedKey: "",
		},
		{
			name:        "forgotten key left an empty row",
			userID:      789,
			mockRows:    sqlmock.NewRows([]string{"api_key"}).AddRow(""),
			expectedKey: "",
		},
		{
			name:        "query failure",
			userID:      1,
			mockError:   sql.ErrConnDone,
			expectedErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			s := NewPostgresStore(db)

			query := "select api_key from user_sessions where user_id = \\$1"

			if tt.mockError != nil {
				mock.ExpectQuery(query).WithArgs(tt.userID).WillReturnError(tt.mockError)
			} else {
				mock.ExpectQuery(query).WithArgs(tt.userID).WillReturnRows(tt.mockRows)
			}

			key, err := s.GetKey(context.Background(), tt.userID)

			if tt.expectedErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedKey, key)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresStore_SetKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	s := NewPostgresStore(db)

	userID := int64(123)

	mock.ExpectExec("insert into user_sessions").
		WithArgs(userID, "sk-or-abc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = s.SetKey(context.Background(), userID, "sk-or-abc")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	s := NewPostgresStore(db)

	userID := int64(123)

	// Zero rows affected is still success: removal of an absent key is a no-op.
	mock.ExpectExec("update user_sessions set api_key = ''").
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = s.DeleteKey(context.Background(), userID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Pending(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	s := NewPostgresStore(db)

	userID := int64(123)
	ctx := context.Background()

	mock.ExpectExec("insert into user_sessions").
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, s.MarkPending(ctx, userID))

	query := "select pending from user_sessions where user_id = \\$1"
	mock.ExpectQuery(query).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"pending"}).AddRow(true))
	pending, err := s.IsPending(ctx, userID)
	assert.NoError(t, err)
	assert.True(t, pending)

	mock.ExpectExec("update user_sessions set pending = false").
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, s.ClearPending(ctx, userID))

	// Unknown user reads as not pending.
	mock.ExpectQuery(query).
		WithArgs(int64(999)).
		WillReturnError(sql.ErrNoRows)
	pending, err = s.IsPending(ctx, 999)
	assert.NoError(t, err)
	assert.False(t, pending)

	assert.NoError(t, mock.ExpectationsWereMet())
}
