package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"hippo/tests/fixtures"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_clerk_id"}

	assert.True(t, isUniqueViolation(dup))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", dup)))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("connection reset")))
}

func TestUserModel_RoundTrip(t *testing.T) {
	account := fixtures.NewAccountBuilder().WithClerkID("u1").Build()

	row := userFromEntity(account)
	assert.Equal(t, "u1", row.ClerkID)
	assert.Equal(t, "asst_test123", row.AssistantID)
	assert.Equal(t, "users", row.TableName())

	got, err := row.toEntity()
	require.NoError(t, err)
	assert.Equal(t, account.ID(), got.ID())
	assert.Equal(t, account.StoreID(), got.StoreID())
	assert.True(t, account.CreatedAt().Equal(got.CreatedAt()))
}

func TestNoteModel_RoundTrip(t *testing.T) {
	created := time.Date(2024, time.June, 2, 10, 0, 0, 0, time.UTC)
	note := fixtures.NewNoteBuilder().WithContent("Buy milk").WithCreatedAt(created).Build()

	row := noteFromEntity(note)
	assert.Equal(t, note.AccountID().String(), row.UserID)
	assert.Equal(t, "notes", row.TableName())

	got, err := row.toEntity()
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Content().String())
	assert.True(t, created.Equal(got.CreatedAt()))
}

func TestUserModel_CorruptRow(t *testing.T) {
	_, err := userModel{ID: "", ClerkID: "u1"}.toEntity()
	assert.Error(t, err)
}
