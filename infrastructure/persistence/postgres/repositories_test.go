package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"hippo/application/ports"
	"hippo/domain/core/valueobjects"
	pkgerrors "hippo/pkg/errors"
	"hippo/tests/fixtures"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/callbacks"
	gormlogger "gorm.io/gorm/logger"
)

// newStubbedDB returns a DB whose query and create callbacks are replaced,
// so repository mapping runs without a server
func newStubbedDB(t *testing.T, query, create func(tx *gorm.DB)) *DB {
	t.Helper()

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=127.0.0.1 port=1 user=hippo dbname=hippo sslmode=disable",
	}), &gorm.Config{
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)

	if query != nil {
		require.NoError(t, gdb.Callback().Query().Replace("gorm:query", func(tx *gorm.DB) {
			callbacks.BuildQuerySQL(tx)
			query(tx)
		}))
	}
	if create != nil {
		require.NoError(t, gdb.Callback().Create().Replace("gorm:create", create))
	}

	return &DB{db: gdb, logger: zap.NewNop()}
}

func clerkID(t *testing.T, raw string) valueobjects.ClerkID {
	t.Helper()
	id, err := valueobjects.NewClerkID(raw)
	require.NoError(t, err)
	return id
}

func TestAccountRepository_GetByClerkID(t *testing.T) {
	account := fixtures.NewAccountBuilder().WithClerkID("u1").Build()

	t.Run("found", func(t *testing.T) {
		var sql string
		var vars []interface{}
		db := newStubbedDB(t, func(tx *gorm.DB) {
			sql = tx.Statement.SQL.String()
			vars = tx.Statement.Vars
			*(tx.Statement.Dest.(*userModel)) = userFromEntity(account)
			tx.RowsAffected = 1
		}, nil)

		got, err := NewAccountRepository(db).GetByClerkID(context.Background(), clerkID(t, "u1"))

		require.NoError(t, err)
		assert.Equal(t, account.ID(), got.ID())
		assert.Contains(t, sql, `FROM "users" WHERE clerk_id = $1`)
		assert.Equal(t, []interface{}{"u1"}, vars)
	})

	t.Run("missing row is NotFound", func(t *testing.T) {
		db := newStubbedDB(t, func(tx *gorm.DB) {
			tx.AddError(gorm.ErrRecordNotFound)
		}, nil)

		_, err := NewAccountRepository(db).GetByClerkID(context.Background(), clerkID(t, "nobody"))

		assert.True(t, pkgerrors.IsNotFound(err))
		assert.Equal(t, "User not found", pkgerrors.GetAppError(err).Message)
	})

	t.Run("driver failure is Upstream", func(t *testing.T) {
		db := newStubbedDB(t, func(tx *gorm.DB) {
			tx.AddError(errors.New("connection refused"))
		}, nil)

		_, err := NewAccountRepository(db).GetByClerkID(context.Background(), clerkID(t, "u1"))

		assert.True(t, pkgerrors.IsUpstream(err))
		assert.False(t, pkgerrors.IsNotFound(err))
	})
}

func TestAccountRepository_Create(t *testing.T) {
	account := fixtures.NewAccountBuilder().WithClerkID("u1").Build()

	t.Run("unique violation is ErrAccountExists", func(t *testing.T) {
		db := newStubbedDB(t, nil, func(tx *gorm.DB) {
			tx.AddError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_users_clerk_id"})
		})

		err := NewAccountRepository(db).Create(context.Background(), account)

		assert.ErrorIs(t, err, ports.ErrAccountExists)
	})

	t.Run("other failures are Upstream", func(t *testing.T) {
		db := newStubbedDB(t, nil, func(tx *gorm.DB) {
			tx.AddError(&pgconn.PgError{Code: "08006"})
		})

		err := NewAccountRepository(db).Create(context.Background(), account)

		assert.NotErrorIs(t, err, ports.ErrAccountExists)
		assert.True(t, pkgerrors.IsUpstream(err))
	})

	t.Run("success writes the row", func(t *testing.T) {
		var written *userModel
		db := newStubbedDB(t, nil, func(tx *gorm.DB) {
			written = tx.Statement.Dest.(*userModel)
			tx.RowsAffected = 1
		})

		require.NoError(t, NewAccountRepository(db).Create(context.Background(), account))
		require.NotNil(t, written)
		assert.Equal(t, "u1", written.ClerkID)
	})
}

func TestNoteRepository_ListByAccount_StableOrder(t *testing.T) {
	account := fixtures.NewAccountBuilder().Build()
	created := time.Date(2024, time.June, 2, 10, 0, 0, 0, time.UTC)
	newer := fixtures.NewNoteBuilder().WithAccountID(account.ID()).WithContent("second").WithCreatedAt(created).Build()
	older := fixtures.NewNoteBuilder().WithAccountID(account.ID()).WithContent("first").WithCreatedAt(created.Add(-time.Minute)).Build()

	var sql string
	db := newStubbedDB(t, func(tx *gorm.DB) {
		sql = tx.Statement.SQL.String()
		*(tx.Statement.Dest.(*[]noteModel)) = []noteModel{noteFromEntity(newer), noteFromEntity(older)}
		tx.RowsAffected = 2
	}, nil)

	notes, err := NewNoteRepository(db).ListByAccount(context.Background(), account.ID())

	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE user_id = $1")
	assert.Contains(t, sql, "ORDER BY created_at DESC, id DESC")
	require.Len(t, notes, 2)
	assert.Equal(t, "second", notes[0].Content().String())
}

func TestNoteRepository_CreateFailure(t *testing.T) {
	db := newStubbedDB(t, nil, func(tx *gorm.DB) {
		tx.AddError(errors.New("disk full"))
	})

	err := NewNoteRepository(db).Create(context.Background(), fixtures.NewNoteBuilder().Build())

	assert.True(t, pkgerrors.IsUpstream(err))
}
