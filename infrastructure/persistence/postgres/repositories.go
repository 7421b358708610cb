package postgres

import (
	"context"
	"errors"

	"hippo/application/ports"
	"hippo/domain/core/entities"
	"hippo/domain/core/valueobjects"
	pkgerrors "hippo/pkg/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// AccountRepository implements ports.AccountRepository on the users table
type AccountRepository struct {
	*DB
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{DB: db}
}

// GetByClerkID retrieves the account for a clerk id
func (r *AccountRepository) GetByClerkID(ctx context.Context, clerkID valueobjects.ClerkID) (*entities.Account, error) {
	var row userModel
	err := r.db.WithContext(ctx).Where("clerk_id = ?", clerkID.String()).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NewNotFoundError("User")
		}
		return nil, pkgerrors.NewDatabaseError("get account", err)
	}
	return row.toEntity()
}

// Create inserts an account. The clerk_id unique index reports concurrent
// inserts as ErrAccountExists.
func (r *AccountRepository) Create(ctx context.Context, account *entities.Account) error {
	row := userFromEntity(account)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.ErrAccountExists
		}
		return pkgerrors.NewDatabaseError("create account", err)
	}
	return nil
}

// NoteRepository implements ports.NoteRepository on the notes table
type NoteRepository struct {
	*DB
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(db *DB) *NoteRepository {
	return &NoteRepository{DB: db}
}

// Create inserts a note
func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) error {
	row := noteFromEntity(note)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return pkgerrors.NewDatabaseError("create note", err)
	}
	return nil
}

// ListByAccount returns the account's notes, newest first. Equal
// timestamps fall back to id order so pages are stable.
func (r *NoteRepository) ListByAccount(ctx context.Context, accountID valueobjects.AccountID) ([]*entities.Note, error) {
	var rows []noteModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", accountID.String()).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list notes", err)
	}

	notes := make([]*entities.Note, 0, len(rows))
	for _, row := range rows {
		note, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var (
	_ ports.AccountRepository = (*AccountRepository)(nil)
	_ ports.NoteRepository    = (*NoteRepository)(nil)
)
