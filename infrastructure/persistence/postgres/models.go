package postgres

import (
	"time"

	"hippo/domain/core/entities"
	"hippo/domain/core/valueobjects"
	pkgerrors "hippo/pkg/errors"
)

// userModel is the users table row
type userModel struct {
	ID            string    `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"not null"`
	Email         string    `gorm:"not null"`
	ClerkID       string    `gorm:"column:clerk_id;not null;uniqueIndex:idx_users_clerk_id"`
	AssistantID   string    `gorm:"column:assistant_id"`
	VectorStoreID string    `gorm:"column:vector_store_id"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (userModel) TableName() string { return "users" }

// noteModel is the notes table row
type noteModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;not null;index:idx_notes_user_created,priority:1"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;index:idx_notes_user_created,priority:2,sort:desc"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (noteModel) TableName() string { return "notes" }

func userFromEntity(a *entities.Account) userModel {
	return userModel{
		ID:            a.ID().String(),
		Name:          a.Name(),
		Email:         a.Email(),
		ClerkID:       a.ClerkID().String(),
		AssistantID:   a.PersonaID().String(),
		VectorStoreID: a.StoreID().String(),
		CreatedAt:     a.CreatedAt(),
		UpdatedAt:     a.UpdatedAt(),
	}
}

func (m userModel) toEntity() (*entities.Account, error) {
	id, err := valueobjects.NewAccountIDFromString(m.ID)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("decode account", err)
	}
	clerkID, err := valueobjects.NewClerkID(m.ClerkID)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("decode account", err)
	}
	return entities.ReconstructAccount(
		id,
		clerkID,
		m.Name,
		m.Email,
		valueobjects.NewPersonaID(m.AssistantID),
		valueobjects.NewStoreID(m.VectorStoreID),
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func noteFromEntity(n *entities.Note) noteModel {
	return noteModel{
		ID:        n.ID().String(),
		UserID:    n.AccountID().String(),
		Content:   n.Content().String(),
		CreatedAt: n.CreatedAt(),
		UpdatedAt: n.UpdatedAt(),
	}
}

func (m noteModel) toEntity() (*entities.Note, error) {
	id, err := valueobjects.NewNoteIDFromString(m.ID)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("decode note", err)
	}
	accountID, err := valueobjects.NewAccountIDFromString(m.UserID)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("decode note", err)
	}
	return entities.ReconstructNote(id, accountID, valueobjects.RestoreNoteContent(m.Content), m.CreatedAt, m.UpdatedAt), nil
}
