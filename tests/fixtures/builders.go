package fixtures

import (
	"time"

	"hippo/domain/core/entities"
	"hippo/domain/core/valueobjects"
)

// AccountBuilder helps create test accounts with default values
type AccountBuilder struct {
	id        valueobjects.AccountID
	clerkID   string
	name      string
	email     string
	personaID string
	storeID   string
	createdAt time.Time
}

func NewAccountBuilder() *AccountBuilder {
	return &AccountBuilder{
		id:        valueobjects.NewAccountID(),
		clerkID:   "user_test123",
		name:      "Ada",
		email:     "ada@x.com",
		personaID: "asst_test123",
		storeID:   "vs_test123",
		createdAt: time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (b *AccountBuilder) WithClerkID(clerkID string) *AccountBuilder {
	b.clerkID = clerkID
	return b
}

func (b *AccountBuilder) WithName(name string) *AccountBuilder {
	b.name = name
	return b
}

func (b *AccountBuilder) WithPersonaID(personaID string) *AccountBuilder {
	b.personaID = personaID
	return b
}

func (b *AccountBuilder) WithStoreID(storeID string) *AccountBuilder {
	b.storeID = storeID
	return b
}

// Build reconstructs the account, so external ids are not validated
func (b *AccountBuilder) Build() *entities.Account {
	clerkID, err := valueobjects.NewClerkID(b.clerkID)
	if err != nil {
		panic(err)
	}
	return entities.ReconstructAccount(
		b.id,
		clerkID,
		b.name,
		b.email,
		valueobjects.NewPersonaID(b.personaID),
		valueobjects.NewStoreID(b.storeID),
		b.createdAt,
		b.createdAt,
	)
}

// NoteBuilder helps create test notes with default values
type NoteBuilder struct {
	id        valueobjects.NoteID
	accountID valueobjects.AccountID
	content   string
	createdAt time.Time
}

func NewNoteBuilder() *NoteBuilder {
	return &NoteBuilder{
		id:        valueobjects.NewNoteID(),
		accountID: valueobjects.NewAccountID(),
		content:   "Test note",
		createdAt: time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (b *NoteBuilder) WithAccountID(id valueobjects.AccountID) *NoteBuilder {
	b.accountID = id
	return b
}

func (b *NoteBuilder) WithContent(content string) *NoteBuilder {
	b.content = content
	return b
}

func (b *NoteBuilder) WithCreatedAt(t time.Time) *NoteBuilder {
	b.createdAt = t
	return b
}

func (b *NoteBuilder) Build() *entities.Note {
	return entities.ReconstructNote(
		b.id,
		b.accountID,
		valueobjects.RestoreNoteContent(b.content),
		b.createdAt,
		b.createdAt,
	)
}
