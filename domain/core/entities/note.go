package entities

import (
	"time"

	"hippo/domain/core/valueobjects"
	pkgerrors "hippo/pkg/errors"
)

// Note is a user-submitted text note. Notes are immutable once committed.
type Note struct {
	id        valueobjects.NoteID
	accountID valueobjects.AccountID
	content   valueobjects.NoteContent
	createdAt time.Time
	updatedAt time.Time
}

// storedNow is the current UTC time at the microsecond precision PostgreSQL
// keeps, so a freshly created entity equals its stored row
func storedNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// NewNote creates a note owned by the given account
func NewNote(accountID valueobjects.AccountID, content valueobjects.NoteContent) (*Note, error) {
	if accountID.IsZero() {
		return nil, pkgerrors.NewInvalidRequestError("note requires an owning account")
	}
	if content.IsEmpty() {
		return nil, pkgerrors.NewInvalidRequestError("content cannot be empty")
	}

	now := storedNow()
	return &Note{
		id:        valueobjects.NewNoteID(),
		accountID: accountID,
		content:   content,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructNote rebuilds a note from repository data with preserved timestamps
func ReconstructNote(
	id valueobjects.NoteID,
	accountID valueobjects.AccountID,
	content valueobjects.NoteContent,
	createdAt, updatedAt time.Time,
) *Note {
	return &Note{
		id:        id,
		accountID: accountID,
		content:   content,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (n *Note) ID() valueobjects.NoteID           { return n.id }
func (n *Note) AccountID() valueobjects.AccountID { return n.accountID }
func (n *Note) Content() valueobjects.NoteContent { return n.content }
func (n *Note) CreatedAt() time.Time              { return n.createdAt }
func (n *Note) UpdatedAt() time.Time              { return n.updatedAt }

// DocumentName is the file name used when uploading the note for retrieval
func (n *Note) DocumentName() string {
	return "note-" + n.id.String() + ".txt"
}
