package valueobjects

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// AccountID is a value object representing a unique account identifier
type AccountID struct {
	value string
}

// NewAccountID creates a new random AccountID
func NewAccountID() AccountID {
	return AccountID{value: uuid.New().String()}
}

// NewAccountIDFromString creates an AccountID from a stored value
func NewAccountIDFromString(id string) (AccountID, error) {
	if strings.TrimSpace(id) == "" {
		return AccountID{}, errors.New("account ID cannot be empty")
	}
	return AccountID{value: id}, nil
}

// String returns the string representation of the AccountID
func (id AccountID) String() string {
	return id.value
}

// IsZero checks if the AccountID is the zero value
func (id AccountID) IsZero() bool {
	return id.value == ""
}

// NoteID is a value object representing a unique note identifier
type NoteID struct {
	value string
}

// NewNoteID creates a new random NoteID
func NewNoteID() NoteID {
	return NoteID{value: uuid.New().String()}
}

// NewNoteIDFromString creates a NoteID from a stored value
func NewNoteIDFromString(id string) (NoteID, error) {
	if strings.TrimSpace(id) == "" {
		return NoteID{}, errors.New("note ID cannot be empty")
	}
	return NoteID{value: id}, nil
}

// String returns the string representation of the NoteID
func (id NoteID) String() string {
	return id.value
}

// IsZero checks if the NoteID is the zero value
func (id NoteID) IsZero() bool {
	return id.value == ""
}

// ClerkID is the identity provider's subject id for a user
type ClerkID struct {
	value string
}

// NewClerkID validates and wraps an identity provider subject id
func NewClerkID(id string) (ClerkID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ClerkID{}, errors.New("clerk ID cannot be empty")
	}
	return ClerkID{value: id}, nil
}

// String returns the raw subject id
func (id ClerkID) String() string {
	return id.value
}
