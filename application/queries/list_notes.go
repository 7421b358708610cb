package queries

import (
	"strings"

	"hippo/domain/core/entities"
	pkgerrors "hippo/pkg/errors"
)

// ListNotesQuery lists an account's notes, newest first
type ListNotesQuery struct {
	ClerkID string `json:"clerkId"`
}

// Validate implements bus.Query
func (q ListNotesQuery) Validate() error {
	if strings.TrimSpace(q.ClerkID) == "" {
		return pkgerrors.NewInvalidRequestError("Missing required field: clerkId")
	}
	return nil
}

// ListNotesResult holds the notes in display order
type ListNotesResult struct {
	Notes []*entities.Note
}
