package commands

import "hippo/domain/core/entities"

// CommitNoteCommand stores a note for an account and indexes it in the
// account's retrieval store
type CommitNoteCommand struct {
	Content string `json:"content" validate:"notblank"`
	ClerkID string `json:"clerkId" validate:"notblank"`
}

// Validate implements bus.Command
func (c CommitNoteCommand) Validate() error {
	return validate(c)
}

// CommitNoteResult carries the persisted note
type CommitNoteResult struct {
	Note   *entities.Note
	FileID string
}
