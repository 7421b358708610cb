package handlers

import (
	"time"

	"hippo/domain/core/entities"
)

// AccountResponse is the wire form of an account
type AccountResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	ClerkID       string    `json:"clerk_id"`
	AssistantID   string    `json:"assistant_id"`
	VectorStoreID string    `json:"vector_store_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NoteResponse is the wire form of a note
type NoteResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toAccountResponse(a *entities.Account) AccountResponse {
	return AccountResponse{
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

func toNoteResponse(n *entities.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID().String(),
		Content:   n.Content().String(),
		UserID:    n.AccountID().String(),
		CreatedAt: n.CreatedAt(),
		UpdatedAt: n.UpdatedAt(),
	}
}

func toNoteResponses(notes []*entities.Note) []NoteResponse {
	out := make([]NoteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteResponse(n))
	}
	return out
}
