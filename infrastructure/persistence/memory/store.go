// Package memory provides process-local repositories for local development
// and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"hippo/application/ports"
	"hippo/domain/core/entities"
	"hippo/domain/core/valueobjects"
	pkgerrors "hippo/pkg/errors"
)

// AccountStore keeps accounts keyed by clerk id
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*entities.Account
}

// NewAccountStore creates an empty account store
func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: make(map[string]*entities.Account)}
}

func (s *AccountStore) GetByClerkID(_ context.Context, clerkID valueobjects.ClerkID) (*entities.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[clerkID.String()]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("User")
	}
	return account, nil
}

func (s *AccountStore) Create(_ context.Context, account *entities.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := account.ClerkID().String()
	if _, exists := s.accounts[key]; exists {
		return ports.ErrAccountExists
	}
	s.accounts[key] = account
	return nil
}

// Ping always succeeds
func (s *AccountStore) Ping(context.Context) error { return nil }

type storedNote struct {
	note *entities.Note
	seq  uint64
}

// NoteStore keeps notes grouped by owning account
type NoteStore struct {
	mu    sync.RWMutex
	notes map[valueobjects.AccountID][]storedNote
	seq   uint64
}

// NewNoteStore creates an empty note store
func NewNoteStore() *NoteStore {
	return &NoteStore{notes: make(map[valueobjects.AccountID][]storedNote)}
}

func (s *NoteStore) Create(_ context.Context, note *entities.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.notes[note.AccountID()] = append(s.notes[note.AccountID()], storedNote{note: note, seq: s.seq})
	return nil
}

// ListByAccount returns notes newest first. Notes created at the same
// instant come back in reverse insertion order.
func (s *NoteStore) ListByAccount(_ context.Context, accountID valueobjects.AccountID) ([]*entities.Note, error) {
	s.mu.RLock()
	stored := append([]storedNote(nil), s.notes[accountID]...)
	s.mu.RUnlock()

	sort.Slice(stored, func(i, j int) bool {
		a, b := stored[i], stored[j]
		if !a.note.CreatedAt().Equal(b.note.CreatedAt()) {
			return a.note.CreatedAt().After(b.note.CreatedAt())
		}
		return a.seq > b.seq
	})

	notes := make([]*entities.Note, 0, len(stored))
	for _, sn := range stored {
		notes = append(notes, sn.note)
	}
	return notes, nil
}

// Ping always succeeds
func (s *NoteStore) Ping(context.Context) error { return nil }

var (
	_ ports.AccountRepository = (*AccountStore)(nil)
	_ ports.NoteRepository    = (*NoteStore)(nil)
	_ ports.HealthChecker     = (*NoteStore)(nil)
)
