package ports

import (
	"context"
	"errors"

	"hippo/domain/core/entities"
	"hippo/domain/core/valueobjects"
	"hippo/domain/events"
)

// ErrAccountExists is returned by AccountRepository.Create when another
// request already inserted an account for the same clerk id
var ErrAccountExists = errors.New("account already exists for clerk id")

// AccountRepository defines the interface for account persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type AccountRepository interface {
	// GetByClerkID retrieves the account bound to an identity provider subject.
	// Returns a NotFound error when no account exists.
	GetByClerkID(ctx context.Context, clerkID valueobjects.ClerkID) (*entities.Account, error)

	// Create inserts a new account. Returns ErrAccountExists on a clerk id conflict.
	Create(ctx context.Context, account *entities.Account) error
}

// NoteRepository defines the interface for note persistence
type NoteRepository interface {
	// Create inserts a note
	Create(ctx context.Context, note *entities.Note) error

	// ListByAccount returns all notes owned by the account, newest first
	ListByAccount(ctx context.Context, accountID valueobjects.AccountID) ([]*entities.Note, error)
}

// HealthChecker is implemented by stores that can report readiness
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
