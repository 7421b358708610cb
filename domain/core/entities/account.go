package entities

import (
	"strings"
	"time"

	"hippo/domain/core/valueobjects"
	"hippo/domain/events"
	pkgerrors "hippo/pkg/errors"
)

// Account binds an authenticated identity to exactly one assistant persona
// and one retrieval store.
type Account struct {
	id        valueobjects.AccountID
	clerkID   valueobjects.ClerkID
	name      string
	email     string
	personaID valueobjects.PersonaID
	storeID   valueobjects.StoreID
	createdAt time.Time
	updatedAt time.Time

	events []events.DomainEvent
}

// NewAccount creates an account for a freshly provisioned persona/store pair.
// Both external references are required.
func NewAccount(clerkID valueobjects.ClerkID, name, email string, personaID valueobjects.PersonaID, storeID valueobjects.StoreID) (*Account, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" || email == "" {
		return nil, pkgerrors.NewInvalidRequestError("name and email are required")
	}
	if personaID.IsZero() {
		return nil, pkgerrors.NewInvalidStateError("account requires an assistant persona")
	}
	if storeID.IsZero() {
		return nil, pkgerrors.NewInvalidStateError("account requires a vector store")
	}

	now := storedNow()
	account := &Account{
		id:        valueobjects.NewAccountID(),
		clerkID:   clerkID,
		name:      name,
		email:     email,
		personaID: personaID,
		storeID:   storeID,
		createdAt: now,
		updatedAt: now,
	}

	account.addEvent(events.NewAccountProvisioned(
		account.id.String(),
		clerkID.String(),
		personaID.String(),
		storeID.String(),
		now,
	))

	return account, nil
}

// ReconstructAccount rebuilds an account from repository data with preserved timestamps
func ReconstructAccount(
	id valueobjects.AccountID,
	clerkID valueobjects.ClerkID,
	name, email string,
	personaID valueobjects.PersonaID,
	storeID valueobjects.StoreID,
	createdAt, updatedAt time.Time,
) *Account {
	return &Account{
		id:        id,
		clerkID:   clerkID,
		name:      name,
		email:     email,
		personaID: personaID,
		storeID:   storeID,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (a *Account) ID() valueobjects.AccountID        { return a.id }
func (a *Account) ClerkID() valueobjects.ClerkID     { return a.clerkID }
func (a *Account) Name() string                      { return a.name }
func (a *Account) Email() string                     { return a.email }
func (a *Account) PersonaID() valueobjects.PersonaID { return a.personaID }
func (a *Account) StoreID() valueobjects.StoreID     { return a.storeID }
func (a *Account) CreatedAt() time.Time              { return a.createdAt }
func (a *Account) UpdatedAt() time.Time              { return a.updatedAt }

// CanIndexNotes reports whether notes committed to this account can be
// published to its retrieval store.
func (a *Account) CanIndexNotes() bool {
	return !a.storeID.IsZero()
}

// CanRecall reports whether the account's persona id is usable for a run
func (a *Account) CanRecall(personaPrefix string) bool {
	return a.personaID.HasPrefix(personaPrefix)
}

// GetUncommittedEvents returns events raised since the account was created
func (a *Account) GetUncommittedEvents() []events.DomainEvent {
	return a.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (a *Account) MarkEventsAsCommitted() {
	a.events = nil
}

func (a *Account) addEvent(event events.DomainEvent) {
	a.events = append(a.events, event)
}
