// Package mocks provides testify mocks for the application ports.
package mocks

import (
	"context"

	"hippo/application/ports"
	"hippo/domain/core/entities"
	"hippo/domain/core/valueobjects"
	"hippo/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository mocks ports.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByClerkID(ctx context.Context, clerkID valueobjects.ClerkID) (*entities.Account, error) {
	args := m.Called(ctx, clerkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *entities.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockNoteRepository mocks ports.NoteRepository
type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) Create(ctx context.Context, note *entities.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNoteRepository) ListByAccount(ctx context.Context, accountID valueobjects.AccountID) ([]*entities.Note, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Note), args.Error(1)
}

// MockEventPublisher mocks ports.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	args := m.Called(ctx, evts)
	return args.Error(0)
}

// MockAssistantPlatform mocks ports.AssistantPlatform
type MockAssistantPlatform struct {
	mock.Mock
}

func (m *MockAssistantPlatform) CreatePersona(ctx context.Context, spec ports.PersonaSpec) (string, error) {
	args := m.Called(ctx, spec)
	return args.String(0), args.Error(1)
}

func (m *MockAssistantPlatform) DeletePersona(ctx context.Context, personaID string) error {
	args := m.Called(ctx, personaID)
	return args.Error(0)
}

func (m *MockAssistantPlatform) CreateRetrievalStore(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockAssistantPlatform) DeleteRetrievalStore(ctx context.Context, storeID string) error {
	args := m.Called(ctx, storeID)
	return args.Error(0)
}

func (m *MockAssistantPlatform) AttachStore(ctx context.Context, personaID, storeID string) error {
	args := m.Called(ctx, personaID, storeID)
	return args.Error(0)
}

func (m *MockAssistantPlatform) UploadDocument(ctx context.Context, storeID string, doc ports.Document) (string, error) {
	args := m.Called(ctx, storeID, doc)
	return args.String(0), args.Error(1)
}

func (m *MockAssistantPlatform) CreateThread(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockAssistantPlatform) AddMessage(ctx context.Context, threadID, role, content string) error {
	args := m.Called(ctx, threadID, role, content)
	return args.Error(0)
}

func (m *MockAssistantPlatform) StartRun(ctx context.Context, threadID, personaID string, opts ports.RunOptions) (string, error) {
	args := m.Called(ctx, threadID, personaID, opts)
	return args.String(0), args.Error(1)
}

func (m *MockAssistantPlatform) ListMessages(ctx context.Context, threadID string) ([]ports.Message, error) {
	args := m.Called(ctx, threadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.Message), args.Error(1)
}

var (
	_ ports.AccountRepository = (*MockAccountRepository)(nil)
	_ ports.NoteRepository    = (*MockNoteRepository)(nil)
	_ ports.EventPublisher    = (*MockEventPublisher)(nil)
	_ ports.AssistantPlatform = (*MockAssistantPlatform)(nil)
)
