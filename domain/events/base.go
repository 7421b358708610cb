package events

import "time"

// SourceBackend is the event source name used when publishing
const SourceBackend = "hippo.backend"

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Account Events

// AccountProvisioned is raised when an account and its persona/store pair are created
type AccountProvisioned struct {
	BaseEvent
	AccountID     string `json:"account_id"`
	ClerkID       string `json:"clerk_id"`
	AssistantID   string `json:"assistant_id"`
	VectorStoreID string `json:"vector_store_id"`
}

// NewAccountProvisioned creates an AccountProvisioned event
func NewAccountProvisioned(accountID, clerkID, assistantID, vectorStoreID string, timestamp time.Time) AccountProvisioned {
	return AccountProvisioned{
		BaseEvent: BaseEvent{
			AggregateID: accountID,
			EventType:   "account.provisioned",
			Timestamp:   timestamp,
			Version:     1,
		},
		AccountID:     accountID,
		ClerkID:       clerkID,
		AssistantID:   assistantID,
		VectorStoreID: vectorStoreID,
	}
}

// Note Events

// NoteCommitted is raised once a note is stored and indexed in the retrieval store
type NoteCommitted struct {
	BaseEvent
	NoteID    string `json:"note_id"`
	AccountID string `json:"account_id"`
	FileID    string `json:"file_id"`
}

// NewNoteCommitted creates a NoteCommitted event
func NewNoteCommitted(noteID, accountID, fileID string, timestamp time.Time) NoteCommitted {
	return NoteCommitted{
		BaseEvent: BaseEvent{
			AggregateID: noteID,
			EventType:   "note.committed",
			Timestamp:   timestamp,
			Version:     1,
		},
		NoteID:    noteID,
		AccountID: accountID,
		FileID:    fileID,
	}
}

// Recall Events

// RecallCompleted is raised when a recall either produced an answer or ran out of attempts
type RecallCompleted struct {
	BaseEvent
	AccountID string `json:"account_id"`
	ThreadID  string `json:"thread_id"`
	RunID     string `json:"run_id"`
	Attempts  int    `json:"attempts"`
}

// NewRecallAnswered creates a recall.answered event
func NewRecallAnswered(accountID, threadID, runID string, attempts int, timestamp time.Time) RecallCompleted {
	return newRecallCompleted("recall.answered", accountID, threadID, runID, attempts, timestamp)
}

// NewRecallTimedOut creates a recall.timed_out event
func NewRecallTimedOut(accountID, threadID, runID string, attempts int, timestamp time.Time) RecallCompleted {
	return newRecallCompleted("recall.timed_out", accountID, threadID, runID, attempts, timestamp)
}

func newRecallCompleted(eventType, accountID, threadID, runID string, attempts int, timestamp time.Time) RecallCompleted {
	return RecallCompleted{
		BaseEvent: BaseEvent{
			AggregateID: accountID,
			EventType:   eventType,
			Timestamp:   timestamp,
			Version:     1,
		},
		AccountID: accountID,
		ThreadID:  threadID,
		RunID:     runID,
		Attempts:  attempts,
	}
}
