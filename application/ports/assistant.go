package ports

import "context"

// PersonaSpec describes the hosted assistant created for each account
type PersonaSpec struct {
	Name         string
	Model        string
	Instructions string
}

// Document is a flat text file uploaded for retrieval
type Document struct {
	Filename string
	Content  []byte
}

// RunOptions are the sampling parameters for a run
type RunOptions struct {
	Temperature         float64
	TopP                float64
	MaxCompletionTokens int
}

// DefaultRunOptions returns the sampling parameters used for recall
func DefaultRunOptions() RunOptions {
	return RunOptions{
		Temperature:         0.7,
		TopP:                1,
		MaxCompletionTokens: 1000,
	}
}

// ContentPart is one piece of a thread message
type ContentPart struct {
	Type string
	Text string
}

// Message is a thread message as returned by the platform
type Message struct {
	ID      string
	Role    string
	RunID   string
	Content []ContentPart
}

// AssistantPlatform is the hosted assistant service: personas, retrieval
// stores and the thread/run conversation protocol.
// Implementations return Upstream errors carrying the platform status.
type AssistantPlatform interface {
	CreatePersona(ctx context.Context, spec PersonaSpec) (string, error)
	DeletePersona(ctx context.Context, personaID string) error

	CreateRetrievalStore(ctx context.Context, name string) (string, error)
	DeleteRetrievalStore(ctx context.Context, storeID string) error
	AttachStore(ctx context.Context, personaID, storeID string) error

	// UploadDocument uploads doc and associates it with the store, returning the file id
	UploadDocument(ctx context.Context, storeID string, doc Document) (string, error)

	CreateThread(ctx context.Context) (string, error)
	AddMessage(ctx context.Context, threadID, role, content string) error
	StartRun(ctx context.Context, threadID, personaID string, opts RunOptions) (string, error)
	ListMessages(ctx context.Context, threadID string) ([]Message, error)
}
