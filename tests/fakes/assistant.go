// Package fakes provides in-process stand-ins for external services.
package fakes

import (
	"context"
	"fmt"
	"sync"

	"hippo/application/ports"
)

// AssistantPlatform is a scripted in-memory assistant platform. Runs answer
// on the AnswerAfter-th poll, or never when AnswerAfter is zero.
type AssistantPlatform struct {
	mu sync.Mutex

	Answer      string
	AnswerAfter int

	seq       int
	Personas  map[string]ports.PersonaSpec
	Stores    map[string][]ports.Document
	Attached  map[string]string
	Deleted   []string
	Questions []string
	Polls     int

	runs map[string]string // thread id to run id
}

// NewAssistantPlatform creates a platform that answers on the first poll
func NewAssistantPlatform(answer string) *AssistantPlatform {
	return &AssistantPlatform{
		Answer:      answer,
		AnswerAfter: 1,
		Personas:    make(map[string]ports.PersonaSpec),
		Stores:      make(map[string][]ports.Document),
		Attached:    make(map[string]string),
		runs:        make(map[string]string),
	}
}

func (p *AssistantPlatform) next(prefix string) string {
	p.seq++
	return fmt.Sprintf("%s%d", prefix, p.seq)
}

func (p *AssistantPlatform) CreatePersona(_ context.Context, spec ports.PersonaSpec) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.next("asst_")
	p.Personas[id] = spec
	return id, nil
}

func (p *AssistantPlatform) DeletePersona(_ context.Context, personaID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.Personas, personaID)
	p.Deleted = append(p.Deleted, personaID)
	return nil
}

func (p *AssistantPlatform) CreateRetrievalStore(_ context.Context, _ string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.next("vs_")
	p.Stores[id] = nil
	return id, nil
}

func (p *AssistantPlatform) DeleteRetrievalStore(_ context.Context, storeID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.Stores, storeID)
	p.Deleted = append(p.Deleted, storeID)
	return nil
}

func (p *AssistantPlatform) AttachStore(_ context.Context, personaID, storeID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Attached[personaID] = storeID
	return nil
}

func (p *AssistantPlatform) UploadDocument(_ context.Context, storeID string, doc ports.Document) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.Stores[storeID]; !ok {
		return "", fmt.Errorf("unknown store %s", storeID)
	}
	p.Stores[storeID] = append(p.Stores[storeID], doc)
	return p.next("file-"), nil
}

func (p *AssistantPlatform) CreateThread(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.next("thread_"), nil
}

func (p *AssistantPlatform) AddMessage(_ context.Context, _, _, content string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Questions = append(p.Questions, content)
	return nil
}

func (p *AssistantPlatform) StartRun(_ context.Context, threadID, _ string, _ ports.RunOptions) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	runID := p.next("run_")
	p.runs[threadID] = runID
	return runID, nil
}

func (p *AssistantPlatform) ListMessages(_ context.Context, threadID string) ([]ports.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Polls++

	messages := []ports.Message{{ID: "msg_q", Role: "user", Content: []ports.ContentPart{{Type: "text", Text: "question"}}}}
	if p.AnswerAfter > 0 && p.Polls >= p.AnswerAfter {
		messages = append([]ports.Message{{
			ID:      "msg_a",
			Role:    "assistant",
			RunID:   p.runs[threadID],
			Content: []ports.ContentPart{{Type: "text", Text: p.Answer}},
		}}, messages...)
	}
	return messages, nil
}

var _ ports.AssistantPlatform = (*AssistantPlatform)(nil)
