// Package openai implements the assistant platform port against the OpenAI
// Assistants v2 API.
package openai

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"hippo/application/ports"
	pkgerrors "hippo/pkg/errors"
	"hippo/pkg/observability"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared/constant"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public OpenAI API root
	DefaultBaseURL = "https://api.openai.com/v1/"

	defaultTimeout  = 30 * time.Second
	fallbackMessage = "OpenAI API Error"
)

// Config holds client settings
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client calls the Assistants v2 endpoints through the official SDK
type Client struct {
	api    openai.Client
	tracer *observability.Tracer
	logger *zap.Logger
}

// NewClient creates a new OpenAI client. A nil tracer disables tracing.
// SDK retries are off; recall polling is the only retry loop.
func NewClient(cfg Config, tracer *observability.Tracer, logger *zap.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		api: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(baseURL),
			option.WithRequestTimeout(timeout),
			option.WithMaxRetries(0),
		),
		tracer: tracer,
		logger: logger,
	}
}

// CreatePersona creates an assistant with the file_search tool enabled
func (c *Client) CreatePersona(ctx context.Context, spec ports.PersonaSpec) (string, error) {
	var id string
	err := c.call(ctx, "createAssistant", func(ctx context.Context) error {
		assistant, err := c.api.Beta.Assistants.New(ctx, openai.BetaAssistantNewParams{
			Model:        openai.ChatModel(spec.Model),
			Name:         openai.String(spec.Name),
			Instructions: openai.String(spec.Instructions),
			Tools: []openai.AssistantToolUnionParam{
				{OfFileSearch: &openai.FileSearchToolParam{}},
			},
		})
		if err != nil {
			return err
		}
		id = assistant.ID
		return nil
	})
	return id, err
}

// DeletePersona deletes an assistant
func (c *Client) DeletePersona(ctx context.Context, personaID string) error {
	return c.call(ctx, "deleteAssistant", func(ctx context.Context) error {
		_, err := c.api.Beta.Assistants.Delete(ctx, personaID)
		return err
	})
}

// CreateRetrievalStore creates a vector store
func (c *Client) CreateRetrievalStore(ctx context.Context, name string) (string, error) {
	var id string
	err := c.call(ctx, "createVectorStore", func(ctx context.Context) error {
		store, err := c.api.VectorStores.New(ctx, openai.VectorStoreNewParams{
			Name: openai.String(name),
		})
		if err != nil {
			return err
		}
		id = store.ID
		return nil
	})
	return id, err
}

// DeleteRetrievalStore deletes a vector store
func (c *Client) DeleteRetrievalStore(ctx context.Context, storeID string) error {
	return c.call(ctx, "deleteVectorStore", func(ctx context.Context) error {
		_, err := c.api.VectorStores.Delete(ctx, storeID)
		return err
	})
}

// AttachStore points the assistant's file_search tool at the vector store
func (c *Client) AttachStore(ctx context.Context, personaID, storeID string) error {
	return c.call(ctx, "modifyAssistant", func(ctx context.Context) error {
		_, err := c.api.Beta.Assistants.Update(ctx, personaID, openai.BetaAssistantUpdateParams{
			ToolResources: openai.BetaAssistantUpdateParamsToolResources{
				FileSearch: openai.BetaAssistantUpdateParamsToolResourcesFileSearch{
					VectorStoreIDs: []string{storeID},
				},
			},
		})
		return err
	})
}

// UploadDocument uploads a text file and adds it to the vector store
func (c *Client) UploadDocument(ctx context.Context, storeID string, doc ports.Document) (string, error) {
	var fileID string
	err := c.call(ctx, "uploadFile", func(ctx context.Context) error {
		file, err := c.api.Files.New(ctx, openai.FileNewParams{
			File:    openai.File(bytes.NewReader(doc.Content), doc.Filename, "text/plain"),
			Purpose: openai.FilePurposeUserData,
		})
		if err != nil {
			return err
		}
		fileID = file.ID
		return nil
	})
	if err != nil {
		return "", err
	}

	err = c.call(ctx, "createVectorStoreFile", func(ctx context.Context) error {
		_, err := c.api.VectorStores.Files.New(ctx, storeID, openai.VectorStoreFileNewParams{
			FileID: fileID,
		})
		return err
	})
	if err != nil {
		return "", err
	}

	return fileID, nil
}

// CreateThread starts an empty conversation thread
func (c *Client) CreateThread(ctx context.Context) (string, error) {
	var id string
	err := c.call(ctx, "createThread", func(ctx context.Context) error {
		thread, err := c.api.Beta.Threads.New(ctx, openai.BetaThreadNewParams{})
		if err != nil {
			return err
		}
		id = thread.ID
		return nil
	})
	return id, err
}

// AddMessage appends a message to a thread
func (c *Client) AddMessage(ctx context.Context, threadID, role, content string) error {
	return c.call(ctx, "createMessage", func(ctx context.Context) error {
		_, err := c.api.Beta.Threads.Messages.New(ctx, threadID, openai.BetaThreadMessageNewParams{
			Role: openai.BetaThreadMessageNewParamsRole(role),
			Content: openai.BetaThreadMessageNewParamsContentUnion{
				OfString: openai.String(content),
			},
		})
		return err
	})
}

// StartRun starts the assistant on a thread
func (c *Client) StartRun(ctx context.Context, threadID, personaID string, opts ports.RunOptions) (string, error) {
	var id string
	err := c.call(ctx, "createRun", func(ctx context.Context) error {
		run, err := c.api.Beta.Threads.Runs.New(ctx, threadID, openai.BetaThreadRunNewParams{
			AssistantID:         personaID,
			Temperature:         openai.Float(opts.Temperature),
			TopP:                openai.Float(opts.TopP),
			MaxCompletionTokens: openai.Int(int64(opts.MaxCompletionTokens)),
			ResponseFormat: openai.AssistantResponseFormatOptionUnionParam{
				OfAuto: constant.ValueOf[constant.Auto](),
			},
		})
		if err != nil {
			return err
		}
		id = run.ID
		return nil
	})
	return id, err
}

// ListMessages returns the first page of the thread's messages, newest first
func (c *Client) ListMessages(ctx context.Context, threadID string) ([]ports.Message, error) {
	var messages []ports.Message
	err := c.call(ctx, "listMessages", func(ctx context.Context) error {
		page, err := c.api.Beta.Threads.Messages.List(ctx, threadID, openai.BetaThreadMessageListParams{})
		if err != nil {
			return err
		}

		messages = make([]ports.Message, 0, len(page.Data))
		for _, m := range page.Data {
			msg := ports.Message{ID: m.ID, Role: string(m.Role), RunID: m.RunID}
			for _, part := range m.Content {
				msg.Content = append(msg.Content, ports.ContentPart{Type: part.Type, Text: part.Text.Value})
			}
			messages = append(messages, msg)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// call runs one SDK request inside a trace subsegment and classifies its error
func (c *Client) call(ctx context.Context, op string, fn func(context.Context) error) error {
	return c.tracer.TraceFunction(ctx, "openai."+op, func(ctx context.Context) error {
		start := time.Now()
		err := fn(ctx)

		c.logger.Debug("OpenAI request",
			zap.String("operation", op),
			zap.Duration("duration", time.Since(start)),
			zap.Bool("ok", err == nil),
		)

		if err == nil {
			return nil
		}
		classified := classify(err)
		c.logger.Error("OpenAI request failed",
			zap.String("operation", op),
			zap.Int("status", pkgerrors.GetAppError(classified).HTTPStatus),
			zap.Error(err),
		)
		return classified
	})
}

// classify turns an SDK error into an Upstream error carrying the platform's
// message and status. Transport failures map to 502.
func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		message := fallbackMessage
		if strings.TrimSpace(apiErr.Message) != "" {
			message = apiErr.Message
		}
		status := apiErr.StatusCode
		if status == 0 {
			status = http.StatusBadGateway
		}
		return pkgerrors.NewUpstreamError(message, status).WithCause(err)
	}
	return pkgerrors.NewUpstreamError(fallbackMessage, http.StatusBadGateway).WithCause(err)
}

var _ ports.AssistantPlatform = (*Client)(nil)
