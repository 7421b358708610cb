package valueobjects

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"hippo/domain/config"
	pkgerrors "hippo/pkg/errors"
	"hippo/pkg/utils"
)

// NoteContent is a value object for the free text of a note
type NoteContent struct {
	body string
}

// NewNoteContent creates content with validation using default configuration
func NewNoteContent(body string) (NoteContent, error) {
	return NewNoteContentWithConfig(body, time.Now(), config.DefaultDomainConfig())
}

// NewNoteContentWithConfig validates the body and applies the configured date
// stamp policy. now is the commit time used for the stamp.
func NewNoteContentWithConfig(body string, now time.Time, cfg *config.DomainConfig) (NoteContent, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	if strings.TrimSpace(body) == "" {
		return NoteContent{}, pkgerrors.NewInvalidRequestError("content cannot be empty")
	}

	if cfg.MaxNoteLength > 0 && utf8.RuneCountInString(body) > cfg.MaxNoteLength {
		return NoteContent{}, pkgerrors.NewInvalidRequestError(
			fmt.Sprintf("content exceeds maximum length of %d characters", cfg.MaxNoteLength))
	}

	if cfg.StampNoteDates {
		body = fmt.Sprintf("%s: %s", utils.DateStamp(now, cfg.StampLocation), body)
	}

	return NoteContent{body: body}, nil
}

// RestoreNoteContent wraps persisted content as-is
func RestoreNoteContent(body string) NoteContent {
	return NoteContent{body: body}
}

// String returns the content body
func (c NoteContent) String() string {
	return c.body
}

// IsEmpty checks if the content is empty
func (c NoteContent) IsEmpty() bool {
	return strings.TrimSpace(c.body) == ""
}

// Document renders the content as a flat text document for upload
func (c NoteContent) Document() []byte {
	return []byte(c.body)
}
