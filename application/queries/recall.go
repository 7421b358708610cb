package queries

import (
	"strings"

	pkgerrors "hippo/pkg/errors"
	"hippo/pkg/utils"
)

// RecallQuery asks the account's assistant a question about its notes
type RecallQuery struct {
	Question string `json:"question" validate:"notblank"`
	ClerkID  string `json:"clerkId" validate:"notblank"`
}

// Validate implements bus.Query
func (q RecallQuery) Validate() error {
	if missing := utils.MissingFields(q); len(missing) > 0 {
		return pkgerrors.NewInvalidRequestError("Missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}

// RecallAnswer is the text of the assistant's reply
type RecallAnswer struct {
	Answer   string
	Attempts int
}
