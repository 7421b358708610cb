package commands

import (
	"strings"

	"hippo/domain/core/entities"
	pkgerrors "hippo/pkg/errors"
	"hippo/pkg/utils"
)

// EnsureAccountCommand provisions an account for an authenticated identity,
// or returns the existing one
type EnsureAccountCommand struct {
	Name    string `json:"name" validate:"notblank,max=200"`
	Email   string `json:"email" validate:"notblank,email"`
	ClerkID string `json:"clerkId" validate:"notblank"`
}

// Validate implements bus.Command
func (c EnsureAccountCommand) Validate() error {
	c.Email = strings.TrimSpace(c.Email)
	return validate(c)
}

// EnsureAccountResult reports the account and whether this call created it
type EnsureAccountResult struct {
	Account *entities.Account
	Created bool
}

// validate reports missing fields first, in the order the struct declares
// them, then any other tag failure
func validate(cmd interface{}) error {
	if missing := utils.MissingFields(cmd); len(missing) > 0 {
		return pkgerrors.NewInvalidRequestError("Missing required fields: " + strings.Join(missing, ", "))
	}
	if err := utils.ValidateStruct(cmd); err != nil {
		return pkgerrors.NewInvalidRequestError(err.Error())
	}
	return nil
}
