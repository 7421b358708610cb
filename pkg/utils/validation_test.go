package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	ClerkID string `json:"clerkId" validate:"required"`
}

func TestValidateStruct(t *testing.T) {
	err := ValidateStruct(sampleRequest{Name: "Ada", Email: "ada@x.com", ClerkID: "u1"})
	assert.NoError(t, err)

	err = ValidateStruct(sampleRequest{Name: "Ada", Email: "not-an-email", ClerkID: "u1"})
	require.Error(t, err)
	assert.Equal(t, "email must be a valid email", err.Error())

	err = ValidateStruct(sampleRequest{Email: "ada@x.com"})
	require.Error(t, err)
	assert.Equal(t, "name is required; clerkId is required", err.Error())
}

func TestMissingFields(t *testing.T) {
	assert.Equal(t, []string{"name", "email", "clerkId"}, MissingFields(sampleRequest{}))
	assert.Empty(t, MissingFields(sampleRequest{Name: "Ada", Email: "bad", ClerkID: "u1"}))
}

func TestDateStamp(t *testing.T) {
	ts := time.Date(2024, time.March, 7, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "03/07/2024", DateStamp(ts, time.UTC))

	tokyo := time.FixedZone("JST", 9*60*60)
	assert.Equal(t, "03/08/2024", DateStamp(ts, tokyo))
}

type noteRequest struct {
	Content string `json:"content" validate:"notblank"`
	ClerkID string `json:"clerkId" validate:"notblank"`
}

func TestMissingFields_NotBlank(t *testing.T) {
	assert.Equal(t, []string{"content"}, MissingFields(noteRequest{Content: "  \t", ClerkID: "u1"}))
	assert.Empty(t, MissingFields(noteRequest{Content: "Buy milk", ClerkID: "u1"}))
}
