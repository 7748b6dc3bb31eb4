package handler

import (
	"time"

	"github.com/google/uuid"

	"idreview/internal/session"
)

// Swagger type definitions for API documentation.

// --- Request Types ---

// EditFieldRequest represents the body of PUT /sessions/{id}/fields/{key}.
// Sending "N/A" marks the feature as not extracted.
type EditFieldRequest struct {
	Value *string `json:"value" binding:"required" example:"1990-01-01"`
}

// --- Response Types ---

// SessionResponse is an editor session together with its rendered state.
type SessionResponse struct {
	ID        uuid.UUID    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	CreatedAt time.Time    `json:"created_at"`
	View      session.View `json:"view"`
}

// Response is the generic success envelope used in swagger annotations.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponseBody is the error envelope used in swagger annotations.
type ErrorResponseBody struct {
	Success bool     `json:"success" example:"false"`
	Error   APIError `json:"error"`
}

// MessageResponse carries a plain confirmation.
type MessageResponse struct {
	Message string `json:"message" example:"session closed"`
}
