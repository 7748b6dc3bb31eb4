package port

import "github.com/google/uuid"

// PreviewHandle identifies a locally created preview of an unsaved file.
type PreviewHandle struct {
	ID          uuid.UUID `json:"id"`
	ContentType string    `json:"content_type"`
}

// PreviewStore owns preview bytes between Create and Release.
// Release must succeed at most once per handle.
type PreviewStore interface {
	Create(name, contentType string, data []byte) (PreviewHandle, error)
	Open(id uuid.UUID) ([]byte, string, error)
	Release(id uuid.UUID) error
}
