package port

import (
	"context"

	"idreview/internal/domain"
)

// ClassifyInput carries the image sent to the classifier.
type ClassifyInput struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UpdateInput is the body of a document update. A nil DocumentType leaves it unchanged.
type UpdateInput struct {
	Features     domain.Features `json:"features"`
	DocumentType *string         `json:"document_type,omitempty"`
}

// RemoteGateway abstracts the classifier and document store the editor talks to.
type RemoteGateway interface {
	Classify(ctx context.Context, input ClassifyInput) (*domain.Document, error)
	List(ctx context.Context, limit int) ([]domain.Document, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*domain.Document, error)
}
