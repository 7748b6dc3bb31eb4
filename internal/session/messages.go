package session

import (
	"errors"
	"fmt"

	"idreview/internal/domain"
)

const (
	opExtraction = "Extraction"
	opSave       = "Save"
	opHistory    = "History"

	msgSelectFile = "Please select an image file first."
	msgNoDocument = "No document loaded or no features to save."
)

// userMessager is implemented by errors that carry a message meant for the user.
type userMessager interface {
	UserMessage() string
}

func failureMessage(op string, err error) string {
	msg := "unknown error"
	var um userMessager
	switch {
	case errors.As(err, &um):
		msg = um.UserMessage()
	case err != nil:
		msg = err.Error()
	}
	return fmt.Sprintf("%s Error: %s", op, msg)
}

func extractedMessage(doc *domain.Document) string {
	return fmt.Sprintf("Document %q processed and saved! ID: %d", doc.OriginalFilename, doc.ID)
}

func savedMessage(doc *domain.Document) string {
	return fmt.Sprintf("Changes for %q saved successfully!", doc.OriginalFilename)
}
