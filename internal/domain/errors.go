package domain

import "errors"

var (
	ErrNoFileSelected      = errors.New("no image file selected")
	ErrNoDocument          = errors.New("no document loaded")
	ErrNothingToSave       = errors.New("no unsaved changes")
	ErrBusy                = errors.New("another request is in progress")
	ErrUnknownField        = errors.New("unknown feature field")
	ErrDocumentNotFound    = errors.New("document not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionClosed       = errors.New("session is closed")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrEmptyFile           = errors.New("file is empty")
	ErrPreviewNotFound     = errors.New("preview not found")
	ErrPreviewReleased     = errors.New("preview already released")
	ErrNoImage             = errors.New("no image to display")
	ErrInvalidDataURI      = errors.New("invalid data URI")
	ErrUnsupportedExport   = errors.New("unsupported export format")
)
