package session

import (
	"idreview/internal/domain"
	"idreview/internal/port"
)

// Event is an input to Reduce.
type Event interface {
	Name() string
}

type (
	// FileSelected replaces whatever is current with an unsaved local file.
	FileSelected struct {
		File    *domain.LocalFile
		Preview *port.PreviewHandle
	}
	// FileCleared drops the selected file without loading anything.
	FileCleared struct{}

	ExtractStarted   struct{}
	ExtractSucceeded struct {
		Generation uint64
		Document   *domain.Document
	}
	ExtractFailed struct {
		Generation uint64
		Err        error
	}

	FieldEdited struct {
		Key   string
		Value string
	}

	SaveStarted   struct{}
	SaveSucceeded struct {
		Generation uint64
		Document   *domain.Document
	}
	SaveFailed struct {
		Generation uint64
		Err        error
	}

	HistoryStarted struct{}
	HistoryFailed  struct{ Err error }
	// HistoryLoaded makes a history entry current, discarding unsaved edits.
	HistoryLoaded struct{ Document *domain.Document }

	LoadingDone struct{}
	SavingDone  struct{}

	// Rejected surfaces a guard failure without changing anything else.
	Rejected struct{ Message string }

	Reset     struct{}
	Dismissed struct{}
)

func (FileSelected) Name() string     { return "file_selected" }
func (FileCleared) Name() string      { return "file_cleared" }
func (ExtractStarted) Name() string   { return "extract_started" }
func (ExtractSucceeded) Name() string { return "extract_succeeded" }
func (ExtractFailed) Name() string    { return "extract_failed" }
func (FieldEdited) Name() string      { return "field_edited" }
func (SaveStarted) Name() string      { return "save_started" }
func (SaveSucceeded) Name() string    { return "save_succeeded" }
func (SaveFailed) Name() string       { return "save_failed" }
func (HistoryStarted) Name() string   { return "history_started" }
func (HistoryFailed) Name() string    { return "history_failed" }
func (HistoryLoaded) Name() string    { return "history_loaded" }
func (LoadingDone) Name() string      { return "loading_done" }
func (SavingDone) Name() string       { return "saving_done" }
func (Rejected) Name() string         { return "rejected" }
func (Reset) Name() string            { return "reset" }
func (Dismissed) Name() string        { return "dismissed" }
