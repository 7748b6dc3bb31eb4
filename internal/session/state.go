// Package session reconciles the locally selected file, a fresh classification result and a
// document loaded from history into a single current document.
package session

import (
	"idreview/internal/domain"
	"idreview/internal/editbuffer"
	"idreview/internal/port"
)

// State is the whole editor session. File and Document are never both set.
type State struct {
	File    *domain.LocalFile
	Preview *port.PreviewHandle

	Document      *domain.Document
	Buffer        *editbuffer.Buffer
	PendingReview bool

	Extracting bool
	Loading    bool
	Saving     bool

	Error   string
	Success string

	// Generation changes whenever the current file or document identity changes.
	// Continuations compare it to decide whether their result still applies.
	Generation uint64
}

// Phase derives which of the mutually exclusive shapes the state is in.
func (s State) Phase() domain.Phase {
	switch {
	case s.Document != nil:
		return domain.PhaseDocumentLoaded
	case s.Extracting:
		return domain.PhaseExtracting
	case s.File != nil:
		return domain.PhaseFileSelected
	default:
		return domain.PhaseEmpty
	}
}

// Dirty reports whether the buffer holds unsaved edits.
func (s State) Dirty() bool {
	return editbuffer.IsDirty(s.Document, s.Buffer)
}

// clone copies the parts of the state a reducer may mutate.
func (s State) clone() State {
	out := s
	out.Document = s.Document.Clone()
	out.Buffer = s.Buffer.Clone()
	if s.Preview != nil {
		h := *s.Preview
		out.Preview = &h
	}
	return out
}

func (s *State) clearMessages() {
	s.Error = ""
	s.Success = ""
}

func (s *State) clearFile() {
	s.File = nil
	s.Preview = nil
}

func (s *State) loadDocument(doc *domain.Document) {
	s.Document = doc.Clone()
	s.Buffer = editbuffer.Load(doc)
	s.clearFile()
	s.Extracting = false
	s.Generation++
}

// Reduce applies e to s and returns the next state. It performs no I/O.
func Reduce(s State, e Event) State {
	next := s.clone()

	switch ev := e.(type) {
	case FileSelected:
		next.File = ev.File
		next.Preview = ev.Preview
		next.Document = nil
		next.Buffer = nil
		next.PendingReview = false
		next.Extracting = false
		next.clearMessages()
		next.Generation++

	case FileCleared:
		next.clearFile()
		next.Extracting = false
		next.clearMessages()
		next.Generation++

	case ExtractStarted:
		next.Document = nil
		next.Buffer = nil
		next.Extracting = true
		next.Loading = true
		next.clearMessages()

	case ExtractSucceeded:
		if ev.Generation != s.Generation {
			return s
		}
		next.loadDocument(ev.Document)
		next.PendingReview = true
		next.Success = extractedMessage(ev.Document)

	case ExtractFailed:
		if ev.Generation != s.Generation {
			return s
		}
		next.Extracting = false
		next.Error = failureMessage(opExtraction, ev.Err)

	case FieldEdited:
		if next.Document == nil || !next.Buffer.Set(ev.Key, ev.Value) {
			return s
		}
		next.PendingReview = false
		next.Success = ""

	case SaveStarted:
		next.Saving = true
		next.clearMessages()

	case SaveSucceeded:
		if ev.Generation != s.Generation {
			return s
		}
		next.Document = ev.Document.Clone()
		next.Buffer = editbuffer.Load(ev.Document)
		next.PendingReview = false
		next.Success = savedMessage(ev.Document)

	case SaveFailed:
		if ev.Generation != s.Generation {
			return s
		}
		next.Error = failureMessage(opSave, ev.Err)

	case HistoryStarted:
		next.Loading = true

	case HistoryFailed:
		next.Error = failureMessage(opHistory, ev.Err)

	case HistoryLoaded:
		next.loadDocument(ev.Document)
		next.PendingReview = false
		next.clearMessages()

	case LoadingDone:
		next.Loading = false
		next.Extracting = false

	case SavingDone:
		next.Saving = false

	case Rejected:
		next.Error = ev.Message
		next.Success = ""

	case Reset:
		next.clearFile()
		next.Document = nil
		next.Buffer = nil
		next.PendingReview = false
		next.Extracting = false
		next.clearMessages()
		next.Generation++

	case Dismissed:
		next.clearMessages()

	default:
		return s
	}
	return next
}
