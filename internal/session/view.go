package session

import (
	"idreview/internal/domain"
	"idreview/internal/editbuffer"
	"idreview/internal/preview"
)

// Field is one editable feature as displayed.
type Field struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	NotFound bool   `json:"not_found"`
}

// DocumentSummary describes the current or a history document without its image.
type DocumentSummary struct {
	ID               int64            `json:"id"`
	OriginalFilename string           `json:"original_filename"`
	DocumentType     string           `json:"document_type"`
	CreatedAt        domain.Timestamp `json:"created_at"`
	UpdatedAt        domain.Timestamp `json:"updated_at"`
}

// HistoryEntry is a history list item; Active marks the current document.
type HistoryEntry struct {
	DocumentSummary
	Active bool `json:"active"`
}

// View is the render-ready snapshot of a session.
type View struct {
	Phase         domain.Phase     `json:"phase"`
	FileName      string           `json:"file_name,omitempty"`
	Document      *DocumentSummary `json:"document,omitempty"`
	Fields        []Field          `json:"fields"`
	Dirty         bool             `json:"dirty"`
	PendingReview bool             `json:"pending_review"`
	IsLoading     bool             `json:"is_loading"`
	IsSaving      bool             `json:"is_saving"`
	Error         string           `json:"error,omitempty"`
	Success       string           `json:"success,omitempty"`
	Image         *preview.Image   `json:"image,omitempty"`
	History       []HistoryEntry   `json:"history"`
}

// View renders the current state together with the cached history.
func (c *Controller) View() View {
	s := c.State()
	return BuildView(s, c.history.Entries())
}

// BuildView renders s and the history list.
func BuildView(s State, hist []domain.Document) View {
	v := View{
		Phase:         s.Phase(),
		Fields:        []Field{},
		Dirty:         s.Dirty(),
		PendingReview: s.PendingReview && s.Document != nil,
		IsLoading:     s.Loading,
		IsSaving:      s.Saving,
		Error:         s.Error,
		Success:       s.Success,
		History:       make([]HistoryEntry, 0, len(hist)),
	}
	if s.File != nil {
		v.FileName = s.File.Name
	}
	if s.Document != nil {
		sum := summarize(s.Document)
		v.Document = &sum
		for _, key := range s.Buffer.Keys() {
			val, _ := s.Buffer.Value(key)
			v.Fields = append(v.Fields, Field{
				Key:      key,
				Value:    editbuffer.DisplayValue(val),
				NotFound: val == nil,
			})
		}
	}
	if img, ok := preview.Resolve(s.Preview, s.Document); ok {
		v.Image = &img
	}
	for i := range hist {
		v.History = append(v.History, HistoryEntry{
			DocumentSummary: summarize(&hist[i]),
			Active:          s.Document != nil && s.Document.ID == hist[i].ID,
		})
	}
	return v
}

func summarize(doc *domain.Document) DocumentSummary {
	return DocumentSummary{
		ID:               doc.ID,
		OriginalFilename: doc.OriginalFilename,
		DocumentType:     doc.DocumentType,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
	}
}
