package export

import (
	"encoding/csv"
	"io"

	"idreview/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Writer wraps csv.Writer for exporting documents as CSV.
type Writer struct {
	csv   *csv.Writer
	table Table
}

// NewWriter creates a Writer that writes CSV to w using table's columns.
func NewWriter(w io.Writer, table Table) *Writer {
	return &Writer{csv: csv.NewWriter(w), table: table}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(w.table.Header())
}

// WriteDocuments converts a batch of documents to CSV rows and writes them.
func (w *Writer) WriteDocuments(docs []domain.Document) error {
	for i := range docs {
		if err := w.csv.Write(w.table.Row(&docs[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// WriteCSV writes the BOM, the header and one row per document.
func WriteCSV(out io.Writer, docs []domain.Document) error {
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := NewWriter(out, NewTable(docs))
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteDocuments(docs); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
