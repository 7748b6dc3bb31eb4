// Package export renders the history list as CSV or XLSX.
package export

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"idreview/internal/domain"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" (the default when empty) or "xlsx".
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedExport, s)
	}
}

// ContentType returns the MIME type of files in this format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Table fixes the column layout for a set of documents. Documents of different
// types carry different feature keys, so the feature columns are the sorted union.
type Table struct {
	FeatureKeys []string
}

// NewTable derives the column layout from docs.
func NewTable(docs []domain.Document) Table {
	seen := make(map[string]bool)
	var keys []string
	for i := range docs {
		for k := range docs[i].Features {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return Table{FeatureKeys: keys}
}

// Header returns the header row.
func (t Table) Header() []string {
	row := make([]string, 0, len(t.FeatureKeys)+5)
	row = append(row, "ID", "Filename", "Document Type")
	row = append(row, t.FeatureKeys...)
	return append(row, "Created At", "Updated At")
}

// Row converts doc to a row aligned with Header. Features the classifier did not
// extract show as N/A; keys the document does not have are left empty.
func (t Table) Row(doc *domain.Document) []string {
	row := make([]string, 0, len(t.FeatureKeys)+5)
	row = append(row, strconv.FormatInt(doc.ID, 10), doc.OriginalFilename, doc.DocumentType)
	for _, k := range t.FeatureKeys {
		v, ok := doc.Features[k]
		switch {
		case !ok:
			row = append(row, "")
		case v == nil:
			row = append(row, domain.NotFoundDisplay)
		default:
			row = append(row, *v)
		}
	}
	return append(row, formatTime(doc.CreatedAt), formatTime(doc.UpdatedAt))
}

func formatTime(t domain.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition header.
// Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name string, format Format, now time.Time) string {
	sanitized := SanitizeFilename(name)
	if sanitized == "" {
		sanitized = "history"
	}
	return fmt.Sprintf("%s_%s.%s", sanitized, now.Format("2006-01-02"), format)
}
