// Package editbuffer holds the user's working copy of a document's extracted fields.
package editbuffer

import (
	"sort"

	"idreview/internal/domain"
)

// Buffer is a mutable copy of a document's features, detached from the last-saved snapshot.
type Buffer struct {
	values domain.Features
}

// Load copies the document's features into a new buffer. A nil document yields an empty buffer.
func Load(doc *domain.Document) *Buffer {
	if doc == nil {
		return &Buffer{values: domain.Features{}}
	}
	return &Buffer{values: doc.Features.Clone()}
}

// Set stores the display value for key. NotFoundDisplay is stored as nil.
// It reports false and changes nothing for a nil buffer or a key outside the schema.
func (b *Buffer) Set(key, display string) bool {
	if b == nil {
		return false
	}
	if _, ok := b.values[key]; !ok {
		return false
	}
	if display == domain.NotFoundDisplay {
		b.values[key] = nil
		return true
	}
	b.values[key] = domain.StrPtr(display)
	return true
}

// Value returns the stored value for key; nil means unset.
func (b *Buffer) Value(key string) (*string, bool) {
	if b == nil {
		return nil, false
	}
	v, ok := b.values[key]
	return v, ok
}

// Display returns the value as shown to the user.
func (b *Buffer) Display(key string) string {
	v, _ := b.Value(key)
	return DisplayValue(v)
}

// Keys returns the field names in sorted order.
func (b *Buffer) Keys() []string {
	if b == nil {
		return nil
	}
	keys := make([]string, 0, len(b.values))
	for k := range b.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Features returns a copy of the buffered values, suitable as an update payload.
func (b *Buffer) Features() domain.Features {
	if b == nil {
		return nil
	}
	return b.values.Clone()
}

// Clone returns an independent copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	if b == nil {
		return nil
	}
	return &Buffer{values: b.values.Clone()}
}

// IsDirty reports whether buf differs from the document's current features.
func IsDirty(doc *domain.Document, buf *Buffer) bool {
	if doc == nil || buf == nil {
		return false
	}
	return !buf.values.Equal(doc.Features)
}

// DisplayValue renders a stored value, mapping nil to NotFoundDisplay.
func DisplayValue(v *string) string {
	if v == nil {
		return domain.NotFoundDisplay
	}
	return *v
}
