package domain

// NotFoundDisplay is the display string for a feature the classifier could not extract.
// It maps to a nil value and is never stored as text.
const NotFoundDisplay = "N/A"

// Features maps a schema-derived field name to its extracted value.
// A nil value means the classifier found nothing, which is distinct from "".
type Features map[string]*string

// Clone returns a deep copy so the copy's values can be edited independently.
func (f Features) Clone() Features {
	if f == nil {
		return Features{}
	}
	out := make(Features, len(f))
	for k, v := range f {
		if v == nil {
			out[k] = nil
			continue
		}
		val := *v
		out[k] = &val
	}
	return out
}

// Equal compares two feature maps key for key, ignoring iteration order.
// A nil value and the NotFoundDisplay string are both treated as unset.
func (f Features) Equal(other Features) bool {
	if len(f) != len(other) {
		return false
	}
	for k, v := range f {
		ov, ok := other[k]
		if !ok {
			return false
		}
		a, aSet := normalize(v)
		b, bSet := normalize(ov)
		if aSet != bSet || a != b {
			return false
		}
	}
	return true
}

func normalize(v *string) (string, bool) {
	if v == nil || *v == NotFoundDisplay {
		return "", false
	}
	return *v, true
}

// Document is a persisted record pairing an image with classifier-extracted fields.
type Document struct {
	ID               int64     `json:"id"`
	OriginalFilename string    `json:"original_filename"`
	ImageBase64      string    `json:"image_base64"`
	DocumentType     string    `json:"document_type"`
	Features         Features  `json:"features"`
	CreatedAt        Timestamp `json:"created_at"`
	UpdatedAt        Timestamp `json:"updated_at"`
}

// Clone returns a copy of the document with its own features map.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.Features = d.Features.Clone()
	return &out
}

// LocalFile is an image chosen by the user that has not been sent to the classifier yet.
type LocalFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the file length in bytes.
func (f *LocalFile) Size() int64 {
	return int64(len(f.Data))
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string {
	return &s
}
