package preview

import (
	"encoding/base64"
	"fmt"
	"strings"

	"idreview/internal/domain"
	"idreview/internal/port"
)

// Source tells where the displayed image comes from.
type Source string

const (
	SourceLocal    Source = "local"
	SourceDocument Source = "document"
)

// Image is the currently displayable image.
type Image struct {
	Source  Source              `json:"source"`
	Preview *port.PreviewHandle `json:"preview,omitempty"`
	DataURI string              `json:"-"`
}

// Resolve picks the image to display: the local preview when present,
// otherwise the document's embedded image, otherwise none.
func Resolve(local *port.PreviewHandle, doc *domain.Document) (Image, bool) {
	if local != nil {
		h := *local
		return Image{Source: SourceLocal, Preview: &h}, true
	}
	if doc != nil && doc.ImageBase64 != "" {
		return Image{Source: SourceDocument, DataURI: doc.ImageBase64}, true
	}
	return Image{}, false
}

// DecodeDataURI splits a base64 data URI into its content type and payload.
func DecodeDataURI(uri string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", domain.ErrInvalidDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", domain.ErrInvalidDataURI
	}
	contentType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return nil, "", fmt.Errorf("%w: payload is not base64", domain.ErrInvalidDataURI)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrInvalidDataURI, err)
	}
	return data, contentType, nil
}
