package preview

import (
	"net/http"
	"path/filepath"
	"strings"

	"idreview/internal/domain"
)

// Validate checks an uploaded file against the accepted image types and the size limit.
// The content type is sniffed when the client sent none or a generic one.
func Validate(file *domain.LocalFile, maxBytes int64) error {
	if file == nil || len(file.Data) == 0 {
		return domain.ErrEmptyFile
	}
	if maxBytes > 0 && file.Size() > maxBytes {
		return domain.ErrFileTooLarge
	}
	if file.ContentType == "" || file.ContentType == "application/octet-stream" {
		file.ContentType = detectContentType(file)
	}
	if !domain.AllowedContentTypes[file.ContentType] {
		return domain.ErrUnsupportedFileType
	}
	return nil
}

func detectContentType(file *domain.LocalFile) string {
	sniffed := http.DetectContentType(file.Data)
	if domain.AllowedContentTypes[sniffed] {
		return sniffed
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Name)), ".")
	if ct, ok := domain.AllowedExtensions[ext]; ok {
		return ct
	}
	return sniffed
}
