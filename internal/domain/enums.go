package domain

// Phase names which of the mutually exclusive session shapes is current.
type Phase string

const (
	PhaseEmpty          Phase = "empty"
	PhaseFileSelected   Phase = "file_selected"
	PhaseExtracting     Phase = "extracting"
	PhaseDocumentLoaded Phase = "document_loaded"
)

// DocumentType labels returned by the classifier.
const (
	DocumentTypePassport       = "passport"
	DocumentTypeDriversLicense = "drivers_license"
	DocumentTypeEADCard        = "ead_card"
)

// AllowedContentTypes lists the image types accepted for upload.
var AllowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// AllowedExtensions maps file extensions (without dot) to their content type.
var AllowedExtensions = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
}
