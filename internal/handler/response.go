package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"idreview/internal/domain"
	"idreview/internal/gateway"
	"idreview/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var remote *gateway.RemoteError
	if errors.As(err, &remote) {
		return http.StatusBadGateway, "REMOTE_ERROR", remote.UserMessage()
	}

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "SESSION_NOT_FOUND", "session not found"
	case errors.Is(err, domain.ErrSessionClosed):
		return http.StatusGone, "SESSION_CLOSED", "session is closed"
	case errors.Is(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound, "DOCUMENT_NOT_FOUND", "document is not in the recent history"
	case errors.Is(err, domain.ErrNoFileSelected):
		return http.StatusBadRequest, "NO_FILE_SELECTED", "Please select an image file first."
	case errors.Is(err, domain.ErrNoDocument):
		return http.StatusBadRequest, "NO_DOCUMENT", "No document loaded or no features to save."
	case errors.Is(err, domain.ErrNothingToSave):
		return http.StatusConflict, "NOTHING_TO_SAVE", "there are no unsaved changes"
	case errors.Is(err, domain.ErrBusy):
		return http.StatusConflict, "BUSY", "another request is in progress for this session"
	case errors.Is(err, domain.ErrUnknownField):
		return http.StatusBadRequest, "UNKNOWN_FIELD", "the document has no such feature"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: jpg, png, webp"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrEmptyFile):
		return http.StatusBadRequest, "EMPTY_FILE", "file is empty"
	case errors.Is(err, domain.ErrNoImage):
		return http.StatusNotFound, "NO_IMAGE", "no image to display"
	case errors.Is(err, domain.ErrPreviewNotFound), errors.Is(err, domain.ErrPreviewReleased):
		return http.StatusNotFound, "PREVIEW_NOT_FOUND", "preview is no longer available"
	case errors.Is(err, domain.ErrInvalidDataURI):
		return http.StatusBadGateway, "INVALID_IMAGE", "stored document image could not be decoded"
	case errors.Is(err, domain.ErrUnsupportedExport):
		return http.StatusBadRequest, "UNSUPPORTED_EXPORT_FORMAT", "unsupported export format; allowed: csv, xlsx"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get(middleware.ContextKeyRequestID)
		log.Printf("[%s] %s: %v", requestID, code, err)
	}
	RespondError(c, status, code, msg)
}

// parseSessionID reads the :id path parameter.
// Returns false if it is not a UUID (error response already written).
func parseSessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid session ID")
		return uuid.Nil, false
	}
	return id, true
}
