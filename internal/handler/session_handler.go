package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"idreview/internal/domain"
	"idreview/internal/service"
)

// SessionHandler handles editor session endpoints.
type SessionHandler struct {
	sessions       service.SessionService
	maxUploadBytes int64
}

// NewSessionHandler creates a new SessionHandler. Uploads above maxUploadBytes are rejected.
func NewSessionHandler(sessions service.SessionService, maxUploadBytes int64) *SessionHandler {
	return &SessionHandler{sessions: sessions, maxUploadBytes: maxUploadBytes}
}

// loadSession resolves the :id path parameter to an open session.
// Returns false if it cannot (error response already written).
func (h *SessionHandler) loadSession(c *gin.Context) (*service.Session, bool) {
	id, ok := parseSessionID(c)
	if !ok {
		return nil, false
	}
	sess, err := h.sessions.Get(id)
	if err != nil {
		HandleError(c, err)
		return nil, false
	}
	return sess, true
}

func sessionResponse(sess *service.Session) SessionResponse {
	return SessionResponse{
		ID:        sess.ID,
		CreatedAt: sess.CreatedAt,
		View:      sess.Controller.View(),
	}
}

// Create handles POST /api/v1/sessions
// @Summary Open an editor session
// @Description Creates a session and loads the recent history. A history failure is reported in view.error.
// @Tags sessions
// @Produce json
// @Success 201 {object} Response{data=SessionResponse} "Session created"
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	sess, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, sessionResponse(sess))
}

// Get handles GET /api/v1/sessions/:id
// @Summary Get session state
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=SessionResponse}
// @Failure 404 {object} ErrorResponseBody "Session not found"
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	RespondOK(c, sessionResponse(sess))
}

// Delete handles DELETE /api/v1/sessions/:id
// @Summary Close a session
// @Description Closes the session and releases its local preview.
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=MessageResponse}
// @Failure 404 {object} ErrorResponseBody "Session not found"
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	if err := h.sessions.Close(id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, MessageResponse{Message: "session closed"})
}

// SelectFile handles POST /api/v1/sessions/:id/file
// @Summary Select a local image
// @Description Replaces the current document or file with an unsaved image (JPG, PNG, WEBP).
// @Tags sessions
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param image formData file true "Image of an ID document"
// @Success 200 {object} Response{data=session.View}
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Router /sessions/{id}/file [post]
func (h *SessionHandler) SelectFile(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "image field is required")
		return
	}
	defer func() { _ = file.Close() }()

	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		HandleError(c, domain.ErrFileTooLarge)
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
		return
	}

	local := &domain.LocalFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}
	if err := sess.Controller.SelectFile(local); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess.Controller.View())
}

// ClearFile handles DELETE /api/v1/sessions/:id/file
// @Summary Drop the selected image
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=session.View}
// @Router /sessions/{id}/file [delete]
func (h *SessionHandler) ClearFile(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	if err := sess.Controller.ClearFile(); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess.Controller.View())
}

// Extract handles POST /api/v1/sessions/:id/extract
// @Summary Classify the selected image
// @Description Sends the selected image to the classifier. The result is persisted server-side and loaded for review.
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=session.View}
// @Failure 400 {object} ErrorResponseBody "No file selected"
// @Failure 409 {object} ErrorResponseBody "Another request is in progress"
// @Failure 502 {object} ErrorResponseBody "Classifier error"
// @Router /sessions/{id}/extract [post]
func (h *SessionHandler) Extract(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	if _, err := sess.Controller.SubmitExtract(c.Request.Context()); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess.Controller.View())
}

// EditField handles PUT /api/v1/sessions/:id/fields/:key
// @Summary Edit a feature value
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param key path string true "Feature name"
// @Param body body EditFieldRequest true "New display value"
// @Success 200 {object} Response{data=session.View}
// @Failure 400 {object} ErrorResponseBody "No document or unknown field"
// @Router /sessions/{id}/fields/{key} [put]
func (h *SessionHandler) EditField(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	var req EditFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := sess.Controller.EditField(c.Param("key"), *req.Value); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess.Controller.View())
}

// Save handles POST /api/v1/sessions/:id/save
// @Summary Save edited features
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=session.View}
// @Failure 400 {object} ErrorResponseBody "No document loaded"
// @Failure 409 {object} ErrorResponseBody "Nothing to save or save in progress"
// @Failure 502 {object} ErrorResponseBody "Document store error"
// @Router /sessions/{id}/save [post]
func (h *SessionHandler) Save(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	if _, err := sess.Controller.SaveChanges(c.Request.Context()); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess.Controller.View())
}

// Reset handles POST /api/v1/sessions/:id/reset
// @Summary Return to the empty state
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=session.View}
// @Router /sessions/{id}/reset [post]
func (h *SessionHandler) Reset(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	if err := sess.Controller.Reset(); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess.Controller.View())
}

// Dismiss handles POST /api/v1/sessions/:id/dismiss
// @Summary Clear error and success messages
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=session.View}
// @Router /sessions/{id}/dismiss [post]
func (h *SessionHandler) Dismiss(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	if err := sess.Controller.Dismiss(); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess.Controller.View())
}

// Image handles GET /api/v1/sessions/:id/image
// @Summary Current display image
// @Description Streams the local preview when a file is selected, otherwise the loaded document's image.
// @Tags sessions
// @Produce image/jpeg,image/png,image/webp
// @Param id path string true "Session ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponseBody "Nothing to display"
// @Router /sessions/{id}/image [get]
func (h *SessionHandler) Image(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	data, contentType, err := sess.Controller.DisplayImage()
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentType, data)
}
