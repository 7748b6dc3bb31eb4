package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"idreview/internal/export"
)

// ListHistory handles GET /api/v1/sessions/:id/history
// @Summary Recent documents
// @Description Returns the cached most-recent-first history list.
// @Tags history
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=[]session.HistoryEntry}
// @Router /sessions/{id}/history [get]
func (h *SessionHandler) ListHistory(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	RespondOK(c, sess.Controller.View().History)
}

// RefreshHistory handles POST /api/v1/sessions/:id/history/refresh
// @Summary Reload the history list
// @Tags history
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=[]session.HistoryEntry}
// @Failure 409 {object} ErrorResponseBody "Another request is in progress"
// @Failure 502 {object} ErrorResponseBody "Document store error"
// @Router /sessions/{id}/history/refresh [post]
func (h *SessionHandler) RefreshHistory(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	if err := sess.Controller.RefreshHistory(c.Request.Context()); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess.Controller.View().History)
}

// LoadHistory handles POST /api/v1/sessions/:id/history/:docID/load
// @Summary Load a history document
// @Description Makes the document current. Unsaved edits to the previous document are discarded.
// @Tags history
// @Produce json
// @Param id path string true "Session ID"
// @Param docID path int true "Document ID"
// @Success 200 {object} Response{data=session.View}
// @Failure 404 {object} ErrorResponseBody "Document not in history"
// @Router /sessions/{id}/history/{docID}/load [post]
func (h *SessionHandler) LoadHistory(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	docID, err := strconv.ParseInt(c.Param("docID"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}
	if _, err := sess.Controller.SelectFromHistory(docID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess.Controller.View())
}

// ExportHistory handles GET /api/v1/sessions/:id/history/export
// @Summary Export the history list
// @Tags history
// @Produce text/csv,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Session ID"
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponseBody "Unsupported format"
// @Router /sessions/{id}/history/export [get]
func (h *SessionHandler) ExportHistory(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, sess.Controller.History()); err != nil {
		HandleError(c, fmt.Errorf("exporting history for session %s: %w", sess.ID, err))
		return
	}

	filename := export.BuildFilename("id_review_history", format, time.Now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
