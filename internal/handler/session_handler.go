package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"talentvet/internal/export"
	"talentvet/internal/session"
)

// SessionHandler handles vetting session endpoints.
type SessionHandler struct {
	sessions *session.Store
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions *session.Store) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Get handles GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, s)
}

// ListScans handles GET /api/v1/sessions/:id/scans
func (h *SessionHandler) ListScans(c *gin.Context) {
	outcomes, err := h.sessions.ListScanned(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, outcomes)
}

// ListApproved handles GET /api/v1/sessions/:id/approved
func (h *SessionHandler) ListApproved(c *gin.Context) {
	outcomes, err := h.sessions.GetApproved(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, outcomes)
}

// Approve handles POST /api/v1/sessions/:id/approve/:hash
func (h *SessionHandler) Approve(c *gin.Context) {
	if err := h.sessions.MarkApproved(c.Param("id"), c.Param("hash")); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "approved"})
}

// Reject handles POST /api/v1/sessions/:id/reject/:hash
func (h *SessionHandler) Reject(c *gin.Context) {
	if err := h.sessions.MarkRejected(c.Param("id"), c.Param("hash")); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "rejected"})
}

// BulkApprove handles POST /api/v1/sessions/:id/bulk-approve
func (h *SessionHandler) BulkApprove(c *gin.Context) {
	var req struct {
		MinScore float64 `json:"min_score"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "min_score is required")
		return
	}

	approved, err := h.sessions.BulkApproveByScore(c.Param("id"), req.MinScore)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"approved": approved})
}

// Delete handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	h.sessions.Clear(c.Param("id"))
	RespondOK(c, gin.H{"status": "deleted"})
}

// Export handles GET /api/v1/sessions/:id/export
func (h *SessionHandler) Export(c *gin.Context) {
	sessionID := c.Param("id")
	outcomes, err := h.sessions.ListScanned(sessionID)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="session-%s.xlsx"`, sessionID))
	if err := export.WriteWorkbook(c.Writer, sessionID, outcomes); err != nil {
		HandleError(c, err)
	}
}
