package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"talentvet/internal/domain"
	"talentvet/internal/intake"
)

// ScanHandler handles resume scan endpoints.
type ScanHandler struct {
	orchestrator *intake.Orchestrator
	maxBatch     int
}

// NewScanHandler creates a new ScanHandler.
func NewScanHandler(orchestrator *intake.Orchestrator, maxBatch int) *ScanHandler {
	return &ScanHandler{orchestrator: orchestrator, maxBatch: maxBatch}
}

// Scan handles POST /api/v1/scan
func (h *ScanHandler) Scan(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
		return
	}

	outcome, err := h.orchestrator.Scan(c.Request.Context(), intake.ScanRequest{
		Bytes:     data,
		Filename:  header.Filename,
		JDText:    c.PostForm("jd_text"),
		SessionID: c.PostForm("session_id"),
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, outcome)
}

// BatchScan handles POST /api/v1/scan/batch
func (h *ScanHandler) BatchScan(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FORM", "multipart form is required")
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		headers = form.File["file"]
	}
	if len(headers) == 0 {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "at least one file is required")
		return
	}
	// Enforce the cap before buffering anything.
	if len(headers) > h.maxBatch {
		HandleError(c, domain.ErrBatchTooLarge)
		return
	}

	files := make([]intake.ScanFile, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file "+header.Filename)
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file "+header.Filename)
			return
		}
		files = append(files, intake.ScanFile{Bytes: data, Filename: header.Filename})
	}

	jdText := c.PostForm("jd_text")
	sessionID := c.PostForm("session_id")

	result, err := h.orchestrator.BatchScan(c.Request.Context(), files, jdText, sessionID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Promote handles POST /api/v1/promote
func (h *ScanHandler) Promote(c *gin.Context) {
	var req struct {
		ContentHash string `json:"content_hash" binding:"required"`
		SessionID   string `json:"session_id" binding:"required"`
		Provider    string `json:"provider"`
		Actor       string `json:"actor"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "content_hash and session_id are required")
		return
	}

	decision, err := h.orchestrator.Promote(c.Request.Context(),
		req.ContentHash, req.SessionID, req.Actor, domain.Provider(req.Provider))
	if err != nil {
		HandleError(c, err)
		return
	}
	if decision.Kind == domain.DecisionCreate {
		RespondCreated(c, decision)
		return
	}
	RespondOK(c, decision)
}
