package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"talentvet/internal/dedup"
	"talentvet/internal/domain"
)

// DuplicateHandler handles duplicate-check audit endpoints.
type DuplicateHandler struct {
	resolver *dedup.Resolver
}

// NewDuplicateHandler creates a new DuplicateHandler.
func NewDuplicateHandler(resolver *dedup.Resolver) *DuplicateHandler {
	return &DuplicateHandler{resolver: resolver}
}

// ListChecks handles GET /api/v1/duplicates/:hash
func (h *DuplicateHandler) ListChecks(c *gin.Context) {
	checks, err := h.resolver.ChecksFor(c.Request.Context(), c.Param("hash"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, checks)
}

// Resolve handles POST /api/v1/duplicates/:id/resolve
func (h *DuplicateHandler) Resolve(c *gin.Context) {
	checkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_CHECK_ID", "check id must be a UUID")
		return
	}

	var req struct {
		Resolution string `json:"resolution" binding:"required"`
		Actor      string `json:"actor"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "resolution is required")
		return
	}

	resolution := domain.Resolution(req.Resolution)
	switch resolution {
	case domain.ResolutionSkip, domain.ResolutionMerge, domain.ResolutionForceCreate:
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_RESOLUTION", "resolution must be skip, merge, or force_create")
		return
	}

	if err := h.resolver.Resolve(c.Request.Context(), checkID, resolution, req.Actor); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "resolved"})
}
