package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"talentvet/internal/domain"
	"talentvet/internal/quota"
)

// QuotaHandler handles provider quota endpoints.
type QuotaHandler struct {
	tracker *quota.Tracker
}

// NewQuotaHandler creates a new QuotaHandler.
func NewQuotaHandler(tracker *quota.Tracker) *QuotaHandler {
	return &QuotaHandler{tracker: tracker}
}

// Usage handles GET /api/v1/quota
func (h *QuotaHandler) Usage(c *gin.Context) {
	RespondOK(c, h.tracker.All())
}

// Check handles GET /api/v1/quota/check/:provider
func (h *QuotaHandler) Check(c *gin.Context) {
	provider := domain.Provider(c.Param("provider"))
	switch provider {
	case domain.ProviderGemini, domain.ProviderOpenAI:
	default:
		RespondError(c, http.StatusBadRequest, "UNKNOWN_PROVIDER", "provider must be gemini or openai")
		return
	}

	allowed, warning := h.tracker.CanRequest(provider)
	RespondOK(c, gin.H{
		"provider": provider,
		"allowed":  allowed,
		"warning":  warning,
		"stats":    h.tracker.StatsFor(provider),
	})
}

// Reset handles POST /api/v1/quota/reset
func (h *QuotaHandler) Reset(c *gin.Context) {
	h.tracker.Reset()
	RespondOK(c, gin.H{"status": "reset"})
}
