package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"talentvet/internal/domain"
	"talentvet/internal/parser"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unsupported type", domain.ErrUnsupportedType, http.StatusBadRequest, "UNSUPPORTED_TYPE"},
		{"oversized", domain.ErrOversizedDocument, http.StatusRequestEntityTooLarge, "OVERSIZED_DOCUMENT"},
		{"empty", domain.ErrEmptyDocument, http.StatusBadRequest, "EMPTY_DOCUMENT"},
		{"corrupt", domain.ErrCorruptDocument, http.StatusUnprocessableEntity, "CORRUPT_DOCUMENT"},
		{"batch too large", domain.ErrBatchTooLarge, http.StatusBadRequest, "BATCH_TOO_LARGE"},
		{"extraction unavailable", domain.ErrExtractionUnavailable, http.StatusServiceUnavailable, "EXTRACTION_UNAVAILABLE"},
		{"extraction parse", domain.ErrExtractionParse, http.StatusUnprocessableEntity, "EXTRACTION_PARSE"},
		{"quota", domain.ErrQuotaExceeded, http.StatusTooManyRequests, "QUOTA_EXCEEDED"},
		{"rate limited", parser.NewRateLimitError("gemini", fmt.Errorf("status 429"), 30), http.StatusTooManyRequests, "RATE_LIMITED"},
		{"timeout", domain.ErrTimeout, http.StatusGatewayTimeout, "TIMEOUT"},
		{"session not found", domain.ErrSessionNotFound, http.StatusNotFound, "SESSION_NOT_FOUND"},
		{"scan not found", domain.ErrScanNotFound, http.StatusNotFound, "SCAN_NOT_FOUND"},
		{"not approved", domain.ErrNotApproved, http.StatusConflict, "NOT_APPROVED"},
		{"provider unavailable", domain.ErrProviderUnavailable, http.StatusServiceUnavailable, "PROVIDER_UNAVAILABLE"},
		{"candidate not found", domain.ErrCandidateNotFound, http.StatusNotFound, "CANDIDATE_NOT_FOUND"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, msg := MapDomainError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestMapDomainError_Wrapped(t *testing.T) {
	err := fmt.Errorf("scanning resume.pdf: %w", domain.ErrCorruptDocument)
	status, code, _ := MapDomainError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "CORRUPT_DOCUMENT", code)
}
