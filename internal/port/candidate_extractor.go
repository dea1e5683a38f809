package port

import (
	"context"

	"talentvet/internal/domain"
)

// ExtractInput carries resume text for structured extraction.
type ExtractInput struct {
	Text string
}

// ExtractOutput is the structured result plus token usage for quota
// accounting.
type ExtractOutput struct {
	Candidate    *domain.StructuredCandidate
	ModelUsed    string
	InputTokens  int
	OutputTokens int
}

// CandidateExtractor abstracts LLM-backed extraction of a candidate record
// from resume text.
type CandidateExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
	Provider() domain.Provider
}
