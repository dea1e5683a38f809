package authenticity

import (
	"fmt"
	"math"

	"talentvet/internal/domain"
)

// Weights holds the component weights for the overall authenticity score.
// They must sum to 1.0.
type Weights struct {
	FontConsistency           float64
	GrammarQuality            float64
	FormattingConsistency     float64
	SuspiciousPatterns        float64
	StructureConsistency      float64
	LinkedInProfile           float64
	CapitalizationConsistency float64
}

// DefaultWeights returns the production weighting.
func DefaultWeights() Weights {
	return Weights{
		FontConsistency:           0.20,
		GrammarQuality:            0.20,
		FormattingConsistency:     0.15,
		SuspiciousPatterns:        0.10,
		StructureConsistency:      0.10,
		LinkedInProfile:           0.15,
		CapitalizationConsistency: 0.10,
	}
}

// Validate checks that the weights sum to 1.0 within tolerance.
func (w Weights) Validate() error {
	sum := w.FontConsistency + w.GrammarQuality + w.FormattingConsistency +
		w.SuspiciousPatterns + w.StructureConsistency + w.LinkedInProfile +
		w.CapitalizationConsistency
	if math.Abs(sum-1.0) > 0.001 {
		return fmt.Errorf("authenticity weights sum to %.3f, want 1.0", sum)
	}
	return nil
}

// Analyzer scores resumes on weighted heuristics. It is stateless and safe
// for concurrent use.
type Analyzer struct {
	weights Weights
}

// NewAnalyzer creates an Analyzer with the given weights.
func NewAnalyzer(weights Weights) *Analyzer {
	return &Analyzer{weights: weights}
}

// Analyze scores the resume text plus structural metadata. It never fails:
// every heuristic degrades to a neutral score when its inputs are missing.
func (a *Analyzer) Analyze(text string, structure domain.StructureInfo) *domain.AuthenticityReport {
	report := &domain.AuthenticityReport{}

	report.FontConsistency = scoreFontConsistency(structure, &report.Diagnostics)
	report.GrammarQuality = scoreGrammar(text, &report.Diagnostics)
	report.FormattingConsistency = scoreFormatting(structure)
	report.SuspiciousPatterns = scoreSuspiciousPatterns(text)
	report.StructureConsistency = scoreStructureConsistency(structure)
	report.LinkedInProfile = scoreProfile(text, &report.Diagnostics)
	report.CapitalizationConsistency = scoreCapitalization(text, &report.Diagnostics)

	w := a.weights
	overall := w.FontConsistency*report.FontConsistency +
		w.GrammarQuality*report.GrammarQuality +
		w.FormattingConsistency*report.FormattingConsistency +
		w.SuspiciousPatterns*report.SuspiciousPatterns +
		w.StructureConsistency*report.StructureConsistency +
		w.LinkedInProfile*report.LinkedInProfile +
		w.CapitalizationConsistency*report.CapitalizationConsistency
	report.Overall = math.Round(overall*10) / 10

	report.Flags = deriveFlags(report)
	return report
}

// deriveFlags maps component scores to reviewer-facing flags.
func deriveFlags(r *domain.AuthenticityReport) []domain.Flag {
	flags := []domain.Flag{}
	switch {
	case r.LinkedInProfile == 0:
		flags = append(flags, domain.Flag{
			Severity: domain.SeverityHigh,
			Category: "Professional Profile",
			Message:  "No LinkedIn profile found",
		})
	case r.LinkedInProfile == 70:
		flags = append(flags, domain.Flag{
			Severity: domain.SeverityLow,
			Category: "Professional Profile",
			Message:  "No LinkedIn profile, but another professional profile is present",
		})
	}
	if r.CapitalizationConsistency < 60 {
		flags = append(flags, domain.Flag{
			Severity: domain.SeverityMedium,
			Category: "Capitalization",
			Message:  "Inconsistent capitalization",
		})
	}
	if r.GrammarQuality < 60 {
		flags = append(flags, domain.Flag{
			Severity: domain.SeverityMedium,
			Category: "Grammar",
			Message:  "Low grammar quality",
		})
	}
	if r.FontConsistency < 70 {
		flags = append(flags, domain.Flag{
			Severity: domain.SeverityLow,
			Category: "Fonts",
			Message:  "Many distinct fonts in use",
		})
	}
	if r.SuspiciousPatterns < 70 {
		flags = append(flags, domain.Flag{
			Severity: domain.SeverityHigh,
			Category: "Patterns",
			Message:  "Potential template usage",
		})
	}
	return flags
}
