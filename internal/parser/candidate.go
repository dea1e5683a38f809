package parser

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"talentvet/internal/domain"
	"talentvet/internal/matcher"
)

// ParseCandidateJSON strips surrounding code fences from an LLM response,
// parses it as a StructuredCandidate, and runs the validation pass.
func ParseCandidateJSON(raw string) (*domain.StructuredCandidate, error) {
	cleaned := StripFences(raw)

	var candidate domain.StructuredCandidate
	if err := json.Unmarshal([]byte(cleaned), &candidate); err != nil {
		return nil, fmt.Errorf("%w: %v (raw: %s)", domain.ErrExtractionParse, err, truncate(cleaned, 300))
	}
	if err := validateCandidate(&candidate); err != nil {
		return nil, err
	}
	return &candidate, nil
}

// validateCandidate normalizes the record in place: rejects garbage names,
// coerces nil lists to empty, and derives experience totals.
func validateCandidate(c *domain.StructuredCandidate) error {
	// A skill keyword in the name field means the model mixed up columns.
	if c.Name != "" && len(matcher.KnownSkills(c.Name)) > 0 {
		return fmt.Errorf("%w: name %q contains skill keywords", domain.ErrExtractionParse, c.Name)
	}

	if c.OtherURLs == nil {
		c.OtherURLs = []string{}
	}
	if c.Experience == nil {
		c.Experience = []domain.Experience{}
	}
	if c.Education == nil {
		c.Education = []domain.Education{}
	}
	if c.Skills == nil {
		c.Skills = []domain.Skill{}
	}
	if c.Certifications == nil {
		c.Certifications = []string{}
	}
	if c.Languages == nil {
		c.Languages = []string{}
	}
	if c.Projects == nil {
		c.Projects = []domain.Project{}
	}
	for i := range c.Experience {
		if c.Experience[i].Responsibilities == nil {
			c.Experience[i].Responsibilities = []string{}
		}
	}

	total := 0
	for _, exp := range c.Experience {
		if exp.DurationMonths != nil {
			total += *exp.DurationMonths
		}
	}
	c.TotalExperienceMonths = total
	c.TotalExperienceYears = math.Round(float64(total)/12*10) / 10
	return nil
}

// StripFences removes a surrounding markdown code fence, if present.
func StripFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	}
	return strings.TrimSpace(trimmed)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
