package authenticity

import (
	"regexp"

	"talentvet/internal/domain"
)

var (
	linkedinPattern = regexp.MustCompile(`(?i)linkedin\.com/in/[A-Za-z0-9_-]+`)
	otherProfiles   = regexp.MustCompile(`(?i)(github\.com|gitlab\.com|stackoverflow\.com/users|medium\.com/@)[/\w.-]*`)
)

// scoreProfile grades professional profile presence: 100 for a LinkedIn
// profile URL, 70 for another recognized professional profile, 0 otherwise.
func scoreProfile(text string, diag *domain.Diagnostics) float64 {
	if url := linkedinPattern.FindString(text); url != "" {
		diag.ProfileURL = url
		return 100
	}
	if url := otherProfiles.FindString(text); url != "" {
		diag.ProfileURL = url
		return 70
	}
	return 0
}
