package matcher

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"talentvet/internal/domain"
)

var yearsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s*\+?\s*years?\s+of\s+experience`),
	regexp.MustCompile(`(?i)(\d+)\s*\+?\s*years?\s+experience`),
	regexp.MustCompile(`(?i)experience\s*(?:of|:)?\s*(\d+)\s*\+?\s*years?`),
	regexp.MustCompile(`(?i)(\d+)\s*\+?\s*(?:years?|yrs?)`),
}

// degreeLevels maps degree keywords to a comparable hierarchy.
var degreeLevels = map[string]int{
	"diploma":   1,
	"associate": 1,
	"bachelor":  2,
	"b.tech":    2,
	"btech":     2,
	"b.sc":      2,
	"bsc":       2,
	"b.e":       2,
	"master":    3,
	"m.tech":    3,
	"mtech":     3,
	"m.sc":      3,
	"msc":       3,
	"mba":       3,
	"phd":       4,
	"ph.d":      4,
	"doctorate": 4,
}

// Matcher scores resume text against a job description. Stateless.
type Matcher struct{}

// NewMatcher creates a Matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Match produces a MatchReport with skills, experience, and education
// sub-scores weighted 0.50/0.30/0.20.
func (m *Matcher) Match(resumeText, jdText string) *domain.MatchReport {
	report := &domain.MatchReport{}

	resumeSkills := extractSkills(resumeText)
	jdSkills := extractSkills(jdText)
	report.SkillsMatch = m.scoreSkills(resumeSkills, jdSkills, report)
	report.ExperienceMatch = m.scoreExperience(resumeText, jdText, report)
	report.EducationMatch = m.scoreEducation(resumeText, jdText, report)

	overall := 0.50*report.SkillsMatch + 0.30*report.ExperienceMatch + 0.20*report.EducationMatch
	report.Overall = math.Round(overall*10) / 10

	if len(report.MissingSkills) > 0 {
		report.Details = append(report.Details,
			"Missing skills: "+strings.Join(report.MissingSkills, ", "))
	}
	return report
}

// scoreSkills compares the resume's known skills to the JD's. Extra skills
// beyond the JD earn a small bonus.
func (m *Matcher) scoreSkills(resumeSkills, jdSkills []string, report *domain.MatchReport) float64 {
	report.MatchedSkills = []string{}
	report.MissingSkills = []string{}

	if len(jdSkills) == 0 {
		return 75
	}

	resumeSet := make(map[string]bool, len(resumeSkills))
	for _, s := range resumeSkills {
		resumeSet[s] = true
	}
	jdSet := make(map[string]bool, len(jdSkills))
	for _, s := range jdSkills {
		jdSet[s] = true
		if resumeSet[s] {
			report.MatchedSkills = append(report.MatchedSkills, s)
		} else {
			report.MissingSkills = append(report.MissingSkills, s)
		}
	}
	extra := 0
	for _, s := range resumeSkills {
		if !jdSet[s] {
			extra++
		}
	}
	sort.Strings(report.MatchedSkills)
	sort.Strings(report.MissingSkills)

	score := float64(len(report.MatchedSkills))/float64(len(jdSkills))*100 +
		math.Min(2*float64(extra), 10)
	if score > 100 {
		score = 100
	}
	return score
}

// scoreExperience compares years of experience parsed from both texts.
func (m *Matcher) scoreExperience(resumeText, jdText string, report *domain.MatchReport) float64 {
	jdYears := parseYears(jdText)
	resumeYears := parseYears(resumeText)

	switch {
	case jdYears == 0 && resumeYears > 0:
		return 80
	case jdYears == 0:
		return 60
	case resumeYears == 0:
		report.Details = append(report.Details,
			fmt.Sprintf("Job requires %d years of experience; none stated on resume", jdYears))
		return 50
	}

	gap := resumeYears - jdYears
	if gap >= 0 {
		switch {
		case gap <= 2:
			return 100
		case gap <= 5:
			return 95
		default:
			return 85
		}
	}
	shortfall := -gap
	report.Details = append(report.Details,
		fmt.Sprintf("Resume is %d year(s) short of the required %d years", shortfall, jdYears))
	switch {
	case shortfall <= 1:
		return 80
	case shortfall <= 2:
		return 60
	default:
		return 40
	}
}

// parseYears returns the largest years-of-experience figure found in text,
// or 0 when none is stated. English-only patterns.
func parseYears(text string) int {
	best := 0
	for _, re := range yearsPatterns {
		for _, match := range re.FindAllStringSubmatch(text, -1) {
			if n, err := strconv.Atoi(match[1]); err == nil && n > best && n < 60 {
				best = n
			}
		}
	}
	return best
}

// scoreEducation compares degree keywords and levels between JD and resume.
func (m *Matcher) scoreEducation(resumeText, jdText string, report *domain.MatchReport) float64 {
	jdKeywords, jdLevel := findDegrees(jdText)
	resumeKeywords, resumeLevel := findDegrees(resumeText)

	if len(jdKeywords) == 0 {
		if len(resumeKeywords) > 0 {
			return 85
		}
		return 70
	}

	resumeSet := make(map[string]bool, len(resumeKeywords))
	for _, k := range resumeKeywords {
		resumeSet[k] = true
	}
	matched := 0
	for _, k := range jdKeywords {
		if resumeSet[k] {
			matched++
		}
	}
	score := float64(matched) / float64(len(jdKeywords)) * 100
	if resumeLevel >= jdLevel {
		score += 20
	} else {
		score -= 20
		report.Details = append(report.Details,
			"Resume education level is below the job requirement")
	}
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// findDegrees returns the degree keywords present and the highest level.
func findDegrees(text string) ([]string, int) {
	lower := strings.ToLower(text)
	var found []string
	level := 0
	for kw, lvl := range degreeLevels {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
			if lvl > level {
				level = lvl
			}
		}
	}
	sort.Strings(found)
	return found, level
}
