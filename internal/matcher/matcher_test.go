package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const backendJD = `We are hiring a backend engineer.
Required: java, python, kubernetes, aws.
Candidates need 3+ years experience.`

const partialResume = `John Smith
Backend developer with 4 years of experience.
Strong in Java and Python services.`

func TestMatch_PartialSkillOverlap(t *testing.T) {
	m := NewMatcher()
	report := m.Match(partialResume, backendJD)

	// 2 of 4 required skills present, no extras.
	assert.Equal(t, 50.0, report.SkillsMatch)
	assert.Equal(t, []string{"java", "python"}, report.MatchedSkills)
	assert.Equal(t, []string{"aws", "kubernetes"}, report.MissingSkills)

	// Resume exceeds the requirement by one year.
	assert.Equal(t, 100.0, report.ExperienceMatch)

	// Neither text mentions a degree.
	assert.Equal(t, 70.0, report.EducationMatch)

	assert.Equal(t, 69.0, report.Overall)
	require.NotEmpty(t, report.Details)
	assert.Contains(t, report.Details[0], "Missing skills")
}

func TestMatch_Deterministic(t *testing.T) {
	m := NewMatcher()
	first := m.Match(partialResume, backendJD)
	second := m.Match(partialResume, backendJD)
	assert.Equal(t, first, second)
}

func TestScoreSkills_NoJDSkills(t *testing.T) {
	m := NewMatcher()
	report := m.Match(partialResume, "Looking for a motivated colleague.")
	assert.Equal(t, 75.0, report.SkillsMatch)
	assert.Empty(t, report.MissingSkills)
}

func TestScoreSkills_ExtraSkillBonus(t *testing.T) {
	m := NewMatcher()
	resume := "Expert in java, python, kubernetes, aws, docker, terraform and redis."
	report := m.Match(resume, "Required: java and python.")

	// Full match plus bonus for skills beyond the requirement, capped at 100.
	assert.Equal(t, 100.0, report.SkillsMatch)
	assert.Empty(t, report.MissingSkills)
}

func TestScoreExperience_Shortfall(t *testing.T) {
	m := NewMatcher()
	report := m.Match(
		"Engineer with 2 years of experience in python.",
		"Need python, 5+ years experience.",
	)
	// Three years short of the requirement.
	assert.Equal(t, 40.0, report.ExperienceMatch)
	assert.Contains(t, report.Details[0], "short of the required 5 years")
}

func TestScoreExperience_SilentTexts(t *testing.T) {
	m := NewMatcher()

	// JD silent, resume states years.
	r := m.Match("10 years of experience in java.", "Hiring a java engineer.")
	assert.Equal(t, 80.0, r.ExperienceMatch)

	// Both silent.
	r = m.Match("Java engineer.", "Hiring a java engineer.")
	assert.Equal(t, 60.0, r.ExperienceMatch)

	// Resume silent on a stated requirement.
	r = m.Match("Java engineer.", "Hiring a java engineer, 4 years experience.")
	assert.Equal(t, 50.0, r.ExperienceMatch)
}

func TestParseYears_TakesLargestPlausible(t *testing.T) {
	assert.Equal(t, 8, parseYears("3 years of experience at Acme, 8 years experience overall"))
	assert.Equal(t, 0, parseYears("joined in 1999"))
	// Figures that cannot be a career length are ignored.
	assert.Equal(t, 5, parseYears("5 years experience, company founded 80 years ago"))
}

func TestScoreEducation_LevelComparison(t *testing.T) {
	m := NewMatcher()

	// Resume meets the stated degree and level.
	report := m.Match(
		"Holds a Master of Science; 6 years of experience with python.",
		"Requires a master degree and python.",
	)
	assert.Equal(t, 100.0, report.EducationMatch)

	// Resume below the required level.
	report = m.Match(
		"Diploma in computing, knows python.",
		"Requires a master degree and python.",
	)
	assert.Less(t, report.EducationMatch, 50.0)
	assert.Contains(t, report.Details, "Resume education level is below the job requirement")
}

func TestExtractSkills_WordBoundaries(t *testing.T) {
	skills := extractSkills("Shipped c++ services with node.js on aws.")
	assert.Contains(t, skills, "c++")
	assert.Contains(t, skills, "node.js")
	assert.Contains(t, skills, "aws")

	// Substrings of longer words must not match.
	skills = extractSkills("The javascript ecosystem.")
	assert.Contains(t, skills, "javascript")
	assert.NotContains(t, skills, "java")
}
