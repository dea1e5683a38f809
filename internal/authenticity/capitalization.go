package authenticity

import (
	"strings"
	"unicode"

	"talentvet/internal/domain"
)

// brandWhitelist holds tokens whose internal capitals are legitimate.
var brandWhitelist = map[string]bool{
	"javascript": true, "typescript": true, "github": true, "gitlab": true,
	"linkedin": true, "postgresql": true, "mysql": true, "mongodb": true,
	"devops": true, "powerpoint": true, "ios": true, "macos": true,
	"nodejs": true, "graphql": true, "openai": true, "mlops": true,
	"intellij": true, "pytorch": true, "opencv": true, "tensorflow": true,
	"youtube": true, "paypal": true, "ebay": true, "iphone": true,
}

// caseSensitiveSkills is the vocabulary checked for mixed-case variants.
var caseSensitiveSkills = []string{
	"python", "java", "javascript", "typescript", "golang", "react",
	"angular", "docker", "kubernetes", "aws", "azure", "sql", "linux",
}

const (
	midwordPenalty        = 4.0
	midwordPenaltyCap     = 40.0
	variantPenalty        = 5.0
	variantPenaltyCap     = 30.0
	lowercasePenalty      = 3.0
	lowercasePenaltyCap   = 30.0
	maxListedPerViolation = 5
)

// scoreCapitalization starts at 100 and subtracts proportionally for
// mid-word random capitals, skills written in multiple case variants, and
// sentences starting lowercase.
func scoreCapitalization(text string, diag *domain.Diagnostics) float64 {
	score := 100.0
	issues := make(map[string][]string)

	midword := findMidwordCapitals(text)
	if n := len(midword); n > 0 {
		score -= capAt(float64(n)*midwordPenalty, midwordPenaltyCap)
		issues["midword_capitals"] = head(midword, maxListedPerViolation)
	}

	variants := findCaseVariants(text)
	if n := len(variants); n > 0 {
		score -= capAt(float64(n)*variantPenalty, variantPenaltyCap)
		issues["skill_case_variants"] = head(variants, maxListedPerViolation)
	}

	lowers := findLowercaseSentenceStarts(text)
	if n := len(lowers); n > 0 {
		score -= capAt(float64(n)*lowercasePenalty, lowercasePenaltyCap)
		issues["lowercase_sentence_start"] = head(lowers, maxListedPerViolation)
	}

	if len(issues) > 0 {
		diag.CapitalizationIss = issues
	}
	return clampScore(score)
}

// findMidwordCapitals returns words with an uppercase letter after the first
// position, excluding all-caps acronyms and whitelisted brands.
func findMidwordCapitals(text string) []string {
	var out []string
	for _, w := range strings.Fields(text) {
		trimmed := strings.Trim(w, ".,;:()[]\"'")
		if len(trimmed) < 3 {
			continue
		}
		if trimmed == strings.ToUpper(trimmed) {
			continue
		}
		if brandWhitelist[strings.ToLower(trimmed)] {
			continue
		}
		for i, r := range trimmed {
			if i > 0 && unicode.IsUpper(r) {
				out = append(out, trimmed)
				break
			}
		}
	}
	return out
}

// findCaseVariants returns skills that appear in more than one spelling.
func findCaseVariants(text string) []string {
	spellings := make(map[string]map[string]bool)
	for _, w := range strings.Fields(text) {
		trimmed := strings.Trim(w, ".,;:()[]\"'")
		lower := strings.ToLower(trimmed)
		for _, skill := range caseSensitiveSkills {
			if lower == skill {
				if spellings[skill] == nil {
					spellings[skill] = make(map[string]bool)
				}
				spellings[skill][trimmed] = true
			}
		}
	}
	var out []string
	for skill, seen := range spellings {
		if len(seen) > 1 {
			out = append(out, skill)
		}
	}
	return out
}

// findLowercaseSentenceStarts returns sentences that start with a lowercase
// letter. Bullet lines are exempt.
func findLowercaseSentenceStarts(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || startsWithBullet(trimmed) {
			continue
		}
		for _, sentence := range splitSentences(trimmed) {
			s := strings.TrimSpace(sentence)
			if s == "" {
				continue
			}
			first := []rune(s)[0]
			if unicode.IsLower(first) {
				out = append(out, truncate(s, 40))
			}
		}
	}
	return out
}

func startsWithBullet(line string) bool {
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

func capAt(v, max float64) float64 {
	if v > max {
		return max
	}
	return v
}

func head(list []string, n int) []string {
	if len(list) <= n {
		return list
	}
	return list[:n]
}
