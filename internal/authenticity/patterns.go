package authenticity

import (
	"regexp"
	"strings"
)

var placeholderTokens = []string{
	"lorem ipsum",
	"your name",
	"[insert",
	"{name}",
	"company name here",
	"xxx-xxx",
	"example@",
}

var genericTitles = []string{
	"results-driven professional",
	"team player",
	"detail-oriented",
	"go-getter",
	"self-starter",
	"hard-working professional",
	"dynamic professional",
	"motivated individual",
}

var dateFormatPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`),
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
	regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{4}\b`),
	regexp.MustCompile(`\b\d{1,2}\.\d{1,2}\.\d{2,4}\b`),
}

var bulletPrefixes = []string{"•", "-", "*", "·", "◦", "▪"}

// scoreSuspiciousPatterns checks five template/generation indicators and
// scores 100·(1 − hits/5).
func scoreSuspiciousPatterns(text string) float64 {
	lower := strings.ToLower(text)
	hits := 0

	if hasRepeatedTrigrams(lower) {
		hits++
	}
	for _, tok := range placeholderTokens {
		if strings.Contains(lower, tok) {
			hits++
			break
		}
	}
	titleCount := 0
	for _, t := range genericTitles {
		titleCount += strings.Count(lower, t)
	}
	if titleCount >= 4 {
		hits++
	}
	if countDateFormats(text) >= 2 {
		hits++
	}
	if bulletLineRatio(text) > 0.70 {
		hits++
	}

	return 100 * (1 - float64(hits)/5)
}

// hasRepeatedTrigrams reports whether any word trigram occurs more than
// twice.
func hasRepeatedTrigrams(lower string) bool {
	words := strings.Fields(lower)
	if len(words) < 3 {
		return false
	}
	seen := make(map[string]int)
	for i := 0; i+2 < len(words); i++ {
		gram := words[i] + " " + words[i+1] + " " + words[i+2]
		seen[gram]++
		if seen[gram] > 2 {
			return true
		}
	}
	return false
}

// countDateFormats counts how many distinct date notations appear.
func countDateFormats(text string) int {
	n := 0
	for _, re := range dateFormatPatterns {
		if re.MatchString(text) {
			n++
		}
	}
	return n
}

// bulletLineRatio returns the fraction of non-empty lines that start with a
// bullet marker.
func bulletLineRatio(text string) float64 {
	lines := strings.Split(text, "\n")
	nonEmpty, bullets := 0, 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmpty++
		for _, p := range bulletPrefixes {
			if strings.HasPrefix(trimmed, p) {
				bullets++
				break
			}
		}
	}
	if nonEmpty == 0 {
		return 0
	}
	return float64(bullets) / float64(nonEmpty)
}
