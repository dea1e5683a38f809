package authenticity

import (
	"strings"

	"talentvet/internal/domain"
)

const (
	minSentenceTokens = 3
	maxSentenceTokens = 50

	shortLongSentencePenalty = 2.0
	uppercasePenalty         = 30.0
	specialCharPenalty       = 15.0
)

// scoreGrammar applies whitespace-based sentence and token checks. It starts
// at 100 and deducts for degenerate sentence lengths, shouting-case words,
// and dense special characters.
func scoreGrammar(text string, diag *domain.Diagnostics) float64 {
	score := 100.0
	if strings.TrimSpace(text) == "" {
		return score
	}

	sentences := splitSentences(text)
	badSentences := 0
	var example string
	for _, s := range sentences {
		tokens := strings.Fields(s)
		if len(tokens) == 0 {
			continue
		}
		if len(tokens) < minSentenceTokens || len(tokens) > maxSentenceTokens {
			badSentences++
			if example == "" {
				example = truncate(s, 60)
			}
		}
	}
	if badSentences > 0 {
		score -= float64(badSentences) * shortLongSentencePenalty
		diag.GrammarIssues = append(diag.GrammarIssues, domain.GrammarIssue{
			Kind:    "sentence_length",
			Example: example,
			Count:   badSentences,
		})
	}

	words := strings.Fields(text)
	upper := 0
	var upperExample string
	for _, w := range words {
		if len(w) > 3 && w == strings.ToUpper(w) && w != strings.ToLower(w) {
			upper++
			if upperExample == "" {
				upperExample = w
			}
		}
	}
	if len(words) > 0 && float64(upper)/float64(len(words)) > 0.10 {
		score -= uppercasePenalty
		diag.GrammarIssues = append(diag.GrammarIssues, domain.GrammarIssue{
			Kind:    "excessive_uppercase",
			Example: upperExample,
			Count:   upper,
		})
	}

	special := 0
	for _, r := range text {
		if !isWordRune(r) && !isWhitespace(r) && !isCommonPunct(r) {
			special++
		}
	}
	if len(text) > 0 && float64(special)/float64(len(text)) > 0.05 {
		score -= specialCharPenalty
		diag.GrammarIssues = append(diag.GrammarIssues, domain.GrammarIssue{
			Kind:  "special_characters",
			Count: special,
		})
	}

	return clampScore(score)
}

// splitSentences breaks text on terminal punctuation and newlines. This is
// the whitespace fallback path; it never fails.
func splitSentences(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isCommonPunct(r rune) bool {
	switch r {
	case '.', ',', ';', ':', '-', '(', ')', '/', '\'', '"', '&', '+', '%', '@', '_':
		return true
	}
	return false
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
