package matcher

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

// skillCategories holds the fixed vocabulary per category. Matching is by
// word-boundary, case-insensitive regex.
var skillCategories = map[string][]string{
	"programming": {
		"python", "java", "javascript", "typescript", "golang", "c++",
		"c#", "ruby", "php", "swift", "kotlin", "rust", "scala", "perl",
	},
	"web": {
		"react", "angular", "vue", "django", "flask", "spring", "express",
		"node.js", "nodejs", "html", "css", "rest", "graphql", "fastapi",
	},
	"database": {
		"sql", "mysql", "postgresql", "postgres", "mongodb", "redis",
		"elasticsearch", "cassandra", "oracle", "sqlite", "dynamodb",
	},
	"cloud": {
		"aws", "azure", "gcp", "docker", "kubernetes", "terraform",
		"jenkins", "ci/cd", "lambda", "s3", "ec2", "cloudformation",
	},
	"data_science": {
		"machine learning", "deep learning", "tensorflow", "pytorch",
		"pandas", "numpy", "scikit-learn", "nlp", "computer vision",
		"data analysis", "statistics", "spark", "hadoop",
	},
	"soft_skills": {
		"leadership", "communication", "teamwork", "problem solving",
		"project management", "agile", "scrum", "mentoring",
	},
}

var (
	skillPatternsOnce sync.Once
	skillPatterns     map[string]*regexp.Regexp
)

// compileSkillPatterns builds one word-boundary regex per known skill.
// Skills containing regex metacharacters (c++, c#, ci/cd) are quoted.
func compileSkillPatterns() {
	skillPatterns = make(map[string]*regexp.Regexp)
	for _, skills := range skillCategories {
		for _, skill := range skills {
			if _, ok := skillPatterns[skill]; ok {
				continue
			}
			quoted := regexp.QuoteMeta(skill)
			// \b does not sit well next to non-word runes like '+' or '#';
			// anchor those on the left side only.
			pattern := `(?i)\b` + quoted + `\b`
			if strings.ContainsAny(skill, "+#/.") {
				pattern = `(?i)(^|[^\w])` + quoted + `($|[^\w])`
			}
			skillPatterns[skill] = regexp.MustCompile(pattern)
		}
	}
}

// KnownSkills returns the sorted, lowercased set of known skills present in
// text. Used by callers that need the vocabulary outside a full match.
func KnownSkills(text string) []string {
	return extractSkills(text)
}

// extractSkills returns the sorted, lowercased set of known skills present
// in text.
func extractSkills(text string) []string {
	skillPatternsOnce.Do(compileSkillPatterns)
	seen := make(map[string]bool)
	for skill, re := range skillPatterns {
		if re.MatchString(text) {
			seen[skill] = true
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
