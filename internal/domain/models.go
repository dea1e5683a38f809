package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Document is an uploaded resume file. Immutable once created; referenced
// everywhere by its content hash.
type Document struct {
	ContentHash string   `json:"content_hash"`
	Filename    string   `json:"filename"`
	Size        int64    `json:"size"`
	FileType    FileType `json:"file_type"`
	Bytes       []byte   `json:"-"`
}

// HashBytes returns the hex SHA-256 of raw document bytes.
func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// FontUsage records one (family, size) pair and how often it occurs.
type FontUsage struct {
	Family string  `json:"family"`
	Size   float64 `json:"size"`
	Count  int     `json:"count"`
}

// StructureInfo carries best-effort structural metadata for a document.
type StructureInfo struct {
	UniqueFonts     int         `json:"unique_fonts"`
	Fonts           []FontUsage `json:"fonts,omitempty"`
	FontsConsistent bool        `json:"fonts_consistent"`
	PageCount       int         `json:"page_count"`
	PageTextLengths []int       `json:"page_text_lengths,omitempty"`
}

// ExtractedText is the plain text of a document plus structure metadata.
type ExtractedText struct {
	Text      string        `json:"text"`
	Structure StructureInfo `json:"structure"`
	UsedOCR   bool          `json:"used_ocr"`
}

// Flag is a single authenticity finding surfaced to reviewers.
type Flag struct {
	Severity FlagSeverity `json:"severity"`
	Category string       `json:"category"`
	Message  string       `json:"message"`
}

// GrammarIssue describes one grammar problem with an example snippet.
type GrammarIssue struct {
	Kind    string `json:"kind"`
	Example string `json:"example"`
	Count   int    `json:"count"`
}

// Diagnostics is the raw evidence behind an authenticity report, returned
// verbatim to callers.
type Diagnostics struct {
	FontBreakdown     []FontUsage         `json:"font_breakdown,omitempty"`
	CapitalizationIss map[string][]string `json:"capitalization_issues,omitempty"`
	ProfileURL        string              `json:"profile_url,omitempty"`
	GrammarIssues     []GrammarIssue      `json:"grammar_issues,omitempty"`
}

// AuthenticityReport scores the likelihood that a resume is an authentic,
// individually authored document.
type AuthenticityReport struct {
	Overall                   float64     `json:"overall"`
	FontConsistency           float64     `json:"font_consistency"`
	GrammarQuality            float64     `json:"grammar_quality"`
	FormattingConsistency     float64     `json:"formatting_consistency"`
	SuspiciousPatterns        float64     `json:"suspicious_patterns"`
	StructureConsistency      float64     `json:"structure_consistency"`
	LinkedInProfile           float64     `json:"linkedin_profile"`
	CapitalizationConsistency float64     `json:"capitalization_consistency"`
	Flags                     []Flag      `json:"flags"`
	Diagnostics               Diagnostics `json:"diagnostics"`
}

// MatchReport scores a resume against a job description.
type MatchReport struct {
	Overall         float64  `json:"overall"`
	SkillsMatch     float64  `json:"skills_match"`
	ExperienceMatch float64  `json:"experience_match"`
	EducationMatch  float64  `json:"education_match"`
	MatchedSkills   []string `json:"matched_skills"`
	MissingSkills   []string `json:"missing_skills"`
	Details         []string `json:"details"`
}

// Experience is one employment entry on a structured candidate record.
type Experience struct {
	Company          string   `json:"company"`
	Title            string   `json:"title"`
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date"`
	IsCurrent        bool     `json:"is_current"`
	DurationMonths   *int     `json:"duration_months"`
	Responsibilities []string `json:"responsibilities"`
}

// Education is one education entry.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Grade       string `json:"grade"`
}

// Skill is a named skill with optional category and proficiency.
type Skill struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Proficiency string `json:"proficiency"`
}

// Project is a personal or professional project entry.
type Project struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Tech        []string `json:"technologies"`
}

// StructuredCandidate is the canonical candidate record extracted from a
// resume.
type StructuredCandidate struct {
	Name                  string       `json:"name"`
	Email                 string       `json:"email"`
	Phone                 string       `json:"phone"`
	LinkedInURL           string       `json:"linkedin_url"`
	OtherURLs             []string     `json:"other_urls"`
	Location              string       `json:"location"`
	Summary               string       `json:"summary"`
	Experience            []Experience `json:"experience"`
	Education             []Education  `json:"education"`
	Skills                []Skill      `json:"skills"`
	Certifications        []string     `json:"certifications"`
	Languages             []string     `json:"languages"`
	Projects              []Project    `json:"projects"`
	TotalExperienceMonths int          `json:"total_experience_months"`
	TotalExperienceYears  float64      `json:"total_experience_years"`
}

// DuplicateMatch describes an existing candidate that matches a new record.
type DuplicateMatch struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	MatchType   MatchType `json:"match_type"`
	MatchScore  float64   `json:"match_score"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
}

// Definitive reports whether the match alone settles duplicate detection.
func (m DuplicateMatch) Definitive() bool {
	return m.MatchType == MatchTypeEmail || m.MatchType == MatchTypePhone
}

// Candidate is a persisted candidate row.
type Candidate struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Email      string    `db:"email" json:"email"`
	Phone      string    `db:"phone" json:"phone"`
	LinkedIn   string    `db:"linkedin_url" json:"linkedin_url"`
	Location   string    `db:"location" json:"location"`
	ResumeHash string    `db:"resume_hash" json:"resume_hash"`
	Record     []byte    `db:"record" json:"-"` // full StructuredCandidate JSON
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// DuplicateCheck is one audit row for a duplicate lookup against a source
// document, plus the eventual caller resolution if any.
type DuplicateCheck struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	SourceHash string     `db:"source_hash" json:"source_hash"`
	MatchedID  *uuid.UUID `db:"matched_id" json:"matched_id"`
	MatchType  string     `db:"match_type" json:"match_type"`
	MatchScore float64    `db:"match_score" json:"match_score"`
	Resolution string     `db:"resolution" json:"resolution"`
	Actor      string     `db:"actor" json:"actor"`
	CheckedAt  time.Time  `db:"checked_at" json:"checked_at"`
	ResolvedAt *time.Time `db:"resolved_at" json:"resolved_at"`
}

// ScanOutcome is the result of scanning a single document.
type ScanOutcome struct {
	Filename     string              `json:"filename"`
	ContentHash  string              `json:"content_hash"`
	Authenticity *AuthenticityReport `json:"authenticity"`
	Match        *MatchReport        `json:"match,omitempty"`
	Status       ScanStatus          `json:"status"`
	FromCache    bool                `json:"from_cache"`
	ScannedAt    time.Time           `json:"scanned_at"`
}

// BatchError records one per-file failure inside a batch scan.
type BatchError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// BatchResult aggregates a batch scan.
type BatchResult struct {
	SessionID string        `json:"session_id"`
	Results   []ScanOutcome `json:"results"`
	Errors    []BatchError  `json:"errors"`
}

// CandidateDecision is the outcome of promoting an approved scan.
type CandidateDecision struct {
	Kind      DecisionKind         `json:"kind"`
	Candidate *StructuredCandidate `json:"candidate,omitempty"`
	Matches   []DuplicateMatch     `json:"matches,omitempty"`
}
