package domain

// FileType represents the accepted resume document types.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeDOCX FileType = "docx"
	FileTypeDOC  FileType = "doc"
	FileTypeTXT  FileType = "txt"
)

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"docx": FileTypeDOCX,
	"doc":  FileTypeDOC,
	"txt":  FileTypeTXT,
}

// ScanStatus represents the review state of a scanned resume within a
// vetting session.
type ScanStatus string

const (
	ScanStatusPending  ScanStatus = "pending"
	ScanStatusApproved ScanStatus = "approved"
	ScanStatusRejected ScanStatus = "rejected"
)

// FlagSeverity grades an authenticity flag.
type FlagSeverity string

const (
	SeverityLow    FlagSeverity = "low"
	SeverityMedium FlagSeverity = "medium"
	SeverityHigh   FlagSeverity = "high"
)

// MatchType identifies how a duplicate candidate was matched.
type MatchType string

const (
	MatchTypeEmail MatchType = "email"
	MatchTypePhone MatchType = "phone"
	MatchTypeName  MatchType = "name"
)

// Resolution is a caller decision on a duplicate match.
type Resolution string

const (
	ResolutionSkip        Resolution = "skip"
	ResolutionMerge       Resolution = "merge"
	ResolutionForceCreate Resolution = "force_create"
)

// Provider identifies an LLM extraction provider.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// DecisionKind tags the outcome of promoting a scan to a candidate record.
type DecisionKind string

const (
	DecisionCreate             DecisionKind = "create"
	DecisionDuplicateFound     DecisionKind = "duplicate_found"
	DecisionRequiresResolution DecisionKind = "requires_resolution"
)
