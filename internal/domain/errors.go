package domain

import "errors"

var (
	ErrUnsupportedType       = errors.New("unsupported document type")
	ErrOversizedDocument     = errors.New("document exceeds maximum allowed size")
	ErrEmptyDocument         = errors.New("document is empty")
	ErrCorruptDocument       = errors.New("document could not be read by any extractor")
	ErrExtractionUnavailable = errors.New("no extraction backend available")
	ErrExtractionParse       = errors.New("provider returned unparseable candidate data")
	ErrQuotaExceeded         = errors.New("provider quota exceeded")
	ErrTimeout               = errors.New("operation timed out")
	ErrSessionNotFound       = errors.New("vetting session not found")
	ErrScanNotFound          = errors.New("scan result not found in session")
	ErrNotApproved           = errors.New("scan result has not been approved")
	ErrBatchTooLarge         = errors.New("batch exceeds maximum file count")
	ErrProviderUnavailable   = errors.New("provider is not configured")
	ErrCandidateNotFound     = errors.New("candidate not found")
)
