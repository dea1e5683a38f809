package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"talentvet/internal/domain"
)

// MinTextLength is the minimum extracted length below which fallback
// extractors (and ultimately OCR) are attempted.
const MinTextLength = 50

// Extractor turns raw document bytes into plain text plus structural
// metadata. Structure collection is best-effort and never fails the call.
type Extractor struct {
	ocr            *ocrEngine
	ocrPageTimeout time.Duration
}

// New creates an Extractor. tempDir holds intermediate OCR images;
// ocrPageTimeout bounds a single page's OCR subprocess.
func New(tempDir string, ocrPageTimeout time.Duration) *Extractor {
	return &Extractor{
		ocr:            newOCREngine(tempDir),
		ocrPageTimeout: ocrPageTimeout,
	}
}

// Extract dispatches on the declared filename extension. Failures are one
// of domain.ErrUnsupportedType, ErrCorruptDocument, ErrExtractionUnavailable.
func (e *Extractor) Extract(ctx context.Context, data []byte, filename string) (*domain.ExtractedText, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, fmt.Errorf("%w: .%s", domain.ErrUnsupportedType, ext)
	}

	switch fileType {
	case domain.FileTypePDF:
		return e.extractPDF(ctx, data)
	case domain.FileTypeDOCX:
		return e.extractDOCX(data)
	case domain.FileTypeDOC:
		return e.extractDOC(ctx, data)
	case domain.FileTypeTXT:
		return extractTXT(data), nil
	}
	return nil, fmt.Errorf("%w: .%s", domain.ErrUnsupportedType, ext)
}

// extractTXT decodes UTF-8 with lossy replacement of invalid sequences.
func extractTXT(data []byte) *domain.ExtractedText {
	text := string(data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, string(utf8.RuneError))
	}
	return &domain.ExtractedText{
		Text: text,
		Structure: domain.StructureInfo{
			PageCount:       1,
			FontsConsistent: true,
			PageTextLengths: []int{len(text)},
		},
	}
}

// meaningfulLength counts non-whitespace runes.
func meaningfulLength(s string) int {
	n := 0
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			n++
		}
	}
	return n
}
