package extractor

import (
	"context"
	"fmt"
	"image/png"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/gen2brain/go-fitz"

	"talentvet/internal/domain"
)

// ocrDPI rasterizes at roughly 2x the 72dpi default for better recognition.
const ocrDPI = 144

// ocrEngine shells out to tesseract for image-only pages.
type ocrEngine struct {
	tempDir string
}

func newOCREngine(tempDir string) *ocrEngine {
	return &ocrEngine{tempDir: tempDir}
}

// available reports whether the tesseract binary can be found.
func (o *ocrEngine) available() bool {
	_, err := exec.LookPath("tesseract")
	return err == nil
}

// ocrPDF rasterizes the first min(ocrMaxPages, pageCount) pages and runs
// tesseract on each, concatenating the results.
func (e *Extractor) ocrPDF(ctx context.Context, doc *fitz.Document, pageCount int) (string, error) {
	if !e.ocr.available() {
		return "", fmt.Errorf("%w: tesseract not installed", domain.ErrExtractionUnavailable)
	}

	pages := pageCount
	if pages > ocrMaxPages {
		pages = ocrMaxPages
	}

	var sb strings.Builder
	var lastErr error
	for n := 0; n < pages; n++ {
		pageText, err := e.ocrPage(ctx, doc, n)
		if err != nil {
			lastErr = err
			log.Printf("extractor: ocr page %d: %v", n+1, err)
			continue
		}
		if pageText != "" {
			sb.WriteString(pageText)
			sb.WriteString("\n\n")
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		if lastErr != nil {
			return "", fmt.Errorf("%w: ocr failed: %v", domain.ErrCorruptDocument, lastErr)
		}
		return "", fmt.Errorf("%w: ocr produced no text", domain.ErrCorruptDocument)
	}
	return text, nil
}

func (e *Extractor) ocrPage(ctx context.Context, doc *fitz.Document, page int) (string, error) {
	img, err := doc.ImageDPI(page, ocrDPI)
	if err != nil {
		return "", fmt.Errorf("rasterizing: %w", err)
	}

	tmpFile, err := os.CreateTemp(e.ocr.tempDir, "ocr-page-*.png")
	if err != nil {
		return "", fmt.Errorf("creating temp image: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmpFile, img); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("encoding image: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("closing temp image: %w", err)
	}

	pageCtx := ctx
	if e.ocrPageTimeout > 0 {
		var cancel context.CancelFunc
		pageCtx, cancel = context.WithTimeout(ctx, e.ocrPageTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(pageCtx, "tesseract", tmpPath, "stdout", "-l", "eng")
	out, err := cmd.CombinedOutput()
	if err != nil {
		if pageCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w: ocr page timeout", domain.ErrTimeout)
		}
		return "", fmt.Errorf("tesseract: %w (output: %s)", err, truncateBytes(out, 200))
	}
	return strings.TrimSpace(string(out)), nil
}

func truncateBytes(b []byte, maxLen int) string {
	s := string(b)
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
