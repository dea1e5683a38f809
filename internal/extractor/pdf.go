package extractor

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/gen2brain/go-fitz"

	"talentvet/internal/domain"
)

// fontStructurePages bounds font-span collection to the leading pages.
const fontStructurePages = 3

// ocrMaxPages bounds OCR fallback to the leading pages.
const ocrMaxPages = 5

var (
	htmlSpanStyle = regexp.MustCompile(`font-family:\s*([^;"]+);\s*font-size:\s*([\d.]+)pt`)
	htmlTag       = regexp.MustCompile(`<[^>]+>`)
)

// extractPDF runs the structured-text extractor, a secondary HTML-based
// pass, and finally OCR when the text stays below the threshold.
func (e *Extractor) extractPDF(ctx context.Context, data []byte) (*domain.ExtractedText, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptDocument, err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	structure := collectPDFStructure(doc, pageCount)

	// Primary: per-page structured text.
	var sb strings.Builder
	for n := 0; n < pageCount; n++ {
		pageText, err := doc.Text(n)
		if err != nil {
			log.Printf("extractor: pdf text page %d: %v", n+1, err)
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	text := strings.TrimSpace(sb.String())

	// Secondary: strip the HTML rendering, which recovers text for PDFs
	// whose plain-text layer is mangled.
	if meaningfulLength(text) < MinTextLength {
		text = strings.TrimSpace(pdfTextFromHTML(doc, pageCount))
	}

	// Last resort: rasterize and OCR the leading pages.
	if meaningfulLength(text) < MinTextLength {
		ocrText, err := e.ocrPDF(ctx, doc, pageCount)
		if err != nil {
			return nil, err
		}
		return &domain.ExtractedText{Text: ocrText, Structure: structure, UsedOCR: true}, nil
	}

	return &domain.ExtractedText{Text: text, Structure: structure}, nil
}

// pdfTextFromHTML strips tags from the HTML rendering of each page.
func pdfTextFromHTML(doc *fitz.Document, pageCount int) string {
	var sb strings.Builder
	for n := 0; n < pageCount; n++ {
		html, err := doc.HTML(n, false)
		if err != nil {
			continue
		}
		sb.WriteString(htmlTag.ReplaceAllString(html, " "))
		sb.WriteString("\n")
	}
	return collapseSpaces(sb.String())
}

// collectPDFStructure gathers font spans (first pages only, to bound cost)
// and per-page text lengths. Best-effort: errors are logged, never returned.
func collectPDFStructure(doc *fitz.Document, pageCount int) domain.StructureInfo {
	structure := domain.StructureInfo{PageCount: pageCount}

	fonts := make(map[string]*domain.FontUsage)
	limit := fontStructurePages
	if pageCount < limit {
		limit = pageCount
	}
	for n := 0; n < limit; n++ {
		html, err := doc.HTML(n, false)
		if err != nil {
			log.Printf("extractor: pdf html page %d: %v", n+1, err)
			continue
		}
		for _, m := range htmlSpanStyle.FindAllStringSubmatch(html, -1) {
			family := strings.TrimSpace(m[1])
			size, _ := strconv.ParseFloat(m[2], 64)
			size = roundHalf(size)
			key := fmt.Sprintf("%s@%.1f", family, size)
			if u, ok := fonts[key]; ok {
				u.Count++
			} else {
				fonts[key] = &domain.FontUsage{Family: family, Size: size, Count: 1}
			}
		}
	}
	for _, u := range fonts {
		structure.Fonts = append(structure.Fonts, *u)
	}
	structure.UniqueFonts = len(fonts)
	structure.FontsConsistent = structure.UniqueFonts <= 4

	for n := 0; n < pageCount; n++ {
		pageText, err := doc.Text(n)
		if err != nil {
			continue
		}
		structure.PageTextLengths = append(structure.PageTextLengths, len(pageText))
	}
	return structure
}

func roundHalf(v float64) float64 {
	return float64(int(v*2+0.5)) / 2
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
