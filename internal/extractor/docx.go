package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"talentvet/internal/domain"
)

var (
	paragraphEnd = regexp.MustCompile(`</w:p>`)
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
	runFont      = regexp.MustCompile(`<w:rFonts[^>]*w:ascii="([^"]+)"`)
	runSize      = regexp.MustCompile(`<w:sz[^>]*w:val="(\d+)"`)
)

// extractDOCX runs the structured-paragraph extractor and falls back to a
// plain zip read of word/document.xml.
func (e *Extractor) extractDOCX(data []byte) (*domain.ExtractedText, error) {
	content, err := readDocxContent(data)
	if err != nil {
		log.Printf("extractor: docx reader failed, trying raw zip: %v", err)
		content, err = readDocxRaw(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCorruptDocument, err)
		}
	}

	text := docxParagraphText(content)
	structure := collectDocxStructure(content, len(text))
	return &domain.ExtractedText{Text: text, Structure: structure}, nil
}

// readDocxContent returns the raw document XML via the docx library.
func readDocxContent(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer r.Close()
	return r.Editable().GetContent(), nil
}

// readDocxRaw reads word/document.xml straight out of the zip container.
func readDocxRaw(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()
		raw, err := io.ReadAll(rc)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	return "", fmt.Errorf("word/document.xml not found in archive")
}

// docxParagraphText converts document XML to one line per paragraph.
func docxParagraphText(content string) string {
	var sb strings.Builder
	for _, para := range paragraphEnd.Split(content, -1) {
		line := strings.TrimSpace(xmlTag.ReplaceAllString(para, ""))
		if line == "" {
			continue
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// collectDocxStructure gathers fonts across all runs. Word stores sizes in
// half-points. DOCX has no page geometry, so page count stays 1.
func collectDocxStructure(content string, textLen int) domain.StructureInfo {
	fonts := make(map[string]*domain.FontUsage)

	families := runFont.FindAllStringSubmatch(content, -1)
	sizes := runSize.FindAllStringSubmatch(content, -1)
	for i, fm := range families {
		family := fm[1]
		size := 0.0
		if i < len(sizes) {
			if half, err := strconv.Atoi(sizes[i][1]); err == nil {
				size = float64(half) / 2
			}
		}
		key := fmt.Sprintf("%s@%.1f", family, size)
		if u, ok := fonts[key]; ok {
			u.Count++
		} else {
			fonts[key] = &domain.FontUsage{Family: family, Size: size, Count: 1}
		}
	}

	structure := domain.StructureInfo{
		PageCount:       1,
		UniqueFonts:     len(fonts),
		PageTextLengths: []int{textLen},
	}
	for _, u := range fonts {
		structure.Fonts = append(structure.Fonts, *u)
	}
	structure.FontsConsistent = structure.UniqueFonts <= 4
	if structure.UniqueFonts == 0 {
		structure.FontsConsistent = true
	}
	return structure
}

// extractDOC handles legacy binary .doc files through antiword.
func (e *Extractor) extractDOC(ctx context.Context, data []byte) (*domain.ExtractedText, error) {
	if _, err := exec.LookPath("antiword"); err != nil {
		return nil, fmt.Errorf("%w: antiword not installed", domain.ErrExtractionUnavailable)
	}

	tmpFile, err := os.CreateTemp(e.ocr.tempDir, "legacy-*.doc")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)
	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return nil, fmt.Errorf("closing temp file: %w", err)
	}

	out, err := exec.CommandContext(ctx, "antiword", tmpPath).CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("%w: antiword: %v", domain.ErrCorruptDocument, err)
	}
	text := strings.TrimSpace(string(out))
	if text == "" {
		return nil, fmt.Errorf("%w: no text in document", domain.ErrCorruptDocument)
	}
	return &domain.ExtractedText{
		Text: text,
		Structure: domain.StructureInfo{
			PageCount:       1,
			FontsConsistent: true,
			PageTextLengths: []int{len(text)},
		},
	}, nil
}
