package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentvet/internal/domain"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	return New(t.TempDir(), 30*time.Second)
}

func TestExtract_TXT(t *testing.T) {
	e := newTestExtractor(t)

	text := "Jane Doe\nSenior Engineer with ten years of experience.\n"
	got, err := e.Extract(context.Background(), []byte(text), "resume.txt")
	require.NoError(t, err)
	assert.Equal(t, text, got.Text)
	assert.Equal(t, 1, got.Structure.PageCount)
	assert.True(t, got.Structure.FontsConsistent)
	assert.False(t, got.UsedOCR)
}

func TestExtract_TXTInvalidUTF8IsLossy(t *testing.T) {
	e := newTestExtractor(t)

	data := append([]byte("valid prefix "), 0xff, 0xfe)
	got, err := e.Extract(context.Background(), data, "resume.txt")
	require.NoError(t, err)
	assert.Contains(t, got.Text, "valid prefix")
	assert.True(t, len(got.Text) > 0)
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	e := newTestExtractor(t)

	for _, name := range []string{"resume.png", "resume.exe", "resume", "resume.PDF.bak"} {
		_, err := e.Extract(context.Background(), []byte("data"), name)
		assert.ErrorIs(t, err, domain.ErrUnsupportedType, "filename %q", name)
	}
}

func TestExtract_ExtensionCaseInsensitive(t *testing.T) {
	e := newTestExtractor(t)

	got, err := e.Extract(context.Background(), []byte("some resume text"), "RESUME.TXT")
	require.NoError(t, err)
	assert.Equal(t, "some resume text", got.Text)
}

func TestExtract_CorruptPDF(t *testing.T) {
	e := newTestExtractor(t)

	_, err := e.Extract(context.Background(), []byte("not a pdf at all"), "resume.pdf")
	assert.ErrorIs(t, err, domain.ErrCorruptDocument)
}

func TestExtract_CorruptDOCX(t *testing.T) {
	e := newTestExtractor(t)

	_, err := e.Extract(context.Background(), []byte("not a zip archive"), "resume.docx")
	assert.ErrorIs(t, err, domain.ErrCorruptDocument)
}

func TestExtract_DOCXRawZipFallback(t *testing.T) {
	e := newTestExtractor(t)

	// A bare zip with only word/document.xml exercises the raw fallback
	// path when the docx reader rejects the archive.
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<w:document><w:body>` +
		`<w:p><w:r><w:rFonts w:ascii="Calibri"/><w:sz w:val="22"/><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Senior Engineer</w:t></w:r></w:p>` +
		`</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	got, err := e.Extract(context.Background(), buf.Bytes(), "resume.docx")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSenior Engineer", got.Text)
	assert.Equal(t, 1, got.Structure.PageCount)
	require.Len(t, got.Structure.Fonts, 1)
	assert.Equal(t, "Calibri", got.Structure.Fonts[0].Family)
	assert.Equal(t, 11.0, got.Structure.Fonts[0].Size)
}

func TestMeaningfulLength(t *testing.T) {
	assert.Equal(t, 0, meaningfulLength("  \n\t \r "))
	assert.Equal(t, 7, meaningfulLength(" jane \n doe "))
}
