package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"talentvet/internal/domain"
)

func outcome(filename string, overall float64) domain.ScanOutcome {
	return domain.ScanOutcome{
		Filename:     filename,
		ContentHash:  "0123456789abcdef0123456789abcdef",
		Authenticity: &domain.AuthenticityReport{Overall: overall},
		Status:       domain.ScanStatusPending,
		ScannedAt:    time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestWriteWorkbook_RanksByAuthenticity(t *testing.T) {
	outcomes := []domain.ScanOutcome{
		outcome("low.pdf", 42.0),
		outcome("high.pdf", 91.5),
		outcome("mid.pdf", 70.0),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, "sess-1", outcomes))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Scans")
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "Rank", rows[0][0])
	assert.Equal(t, "Filename", rows[0][1])

	assert.Equal(t, "high.pdf", rows[1][1])
	assert.Equal(t, "mid.pdf", rows[2][1])
	assert.Equal(t, "low.pdf", rows[3][1])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "0123456789ab", rows[1][2])

	props, err := f.GetDocProps()
	require.NoError(t, err)
	assert.Equal(t, "Vetting session sess-1", props.Title)
}

func TestWriteWorkbook_MatchColumnsOptional(t *testing.T) {
	withMatch := outcome("matched.pdf", 80.0)
	withMatch.Match = &domain.MatchReport{
		Overall:         69.0,
		SkillsMatch:     50.0,
		ExperienceMatch: 100.0,
		EducationMatch:  70.0,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, "sess-2", []domain.ScanOutcome{withMatch, outcome("plain.pdf", 60.0)}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Scans")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "69", rows[1][4])
	assert.Equal(t, "50", rows[1][5])
	// No JD was supplied for the second scan, so match cells stay blank.
	if len(rows[2]) > 4 {
		assert.Empty(t, rows[2][4])
	}
}

func TestWriteWorkbook_EmptySession(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, "sess-3", nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Scans")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, columns, rows[0])
}
