package export

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"talentvet/internal/domain"
)

const sheetName = "Scans"

// columns defines the export header row.
var columns = []string{
	"Rank",
	"Filename",
	"Content Hash",
	"Authenticity",
	"Match",
	"Skills",
	"Experience",
	"Education",
	"Status",
	"From Cache",
	"Scanned At",
}

// WriteWorkbook renders session scan outcomes as an xlsx workbook, ranked
// by authenticity score descending, and writes it to w.
func WriteWorkbook(w io.Writer, sessionID string, outcomes []domain.ScanOutcome) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	f.SetColWidth(sheetName, "B", "B", 32)
	f.SetColWidth(sheetName, "C", "C", 18)
	f.SetColWidth(sheetName, "K", "K", 20)

	for col, header := range columns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	ranked := make([]domain.ScanOutcome, len(outcomes))
	copy(ranked, outcomes)
	sort.SliceStable(ranked, func(i, j int) bool {
		return authenticityScore(ranked[i]) > authenticityScore(ranked[j])
	})

	for i, outcome := range ranked {
		row := i + 2
		values := outcomeRow(i+1, outcome)
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	if len(ranked) > 0 {
		f.AutoFilter(sheetName, fmt.Sprintf("A1:K%d", len(ranked)+1), nil)
	}
	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	props, _ := f.GetDocProps()
	if props != nil {
		props.Title = "Vetting session " + sessionID
		f.SetDocProps(props)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func authenticityScore(o domain.ScanOutcome) float64 {
	if o.Authenticity == nil {
		return 0
	}
	return o.Authenticity.Overall
}

func outcomeRow(rank int, o domain.ScanOutcome) []interface{} {
	hash := o.ContentHash
	if len(hash) > 12 {
		hash = hash[:12]
	}

	var authScore, matchScore, skills, experience, education interface{}
	if o.Authenticity != nil {
		authScore = o.Authenticity.Overall
	}
	if o.Match != nil {
		matchScore = o.Match.Overall
		skills = o.Match.SkillsMatch
		experience = o.Match.ExperienceMatch
		education = o.Match.EducationMatch
	}

	return []interface{}{
		rank,
		o.Filename,
		hash,
		authScore,
		matchScore,
		skills,
		experience,
		education,
		string(o.Status),
		o.FromCache,
		o.ScannedAt.Format(time.RFC3339),
	}
}
