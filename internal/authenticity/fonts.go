package authenticity

import (
	"math"
	"sort"

	"talentvet/internal/domain"
)

// scoreFontConsistency grades the unique (family, size) pair count. A small
// set of fonts is what a hand-authored document looks like.
func scoreFontConsistency(structure domain.StructureInfo, diag *domain.Diagnostics) float64 {
	unique := structure.UniqueFonts
	if unique == 0 {
		unique = len(structure.Fonts)
	}

	if len(structure.Fonts) > 0 {
		breakdown := append([]domain.FontUsage(nil), structure.Fonts...)
		sort.Slice(breakdown, func(i, j int) bool { return breakdown[i].Count > breakdown[j].Count })
		if len(breakdown) > 10 {
			breakdown = breakdown[:10]
		}
		diag.FontBreakdown = breakdown
	}

	switch {
	case unique <= 2:
		return 95
	case unique <= 4:
		return 85
	case unique <= 6:
		return 70
	default:
		return 50
	}
}

// scoreFormatting grades page count against font consistency.
func scoreFormatting(structure domain.StructureInfo) float64 {
	pages := structure.PageCount
	if pages == 0 {
		pages = 1
	}
	switch {
	case structure.FontsConsistent && pages <= 5:
		return 90
	case pages <= 10:
		return 80
	default:
		return 60
	}
}

// scoreStructureConsistency compares per-page text length variance to the
// mean. Wildly uneven pages suggest assembled or padded content.
func scoreStructureConsistency(structure domain.StructureInfo) float64 {
	lengths := structure.PageTextLengths
	if len(lengths) < 2 {
		return 90
	}
	var sum float64
	for _, l := range lengths {
		sum += float64(l)
	}
	mean := sum / float64(len(lengths))
	if mean == 0 {
		return 60
	}
	var variance float64
	for _, l := range lengths {
		d := float64(l) - mean
		variance += d * d
	}
	variance /= float64(len(lengths))
	// Coefficient of variation above 0.5 counts as high variance.
	if math.Sqrt(variance)/mean > 0.5 {
		return 60
	}
	return 90
}
