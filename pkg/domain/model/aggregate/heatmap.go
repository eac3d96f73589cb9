package aggregate

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/model"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
)

// HeatmapSize is the edge length of the likelihood × impact matrix
const HeatmapSize = model.MaxLevel

// Heatmap counts risks per (likelihood, impact) pair.
// Cells is indexed [likelihood-1][impact-1].
type Heatmap struct {
	Cells [HeatmapSize][HeatmapSize]int
}

// Thresholds classify heatmap cell counts
type Thresholds struct {
	High   int
	Medium int
}

// DefaultThresholds are the initial cell thresholds of the charts view
var DefaultThresholds = Thresholds{High: 5, Medium: 3}

// Validate checks that both thresholds are positive and ordered
func (t Thresholds) Validate() error {
	if t.Medium < 1 || t.High < 1 {
		return goerr.New("heatmap thresholds must be positive", goerr.V("high", t.High), goerr.V("medium", t.Medium))
	}
	if t.Medium > t.High {
		return goerr.New("medium threshold must not exceed high threshold", goerr.V("high", t.High), goerr.V("medium", t.Medium))
	}
	return nil
}

// BuildHeatmap places every risk at its clamped (likelihood, impact) cell
func BuildHeatmap(risks []*model.Risk) Heatmap {
	var h Heatmap
	for _, r := range risks {
		li := clamp(r.Likelihood) - 1
		im := clamp(r.Impact) - 1
		h.Cells[li][im]++
	}
	return h
}

// Classify returns the band of the cell at zero-based (row, col)
func (h *Heatmap) Classify(row, col int, th Thresholds) types.Severity {
	count := h.Cells[row][col]
	switch {
	case count >= th.High:
		return types.SeverityHigh
	case count >= th.Medium:
		return types.SeverityMedium
	default:
		return types.SeverityLow
	}
}

// Grid classifies every cell
func (h *Heatmap) Grid(th Thresholds) [HeatmapSize][HeatmapSize]types.Severity {
	var grid [HeatmapSize][HeatmapSize]types.Severity
	for row := range h.Cells {
		for col := range h.Cells[row] {
			grid[row][col] = h.Classify(row, col, th)
		}
	}
	return grid
}

func clamp(v int) int {
	if v < model.MinLevel {
		return model.MinLevel
	}
	if v > model.MaxLevel {
		return model.MaxLevel
	}
	return v
}
