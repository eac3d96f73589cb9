package model

import (
	"time"

	"github.com/secmon-lab/riskreg/pkg/domain/types"
)

// Table is a projection of risks onto selected export fields
type Table struct {
	Fields  []types.ExportField
	Columns []string // labels, aligned with Fields
	Rows    [][]string
}

// LabelCount is a count keyed by a display label
type LabelCount struct {
	Label string
	Count int
}

// MonthBucket holds created and mitigated counts of one calendar month
type MonthBucket struct {
	Month     time.Time // first instant of the month
	Label     string    // e.g. "Jan 2024"
	Created   int
	Mitigated int
}

// ExecutiveSummary is the headline block of a report
type ExecutiveSummary struct {
	Total              int
	Coverage           int // percent of risks with at least one mapped control
	MostSevereTitle    string
	MostSevereScore    int
	NewThisMonth       int
	HighThisMonth      int
	MitigatedThisMonth int
	ByStatus           []LabelCount
	ByOwner            []LabelCount
}

// Report is what the export pipeline hands to renderers
type Report struct {
	Title       string
	GeneratedAt time.Time
	Table       Table
	Summary     ExecutiveSummary
	Trend       []MonthBucket
}
