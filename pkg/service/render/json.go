package render

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/interfaces"
	"github.com/secmon-lab/riskreg/pkg/domain/model"
)

// JSON writes the whole report, including summary and trend
type JSON struct{}

var _ interfaces.Renderer = &JSON{}

type jsonReport struct {
	Title       string          `json:"title"`
	GeneratedAt time.Time       `json:"generatedAt"`
	Fields      []string        `json:"fields"`
	Columns     []string        `json:"columns"`
	Rows        [][]string      `json:"rows"`
	Summary     jsonSummary     `json:"summary"`
	Trend       []jsonTrendItem `json:"trend"`
}

type jsonSummary struct {
	Total              int              `json:"total"`
	Coverage           int              `json:"coverage"`
	MostSevereTitle    string           `json:"mostSevereTitle"`
	MostSevereScore    int              `json:"mostSevereScore"`
	NewThisMonth       int              `json:"newThisMonth"`
	HighThisMonth      int              `json:"highThisMonth"`
	MitigatedThisMonth int              `json:"mitigatedThisMonth"`
	ByStatus           []jsonLabelCount `json:"byStatus"`
	ByOwner            []jsonLabelCount `json:"byOwner"`
}

type jsonLabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type jsonTrendItem struct {
	Month     string `json:"month"`
	Created   int    `json:"created"`
	Mitigated int    `json:"mitigated"`
}

func (r *JSON) ContentType() string { return "application/json" }
func (r *JSON) Extension() string   { return ".json" }

func (r *JSON) Render(_ context.Context, w io.Writer, report *model.Report) error {
	out := jsonReport{
		Title:       report.Title,
		GeneratedAt: report.GeneratedAt,
		Fields:      make([]string, 0, len(report.Table.Fields)),
		Columns:     nonNil(report.Table.Columns),
		Rows:        make([][]string, 0, len(report.Table.Rows)),
		Summary: jsonSummary{
			Total:              report.Summary.Total,
			Coverage:           report.Summary.Coverage,
			MostSevereTitle:    report.Summary.MostSevereTitle,
			MostSevereScore:    report.Summary.MostSevereScore,
			NewThisMonth:       report.Summary.NewThisMonth,
			HighThisMonth:      report.Summary.HighThisMonth,
			MitigatedThisMonth: report.Summary.MitigatedThisMonth,
			ByStatus:           toLabelCounts(report.Summary.ByStatus),
			ByOwner:            toLabelCounts(report.Summary.ByOwner),
		},
		Trend: make([]jsonTrendItem, 0, len(report.Trend)),
	}

	for _, f := range report.Table.Fields {
		out.Fields = append(out.Fields, string(f))
	}
	for _, row := range report.Table.Rows {
		out.Rows = append(out.Rows, nonNil(row))
	}
	for _, b := range report.Trend {
		out.Trend = append(out.Trend, jsonTrendItem{Month: b.Label, Created: b.Created, Mitigated: b.Mitigated})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return goerr.Wrap(err, "failed to encode report")
	}
	return nil
}

func toLabelCounts(counts []model.LabelCount) []jsonLabelCount {
	out := make([]jsonLabelCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, jsonLabelCount{Label: c.Label, Count: c.Count})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
