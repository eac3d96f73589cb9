package render

import (
	"context"
	"io"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/interfaces"
	"github.com/secmon-lab/riskreg/pkg/domain/model"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the Excel workbook
const (
	SheetRisks   = "Risks"
	SheetSummary = "Summary"
	SheetTrend   = "Trend"
)

// Excel writes a workbook with the risk table, the executive summary and the trend
type Excel struct{}

var _ interfaces.Renderer = &Excel{}

func (r *Excel) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (r *Excel) Extension() string { return ".xlsx" }

func (r *Excel) Render(_ context.Context, w io.Writer, report *model.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return goerr.Wrap(err, "failed to create header style")
	}

	if err := f.SetSheetName("Sheet1", SheetRisks); err != nil {
		return goerr.Wrap(err, "failed to rename sheet")
	}
	if err := writeRiskSheet(f, report.Table, bold); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return goerr.Wrap(err, "failed to create sheet", goerr.V("sheet", SheetSummary))
	}
	if err := writeSummarySheet(f, report, bold); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetTrend); err != nil {
		return goerr.Wrap(err, "failed to create sheet", goerr.V("sheet", SheetTrend))
	}
	if err := writeTrendSheet(f, report.Trend, bold); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return goerr.Wrap(err, "failed to write workbook")
	}
	return nil
}

func writeRiskSheet(f *excelize.File, table model.Table, headerStyle int) error {
	if err := setRow(f, SheetRisks, 1, toCells(table.Columns)); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetRisks, 1, 1, headerStyle); err != nil {
		return goerr.Wrap(err, "failed to style header")
	}

	for i, row := range table.Rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
			if j < len(table.Fields) && isNumericField(table.Fields[j]) {
				if n, err := strconv.Atoi(v); err == nil {
					cells[j] = n
				}
			}
		}
		if err := setRow(f, SheetRisks, i+2, cells); err != nil {
			return err
		}
	}

	return nil
}

func writeSummarySheet(f *excelize.File, report *model.Report, headerStyle int) error {
	s := report.Summary
	rows := [][]interface{}{
		{report.Title, report.GeneratedAt.Format("2006-01-02 15:04 MST")},
		{"Total Risks", s.Total},
		{"Control Coverage (%)", s.Coverage},
		{"Most Severe", s.MostSevereTitle},
		{"Most Severe Score", s.MostSevereScore},
		{"New This Month", s.NewThisMonth},
		{"High This Month", s.HighThisMonth},
		{"Mitigated This Month", s.MitigatedThisMonth},
		{},
		{"Status", "Count"},
	}
	for _, c := range s.ByStatus {
		rows = append(rows, []interface{}{c.Label, c.Count})
	}
	rows = append(rows, []interface{}{}, []interface{}{"Owner", "Count"})
	for _, c := range s.ByOwner {
		rows = append(rows, []interface{}{c.Label, c.Count})
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if err := setRow(f, SheetSummary, i+1, row); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(SheetSummary, 1, 1, headerStyle); err != nil {
		return goerr.Wrap(err, "failed to style title")
	}
	return nil
}

func writeTrendSheet(f *excelize.File, trend []model.MonthBucket, headerStyle int) error {
	if err := setRow(f, SheetTrend, 1, []interface{}{"Month", "Created", "Mitigated"}); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetTrend, 1, 1, headerStyle); err != nil {
		return goerr.Wrap(err, "failed to style header")
	}
	for i, b := range trend {
		if err := setRow(f, SheetTrend, i+2, []interface{}{b.Label, b.Created, b.Mitigated}); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return goerr.Wrap(err, "invalid cell coordinates", goerr.V("row", row))
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return goerr.Wrap(err, "failed to write row", goerr.V("sheet", sheet), goerr.V("row", row))
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func isNumericField(f types.ExportField) bool {
	switch f {
	case types.ExportFieldLikelihood, types.ExportFieldImpact,
		types.ExportFieldInherentScore, types.ExportFieldResidualScore:
		return true
	}
	return false
}
