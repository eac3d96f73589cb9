package render

import (
	"context"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/interfaces"
	"github.com/secmon-lab/riskreg/pkg/domain/model"
)

const (
	pdfMargin    = 14.0
	pdfLineH     = 6.0
	pdfRowH      = 5.0
	pdfPageWidth = 210.0
	pdfFont      = "Helvetica"
)

// PDF writes a one-document report: headline figures, status and owner counts,
// the monthly trend table and the risk table.
type PDF struct{}

var _ interfaces.Renderer = &PDF{}

func (r *PDF) ContentType() string { return "application/pdf" }
func (r *PDF) Extension() string   { return ".pdf" }

func (r *PDF) Render(_ context.Context, w io.Writer, report *model.Report) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	doc.SetAutoPageBreak(true, pdfMargin)
	doc.SetTitle(report.Title, true)
	doc.SetCreationDate(report.GeneratedAt)
	doc.SetModificationDate(report.GeneratedAt)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.AddPage()

	doc.SetFont(pdfFont, "B", 16)
	doc.Cell(0, 10, tr(report.Title))
	doc.Ln(12)

	s := report.Summary
	doc.SetFont(pdfFont, "", 12)
	lines := []string{
		fmt.Sprintf("Total Risks: %d", s.Total),
		fmt.Sprintf("Most Severe: %s (Score: %d)", s.MostSevereTitle, s.MostSevereScore),
		fmt.Sprintf("Control Coverage: %d%%", s.Coverage),
		fmt.Sprintf("This Month: %d new, %d high, %d mitigated", s.NewThisMonth, s.HighThisMonth, s.MitigatedThisMonth),
	}
	for _, line := range lines {
		doc.Cell(0, pdfLineH, tr(line))
		doc.Ln(pdfLineH)
	}
	doc.Ln(4)

	countRows := func(counts []model.LabelCount) [][]string {
		rows := make([][]string, 0, len(counts))
		for _, c := range counts {
			rows = append(rows, []string{c.Label, fmt.Sprint(c.Count)})
		}
		return rows
	}
	pdfTable(doc, tr, []string{"Status", "Count"}, countRows(s.ByStatus), 9)
	pdfTable(doc, tr, []string{"Owner", "Count"}, countRows(s.ByOwner), 9)

	trendRows := make([][]string, 0, len(report.Trend))
	for _, b := range report.Trend {
		trendRows = append(trendRows, []string{b.Label, fmt.Sprint(b.Created), fmt.Sprint(b.Mitigated)})
	}
	pdfTable(doc, tr, []string{"Month", "Created", "Mitigated"}, trendRows, 8)

	pdfTable(doc, tr, report.Table.Columns, report.Table.Rows, 7)

	if err := doc.Output(w); err != nil {
		return goerr.Wrap(err, "failed to write PDF")
	}
	return nil
}

// pdfTable draws a bordered table across the printable width followed by a gap
func pdfTable(doc *fpdf.Fpdf, tr func(string) string, head []string, rows [][]string, fontSize float64) {
	if len(head) == 0 {
		return
	}
	colW := (pdfPageWidth - 2*pdfMargin) / float64(len(head))

	doc.SetFont(pdfFont, "B", fontSize)
	doc.SetFillColor(230, 230, 230)
	for _, h := range head {
		doc.CellFormat(colW, pdfRowH, fitText(doc, tr(h), colW), "1", 0, "L", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont(pdfFont, "", fontSize)
	for _, row := range rows {
		for i := range head {
			var v string
			if i < len(row) {
				v = row[i]
			}
			doc.CellFormat(colW, pdfRowH, fitText(doc, tr(v), colW), "1", 0, "L", false, 0, "")
		}
		doc.Ln(-1)
	}
	doc.Ln(6)
}

// fitText shortens s with a trailing ".." so that it fits into width
func fitText(doc *fpdf.Fpdf, s string, width float64) string {
	limit := width - 2*doc.GetCellMargin()
	if doc.GetStringWidth(s) <= limit {
		return s
	}
	for len(s) > 0 && doc.GetStringWidth(s+"..") > limit {
		s = s[:len(s)-1]
	}
	return s + ".."
}
