package render_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskreg/pkg/domain/model"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
	"github.com/secmon-lab/riskreg/pkg/service/render"
	"github.com/xuri/excelize/v2"
)

func newReport() *model.Report {
	return &model.Report{
		Title:       "Risk Register Report",
		GeneratedAt: time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC),
		Table: model.Table{
			Fields:  []types.ExportField{types.ExportFieldTitle, types.ExportFieldResidualScore, types.ExportFieldMappedControls},
			Columns: []string{"Title", "Residual Score", "Controls"},
			Rows: [][]string{
				{"Vendor outage", "20", "ISO 27001, NIST CSF"},
				{"Badge cloning, \"lobby\"", "6", ""},
			},
		},
		Summary: model.ExecutiveSummary{
			Total:           2,
			Coverage:        50,
			MostSevereTitle: "Vendor outage",
			MostSevereScore: 20,
			NewThisMonth:    2,
			HighThisMonth:   1,
			ByStatus:        []model.LabelCount{{Label: "Open", Count: 2}},
			ByOwner:         []model.LabelCount{{Label: "alice", Count: 1}},
		},
		Trend: []model.MonthBucket{
			{Label: "Apr 2024"},
			{Label: "May 2024", Created: 2},
		},
	}
}

func TestNew(t *testing.T) {
	for _, f := range types.AllExportFormats() {
		t.Run(string(f), func(t *testing.T) {
			r, err := render.New(f)
			gt.NoError(t, err).Required()
			gt.String(t, r.ContentType()).NotEqual("")
			gt.Value(t, r.Extension()).Equal("." + string(f))
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		_, err := render.New(types.ExportFormat("docx"))
		gt.Error(t, err)
	})

	gt.Number(t, len(render.All())).Equal(len(types.AllExportFormats()))
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	gt.NoError(t, (&render.CSV{}).Render(context.Background(), &buf, newReport())).Required()

	records, err := csv.NewReader(&buf).ReadAll()
	gt.NoError(t, err).Required()
	gt.Array(t, records).Length(3).Required()
	gt.Value(t, records[0]).Equal([]string{"Title", "Residual Score", "Controls"})
	gt.Value(t, records[1][2]).Equal("ISO 27001, NIST CSF")
	gt.Value(t, records[2][0]).Equal("Badge cloning, \"lobby\"")
}

func TestCSV_Empty(t *testing.T) {
	report := newReport()
	report.Table.Rows = nil

	var buf bytes.Buffer
	gt.NoError(t, (&render.CSV{}).Render(context.Background(), &buf, report)).Required()
	gt.Value(t, buf.String()).Equal("Title,Residual Score,Controls\n")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	gt.NoError(t, (&render.JSON{}).Render(context.Background(), &buf, newReport())).Required()

	var got struct {
		Title   string     `json:"title"`
		Fields  []string   `json:"fields"`
		Rows    [][]string `json:"rows"`
		Summary struct {
			Total           int    `json:"total"`
			MostSevereTitle string `json:"mostSevereTitle"`
		} `json:"summary"`
		Trend []struct {
			Month   string `json:"month"`
			Created int    `json:"created"`
		} `json:"trend"`
	}
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &got)).Required()
	gt.Value(t, got.Title).Equal("Risk Register Report")
	gt.Value(t, got.Fields).Equal([]string{"title", "residualScore", "mappedControls"})
	gt.Array(t, got.Rows).Length(2)
	gt.Value(t, got.Summary.Total).Equal(2)
	gt.Value(t, got.Summary.MostSevereTitle).Equal("Vendor outage")
	gt.Array(t, got.Trend).Length(2).Required()
	gt.Value(t, got.Trend[1].Month).Equal("May 2024")
	gt.Value(t, got.Trend[1].Created).Equal(2)
}

func TestJSON_EmptyCollectionsAreArrays(t *testing.T) {
	var buf bytes.Buffer
	gt.NoError(t, (&render.JSON{}).Render(context.Background(), &buf, &model.Report{Title: "empty"})).Required()
	gt.String(t, buf.String()).Contains(`"rows": []`)
	gt.String(t, buf.String()).Contains(`"byStatus": []`)
	gt.String(t, buf.String()).Contains(`"trend": []`)
}

func TestExcel(t *testing.T) {
	var buf bytes.Buffer
	gt.NoError(t, (&render.Excel{}).Render(context.Background(), &buf, newReport())).Required()

	f, err := excelize.OpenReader(&buf)
	gt.NoError(t, err).Required()
	defer func() { _ = f.Close() }()

	gt.Value(t, f.GetSheetList()).Equal([]string{render.SheetRisks, render.SheetSummary, render.SheetTrend})

	rows, err := f.GetRows(render.SheetRisks)
	gt.NoError(t, err).Required()
	gt.Array(t, rows).Length(3).Required()
	gt.Value(t, rows[0][0]).Equal("Title")
	gt.Value(t, rows[1][1]).Equal("20")

	total, err := f.GetCellValue(render.SheetSummary, "B2")
	gt.NoError(t, err).Required()
	gt.Value(t, total).Equal("2")

	trend, err := f.GetRows(render.SheetTrend)
	gt.NoError(t, err).Required()
	gt.Array(t, trend).Length(3).Required()
	gt.Value(t, trend[2][0]).Equal("May 2024")
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	gt.NoError(t, (&render.PDF{}).Render(context.Background(), &buf, newReport())).Required()

	gt.Bool(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-"))).True()
	gt.Bool(t, bytes.Contains(buf.Bytes(), []byte("%%EOF"))).True()
}

func TestPDF_LongCellsAndManyRows(t *testing.T) {
	report := newReport()
	long := string(bytes.Repeat([]byte("very long title "), 20))
	for i := 0; i < 120; i++ {
		report.Table.Rows = append(report.Table.Rows, []string{long, "1", "SOC 2"})
	}

	var buf bytes.Buffer
	gt.NoError(t, (&render.PDF{}).Render(context.Background(), &buf, report)).Required()
	gt.Bool(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-"))).True()
}
