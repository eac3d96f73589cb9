package render

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/interfaces"
	"github.com/secmon-lab/riskreg/pkg/domain/model"
)

// CSV writes the projected table with a header row of column labels
type CSV struct{}

var _ interfaces.Renderer = &CSV{}

func (r *CSV) ContentType() string { return "text/csv; charset=utf-8" }
func (r *CSV) Extension() string   { return ".csv" }

func (r *CSV) Render(_ context.Context, w io.Writer, report *model.Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(report.Table.Columns); err != nil {
		return goerr.Wrap(err, "failed to write CSV header")
	}
	if err := cw.WriteAll(report.Table.Rows); err != nil {
		return goerr.Wrap(err, "failed to write CSV rows", goerr.V("rows", len(report.Table.Rows)))
	}

	return nil
}
