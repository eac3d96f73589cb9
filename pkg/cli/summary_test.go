package cli_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskreg/pkg/cli"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
	"github.com/secmon-lab/riskreg/pkg/repository/memory"
	"github.com/secmon-lab/riskreg/pkg/usecase"
)

func TestPrintSummary(t *testing.T) {
	color.NoColor = true
	ctx := context.Background()
	uc := usecase.New(memory.New())

	for _, in := range []usecase.CreateRiskInput{
		{Title: "Tailgating", Desc: "Doors held open", Category: types.CategoryPhysical, Likelihood: 3, Impact: 4},
		{Title: "Data exfiltration", Desc: "USB exports", Category: types.CategoryInsider, Likelihood: 8, Impact: 9},
	} {
		_, err := uc.Risk.CreateRisk(ctx, in)
		gt.NoError(t, err).Required()
	}

	dashboard, err := uc.Dashboard.Dashboard(ctx, 0)
	gt.NoError(t, err).Required()
	heatmap, err := uc.Dashboard.Heatmap(ctx, nil)
	gt.NoError(t, err).Required()

	var buf bytes.Buffer
	cli.PrintSummary(&buf, dashboard, heatmap)

	out := buf.String()
	gt.String(t, out).Contains("Total risks")
	gt.String(t, out).Contains("Data exfiltration")
	gt.String(t, out).Contains("Physical")
	gt.String(t, out).Contains("Heatmap (high >= 5, medium >= 3)")
}
