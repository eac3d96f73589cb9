package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/secmon-lab/riskreg/pkg/domain/model/aggregate"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
	"github.com/secmon-lab/riskreg/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdSummary() *cli.Command {
	var registerCfg registerFlags
	var appetite int

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "appetite",
			Usage:       "Risk appetite threshold (configured value when omitted)",
			Destination: &appetite,
		},
	}
	flags = append(flags, registerCfg.Flags()...)

	return &cli.Command{
		Name:  "summary",
		Usage: "Print the register dashboard and heatmap",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, _, err := registerCfg.build(ctx)
			if err != nil {
				return err
			}

			dashboard, err := uc.Dashboard.Dashboard(ctx, appetite)
			if err != nil {
				return err
			}
			heatmap, err := uc.Dashboard.Heatmap(ctx, nil)
			if err != nil {
				return err
			}

			printSummary(c.Root().Writer, dashboard, heatmap)
			return nil
		},
	}
}

var (
	headerColor = color.New(color.Bold, color.Underline)
	labelColor  = color.New(color.FgCyan)

	severityColors = map[types.Severity]*color.Color{
		types.SeverityHigh:   color.New(color.BgRed, color.FgWhite, color.Bold),
		types.SeverityMedium: color.New(color.BgYellow, color.FgBlack),
		types.SeverityLow:    color.New(color.BgGreen, color.FgBlack),
	}
)

func printSummary(w io.Writer, d *usecase.Dashboard, h *usecase.HeatmapView) {
	_, _ = headerColor.Fprintln(w, "Risk register")
	printField(w, "Total risks", fmt.Sprintf("%d", d.Overview.Total))
	printField(w, "High residual", fmt.Sprintf("%d", d.Overview.HighResidualCount))
	printField(w, fmt.Sprintf("Above appetite (%d)", d.Appetite), fmt.Sprintf("%d", d.Overview.AboveAppetite))
	printField(w, "Avg inherent", fmt.Sprintf("%.1f", d.Overview.AvgInherent))
	printField(w, "Avg residual", fmt.Sprintf("%.1f", d.Overview.AvgResidual))
	printField(w, "Latest risk", d.Overview.LastRiskTitle)

	if len(d.Categories) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = headerColor.Fprintln(w, "By category")
		for _, c := range d.Categories {
			printField(w, c.Category.String(), fmt.Sprintf("%d risks, residual %d", c.Count, c.ResidualSum))
		}
	}

	_, _ = fmt.Fprintln(w)
	_, _ = headerColor.Fprintf(w, "Heatmap (high >= %d, medium >= %d)\n", h.Thresholds.High, h.Thresholds.Medium)
	_, _ = fmt.Fprint(w, "L\\I ")
	for col := 0; col < aggregate.HeatmapSize; col++ {
		_, _ = fmt.Fprintf(w, " %3d ", col+1)
	}
	_, _ = fmt.Fprintln(w)

	for row := aggregate.HeatmapSize - 1; row >= 0; row-- {
		_, _ = fmt.Fprintf(w, "%3d ", row+1)
		for col := 0; col < aggregate.HeatmapSize; col++ {
			cell := fmt.Sprintf(" %3d ", h.Heatmap.Cells[row][col])
			_, _ = severityColors[h.Grid[row][col]].Fprint(w, cell)
		}
		_, _ = fmt.Fprintln(w)
	}
}

func printField(w io.Writer, label, value string) {
	_, _ = labelColor.Fprintf(w, "%-22s", label)
	_, _ = fmt.Fprintln(w, value)
}
