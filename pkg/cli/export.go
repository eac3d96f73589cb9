package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/model/aggregate"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
	"github.com/secmon-lab/riskreg/pkg/usecase"
	"github.com/secmon-lab/riskreg/pkg/utils/logging"
	"github.com/secmon-lab/riskreg/pkg/utils/safe"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const exportFilePrefix = "risk-register-"

func cmdExport() *cli.Command {
	var registerCfg registerFlags
	var outDir string
	var formats []string
	var title string
	var from string
	var to string
	var fields []string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Directory receiving the report files",
			Value:       ".",
			Destination: &outDir,
		},
		&cli.StringSliceFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "Report format [json|csv|xlsx|pdf], repeatable (all formats when omitted)",
			Destination: &formats,
		},
		&cli.StringFlag{
			Name:        "title",
			Usage:       "Report title",
			Value:       usecase.DefaultReportTitle,
			Destination: &title,
		},
		&cli.StringFlag{
			Name:        "from",
			Usage:       "Include risks created or updated on or after this date (" + aggregate.DateLayout + ")",
			Destination: &from,
		},
		&cli.StringFlag{
			Name:        "to",
			Usage:       "Include risks created or updated on or before this date (" + aggregate.DateLayout + ")",
			Destination: &to,
		},
		&cli.StringSliceFlag{
			Name:        "fields",
			Usage:       "Risk fields included in the report, repeatable",
			Destination: &fields,
		},
	}
	flags = append(flags, registerCfg.Flags()...)

	return &cli.Command{
		Name:    "export",
		Aliases: []string{"e"},
		Usage:   "Write register reports to files",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, _, err := registerCfg.build(ctx)
			if err != nil {
				return err
			}

			req, selected, err := buildExportRequest(uc.Settings(), title, from, to, fields, formats)
			if err != nil {
				return goerr.Wrap(usecase.ErrValidation, err.Error())
			}

			paths, err := exportReports(ctx, uc, outDir, selected, req, time.Now().UTC())
			if err != nil {
				return err
			}

			for _, p := range paths {
				logging.Default().Info("Report written", "path", p)
			}
			return nil
		},
	}
}

func buildExportRequest(settings usecase.Settings, title, from, to string, fields, formats []string) (usecase.ExportRequest, []types.ExportFormat, error) {
	req := usecase.ExportRequest{Title: title}

	dateRange, err := aggregate.ParseDateRange(from, to, settings.Location)
	if err != nil {
		return req, nil, err
	}
	req.Range = dateRange

	if len(fields) > 0 {
		if req.Fields, err = types.ParseExportFields(fields); err != nil {
			return req, nil, err
		}
	}

	if len(formats) == 0 {
		return req, types.AllExportFormats(), nil
	}

	selected := make([]types.ExportFormat, 0, len(formats))
	for _, f := range formats {
		format, err := types.ParseExportFormat(strings.ToLower(f))
		if err != nil {
			return req, nil, err
		}
		selected = append(selected, format)
	}
	return req, selected, nil
}

// exportReports renders every format concurrently from one request. Each
// format takes its own snapshot of the register.
func exportReports(ctx context.Context, uc *usecase.UseCases, dir string, formats []types.ExportFormat, req usecase.ExportRequest, now time.Time) ([]string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, goerr.Wrap(err, "failed to create output directory", goerr.V("dir", dir))
	}

	paths := make([]string, len(formats))
	eg, ctx := errgroup.WithContext(ctx)

	for i, format := range formats {
		eg.Go(func() error {
			renderer, err := uc.Export.Renderer(format)
			if err != nil {
				return err
			}

			path := filepath.Join(dir, exportFilePrefix+now.Format("20060102")+renderer.Extension())
			// #nosec G304 -- output directory comes from CLI flag
			f, err := os.Create(path)
			if err != nil {
				return goerr.Wrap(err, "failed to create report file", goerr.V("path", path))
			}
			defer safe.Close(ctx, f)

			if err := uc.Export.Render(ctx, f, format, req); err != nil {
				return goerr.Wrap(err, "failed to render report", goerr.V("format", format))
			}
			paths[i] = path
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
