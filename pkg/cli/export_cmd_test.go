package cli_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskreg/pkg/cli"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
	"github.com/secmon-lab/riskreg/pkg/repository/memory"
	"github.com/secmon-lab/riskreg/pkg/service/render"
	"github.com/secmon-lab/riskreg/pkg/usecase"
	urfavecli "github.com/urfave/cli/v3"
)

func TestBuildExportRequest(t *testing.T) {
	settings := usecase.DefaultSettings()

	t.Run("all formats by default", func(t *testing.T) {
		req, formats, err := cli.BuildExportRequest(settings, "Q1", "2026-01-01", "2026-03-31", nil, nil)
		gt.NoError(t, err).Required()
		gt.Value(t, req.Title).Equal("Q1")
		gt.Array(t, formats).Length(len(types.AllExportFormats()))
		gt.Value(t, req.Range.From).NotNil()
	})

	t.Run("selected formats and fields", func(t *testing.T) {
		req, formats, err := cli.BuildExportRequest(settings, "", "", "", []string{"title", "owner"}, []string{"CSV", "pdf"})
		gt.NoError(t, err).Required()
		gt.Value(t, formats).Equal([]types.ExportFormat{types.ExportFormatCSV, types.ExportFormatPDF})
		gt.Value(t, req.Fields).Equal([]types.ExportField{types.ExportFieldTitle, types.ExportFieldOwner})
	})

	t.Run("unknown format", func(t *testing.T) {
		_, _, err := cli.BuildExportRequest(settings, "", "", "", nil, []string{"docx"})
		gt.Error(t, err)
	})

	t.Run("bad date", func(t *testing.T) {
		_, _, err := cli.BuildExportRequest(settings, "", "01/02/2026", "", nil, nil)
		gt.Error(t, err)
	})
}

func TestExportReports(t *testing.T) {
	ctx := context.Background()

	var opts []usecase.Option
	for format, r := range render.All() {
		opts = append(opts, usecase.WithRenderer(format, r))
	}
	uc := usecase.New(memory.New(), opts...)

	_, err := uc.Risk.CreateRisk(ctx, usecase.CreateRiskInput{
		Title:      "Stale admin accounts",
		Desc:       "Leavers keep console access",
		Category:   types.CategoryInsider,
		Likelihood: 4,
		Impact:     7,
	})
	gt.NoError(t, err).Required()

	dir := filepath.Join(t.TempDir(), "out")
	now := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)

	paths, err := cli.ExportReports(ctx, uc, dir, types.AllExportFormats(), usecase.ExportRequest{Title: "Monthly"}, now)
	gt.NoError(t, err).Required()
	gt.Array(t, paths).Length(4)

	for _, p := range paths {
		info, err := os.Stat(p)
		gt.NoError(t, err).Required()
		gt.Number(t, info.Size()).Greater(0)
	}

	data, err := os.ReadFile(filepath.Join(dir, "risk-register-20260502.json"))
	gt.NoError(t, err).Required()

	var report map[string]any
	gt.NoError(t, json.Unmarshal(data, &report)).Required()
	gt.Value(t, report["title"]).Equal("Monthly")
}

func TestRun_ExportCommand(t *testing.T) {
	tmpDir := t.TempDir()
	seedPath := writeFile(t, tmpDir, "seed.toml", testSeed)
	outDir := filepath.Join(tmpDir, "reports")

	err := cli.Run(context.Background(), []string{
		"riskreg", "--log-output", "stderr", "export",
		"--seed", seedPath,
		"--output", outDir,
		"--format", "csv",
		"--format", "json",
	}, "test")
	gt.NoError(t, err).Required()

	entries, err := os.ReadDir(outDir)
	gt.NoError(t, err).Required()
	gt.Array(t, entries).Length(2)
}

func TestExportCommand_DateFlagUsage(t *testing.T) {
	cmd := cli.CmdExport()
	for _, name := range []string{"from", "to"} {
		var usage string
		for _, f := range cmd.Flags {
			if sf, ok := f.(*urfavecli.StringFlag); ok && sf.Name == name {
				usage = sf.Usage
			}
		}
		gt.String(t, usage).Contains("created or updated")
	}
}
