package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskreg/pkg/cli/config"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
	"github.com/secmon-lab/riskreg/pkg/usecase"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name: "full configuration",
			content: `
[register]
appetite = 30
high_residual = 25
timezone = "Asia/Tokyo"
export_fields = ["title", "residualScore"]

[heatmap]
high = 12
medium = 4

[digest]
interval = "24h"
`,
		},
		{
			name:    "empty configuration",
			content: "",
		},
		{
			name: "appetite out of range",
			content: `
[register]
appetite = 101
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "unknown timezone",
			content: `
[register]
timezone = "Mars/Olympus"
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "unknown export field",
			content: `
[register]
export_fields = ["nope"]
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "medium above high",
			content: `
[heatmap]
high = 4
medium = 12
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "bad digest interval",
			content: `
[digest]
interval = "daily"
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "broken TOML",
			content: "[register\nappetite = ",
			wantErr: config.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "config.toml", tt.content)
			cfg, err := config.LoadAppConfiguration(path)
			if tt.wantErr != nil {
				gt.Error(t, err).Is(tt.wantErr)
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, cfg).NotNil()
		})
	}
}

func TestLoadAppConfigurationMissingFile(t *testing.T) {
	_, err := config.LoadAppConfiguration(filepath.Join(t.TempDir(), "missing.toml"))
	gt.Error(t, err).Is(config.ErrConfigNotFound)
}

func TestToSettings(t *testing.T) {
	t.Run("overrides configured values", func(t *testing.T) {
		path := writeFile(t, "config.toml", `
[register]
appetite = 30
timezone = "Asia/Tokyo"
export_fields = ["title", "residualScore"]

[heatmap]
high = 12
medium = 4
`)
		cfg, err := config.LoadAppConfiguration(path)
		gt.NoError(t, err).Required()

		s, err := cfg.ToSettings()
		gt.NoError(t, err).Required()
		gt.Value(t, s.Appetite).Equal(30)
		gt.Value(t, s.HighResidual).Equal(usecase.DefaultSettings().HighResidual)
		gt.Value(t, s.Location.String()).Equal("Asia/Tokyo")
		gt.Array(t, s.ExportFields).Length(2)
		gt.Value(t, s.ExportFields[1]).Equal(types.ExportFieldResidualScore)
		gt.Value(t, s.Heatmap.High).Equal(12)
		gt.Value(t, s.Heatmap.Medium).Equal(4)
	})

	t.Run("empty configuration keeps defaults", func(t *testing.T) {
		cfg := &config.AppConfig{}
		s, err := cfg.ToSettings()
		gt.NoError(t, err).Required()

		d := usecase.DefaultSettings()
		gt.Value(t, s.Appetite).Equal(d.Appetite)
		gt.Value(t, s.Heatmap).Equal(d.Heatmap)
		gt.Value(t, s.Location).Equal(time.UTC)
		gt.Array(t, s.ExportFields).Length(len(d.ExportFields))
	})
}

func TestDigestInterval(t *testing.T) {
	cfg := &config.AppConfig{Digest: config.DigestConfig{Interval: "90m"}}
	d, err := cfg.DigestInterval()
	gt.NoError(t, err)
	gt.Value(t, d).Equal(90 * time.Minute)

	d, err = (&config.AppConfig{}).DigestInterval()
	gt.NoError(t, err)
	gt.Value(t, d).Equal(time.Duration(0))
}

func TestConfigConfigure(t *testing.T) {
	ctx := context.Background()

	cfg, err := config.NewConfigForTest("").Configure(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, cfg.Register.Appetite).Equal(0)

	path := writeFile(t, "config.toml", "[register]\nappetite = 70\n")
	cfg, err = config.NewConfigForTest(path).Configure(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, cfg.Register.Appetite).Equal(70)
}
