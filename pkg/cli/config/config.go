package config

import (
	"context"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/model/aggregate"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
	"github.com/secmon-lab/riskreg/pkg/usecase"
	"github.com/secmon-lab/riskreg/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// AppConfig is the TOML application configuration
type AppConfig struct {
	Register RegisterConfig `toml:"register"`
	Heatmap  HeatmapConfig  `toml:"heatmap"`
	Digest   DigestConfig   `toml:"digest"`
}

// RegisterConfig holds register-wide thresholds
type RegisterConfig struct {
	Appetite     int      `toml:"appetite"`
	HighResidual int      `toml:"high_residual"`
	Timezone     string   `toml:"timezone"`
	ExportFields []string `toml:"export_fields"`
}

// HeatmapConfig holds heatmap cell thresholds
type HeatmapConfig struct {
	High   int `toml:"high"`
	Medium int `toml:"medium"`
}

// DigestConfig controls the periodic Slack digest
type DigestConfig struct {
	Interval string `toml:"interval"`
}

// LoadAppConfiguration loads the application configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "config file does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var cfg AppConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML config", goerr.V(ConfigPathKey, path), goerr.V("error", err.Error()))
	}

	if _, err := cfg.ToSettings(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}
	if _, err := cfg.DigestInterval(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &cfg, nil
}

// ToSettings overlays the configured values onto usecase.DefaultSettings.
// Zero values keep the default.
func (a *AppConfig) ToSettings() (usecase.Settings, error) {
	s := usecase.DefaultSettings()

	if a.Register.Appetite != 0 {
		s.Appetite = a.Register.Appetite
	}
	if a.Register.HighResidual != 0 {
		s.HighResidual = a.Register.HighResidual
	}
	if a.Register.Timezone != "" {
		loc, err := time.LoadLocation(a.Register.Timezone)
		if err != nil {
			return s, goerr.Wrap(ErrInvalidConfig, "unknown timezone", goerr.V("timezone", a.Register.Timezone))
		}
		s.Location = loc
	}
	if len(a.Register.ExportFields) > 0 {
		fields, err := types.ParseExportFields(a.Register.ExportFields)
		if err != nil {
			return s, goerr.Wrap(ErrInvalidConfig, "invalid export fields", goerr.V("fields", a.Register.ExportFields))
		}
		s.ExportFields = fields
	}
	if a.Heatmap.High != 0 || a.Heatmap.Medium != 0 {
		s.Heatmap = aggregate.Thresholds{
			High:   a.Heatmap.High,
			Medium: a.Heatmap.Medium,
		}
	}

	if err := s.Validate(); err != nil {
		return s, goerr.Wrap(ErrInvalidConfig, err.Error())
	}
	return s, nil
}

// DigestInterval returns the configured digest interval, zero when unset
func (a *AppConfig) DigestInterval() (time.Duration, error) {
	if a.Digest.Interval == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(a.Digest.Interval)
	if err != nil || d < 0 {
		return 0, goerr.Wrap(ErrInvalidConfig, "invalid digest interval", goerr.V("interval", a.Digest.Interval))
	}
	return d, nil
}

// Config holds the --config flag
type Config struct {
	path string
}

func (x *Config) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to the TOML configuration file",
			Sources:     cli.EnvVars("RISKREG_CONFIG"),
			Destination: &x.path,
		},
	}
}

func (x *Config) Path() string {
	return x.path
}

// Configure loads the configuration file. Without --config an empty
// configuration is returned so that every setting takes its default.
func (x *Config) Configure(ctx context.Context) (*AppConfig, error) {
	if x.path == "" {
		return &AppConfig{}, nil
	}

	cfg, err := LoadAppConfiguration(x.path)
	if err != nil {
		return nil, err
	}

	logging.From(ctx).Info("configuration loaded", "path", x.path)
	return cfg, nil
}
