package cli

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/cli/config"
	"github.com/secmon-lab/riskreg/pkg/repository/memory"
	"github.com/secmon-lab/riskreg/pkg/service/render"
	"github.com/secmon-lab/riskreg/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// registerFlags are shared by every command that loads a register
type registerFlags struct {
	config config.Config
	seed   config.Seed
}

func (x *registerFlags) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.config.Flags()...)
	flags = append(flags, x.seed.Flags()...)
	return flags
}

// build loads the configuration, creates an in-memory register with every
// renderer and restores the seed file into it.
func (x *registerFlags) build(ctx context.Context, opts ...usecase.Option) (*usecase.UseCases, *config.AppConfig, error) {
	appCfg, err := x.config.Configure(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to load configuration")
	}

	settings, err := appCfg.ToSettings()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "invalid register settings")
	}

	ucOpts := []usecase.Option{usecase.WithSettings(settings)}
	for format, r := range render.All() {
		ucOpts = append(ucOpts, usecase.WithRenderer(format, r))
	}
	ucOpts = append(ucOpts, opts...)

	uc := usecase.New(memory.New(), ucOpts...)

	if _, err := x.seed.Configure(ctx, uc, time.Now().UTC()); err != nil {
		return nil, nil, goerr.Wrap(err, "failed to load seed")
	}

	return uc, appCfg, nil
}
