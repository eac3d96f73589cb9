package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/interfaces"
	"github.com/secmon-lab/riskreg/pkg/domain/model/aggregate"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
)

// Dashboard is the register overview with its category and daily breakdowns
type Dashboard struct {
	Appetite     int
	Overview     aggregate.Overview
	Categories   []aggregate.CategoryStat
	CreatedByDay []aggregate.DayCount
}

// HeatmapView is a heatmap with the classification of every cell
type HeatmapView struct {
	Thresholds aggregate.Thresholds
	Heatmap    aggregate.Heatmap
	Grid       [aggregate.HeatmapSize][aggregate.HeatmapSize]types.Severity
}

type DashboardUseCase struct {
	repo     interfaces.Repository
	settings Settings
}

func NewDashboardUseCase(repo interfaces.Repository, settings Settings) *DashboardUseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &DashboardUseCase{
		repo:     repo,
		settings: settings,
	}
}

// Dashboard computes the overview. A zero appetite uses the configured one.
func (uc *DashboardUseCase) Dashboard(ctx context.Context, appetite int) (*Dashboard, error) {
	if appetite == 0 {
		appetite = uc.settings.Appetite
	}
	if err := aggregate.ValidateAppetite(appetite); err != nil {
		return nil, goerr.Wrap(ErrValidation, "appetite must be between 1 and 100", goerr.V("appetite", appetite))
	}

	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks")
	}

	return &Dashboard{
		Appetite:     appetite,
		Overview:     aggregate.BuildOverview(risks, appetite, uc.settings.HighResidual),
		Categories:   aggregate.ByCategory(risks),
		CreatedByDay: aggregate.CreatedByDay(risks, uc.settings.Location),
	}, nil
}

// Heatmap places the register on the likelihood × impact grid. Nil thresholds
// use the configured ones.
func (uc *DashboardUseCase) Heatmap(ctx context.Context, th *aggregate.Thresholds) (*HeatmapView, error) {
	thresholds := uc.settings.Heatmap
	if th != nil {
		thresholds = *th
	}
	if err := thresholds.Validate(); err != nil {
		return nil, goerr.Wrap(ErrValidation, err.Error())
	}

	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks")
	}

	h := aggregate.BuildHeatmap(risks)
	return &HeatmapView{
		Thresholds: thresholds,
		Heatmap:    h,
		Grid:       h.Grid(thresholds),
	}, nil
}
