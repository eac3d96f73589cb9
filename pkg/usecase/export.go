package usecase

import (
	"context"
	"io"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/interfaces"
	"github.com/secmon-lab/riskreg/pkg/domain/model"
	"github.com/secmon-lab/riskreg/pkg/domain/model/aggregate"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
)

// DefaultReportTitle is used when an export request carries no title
const DefaultReportTitle = "Risk Register Report"

// ExportRequest selects what goes into a report
type ExportRequest struct {
	Title  string
	Range  aggregate.DateRange
	Fields []types.ExportField // empty selects the configured default
}

type ExportUseCase struct {
	repo      interfaces.Repository
	settings  Settings
	renderers map[types.ExportFormat]interfaces.Renderer
	clock     func() time.Time
}

func NewExportUseCase(repo interfaces.Repository, settings Settings, renderers map[types.ExportFormat]interfaces.Renderer, clock func() time.Time) *ExportUseCase {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &ExportUseCase{
		repo:      repo,
		settings:  settings,
		renderers: renderers,
		clock:     clock,
	}
}

// Build takes a snapshot of the register and derives the report from it
func (uc *ExportUseCase) Build(ctx context.Context, req ExportRequest) (*model.Report, error) {
	fields := req.Fields
	if len(fields) == 0 {
		fields = uc.settings.ExportFields
	}
	if len(fields) == 0 {
		fields = types.AllExportFields()
	}
	for _, f := range fields {
		if !f.IsValid() {
			return nil, goerr.Wrap(ErrValidation, "unknown export field", goerr.V(FieldKey, f))
		}
	}

	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks")
	}

	now := uc.clock().In(uc.settings.Location)
	filtered := aggregate.FilterByDate(risks, req.Range)

	title := req.Title
	if title == "" {
		title = DefaultReportTitle
	}

	return &model.Report{
		Title:       title,
		GeneratedAt: now,
		Table:       aggregate.Project(filtered, fields),
		Summary:     aggregate.ExecutiveSummary(filtered, now),
		Trend:       aggregate.MonthlyTrend(filtered, now, aggregate.TrendMonths),
	}, nil
}

// Renderer returns the renderer registered for format
func (uc *ExportUseCase) Renderer(format types.ExportFormat) (interfaces.Renderer, error) {
	r, ok := uc.renderers[format]
	if !ok {
		return nil, goerr.Wrap(ErrValidation, "unsupported export format", goerr.V(FormatKey, format))
	}
	return r, nil
}

// Formats lists the formats with a registered renderer in catalog order
func (uc *ExportUseCase) Formats() []types.ExportFormat {
	var formats []types.ExportFormat
	for _, f := range types.AllExportFormats() {
		if _, ok := uc.renderers[f]; ok {
			formats = append(formats, f)
		}
	}
	return formats
}

// Render builds the report and writes it in format to w
func (uc *ExportUseCase) Render(ctx context.Context, w io.Writer, format types.ExportFormat, req ExportRequest) error {
	renderer, err := uc.Renderer(format)
	if err != nil {
		return err
	}

	report, err := uc.Build(ctx, req)
	if err != nil {
		return err
	}

	if err := renderer.Render(ctx, w, report); err != nil {
		return goerr.Wrap(err, "failed to render report", goerr.V(FormatKey, format))
	}
	return nil
}
