package usecase

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/model/aggregate"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
)

// Settings are the register-wide thresholds and defaults
type Settings struct {
	// Appetite counts risks whose inherent score reaches it
	Appetite int
	// HighResidual counts risks whose residual score reaches it on the dashboard
	HighResidual int
	Heatmap      aggregate.Thresholds
	// ExportFields is used when an export request selects no fields
	ExportFields []types.ExportField
	// Location defines calendar days and months for trends
	Location *time.Location
}

// DefaultSettings returns the settings used when nothing is configured
func DefaultSettings() Settings {
	return Settings{
		Appetite:     50,
		HighResidual: 40,
		Heatmap:      aggregate.DefaultThresholds,
		ExportFields: types.AllExportFields(),
		Location:     time.UTC,
	}
}

// Validate checks the settings
func (s Settings) Validate() error {
	if err := aggregate.ValidateAppetite(s.Appetite); err != nil {
		return goerr.Wrap(err, "invalid appetite")
	}
	if s.HighResidual < 1 || s.HighResidual > 100 {
		return goerr.New("high residual threshold must be between 1 and 100", goerr.V("high_residual", s.HighResidual))
	}
	if err := s.Heatmap.Validate(); err != nil {
		return goerr.Wrap(err, "invalid heatmap thresholds")
	}
	for _, f := range s.ExportFields {
		if !f.IsValid() {
			return goerr.New("unknown export field", goerr.V(FieldKey, f))
		}
	}
	return nil
}
