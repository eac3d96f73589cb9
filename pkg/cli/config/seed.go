package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/model"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
	"github.com/secmon-lab/riskreg/pkg/usecase"
	"github.com/secmon-lab/riskreg/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// SeedFile is the TOML layout of an initial register
type SeedFile struct {
	Risks []SeedRisk `toml:"risk"`
}

// SeedRisk is one register entry of a seed file
type SeedRisk struct {
	ID          string           `toml:"id"`
	Title       string           `toml:"title"`
	Description string           `toml:"description"`
	Category    string           `toml:"category"`
	Owner       string           `toml:"owner"`
	Status      string           `toml:"status"`
	Likelihood  int              `toml:"likelihood"`
	Impact      int              `toml:"impact"`
	Controls    []string         `toml:"controls"`
	Ticket      string           `toml:"ticket"`
	CreatedAt   time.Time        `toml:"created_at"`
	Assessments []SeedAssessment `toml:"assessment"`
	Treatments  []SeedTreatment  `toml:"treatment"`
}

type SeedAssessment struct {
	Date       time.Time `toml:"date"`
	Likelihood int       `toml:"likelihood"`
	Impact     int       `toml:"impact"`
	Assessor   string    `toml:"assessor"`
	Notes      string    `toml:"notes"`
}

type SeedTreatment struct {
	Description string `toml:"description"`
	DueDate     string `toml:"due_date"`
	Completed   bool   `toml:"completed"`
}

// LoadSeedFile reads and converts a seed file. Records without a creation
// time are stamped with now.
func LoadSeedFile(path string, now time.Time) ([]*model.Risk, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read seed file", goerr.V(SeedPathKey, path))
	}

	var seed SeedFile
	if err := toml.Unmarshal(data, &seed); err != nil {
		return nil, goerr.Wrap(ErrInvalidSeed, "failed to parse TOML seed", goerr.V(SeedPathKey, path), goerr.V("error", err.Error()))
	}

	risks := make([]*model.Risk, 0, len(seed.Risks))
	for i, s := range seed.Risks {
		risk, err := s.toModel(now)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid seed record", goerr.V(SeedPathKey, path), goerr.V(SeedIndexKey, i))
		}
		risks = append(risks, risk)
	}
	return risks, nil
}

func (s SeedRisk) toModel(now time.Time) (*model.Risk, error) {
	category, err := types.ParseCategory(s.Category)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidSeed, "unknown category", goerr.V("category", s.Category))
	}

	status := types.RiskStatusOpen
	if s.Status != "" {
		if status, err = types.ParseRiskStatus(s.Status); err != nil {
			return nil, goerr.Wrap(ErrInvalidSeed, "unknown status", goerr.V("status", s.Status))
		}
	}

	selected := make([]types.Framework, len(s.Controls))
	for i, c := range s.Controls {
		selected[i] = types.Framework(c)
	}
	controls, err := types.NormalizeFrameworks(selected)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidSeed, err.Error())
	}

	created := s.CreatedAt
	if created.IsZero() {
		created = now
	}

	actor := s.Owner
	if actor == "" {
		actor = model.DefaultActor
	}

	inherent := model.ComputeScore(s.Likelihood, s.Impact)
	risk := &model.Risk{
		ID:             types.RiskID(s.ID),
		Title:          s.Title,
		Desc:           s.Description,
		Category:       category,
		Owner:          s.Owner,
		Status:         status,
		Likelihood:     s.Likelihood,
		Impact:         s.Impact,
		InherentScore:  inherent,
		ResidualScore:  inherent,
		MappedControls: controls,
		TicketLink:     s.Ticket,
		ChangeLog: []model.ChangeLogEntry{
			{
				Timestamp: created,
				Actor:     actor,
				Action:    model.ActionCreateRisk,
				Detail:    fmt.Sprintf(`Title="%s", Score=%d`, s.Title, inherent),
			},
		},
		DateCreated: created,
		DateUpdated: created,
	}

	for _, a := range s.Assessments {
		date := a.Date
		if date.IsZero() || date.Before(risk.DateUpdated) {
			date = risk.DateUpdated
		}
		assessor := a.Assessor
		if assessor == "" {
			assessor = model.UnknownActor
		}

		risk.Assessments = append(risk.Assessments, model.Assessment{
			Date:       date,
			Likelihood: a.Likelihood,
			Impact:     a.Impact,
			Assessor:   a.Assessor,
			Notes:      a.Notes,
		})
		risk.ResidualScore = model.ComputeScore(a.Likelihood, a.Impact)
		risk.ChangeLog = append(risk.ChangeLog, model.ChangeLogEntry{
			Timestamp: date,
			Actor:     assessor,
			Action:    model.ActionAddAssessment,
			Detail:    fmt.Sprintf(`L=%d, I=%d, Notes="%s"`, a.Likelihood, a.Impact, a.Notes),
		})
		risk.DateUpdated = date
	}

	for _, t := range s.Treatments {
		risk.Treatments = append(risk.Treatments, model.Treatment{
			ID:          types.NewTreatmentID(),
			Description: t.Description,
			DueDate:     t.DueDate,
			Completed:   t.Completed,
		})
	}

	return risk, nil
}

// Seed holds the --seed flag
type Seed struct {
	path string
}

func (x *Seed) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "seed",
			Usage:       "Path to a TOML file with initial risks",
			Sources:     cli.EnvVars("RISKREG_SEED"),
			Destination: &x.path,
		},
	}
}

func (x *Seed) Path() string {
	return x.path
}

// Configure loads the seed file into the register. It returns the number of
// restored risks, zero when no seed is configured.
func (x *Seed) Configure(ctx context.Context, uc *usecase.UseCases, now time.Time) (int, error) {
	if x.path == "" {
		return 0, nil
	}

	risks, err := LoadSeedFile(x.path, now)
	if err != nil {
		return 0, err
	}

	for i, risk := range risks {
		if _, err := uc.Risk.Restore(ctx, risk); err != nil {
			return i, goerr.Wrap(err, "failed to restore seed risk", goerr.V(SeedPathKey, x.path), goerr.V(SeedIndexKey, i))
		}
	}

	logging.From(ctx).Info("seed loaded", "path", x.path, "risks", len(risks))
	return len(risks), nil
}
