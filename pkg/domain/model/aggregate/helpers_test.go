package aggregate_test

import (
	"time"

	"github.com/secmon-lab/riskreg/pkg/domain/model"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

type riskOpt func(*model.Risk)

func withScores(l, i int) riskOpt {
	return func(r *model.Risk) {
		r.Likelihood = l
		r.Impact = i
		r.InherentScore = l * i
		r.ResidualScore = l * i
	}
}

func withResidual(s int) riskOpt {
	return func(r *model.Risk) { r.ResidualScore = s }
}

func withCategory(c types.Category) riskOpt {
	return func(r *model.Risk) { r.Category = c }
}

func withStatus(s types.RiskStatus) riskOpt {
	return func(r *model.Risk) { r.Status = s }
}

func withOwner(o string) riskOpt {
	return func(r *model.Risk) { r.Owner = o }
}

func withDates(created, updated time.Time) riskOpt {
	return func(r *model.Risk) {
		r.DateCreated = created
		r.DateUpdated = updated
	}
}

func withControls(c ...types.Framework) riskOpt {
	return func(r *model.Risk) { r.MappedControls = c }
}

func newRisk(title string, opts ...riskOpt) *model.Risk {
	r := &model.Risk{
		ID:            types.NewRiskID(),
		Title:         title,
		Desc:          title + " description",
		Category:      types.CategoryNetwork,
		Status:        types.RiskStatusOpen,
		Likelihood:    1,
		Impact:        1,
		InherentScore: 1,
		ResidualScore: 1,
		DateCreated:   date(2024, 1, 10),
		DateUpdated:   date(2024, 1, 10),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
