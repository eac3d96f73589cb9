package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskreg/pkg/domain/model"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
)

func consistentRisk() *model.Risk {
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return &model.Risk{
		ID:             types.NewRiskID(),
		Title:          "Shared root credentials",
		Desc:           "Ops shares a single root account",
		Category:       types.CategoryInsider,
		Status:         types.RiskStatusOpen,
		Likelihood:     5,
		Impact:         6,
		InherentScore:  30,
		ResidualScore:  8,
		MappedControls: []types.Framework{types.FrameworkCIS},
		Assessments: []model.Assessment{
			{Date: created, Likelihood: 2, Impact: 4},
		},
		ChangeLog: []model.ChangeLogEntry{
			{Timestamp: created, Action: model.ActionCreateRisk},
			{Timestamp: created.Add(time.Hour), Action: model.ActionAddAssessment},
		},
		DateCreated: created,
		DateUpdated: created.Add(time.Hour),
	}
}

func TestViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *model.Risk)
		want   string
	}{
		{name: "consistent"},
		{name: "empty title", mutate: func(r *model.Risk) { r.Title = "" }, want: "title is empty"},
		{name: "unknown category", mutate: func(r *model.Risk) { r.Category = "Weather" }, want: "unknown category"},
		{name: "likelihood out of range", mutate: func(r *model.Risk) { r.Likelihood, r.InherentScore = 11, 66 }, want: "likelihood"},
		{name: "stale inherent score", mutate: func(r *model.Risk) { r.InherentScore = 12 }, want: "inherent score"},
		{name: "residual drifts from assessment", mutate: func(r *model.Risk) { r.ResidualScore = 30 }, want: "residual score"},
		{name: "empty change log", mutate: func(r *model.Risk) { r.ChangeLog = nil }, want: "change log is empty"},
		{
			name: "change log goes back in time",
			mutate: func(r *model.Risk) {
				r.ChangeLog[1].Timestamp = r.ChangeLog[0].Timestamp.Add(-time.Minute)
			},
			want: "goes back in time",
		},
		{
			name:   "framework mapped twice",
			mutate: func(r *model.Risk) { r.MappedControls = append(r.MappedControls, types.FrameworkCIS) },
			want:   "mapped twice",
		},
		{
			name:   "updated before created",
			mutate: func(r *model.Risk) { r.DateUpdated = r.DateCreated.Add(-time.Hour) },
			want:   "updated before created",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := consistentRisk()
			if tt.mutate != nil {
				tt.mutate(r)
			}

			v := r.Violations()
			if tt.want == "" {
				gt.Array(t, v).Length(0)
				return
			}
			gt.Array(t, v).Length(1).Required()
			gt.String(t, v[0]).Contains(tt.want)
		})
	}
}

func TestViolationsWithoutAssessments(t *testing.T) {
	r := consistentRisk()
	r.Assessments = nil
	r.ResidualScore = r.InherentScore
	gt.Array(t, r.Violations()).Length(0)
}
