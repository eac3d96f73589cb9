package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
)

// RiskPatch holds the fields to merge into a risk. Nil fields are left untouched.
// InherentScore, Likelihood, Impact and DateCreated are not patchable.
type RiskPatch struct {
	Title          *string
	Desc           *string
	Category       *types.Category
	Owner          *string
	Status         *types.RiskStatus
	ResidualScore  *int
	MappedControls *[]types.Framework
	Assessments    *[]Assessment
	Treatments     *[]Treatment
	TicketLink     *string
}

// Validate checks every set field
func (p *RiskPatch) Validate() error {
	if p.Title != nil && *p.Title == "" {
		return goerr.New("title cannot be empty")
	}
	if p.Desc != nil && *p.Desc == "" {
		return goerr.New("description cannot be empty")
	}
	if p.Category != nil && !p.Category.IsValid() {
		return goerr.New("invalid category", goerr.V("category", *p.Category))
	}
	if p.Status != nil && !p.Status.IsValid() {
		return goerr.New("invalid status", goerr.V("status", *p.Status))
	}
	if p.ResidualScore != nil {
		if s := *p.ResidualScore; s < MinLevel*MinLevel || s > MaxLevel*MaxLevel {
			return goerr.New("residual score must be between 1 and 100", goerr.V("score", s))
		}
	}
	if p.MappedControls != nil {
		if _, err := types.NormalizeFrameworks(*p.MappedControls); err != nil {
			return goerr.Wrap(err, "invalid control mapping")
		}
	}
	if p.Assessments != nil {
		for i, a := range *p.Assessments {
			if err := ValidateLevel("likelihood", a.Likelihood); err != nil {
				return goerr.Wrap(err, "invalid assessment", goerr.V("index", i))
			}
			if err := ValidateLevel("impact", a.Impact); err != nil {
				return goerr.Wrap(err, "invalid assessment", goerr.V("index", i))
			}
		}
	}
	return nil
}

// Apply merges the patch into r. Call Validate first.
func (p *RiskPatch) Apply(r *Risk) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Desc != nil {
		r.Desc = *p.Desc
	}
	if p.Category != nil {
		r.Category = *p.Category
	}
	if p.Owner != nil {
		r.Owner = *p.Owner
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.ResidualScore != nil {
		r.ResidualScore = *p.ResidualScore
	}
	if p.MappedControls != nil {
		normalized, _ := types.NormalizeFrameworks(*p.MappedControls)
		r.MappedControls = normalized
	}
	if p.Assessments != nil {
		r.Assessments = append([]Assessment(nil), (*p.Assessments)...)
	}
	if p.Treatments != nil {
		r.Treatments = append([]Treatment(nil), (*p.Treatments)...)
	}
	if p.TicketLink != nil {
		r.TicketLink = *p.TicketLink
	}
}
