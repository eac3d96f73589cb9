package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
)

// ValidationIssue represents a single broken invariant found in the register
type ValidationIssue struct {
	RiskID  types.RiskID
	Title   string
	Message string
}

// ValidationResult holds the results of register validation
type ValidationResult struct {
	Checked int
	Issues  []ValidationIssue
}

// HasIssues returns true if there are any validation issues
func (r *ValidationResult) HasIssues() bool {
	return len(r.Issues) > 0
}

// AddIssue adds a validation issue to the result
func (r *ValidationResult) AddIssue(issue ValidationIssue) {
	r.Issues = append(r.Issues, issue)
}

// ValidateRegister checks every stored risk against the register invariants.
// It does NOT modify any data.
func (uc *UseCases) ValidateRegister(ctx context.Context) (*ValidationResult, error) {
	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks")
	}

	result := &ValidationResult{Checked: len(risks)}
	for _, r := range risks {
		for _, msg := range r.Violations() {
			result.AddIssue(ValidationIssue{
				RiskID:  r.ID,
				Title:   r.Title,
				Message: msg,
			})
		}
	}

	return result, nil
}
