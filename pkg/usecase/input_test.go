package usecase_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
	"github.com/secmon-lab/riskreg/pkg/usecase"
)

func TestValidateInput(t *testing.T) {
	t.Run("messages name the field", func(t *testing.T) {
		err := usecase.ValidateInput(usecase.CreateRiskInput{Category: types.CategoryNetwork, Likelihood: 1, Impact: 1})
		gt.Error(t, err).Is(usecase.ErrValidation)
		gt.String(t, err.Error()).Contains("title is required")
		gt.String(t, err.Error()).Contains("desc is required")
	})

	t.Run("range", func(t *testing.T) {
		err := usecase.ValidateInput(usecase.AssessmentInput{Likelihood: 0, Impact: 5})
		gt.Error(t, err).Is(usecase.ErrValidation)
		gt.String(t, err.Error()).Contains("likelihood must be between 1 and 10")
	})

	t.Run("valid", func(t *testing.T) {
		gt.NoError(t, usecase.ValidateInput(usecase.TreatmentInput{Description: "rotate keys"}))
	})
}
