package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskreg/pkg/domain/model"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
)

func TestComputeScore(t *testing.T) {
	for l := model.MinLevel; l <= model.MaxLevel; l++ {
		for i := model.MinLevel; i <= model.MaxLevel; i++ {
			score := model.ComputeScore(l, i)
			gt.V(t, score).Equal(l * i)
			gt.Number(t, score).GreaterOrEqual(1)
			gt.Number(t, score).LessOrEqual(100)
		}
	}
}

func TestValidateLevel(t *testing.T) {
	tests := []struct {
		v       int
		wantErr bool
	}{
		{0, true},
		{1, false},
		{5, false},
		{10, false},
		{11, true},
		{-3, true},
	}

	for _, tt := range tests {
		err := model.ValidateLevel("likelihood", tt.v)
		if tt.wantErr {
			gt.Error(t, err)
		} else {
			gt.NoError(t, err)
		}
	}
}

func TestSeverityOf(t *testing.T) {
	gt.V(t, model.SeverityOf(100)).Equal(types.SeverityHigh)
	gt.V(t, model.SeverityOf(80)).Equal(types.SeverityHigh)
	gt.V(t, model.SeverityOf(79)).Equal(types.SeverityMedium)
	gt.V(t, model.SeverityOf(40)).Equal(types.SeverityMedium)
	gt.V(t, model.SeverityOf(39)).Equal(types.SeverityLow)
	gt.V(t, model.SeverityOf(1)).Equal(types.SeverityLow)
}
