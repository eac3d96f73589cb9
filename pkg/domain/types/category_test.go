package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    types.Category
		wantErr bool
	}{
		{"Network", types.CategoryNetwork, false},
		{"Compliance", types.CategoryCompliance, false},
		{"Physical", types.CategoryPhysical, false},
		{"Insider", types.CategoryInsider, false},
		{"Cloud", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := types.ParseCategory(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.V(t, got).Equal(tt.want)
		})
	}
}

func TestAllCategories(t *testing.T) {
	gt.A(t, types.AllCategories()).Length(4)
}
