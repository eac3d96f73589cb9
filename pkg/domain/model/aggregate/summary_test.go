package aggregate_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskreg/pkg/domain/model"
	"github.com/secmon-lab/riskreg/pkg/domain/model/aggregate"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
)

func TestExecutiveSummary(t *testing.T) {
	now := date(2024, 3, 20)

	t.Run("monthly counts use the most severe score as threshold", func(t *testing.T) {
		risks := []*model.Risk{
			newRisk("old but severe", withResidual(90), withDates(date(2024, 1, 2), date(2024, 1, 2))),
			newRisk("new and severe", withResidual(90), withDates(date(2024, 3, 2), date(2024, 3, 2))),
			newRisk("new and mild", withResidual(20), withDates(date(2024, 3, 5), date(2024, 3, 5))),
			newRisk("mitigated this month", withResidual(10), withStatus(types.RiskStatusMitigated),
				withDates(date(2023, 12, 1), date(2024, 3, 10)), withControls(types.FrameworkGDPR)),
		}

		s := aggregate.ExecutiveSummary(risks, now)
		gt.V(t, s.Total).Equal(4)
		gt.V(t, s.Coverage).Equal(25)
		gt.V(t, s.MostSevereTitle).Equal("old but severe")
		gt.V(t, s.MostSevereScore).Equal(90)
		gt.V(t, s.NewThisMonth).Equal(2)
		gt.V(t, s.HighThisMonth).Equal(1)
		gt.V(t, s.MitigatedThisMonth).Equal(1)
	})

	t.Run("empty set", func(t *testing.T) {
		s := aggregate.ExecutiveSummary(nil, now)
		gt.V(t, s.Total).Equal(0)
		gt.V(t, s.MostSevereTitle).Equal("N/A")
		gt.V(t, s.MostSevereScore).Equal(0)
		gt.V(t, s.Coverage).Equal(0)
	})
}
