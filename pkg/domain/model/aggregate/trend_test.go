package aggregate_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskreg/pkg/domain/model"
	"github.com/secmon-lab/riskreg/pkg/domain/model/aggregate"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
)

func TestMonthlyTrend(t *testing.T) {
	now := date(2024, 3, 15)

	t.Run("always six buckets ending at the current month", func(t *testing.T) {
		buckets := aggregate.MonthlyTrend(nil, now, aggregate.TrendMonths)
		gt.A(t, buckets).Length(6).Required()

		labels := make([]string, len(buckets))
		for i, b := range buckets {
			labels[i] = b.Label
			gt.V(t, b.Created).Equal(0)
			gt.V(t, b.Mitigated).Equal(0)
		}
		gt.V(t, labels).Equal([]string{"Oct 2023", "Nov 2023", "Dec 2023", "Jan 2024", "Feb 2024", "Mar 2024"})
	})

	t.Run("created and mitigated land in their months", func(t *testing.T) {
		risks := []*model.Risk{
			newRisk("old", withDates(date(2023, 1, 1), date(2023, 1, 1))),
			newRisk("nov", withDates(date(2023, 11, 3), date(2023, 11, 3))),
			newRisk("mitigated in march", withDates(date(2024, 1, 5), date(2024, 3, 2)), withStatus(types.RiskStatusMitigated)),
			newRisk("updated in march but open", withDates(date(2024, 3, 1), date(2024, 3, 9))),
		}

		buckets := aggregate.MonthlyTrend(risks, now, aggregate.TrendMonths)
		gt.V(t, buckets[1].Created).Equal(1) // Nov
		gt.V(t, buckets[3].Created).Equal(1) // Jan
		gt.V(t, buckets[5].Created).Equal(1) // Mar
		gt.V(t, buckets[5].Mitigated).Equal(1)
		gt.V(t, buckets[3].Mitigated).Equal(0)
	})

	t.Run("crosses the year boundary", func(t *testing.T) {
		buckets := aggregate.MonthlyTrend(nil, date(2024, 1, 31), 3)
		gt.V(t, buckets[0].Month).Equal(time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC))
		gt.V(t, buckets[2].Month).Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	})
}

func TestCreatedByDay(t *testing.T) {
	risks := []*model.Risk{
		newRisk("a", withDates(date(2024, 2, 2), date(2024, 2, 2))),
		newRisk("b", withDates(date(2024, 1, 30), date(2024, 1, 30))),
		newRisk("c", withDates(date(2024, 2, 2).Add(3*time.Hour), date(2024, 2, 2))),
	}

	days := aggregate.CreatedByDay(risks, time.UTC)
	gt.A(t, days).Length(2).Required()
	gt.V(t, days[0].Day).Equal(time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC))
	gt.V(t, days[0].Count).Equal(1)
	gt.V(t, days[1].Day).Equal(time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC))
	gt.V(t, days[1].Count).Equal(2)
}

func TestCreatedByDayWithoutLocation(t *testing.T) {
	risks := []*model.Risk{
		newRisk("a", withDates(date(2024, 2, 2).Add(23*time.Hour), date(2024, 2, 2))),
	}

	days := aggregate.CreatedByDay(risks, nil)
	gt.A(t, days).Length(1).Required()
	gt.V(t, days[0].Day).Equal(time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC))
}
