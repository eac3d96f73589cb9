package aggregate

import (
	"time"

	"github.com/secmon-lab/riskreg/pkg/domain/model"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
)

// ExecutiveSummary computes the headline figures of a report for now's calendar month.
//
// HighThisMonth counts risks created this month whose residual score reaches the
// score of the most severe risk in the same set. The threshold is derived from the
// set itself, not a fixed severity cutoff.
func ExecutiveSummary(risks []*model.Risk, now time.Time) model.ExecutiveSummary {
	s := model.ExecutiveSummary{
		Total:           len(risks),
		Coverage:        Coverage(risks),
		MostSevereTitle: "N/A",
		ByStatus:        ByStatus(risks),
		ByOwner:         ByOwner(risks),
	}

	if top := MostSevere(risks); top != nil {
		s.MostSevereTitle = top.Title
		s.MostSevereScore = top.ResidualScore
	}

	for _, r := range risks {
		if sameMonth(r.DateCreated, now) {
			s.NewThisMonth++
			if r.ResidualScore >= s.MostSevereScore {
				s.HighThisMonth++
			}
		}
		if r.Status == types.RiskStatusMitigated && sameMonth(r.DateUpdated, now) {
			s.MitigatedThisMonth++
		}
	}

	return s
}
