package aggregate

import (
	"math"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/model"
)

// ValidateAppetite checks an appetite threshold against the score range
func ValidateAppetite(threshold int) error {
	if threshold < 1 || threshold > 100 {
		return goerr.New("appetite threshold must be between 1 and 100", goerr.V("appetite", threshold))
	}
	return nil
}

// CountAboveAppetite counts risks whose inherent score reaches the threshold
func CountAboveAppetite(risks []*model.Risk, threshold int) int {
	n := 0
	for _, r := range risks {
		if r.InherentScore >= threshold {
			n++
		}
	}
	return n
}

// Coverage is the rounded percentage of risks mapped to at least one control
func Coverage(risks []*model.Risk) int {
	if len(risks) == 0 {
		return 0
	}
	covered := 0
	for _, r := range risks {
		if r.HasControls() {
			covered++
		}
	}
	return int(math.Round(float64(covered) / float64(len(risks)) * 100))
}

// MostSevere returns the risk with the highest residual score. Ties keep the
// first risk encountered. Returns nil for an empty slice.
func MostSevere(risks []*model.Risk) *model.Risk {
	var top *model.Risk
	for _, r := range risks {
		if top == nil || r.ResidualScore > top.ResidualScore {
			top = r
		}
	}
	return top
}

// Overview is the headline block of the dashboard
type Overview struct {
	Total             int
	HighResidualCount int
	AboveAppetite     int
	AvgInherent       float64
	AvgResidual       float64
	LastRiskTitle     string
}

// BuildOverview computes the dashboard overview. Averages are rounded to one decimal.
func BuildOverview(risks []*model.Risk, appetite, highResidual int) Overview {
	o := Overview{
		Total:         len(risks),
		AboveAppetite: CountAboveAppetite(risks, appetite),
		LastRiskTitle: "N/A",
	}
	if len(risks) == 0 {
		return o
	}

	var inherent, residual int
	for _, r := range risks {
		inherent += r.InherentScore
		residual += r.ResidualScore
		if r.ResidualScore >= highResidual {
			o.HighResidualCount++
		}
	}
	o.AvgInherent = roundTenth(float64(inherent) / float64(len(risks)))
	o.AvgResidual = roundTenth(float64(residual) / float64(len(risks)))
	o.LastRiskTitle = risks[len(risks)-1].Title

	return o
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
