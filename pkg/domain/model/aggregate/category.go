package aggregate

import (
	"github.com/secmon-lab/riskreg/pkg/domain/model"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
)

// CategoryStat is the count and residual score total of one category
type CategoryStat struct {
	Category    types.Category
	Count       int
	ResidualSum int
}

// ByCategory groups risks by category in first-seen order
func ByCategory(risks []*model.Risk) []CategoryStat {
	index := make(map[types.Category]int)
	var stats []CategoryStat

	for _, r := range risks {
		i, ok := index[r.Category]
		if !ok {
			i = len(stats)
			index[r.Category] = i
			stats = append(stats, CategoryStat{Category: r.Category})
		}
		stats[i].Count++
		stats[i].ResidualSum += r.ResidualScore
	}

	return stats
}

// ByStatus counts risks per status in first-seen order
func ByStatus(risks []*model.Risk) []model.LabelCount {
	return countBy(risks, func(r *model.Risk) string { return r.Status.String() })
}

// ByOwner counts risks per owner in first-seen order; unowned risks are skipped
func ByOwner(risks []*model.Risk) []model.LabelCount {
	return countBy(risks, func(r *model.Risk) string { return r.Owner })
}

func countBy(risks []*model.Risk, key func(*model.Risk) string) []model.LabelCount {
	index := make(map[string]int)
	var counts []model.LabelCount

	for _, r := range risks {
		k := key(r)
		if k == "" {
			continue
		}
		i, ok := index[k]
		if !ok {
			i = len(counts)
			index[k] = i
			counts = append(counts, model.LabelCount{Label: k})
		}
		counts[i].Count++
	}

	return counts
}
