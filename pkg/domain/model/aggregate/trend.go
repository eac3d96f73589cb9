package aggregate

import (
	"sort"
	"time"

	"github.com/secmon-lab/riskreg/pkg/domain/model"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
)

// TrendMonths is the length of the created-vs-mitigated trend
const TrendMonths = 6

// DayCount is the number of risks created on one calendar day
type DayCount struct {
	Day   time.Time // midnight in the requested location
	Count int
}

// CreatedByDay counts risk creations per calendar day in loc, oldest first
func CreatedByDay(risks []*model.Risk, loc *time.Location) []DayCount {
	if loc == nil {
		loc = time.UTC
	}
	counts := make(map[time.Time]int)
	for _, r := range risks {
		counts[startOfDay(r.DateCreated, loc)]++
	}

	days := make([]DayCount, 0, len(counts))
	for day, n := range counts {
		days = append(days, DayCount{Day: day, Count: n})
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Day.Before(days[j].Day)
	})

	return days
}

// MonthlyTrend returns exactly `months` consecutive buckets ending at now's month.
// Empty months are included. A risk counts as mitigated in the month of its last
// update if its status is Mitigated.
func MonthlyTrend(risks []*model.Risk, now time.Time, months int) []model.MonthBucket {
	if months <= 0 {
		return []model.MonthBucket{}
	}

	current := startOfMonth(now)
	buckets := make([]model.MonthBucket, months)
	for i := range buckets {
		m := current.AddDate(0, i-(months-1), 0)
		buckets[i] = model.MonthBucket{
			Month: m,
			Label: m.Format("Jan 2006"),
		}
	}

	loc := now.Location()
	find := func(t time.Time) int {
		m := startOfMonth(t.In(loc))
		for i := range buckets {
			if buckets[i].Month.Equal(m) {
				return i
			}
		}
		return -1
	}

	for _, r := range risks {
		if i := find(r.DateCreated); i >= 0 {
			buckets[i].Created++
		}
		if r.Status == types.RiskStatusMitigated {
			if i := find(r.DateUpdated); i >= 0 {
				buckets[i].Mitigated++
			}
		}
	}

	return buckets
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func sameMonth(t, now time.Time) bool {
	t = t.In(now.Location())
	return t.Year() == now.Year() && t.Month() == now.Month()
}
