package aggregate

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/model"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
)

// DateRange bounds an export. A nil bound is unbounded on that side; both bounds are inclusive.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether t falls within the range
func (d DateRange) Contains(t time.Time) bool {
	if d.From != nil && t.Before(*d.From) {
		return false
	}
	if d.To != nil && t.After(*d.To) {
		return false
	}
	return true
}

// DateLayout is the layout of date-only range bounds
const DateLayout = "2006-01-02"

// ParseDateRange parses optional YYYY-MM-DD bounds in loc. An empty string
// leaves that side unbounded; To covers the whole of its day.
func ParseDateRange(from, to string, loc *time.Location) (DateRange, error) {
	var d DateRange
	if loc == nil {
		loc = time.UTC
	}

	if from != "" {
		t, err := time.ParseInLocation(DateLayout, from, loc)
		if err != nil {
			return DateRange{}, goerr.Wrap(err, "invalid from date", goerr.V("from", from))
		}
		d.From = &t
	}
	if to != "" {
		t, err := time.ParseInLocation(DateLayout, to, loc)
		if err != nil {
			return DateRange{}, goerr.Wrap(err, "invalid to date", goerr.V("to", to))
		}
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		d.To = &end
	}
	if d.From != nil && d.To != nil && d.To.Before(*d.From) {
		return DateRange{}, goerr.New("to date is before from date", goerr.V("from", from), goerr.V("to", to))
	}

	return d, nil
}

// FilterByDate keeps risks created or updated within the range, so a risk
// touched recently surfaces even if it was created earlier.
func FilterByDate(risks []*model.Risk, d DateRange) []*model.Risk {
	result := make([]*model.Risk, 0, len(risks))
	for _, r := range risks {
		if d.Contains(r.DateCreated) || d.Contains(r.DateUpdated) {
			result = append(result, r)
		}
	}
	return result
}

// ListFilter narrows the register view. Zero values match everything.
type ListFilter struct {
	Search   string // case-insensitive substring of the title
	Category types.Category
	Status   types.RiskStatus
	Owner    string
}

// Match reports whether r satisfies every set criterion
func (f ListFilter) Match(r *model.Risk) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(r.Title), strings.ToLower(f.Search)) {
		return false
	}
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Owner != "" && r.Owner != f.Owner {
		return false
	}
	return true
}

// Filter returns the risks matching f, preserving order
func Filter(risks []*model.Risk, f ListFilter) []*model.Risk {
	result := make([]*model.Risk, 0, len(risks))
	for _, r := range risks {
		if f.Match(r) {
			result = append(result, r)
		}
	}
	return result
}
