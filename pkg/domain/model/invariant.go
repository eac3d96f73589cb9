package model

import "fmt"

// Violations lists every register invariant r breaks. An empty result means r is consistent.
func (r *Risk) Violations() []string {
	var v []string

	if r.Title == "" {
		v = append(v, "title is empty")
	}
	if r.Desc == "" {
		v = append(v, "description is empty")
	}
	if !r.Category.IsValid() {
		v = append(v, fmt.Sprintf("unknown category %q", r.Category))
	}
	if !r.Status.IsValid() {
		v = append(v, fmt.Sprintf("unknown status %q", r.Status))
	}
	if err := ValidateLevel("likelihood", r.Likelihood); err != nil {
		v = append(v, err.Error())
	}
	if err := ValidateLevel("impact", r.Impact); err != nil {
		v = append(v, err.Error())
	}
	if r.InherentScore != ComputeScore(r.Likelihood, r.Impact) {
		v = append(v, fmt.Sprintf("inherent score %d is not %d x %d", r.InherentScore, r.Likelihood, r.Impact))
	}

	expected := r.InherentScore
	for i, a := range r.Assessments {
		if ValidateLevel("likelihood", a.Likelihood) != nil || ValidateLevel("impact", a.Impact) != nil {
			v = append(v, fmt.Sprintf("assessment %d is out of range", i))
		}
		expected = ComputeScore(a.Likelihood, a.Impact)
	}
	if r.ResidualScore != expected {
		v = append(v, fmt.Sprintf("residual score %d does not match latest assessment %d", r.ResidualScore, expected))
	}

	if len(r.ChangeLog) == 0 {
		v = append(v, "change log is empty")
	}
	for i := 1; i < len(r.ChangeLog); i++ {
		if r.ChangeLog[i].Timestamp.Before(r.ChangeLog[i-1].Timestamp) {
			v = append(v, fmt.Sprintf("change log entry %d goes back in time", i))
			break
		}
	}

	seen := make(map[string]bool)
	for _, c := range r.MappedControls {
		if !c.IsValid() {
			v = append(v, fmt.Sprintf("unknown framework %q", c))
		}
		if seen[string(c)] {
			v = append(v, fmt.Sprintf("framework %q mapped twice", c))
		}
		seen[string(c)] = true
	}

	if r.DateUpdated.Before(r.DateCreated) {
		v = append(v, "updated before created")
	}

	return v
}
