package types

// Severity is a coarse band used for coloring scores and heatmap cells
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// String returns the string representation of Severity
func (s Severity) String() string {
	return string(s)
}
