package types

import "github.com/m-mizutani/goerr/v2"

// RiskStatus represents the lifecycle state of a risk
type RiskStatus string

const (
	RiskStatusOpen       RiskStatus = "Open"
	RiskStatusInProgress RiskStatus = "In Progress"
	RiskStatusMitigated  RiskStatus = "Mitigated"
	RiskStatusClosed     RiskStatus = "Closed"
)

// AllRiskStatuses returns all valid risk statuses
func AllRiskStatuses() []RiskStatus {
	return []RiskStatus{
		RiskStatusOpen,
		RiskStatusInProgress,
		RiskStatusMitigated,
		RiskStatusClosed,
	}
}

// IsValid checks if the risk status is valid
func (s RiskStatus) IsValid() bool {
	switch s {
	case RiskStatusOpen,
		RiskStatusInProgress,
		RiskStatusMitigated,
		RiskStatusClosed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk status
func (s RiskStatus) String() string {
	return string(s)
}

// ParseRiskStatus parses a string into a RiskStatus.
// "InProgress" is accepted as an alias of "In Progress".
func ParseRiskStatus(s string) (RiskStatus, error) {
	if s == "InProgress" {
		return RiskStatusInProgress, nil
	}
	status := RiskStatus(s)
	if !status.IsValid() {
		return "", goerr.New("invalid risk status", goerr.V("status", s))
	}
	return status, nil
}
