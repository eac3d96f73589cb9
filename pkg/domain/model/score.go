package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
)

// Bounds of the likelihood and impact scales
const (
	MinLevel = 1
	MaxLevel = 10
)

// ComputeScore returns likelihood × impact. Inputs in [1,10] give a score in [1,100].
func ComputeScore(likelihood, impact int) int {
	return likelihood * impact
}

// ValidateLevel checks a likelihood or impact value
func ValidateLevel(name string, v int) error {
	if v < MinLevel || v > MaxLevel {
		return goerr.New(name+" must be between 1 and 10", goerr.V(name, v))
	}
	return nil
}

// SeverityOf bands a score for display: 80 and above is High, 40 and above Medium
func SeverityOf(score int) types.Severity {
	switch {
	case score >= 80:
		return types.SeverityHigh
	case score >= 40:
		return types.SeverityMedium
	default:
		return types.SeverityLow
	}
}
