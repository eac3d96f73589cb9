package memory

import (
	"github.com/secmon-lab/riskreg/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	risk *riskRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		risk: newRiskRepository(),
	}
}

func (m *Memory) Risk() interfaces.RiskRepository {
	return m.risk
}
