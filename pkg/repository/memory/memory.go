package memory

import (
	"github.com/qrisq/qrisq/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory keeps analyses in process memory. Contents are lost on restart.
type Memory struct {
	analysis *analysisRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		analysis: newAnalysisRepository(),
	}
}

func (m *Memory) Analysis() interfaces.AnalysisRepository {
	return m.analysis
}

func (m *Memory) Close() error {
	return nil
}
