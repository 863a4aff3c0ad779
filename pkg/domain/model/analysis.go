package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/qrisq/qrisq/pkg/domain/types"
)

// AnalysisID is a UUID v7 identifier, sortable by creation time.
type AnalysisID string

// NewAnalysisID generates a new AnalysisID
func NewAnalysisID() AnalysisID {
	return AnalysisID(uuid.Must(uuid.NewV7()).String())
}

func (id AnalysisID) String() string {
	return string(id)
}

// Validate checks the ID is a well formed UUID.
func (id AnalysisID) Validate() error {
	_, err := uuid.Parse(string(id))
	return err
}

// Analysis is a completed analysis kept for later retrieval.
type Analysis struct {
	ID               AnalysisID
	Description      string
	Provider         types.ModelProvider
	ExtractionMethod types.ExtractionMethod
	Response         *AnalyzeResponse
	Duration         time.Duration
	Cached           bool
	CreatedAt        time.Time
}

// Clone returns a deep copy of the analysis
func (a *Analysis) Clone() *Analysis {
	if a == nil {
		return nil
	}
	c := *a
	c.Response = a.Response.Clone()
	return &c
}
