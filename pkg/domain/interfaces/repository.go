package interfaces

import (
	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is returned (wrapped) by repositories when a record does not exist.
var ErrNotFound = goerr.New("not found")

// Repository defines the interface for data persistence
type Repository interface {
	Analysis() AnalysisRepository

	// Close releases backend resources
	Close() error
}
