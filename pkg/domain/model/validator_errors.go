package model

import "github.com/m-mizutani/goerr/v2"

// ErrInvalidRequest is the parent of every request validation error
var ErrInvalidRequest = goerr.New("invalid analysis request")

// Validation errors
var (
	ErrDescriptionTooShort = goerr.Wrap(ErrInvalidRequest, "description is too short")
	ErrInvalidProvider     = goerr.Wrap(ErrInvalidRequest, "invalid model provider")
	ErrInvalidProbability  = goerr.New("success probability out of range")
	ErrInvalidHeatmap      = goerr.New("heatmap value out of range")
	ErrInvalidModal        = goerr.New("capital amount is not a finite number")
)

// Context keys for error values
const (
	DescriptionLengthKey = "description_length"
	MinLengthKey         = "min_length"
	ProviderKey          = "provider"
	ProbabilityKey       = "probability"
	RowKey               = "row"
	ColumnKey            = "column"
	ModalKey             = "modal"
)
