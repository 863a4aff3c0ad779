package model

import (
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/qrisq/qrisq/pkg/domain/types"
)

// MinDescriptionLength is the minimum number of characters a scenario description needs
// before it is worth sending for analysis.
const MinDescriptionLength = 50

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	Description   string              `json:"description"`
	ModelProvider types.ModelProvider `json:"model_provider,omitempty"`
}

// Validate checks the description length (in characters, untrimmed) and the provider.
func (r *AnalyzeRequest) Validate() error {
	if n := utf8.RuneCountInString(r.Description); n < MinDescriptionLength {
		return goerr.Wrap(ErrDescriptionTooShort, "description must be at least 50 characters",
			goerr.V(DescriptionLengthKey, n),
			goerr.V(MinLengthKey, MinDescriptionLength))
	}
	if err := r.ModelProvider.Validate(); err != nil {
		return goerr.Wrap(ErrInvalidProvider, err.Error(), goerr.V(ProviderKey, string(r.ModelProvider)))
	}
	return nil
}
