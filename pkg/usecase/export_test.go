package usecase

import "github.com/qrisq/qrisq/pkg/domain/types"

// DefaultProvider is exported for testing
func (uc *UseCases) DefaultProvider() types.ModelProvider {
	return uc.defaultProvider
}
