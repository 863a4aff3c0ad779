package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/qrisq/qrisq/pkg/domain/types"
)

func TestModelProvider_Validate(t *testing.T) {
	tests := []struct {
		name     string
		provider types.ModelProvider
		wantErr  bool
	}{
		{"groq", types.ModelProviderGroq, false},
		{"gemini", types.ModelProviderGemini, false},
		{"empty means default", "", false},
		{"uppercase", "GROQ", true},
		{"unknown", "openai", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.provider.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("ModelProvider.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseModelProvider(t *testing.T) {
	p, err := types.ParseModelProvider("gemini")
	gt.NoError(t, err).Required()
	gt.Value(t, p).Equal(types.ModelProviderGemini)

	_, err = types.ParseModelProvider("claude")
	gt.Error(t, err)
}

func TestHeatmapAxes(t *testing.T) {
	factors := types.AllRiskFactors()
	gt.Array(t, factors).Length(5)
	gt.Value(t, factors[0]).Equal(types.RiskFactorModal)
	gt.Value(t, factors[4]).Equal(types.RiskFactorEksternal)

	levels := types.AllImpactLevels()
	gt.Array(t, levels).Length(5)
	gt.Value(t, levels[0].String()).Equal("Very Low")
	gt.Value(t, levels[4].String()).Equal("Very High")
}
