package types

// RiskLevel is the severity bucket a categorized risk belongs to.
type RiskLevel string

const (
	RiskLevelHigh   RiskLevel = "High"
	RiskLevelMedium RiskLevel = "Medium"
	RiskLevelLow    RiskLevel = "Low"
)

func (l RiskLevel) String() string {
	return string(l)
}

// RiskFactor is a heatmap row.
type RiskFactor string

const (
	RiskFactorModal     RiskFactor = "Modal"
	RiskFactorSektor    RiskFactor = "Sektor"
	RiskFactorLokasi    RiskFactor = "Lokasi"
	RiskFactorWaktu     RiskFactor = "Waktu"
	RiskFactorEksternal RiskFactor = "Eksternal"
)

// AllRiskFactors returns the heatmap rows in order.
func AllRiskFactors() []RiskFactor {
	return []RiskFactor{
		RiskFactorModal,
		RiskFactorSektor,
		RiskFactorLokasi,
		RiskFactorWaktu,
		RiskFactorEksternal,
	}
}

func (f RiskFactor) String() string {
	return string(f)
}

// ImpactLevel is a heatmap column on a 5-level ordinal scale.
type ImpactLevel int

const (
	ImpactVeryLow ImpactLevel = iota
	ImpactLow
	ImpactMedium
	ImpactHigh
	ImpactVeryHigh
)

// AllImpactLevels returns the heatmap columns in order.
func AllImpactLevels() []ImpactLevel {
	return []ImpactLevel{
		ImpactVeryLow,
		ImpactLow,
		ImpactMedium,
		ImpactHigh,
		ImpactVeryHigh,
	}
}

func (l ImpactLevel) String() string {
	switch l {
	case ImpactVeryLow:
		return "Very Low"
	case ImpactLow:
		return "Low"
	case ImpactMedium:
		return "Medium"
	case ImpactHigh:
		return "High"
	case ImpactVeryHigh:
		return "Very High"
	default:
		return "Unknown"
	}
}
