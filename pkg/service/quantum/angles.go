package quantum

import (
	"math"
	"strings"

	"github.com/qrisq/qrisq/pkg/domain/model"
	"github.com/qrisq/qrisq/pkg/domain/model/config"
)

// Rotation angle names in qubit order.
const (
	AngleModal         = "modal"
	AngleSektor        = "sektor"
	AngleLokasi        = "lokasi"
	AngleTahun         = "tahun"
	AngleTargetMarket  = "target_market"
	AngleCompetitors   = "competitors"
	AngleTeamSize      = "team_size"
	AngleBusinessModel = "business_model"
)

// AngleNames returns the rotation angle names; index k drives qubit k.
func AngleNames() []string {
	return []string{
		AngleModal,
		AngleSektor,
		AngleLokasi,
		AngleTahun,
		AngleTargetMarket,
		AngleCompetitors,
		AngleTeamSize,
		AngleBusinessModel,
	}
}

type keywordAngle struct {
	keywords []string
	angle    float64
}

var marketAngles = []keywordAngle{
	{keywords: []string{"enterprise", "b2b", "korporat", "bumn"}, angle: 0.3},
	{keywords: []string{"b2c", "konsumen", "umkm", "retail"}, angle: 0.55},
	{keywords: []string{"niche", "spesialis", "premium"}, angle: 0.4},
}

var businessModelAngles = []keywordAngle{
	{keywords: []string{"saas", "platform", "marketplace", "subscription"}, angle: 0.25},
	{keywords: []string{"commission", "komisi", "transaction fee", "take rate"}, angle: 0.4},
	{keywords: []string{"asset", "inventory", "offline", "traditional"}, angle: 0.6},
	{keywords: []string{"freemium", "iklan", "ads", "advertising"}, angle: 0.55},
}

var (
	highCompetitionKeywords = []string{"gojek", "grab", "tokopedia", "shopee", "bukalapak", "unicorn",
		"banyak", "ramai", "ketat", "saturated", "crowded"}
	lowCompetitionKeywords = []string{"belum ada", "sedikit", "pioneer", "first mover", "blue ocean", "monopoli"}
)

// unspecified is what extraction sometimes yields for a missing optional field
const unspecified = "tidak disebutkan"

const defaultAngle = 0.5

// rotationAngles computes the RY angle in radians for every qubit, in AngleNames order
func rotationAngles(vars model.ExtractedVariables, profile *config.Profile) []float64 {
	return []float64{
		modalAngle(vars.Modal),
		profile.Sector(vars.Sektor).AngleRisk * math.Pi,
		profile.LocationAngle(vars.Lokasi) * math.Pi,
		yearAngle(vars.Tahun, profile.BaseYear),
		keywordTableAngle(vars.TargetMarket, marketAngles),
		competitionAngle(vars.Competitors),
		teamAngle(vars.TeamSize, vars.TeamDescription),
		keywordTableAngle(vars.BusinessModel, businessModelAngles),
	}
}

func modalAngle(modal float64) float64 {
	return clip(math.Log10(math.Max(modal, 1))/10*math.Pi, 0, math.Pi)
}

func yearAngle(tahun, baseYear int) float64 {
	switch ahead := tahun - baseYear; {
	case ahead <= 1:
		return 0.2 * math.Pi
	case ahead <= 3:
		return 0.35 * math.Pi
	default:
		return 0.5 * math.Pi
	}
}

func isUnspecified(s string) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	return s == "" || s == unspecified
}

func keywordTableAngle(text string, table []keywordAngle) float64 {
	if isUnspecified(text) {
		return defaultAngle * math.Pi
	}
	lower := strings.ToLower(text)
	for _, entry := range table {
		if containsAny(lower, entry.keywords) > 0 {
			return entry.angle * math.Pi
		}
	}
	return defaultAngle * math.Pi
}

func competitionAngle(competitors string) float64 {
	if isUnspecified(competitors) {
		return defaultAngle * math.Pi
	}
	lower := strings.ToLower(competitors)
	high := containsAny(lower, highCompetitionKeywords)
	low := containsAny(lower, lowCompetitionKeywords)
	switch {
	case high > low:
		return 0.65 * math.Pi
	case low > high:
		return 0.25 * math.Pi
	default:
		return 0.45 * math.Pi
	}
}

var (
	largeTeamKeywords = []string{"besar", "puluhan", "ratusan"}
	smallTeamKeywords = []string{"kecil", "startup", "lean"}
)

// teamAngle prefers the head count; description keywords are used only without one
func teamAngle(size *int, description string) float64 {
	switch {
	case size == nil:
		return teamKeywordAngle(description)
	case *size >= 20 && *size <= 100:
		return 0.3 * math.Pi
	case *size < 20:
		return 0.55 * math.Pi
	default:
		return 0.45 * math.Pi
	}
}

func teamKeywordAngle(description string) float64 {
	lower := strings.ToLower(description)
	switch {
	case isUnspecified(lower):
		return defaultAngle * math.Pi
	case containsAny(lower, largeTeamKeywords) > 0:
		return 0.4 * math.Pi
	case containsAny(lower, smallTeamKeywords) > 0:
		return 0.55 * math.Pi
	default:
		return defaultAngle * math.Pi
	}
}

// containsAny counts how many keywords occur in lower
func containsAny(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}
