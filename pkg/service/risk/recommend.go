package risk

import (
	"fmt"
	"slices"

	"github.com/qrisq/qrisq/pkg/domain/model"
)

var highRiskAdvice = []struct {
	category string
	advice   string
}{
	{category: CategoryRegulasi, advice: "Konsultasikan dengan ahli hukum dan perizinan sebelum memulai"},
	{category: CategoryPersaingan, advice: "Lakukan analisis kompetitor mendalam dan temukan unique value proposition"},
	{category: CategoryKeuangan, advice: "Pertimbangkan untuk mencari investor atau pendanaan tambahan"},
	{category: CategorySDM, advice: "Bangun strategi rekrutmen dan retensi talent yang kuat"},
}

const (
	hubAdvice            = "Manfaatkan ekosistem startup dan networking di %s"
	nonHubAdvice         = "Eksplorasi keunggulan biaya operasional di luar kota besar"
	largeCapitalAdvice   = "Gunakan financial advisor untuk pengelolaan modal yang optimal"
	leanCapitalAdvice    = "Mulai dengan lean startup approach untuk efisiensi modal"
	pivotAdvice          = "Pertimbangkan untuk melakukan pivot atau validasi ulang business model"
	scalingAdvice        = "Siapkan strategi scaling untuk pertumbuhan cepat"
	contingencyAdvice    = "Buat contingency plan untuk skenario terburuk"
	monitoringAdvice     = "Monitor KPI secara reguler dan siap melakukan adjustment"
	lowProbabilityBound  = 0.5
	highProbabilityBound = 0.75
)

// Recommend builds the ordered advice list, capped at the profile maximum
func (e *Engine) Recommend(vars model.ExtractedVariables, categories model.RiskCategories, successProbability float64) []string {
	var recs []string

	for _, a := range highRiskAdvice {
		if slices.Contains(categories.High, a.category) {
			recs = append(recs, a.advice)
		}
	}

	if advice := e.profile.Sector(vars.Sektor).Recommendation; advice != "" {
		recs = append(recs, advice)
	}

	if e.profile.IsHub(vars.Lokasi) {
		recs = append(recs, fmt.Sprintf(hubAdvice, e.hubName()))
	} else {
		recs = append(recs, nonHubAdvice)
	}

	if vars.Modal > 1_000_000_000 {
		recs = append(recs, largeCapitalAdvice)
	} else {
		recs = append(recs, leanCapitalAdvice)
	}

	switch {
	case successProbability < lowProbabilityBound:
		recs = append(recs, pivotAdvice)
	case successProbability > highProbabilityBound:
		recs = append(recs, scalingAdvice)
	}

	recs = append(recs, contingencyAdvice, monitoringAdvice)

	if len(recs) > e.profile.MaxRecommendations {
		recs = recs[:e.profile.MaxRecommendations]
	}
	return recs
}

func (e *Engine) hubName() string {
	if name, ok := e.profile.MatchLocation(e.profile.HubCity); ok {
		return name
	}
	return e.profile.HubCity
}
