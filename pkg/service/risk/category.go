package risk

import (
	"github.com/qrisq/qrisq/pkg/domain/model"
)

// Risk category names, in evaluation order.
const (
	CategoryRegulasi     = "Regulasi"
	CategoryPersaingan   = "Persaingan"
	CategoryPasar        = "Pasar"
	CategoryOperasional  = "Operasional"
	CategoryKeuangan     = "Keuangan"
	CategorySDM          = "SDM"
	CategoryTeknologi    = "Teknologi"
	CategoryEkonomiMakro = "Ekonomi Makro"
)

type categoryScore struct {
	name  string
	score float64
}

// scores returns every category score in evaluation order
func (e *Engine) scores(vars model.ExtractedVariables) []categoryScore {
	sector := e.profile.Sector(vars.Sektor)
	yearsAhead := float64(vars.Tahun - e.profile.BaseYear)

	regulasi := 0.4
	if sector.Regulated {
		regulasi = 0.7
	}

	persaingan := 0.5
	switch {
	case sector.Competitive:
		persaingan = 0.75
	case e.profile.IsHub(vars.Lokasi):
		persaingan = 0.65
	}

	pasar := 0.4
	if vars.Tahun > e.profile.BaseYear+2 {
		pasar = 0.6
	}

	operasional := 0.35
	if vars.Modal > 500_000_000 {
		operasional = 0.55
	}

	keuangan := 0.3
	switch {
	case vars.Modal > 1_000_000_000:
		keuangan = 0.65
	case vars.Modal < 100_000_000:
		keuangan = 0.5
	}

	sdm := 0.4
	if sector.TalentScarce {
		sdm = 0.6
	}

	teknologi := 0.3
	if sector.TechExposed {
		teknologi = 0.5
	}

	return []categoryScore{
		{name: CategoryRegulasi, score: regulasi},
		{name: CategoryPersaingan, score: persaingan},
		{name: CategoryPasar, score: pasar},
		{name: CategoryOperasional, score: operasional},
		{name: CategoryKeuangan, score: keuangan},
		{name: CategorySDM, score: sdm},
		{name: CategoryTeknologi, score: teknologi},
		{name: CategoryEkonomiMakro, score: clip(0.4+0.08*yearsAhead, 0, 0.7)},
	}
}

// Categorize buckets each category by the profile thresholds; both bounds are exclusive.
func (e *Engine) Categorize(vars model.ExtractedVariables) model.RiskCategories {
	categories := model.RiskCategories{
		High:   []string{},
		Medium: []string{},
		Low:    []string{},
	}
	for _, s := range e.scores(vars) {
		switch {
		case s.score > e.profile.Thresholds.High:
			categories.High = append(categories.High, s.name)
		case s.score > e.profile.Thresholds.Medium:
			categories.Medium = append(categories.Medium, s.name)
		default:
			categories.Low = append(categories.Low, s.name)
		}
	}
	return categories
}
