package risk_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/qrisq/qrisq/pkg/domain/model"
	"github.com/qrisq/qrisq/pkg/service/risk"
)

func uniformDistribution() []float64 {
	d := make([]float64, 16)
	for i := range d {
		d[i] = 1.0 / 16
	}
	return d
}

func TestHeatmap(t *testing.T) {
	engine := risk.New()
	vars := model.ExtractedVariables{Modal: 2_000_000_000, Sektor: "Teknologi", Lokasi: "Jakarta", Tahun: 2028}

	heatmap := engine.Heatmap(vars, uniformDistribution())
	gt.NoError(t, heatmap.Validate())

	for _, row := range heatmap {
		for _, v := range row {
			gt.Value(t, v).Equal(float64(int(v*1000+0.5)) / 1000)
		}
	}

	t.Run("deterministic for the same variables", func(t *testing.T) {
		gt.Value(t, engine.Heatmap(vars, uniformDistribution())).Equal(heatmap)
	})

	t.Run("empty distribution is tolerated", func(t *testing.T) {
		gt.NoError(t, engine.Heatmap(vars, nil).Validate())
	})

	t.Run("higher capital raises the capital row", func(t *testing.T) {
		small := engine.Heatmap(model.ExtractedVariables{Modal: 50_000_000, Sektor: "Jasa", Lokasi: "Bogor", Tahun: 2025}, uniformDistribution())
		sumRow := func(h model.RiskHeatmap, i int) float64 {
			s := 0.0
			for _, v := range h[i] {
				s += v
			}
			return s
		}
		gt.Number(t, sumRow(heatmap, 0)).Greater(sumRow(small, 0))
	})
}

func TestCategorize(t *testing.T) {
	engine := risk.New()

	t.Run("technology scale-up in the hub city", func(t *testing.T) {
		categories := engine.Categorize(model.ExtractedVariables{
			Modal: 2_000_000_000, Sektor: "Teknologi", Lokasi: "Jakarta Selatan", Tahun: 2025,
		})
		gt.Value(t, categories.High).Equal([]string{"Persaingan"})
		gt.Value(t, categories.Medium).Equal([]string{"Regulasi", "Pasar", "Operasional", "Keuangan", "SDM", "Teknologi", "Ekonomi Makro"})
		gt.Array(t, categories.Low).Length(0)
		gt.Value(t, categories.Total()).Equal(8)
	})

	t.Run("regulated sector far ahead", func(t *testing.T) {
		categories := engine.Categorize(model.ExtractedVariables{
			Modal: 50_000_000, Sektor: "Kesehatan", Lokasi: "Makassar", Tahun: 2030,
		})
		gt.Array(t, categories.High).Has("Regulasi")
		gt.Array(t, categories.High).Has("Ekonomi Makro")
		gt.Array(t, categories.Low).Has("Operasional")
		gt.Array(t, categories.Low).Has("Teknologi")
		gt.Array(t, categories.Medium).Has("Keuangan")
		gt.Array(t, categories.Medium).Has("Pasar")
	})
}

func TestRecommend(t *testing.T) {
	engine := risk.New()

	t.Run("low probability tech in the hub", func(t *testing.T) {
		vars := model.ExtractedVariables{Modal: 2_000_000_000, Sektor: "Teknologi", Lokasi: "Jakarta", Tahun: 2025}
		recs := engine.Recommend(vars, engine.Categorize(vars), 0.4)

		gt.Value(t, recs).Equal([]string{
			"Lakukan analisis kompetitor mendalam dan temukan unique value proposition",
			"Fokus pada MVP dan iterasi cepat berdasarkan feedback user",
			"Manfaatkan ekosistem startup dan networking di Jakarta",
			"Gunakan financial advisor untuk pengelolaan modal yang optimal",
			"Pertimbangkan untuk melakukan pivot atau validasi ulang business model",
			"Buat contingency plan untuk skenario terburuk",
			"Monitor KPI secara reguler dan siap melakukan adjustment",
		})
	})

	t.Run("sector without advice outside the hub", func(t *testing.T) {
		vars := model.ExtractedVariables{Modal: 100_000_000, Sektor: "Manufaktur", Lokasi: "Batam", Tahun: 2025}
		recs := engine.Recommend(vars, engine.Categorize(vars), 0.8)

		gt.Value(t, recs).Equal([]string{
			"Eksplorasi keunggulan biaya operasional di luar kota besar",
			"Mulai dengan lean startup approach untuk efisiensi modal",
			"Siapkan strategi scaling untuk pertumbuhan cepat",
			"Buat contingency plan untuk skenario terburuk",
			"Monitor KPI secara reguler dan siap melakukan adjustment",
		})
	})

	t.Run("capped at the profile maximum", func(t *testing.T) {
		vars := model.ExtractedVariables{Modal: 2_000_000_000, Sektor: "Finansial", Lokasi: "Jakarta", Tahun: 2025}
		categories := model.RiskCategories{High: []string{"Regulasi", "Persaingan", "Keuangan", "SDM"}}
		recs := engine.Recommend(vars, categories, 0.3)
		gt.Array(t, recs).Length(8)
		gt.Value(t, recs[0]).Equal("Konsultasikan dengan ahli hukum dan perizinan sebelum memulai")
	})
}

func TestAssess(t *testing.T) {
	engine := risk.New()
	vars := model.ExtractedVariables{Modal: 500_000_000, Sektor: "F&B", Lokasi: "Bandung", Tahun: 2026}

	a := engine.Assess(vars, 0.6, uniformDistribution())
	gt.NoError(t, a.Heatmap.Validate())
	gt.Value(t, a.Categories.Total()).Equal(8)
	gt.Array(t, a.Recommendations).Has("Validasi menu dan lokasi dengan soft opening terlebih dahulu")
}
