package extractor

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/qrisq/qrisq/pkg/domain/model"
	"github.com/qrisq/qrisq/pkg/domain/model/config"
)

// DefaultModal is used when no capital amount can be found (Rp 100 juta).
const DefaultModal = 100_000_000

// MaxModal is the largest capital amount accepted (Rp 1 kuadriliun). Larger values are ignored.
const MaxModal = 1e15

const numberPattern = `(\d{1,3}(?:\.\d{3})+|\d+(?:[.,]\d+)?)`

type modalPattern struct {
	re         *regexp.Regexp
	multiplier float64
}

// Evaluated in order; the first pattern that matches anywhere wins.
var modalPatterns = []modalPattern{
	{re: regexp.MustCompile(numberPattern + `\s*(?:miliar|milyar|m\b|billion)`), multiplier: 1e9},
	{re: regexp.MustCompile(numberPattern + `\s*(?:juta|jt|million)`), multiplier: 1e6},
	{re: regexp.MustCompile(numberPattern + `\s*(?:ribu|rb|thousand|k\b)`), multiplier: 1e3},
	{re: regexp.MustCompile(`rp\.?\s*` + numberPattern), multiplier: 1},
	{re: regexp.MustCompile(`(\d{9,})`), multiplier: 1},
}

var (
	yearPattern      = regexp.MustCompile(`\b(202[0-9]|2030)\b`)
	groupedThousands = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)
	firstInteger     = regexp.MustCompile(`\d+`)
)

// extractRegex derives variables by pattern matching only
func extractRegex(description string, profile *config.Profile) model.ExtractedVariables {
	lower := strings.ToLower(description)

	vars := model.ExtractedVariables{
		Modal:  DefaultModal,
		Sektor: profile.DefaultSector,
		Lokasi: profile.DefaultLocation,
		Tahun:  profile.BaseYear,
	}

	if modal, ok := parseModal(lower); ok {
		vars.Modal = modal
	}
	if sektor, ok := profile.MatchSector(lower); ok {
		vars.Sektor = sektor
	}
	if lokasi, ok := profile.MatchLocation(lower); ok {
		vars.Lokasi = lokasi
	}
	if m := yearPattern.FindString(lower); m != "" {
		if y, err := strconv.Atoi(m); err == nil {
			vars.Tahun = y
		}
	}

	return vars
}

// parseModal finds a capital amount in lowercase text
func parseModal(lower string) (float64, bool) {
	for _, p := range modalPatterns {
		m := p.re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		n, ok := parseNumber(m[1])
		if !ok {
			continue
		}
		if modal := n * p.multiplier; validModal(modal) {
			return modal, true
		}
	}
	return 0, false
}

// validModal accepts finite, positive amounts up to MaxModal
func validModal(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0 && v <= MaxModal
}

// parseNumber reads "1.500.000" as grouped thousands and "2,5" or "2.5" as decimals
func parseNumber(s string) (float64, bool) {
	if groupedThousands.MatchString(s) {
		s = strings.ReplaceAll(s, ".", "")
	} else {
		s = strings.Replace(s, ",", ".", 1)
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseFirstInt returns the first integer found in s
func parseFirstInt(s string) (int, bool) {
	m := firstInteger.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}
