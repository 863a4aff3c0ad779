package config

import (
	_ "embed"
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

//go:embed profile.toml
var defaultProfileTOML []byte

// ErrInvalidProfile is returned (wrapped) for any profile validation failure
var ErrInvalidProfile = goerr.New("invalid risk profile")

// Sector describes a business sector and the risk traits the engine keys on
type Sector struct {
	Name           string   `toml:"name"`
	Keywords       []string `toml:"keywords"`
	AngleRisk      float64  `toml:"angle_risk"`
	HighRisk       bool     `toml:"high_risk"`
	Regulated      bool     `toml:"regulated"`
	Competitive    bool     `toml:"competitive"`
	TechExposed    bool     `toml:"tech_exposed"`
	TalentScarce   bool     `toml:"talent_scarce"`
	Recommendation string   `toml:"recommendation"`
}

// Location maps a lowercase phrase found in a description to a display name
type Location struct {
	Name  string `toml:"name"`
	Match string `toml:"match"`
}

// CityTier groups cities sharing a market-potential rotation angle (in units of pi)
type CityTier struct {
	Tier   int      `toml:"tier"`
	Angle  float64  `toml:"angle"`
	Cities []string `toml:"cities"`
}

// Thresholds are the exclusive lower bounds of the High and Medium categories
type Thresholds struct {
	High   float64 `toml:"high"`
	Medium float64 `toml:"medium"`
}

// Profile holds the tunable tables of the analysis pipeline
type Profile struct {
	BaseYear             int        `toml:"base_year"`
	DefaultSector        string     `toml:"default_sector"`
	DefaultLocation      string     `toml:"default_location"`
	HubCity              string     `toml:"hub_city"`
	MaxRecommendations   int        `toml:"max_recommendations"`
	DefaultLocationAngle float64    `toml:"default_location_angle"`
	Thresholds           Thresholds `toml:"thresholds"`
	Sectors              []Sector   `toml:"sector"`
	Locations            []Location `toml:"location"`
	CityTiers            []CityTier `toml:"city_tier"`

	keywordPatterns map[string][]*regexp.Regexp
}

// DefaultProfile returns the built-in profile. It panics only if the embedded file is broken.
func DefaultProfile() *Profile {
	p, err := ParseProfile(defaultProfileTOML)
	if err != nil {
		panic(err)
	}
	return p
}

// ParseProfile decodes and validates a TOML profile
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, goerr.Wrap(err, "failed to parse risk profile")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.compile()
	return &p, nil
}

// Validate checks the profile is internally consistent
func (p *Profile) Validate() error {
	if p.BaseYear < 2000 || p.BaseYear > 2100 {
		return goerr.Wrap(ErrInvalidProfile, "base_year must be between 2000 and 2100", goerr.V("base_year", p.BaseYear))
	}
	if p.MaxRecommendations < 1 {
		return goerr.Wrap(ErrInvalidProfile, "max_recommendations must be positive", goerr.V("max_recommendations", p.MaxRecommendations))
	}
	if !(0 < p.Thresholds.Medium && p.Thresholds.Medium < p.Thresholds.High && p.Thresholds.High < 1) {
		return goerr.Wrap(ErrInvalidProfile, "thresholds must satisfy 0 < medium < high < 1",
			goerr.V("medium", p.Thresholds.Medium), goerr.V("high", p.Thresholds.High))
	}
	if p.DefaultLocationAngle < 0 || p.DefaultLocationAngle > 1 {
		return goerr.Wrap(ErrInvalidProfile, "default_location_angle must be within [0, 1]")
	}
	if len(p.Sectors) == 0 {
		return goerr.Wrap(ErrInvalidProfile, "at least one sector is required")
	}

	names := make(map[string]bool)
	for i, s := range p.Sectors {
		if s.Name == "" {
			return goerr.Wrap(ErrInvalidProfile, "sector name is required", goerr.V("index", i))
		}
		key := strings.ToLower(s.Name)
		if names[key] {
			return goerr.Wrap(ErrInvalidProfile, "duplicate sector", goerr.V("name", s.Name))
		}
		names[key] = true
		if s.AngleRisk < 0 || s.AngleRisk > 1 {
			return goerr.Wrap(ErrInvalidProfile, "sector angle_risk must be within [0, 1]",
				goerr.V("name", s.Name), goerr.V("angle_risk", s.AngleRisk))
		}
		for _, kw := range s.Keywords {
			if strings.TrimSpace(kw) == "" || kw != strings.ToLower(kw) {
				return goerr.Wrap(ErrInvalidProfile, "sector keywords must be non-empty lowercase",
					goerr.V("name", s.Name), goerr.V("keyword", kw))
			}
		}
	}
	if !names[strings.ToLower(p.DefaultSector)] {
		return goerr.Wrap(ErrInvalidProfile, "default_sector must be one of the sectors", goerr.V("default_sector", p.DefaultSector))
	}

	matches := make(map[string]bool)
	for i, l := range p.Locations {
		if l.Name == "" || l.Match == "" || l.Match != strings.ToLower(l.Match) {
			return goerr.Wrap(ErrInvalidProfile, "location needs a name and a lowercase match", goerr.V("index", i))
		}
		if matches[l.Match] {
			return goerr.Wrap(ErrInvalidProfile, "duplicate location match", goerr.V("match", l.Match))
		}
		matches[l.Match] = true
	}

	for _, t := range p.CityTiers {
		if t.Angle < 0 || t.Angle > 1 {
			return goerr.Wrap(ErrInvalidProfile, "city tier angle must be within [0, 1]", goerr.V("tier", t.Tier))
		}
	}

	return nil
}

func (p *Profile) compile() {
	p.keywordPatterns = make(map[string][]*regexp.Regexp, len(p.Sectors))
	for _, s := range p.Sectors {
		for _, kw := range s.Keywords {
			p.keywordPatterns[s.Name] = append(p.keywordPatterns[s.Name], wordPattern(kw))
		}
	}
}

// wordPattern matches kw only when it is not embedded in a longer word
func wordPattern(kw string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^\p{L}\p{N}])` + regexp.QuoteMeta(kw) + `(?:$|[^\p{L}\p{N}])`)
}

// MatchSector returns the first sector with a keyword occurring as a whole word in lower.
func (p *Profile) MatchSector(lower string) (string, bool) {
	if p.keywordPatterns == nil {
		p.compile()
	}
	for _, s := range p.Sectors {
		for _, re := range p.keywordPatterns[s.Name] {
			if re.MatchString(lower) {
				return s.Name, true
			}
		}
	}
	return "", false
}

// MatchLocation returns the display name of the first location found in lower.
func (p *Profile) MatchLocation(lower string) (string, bool) {
	for _, l := range p.Locations {
		if strings.Contains(lower, l.Match) {
			return l.Name, true
		}
	}
	return "", false
}

// Sector returns the sector named name (case-insensitive) or the default sector.
func (p *Profile) Sector(name string) Sector {
	var fallback Sector
	for _, s := range p.Sectors {
		if strings.EqualFold(s.Name, name) {
			return s
		}
		if strings.EqualFold(s.Name, p.DefaultSector) {
			fallback = s
		}
	}
	return fallback
}

// NormalizeSector maps free form sector text to a canonical sector name.
func (p *Profile) NormalizeSector(name string) string {
	name = strings.TrimSpace(name)
	for _, s := range p.Sectors {
		if strings.EqualFold(s.Name, name) {
			return s.Name
		}
	}
	if matched, ok := p.MatchSector(strings.ToLower(name)); ok {
		return matched
	}
	return p.DefaultSector
}

// LocationAngle returns the location rotation angle in units of pi.
func (p *Profile) LocationAngle(lokasi string) float64 {
	lower := strings.ToLower(lokasi)
	for _, tier := range p.CityTiers {
		for _, city := range tier.Cities {
			if strings.Contains(lower, city) {
				return tier.Angle
			}
		}
	}
	return p.DefaultLocationAngle
}

// IsHub reports whether lokasi is in the hub city.
func (p *Profile) IsHub(lokasi string) bool {
	return p.HubCity != "" && strings.Contains(strings.ToLower(lokasi), p.HubCity)
}
