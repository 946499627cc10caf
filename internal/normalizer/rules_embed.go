package normalizer

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/rules.yaml
var rulesYAML []byte

// Synonym rewrites a region name into the spelling used by tariff headers.
type Synonym struct {
	From string `yaml:"from" json:"from" mapstructure:"from"`
	To   string `yaml:"to" json:"to" mapstructure:"to"`
}

// Markers groups the wildcard and ignore lists used across the matchers.
type Markers struct {
	Generic         []string `yaml:"generic" json:"generic"`
	GroupWildcards  []string `yaml:"group_wildcards" json:"group_wildcards"`
	RegionWildcards []string `yaml:"region_wildcards" json:"region_wildcards"`
	ModelWildcards  []string `yaml:"model_wildcards" json:"model_wildcards"`
	ClassIgnore     []string `yaml:"class_ignore" json:"class_ignore"`
	BrandIgnore     []string `yaml:"brand_ignore" json:"brand_ignore"`
	ModelIgnore     []string `yaml:"model_ignore" json:"model_ignore"`
}

type Thresholds struct {
	Region float64 `yaml:"region" json:"region"`
	Zone   float64 `yaml:"zone" json:"zone"`
}

type TariffColumns struct {
	Usage         []string `yaml:"usage"`
	Class         []string `yaml:"class"`
	Seats         []string `yaml:"seats"`
	Group         []string `yaml:"group"`
	Observations  []string `yaml:"observations"`
	Commission    []string `yaml:"commission"`
	PriceFallback []string `yaml:"price_fallback"`
}

type GroupColumns struct {
	Brand []string `yaml:"brand"`
	Model []string `yaml:"model"`
	Group []string `yaml:"group"`
	Class []string `yaml:"class"`
	Usage []string `yaml:"usage"`
}

type ZoneColumns struct {
	Region []string `yaml:"region"`
	Zone   []string `yaml:"zone"`
}

type CampaignColumns struct {
	Insurer []string `yaml:"insurer"`
	Region  []string `yaml:"region"`
	Usage   []string `yaml:"usage"`
	Class   []string `yaml:"class"`
	Price   []string `yaml:"price"`
	Start   []string `yaml:"start"`
	End     []string `yaml:"end"`
	Name    []string `yaml:"name"`
	Models  []string `yaml:"models"`
}

// Columns holds the header keywords searched for in every table kind.
type Columns struct {
	Tariff       TariffColumns   `yaml:"tariff"`
	Groups       GroupColumns    `yaml:"groups"`
	Zones        ZoneColumns     `yaml:"zones"`
	Campaigns    CampaignColumns `yaml:"campaigns"`
	CatalogClass []string        `yaml:"catalog_class"`
}

// SheetKeywords classifies workbook sheets, and CSV files by their headers.
type SheetKeywords struct {
	Zone             []string `yaml:"zone"`
	Groups           []string `yaml:"groups"`
	Tariff           []string `yaml:"tariff"`
	CSVZoneHeaders   []string `yaml:"csv_zone_headers"`
	CSVGroupHeaders  []string `yaml:"csv_group_headers"`
	CSVTariffHeaders []string `yaml:"csv_tariff_headers"`
}

// Rules is the explicit configuration of the matching engine.
type Rules struct {
	Insurers       []string      `yaml:"insurers"`
	DefaultGroup   string        `yaml:"default_group"`
	Markers        Markers       `yaml:"markers"`
	RegionSynonyms []Synonym     `yaml:"region_synonyms"`
	Thresholds     Thresholds    `yaml:"thresholds"`
	Columns        Columns       `yaml:"columns"`
	Sheets         SheetKeywords `yaml:"sheets"`
}

// LoadRules parses the embedded default rules.
func LoadRules() (*Rules, error) {
	rules := &Rules{}
	if err := yaml.Unmarshal(rulesYAML, rules); err != nil {
		return nil, fmt.Errorf("parse embedded rules: %w", err)
	}
	return rules, nil
}

// DefaultRules is LoadRules that panics on a malformed embedded file.
func DefaultRules() *Rules {
	rules, err := LoadRules()
	if err != nil {
		panic(err)
	}
	return rules
}

// Synonym returns the replacement for a normalized region, if any.
func (r *Rules) Synonym(region string) (string, bool) {
	for _, s := range r.RegionSynonyms {
		if Normalize(s.From) == region {
			return Normalize(s.To), true
		}
	}
	return "", false
}
