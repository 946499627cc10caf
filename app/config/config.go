package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/soat-quoter/helpers/logger"
	"github.com/soat-quoter/internal/normalizer"
	"github.com/soat-quoter/internal/tables"
	"github.com/spf13/viper"
)

type AppConfig struct {
	Name           string        `mapstructure:"name" json:"name"`
	Env            string        `mapstructure:"env" json:"env"`
	Port           string        `mapstructure:"port" json:"port"`
	BrokerCode     string        `mapstructure:"broker_code" json:"-"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" json:"request_timeout"`
	RateLimit      float64       `mapstructure:"rate_limit" json:"rate_limit"`
	RateBurst      int           `mapstructure:"rate_burst" json:"rate_burst"`
}

type LogConfig struct {
	Level      string `mapstructure:"level" json:"level"`
	Format     string `mapstructure:"format" json:"format"`
	Output     string `mapstructure:"output" json:"output"`
	File       string `mapstructure:"file" json:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" json:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" json:"max_age_days"`
}

type CampaignConfig struct {
	Paths []string `mapstructure:"paths" json:"paths"`
}

type PricingConfig struct {
	DefaultCommission string `mapstructure:"default_commission" json:"default_commission"`
	TaxFactor         string `mapstructure:"tax_factor" json:"tax_factor"`
	QuotePrefix       string `mapstructure:"quote_prefix" json:"quote_prefix"`
}

type HistoryConfig struct {
	Backend       string        `mapstructure:"backend" json:"backend"`
	SQLitePath    string        `mapstructure:"sqlite_path" json:"sqlite_path"`
	RedisURL      string        `mapstructure:"redis_url" json:"-"`
	MongoURI      string        `mapstructure:"mongo_uri" json:"-"`
	MongoDatabase string        `mapstructure:"mongo_database" json:"mongo_database"`
	L1Size        int           `mapstructure:"l1_size" json:"l1_size"`
	TTL           time.Duration `mapstructure:"ttl" json:"ttl"`
}

type SearchConfig struct {
	Enabled bool          `mapstructure:"enabled" json:"enabled"`
	Host    string        `mapstructure:"host" json:"host"`
	APIKey  string        `mapstructure:"api_key" json:"-"`
	Index   string        `mapstructure:"index" json:"index"`
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
}

type WorkerConfig struct {
	AuditInterval time.Duration `mapstructure:"audit_interval" json:"audit_interval"`
	// Embedded runs the campaign audit inside the API process.
	Embedded bool `mapstructure:"embedded" json:"embedded"`
}

// RulesConfig overrides parts of the embedded matching rules.
type RulesConfig struct {
	RegionSynonyms  []normalizer.Synonym `mapstructure:"region_synonyms" json:"region_synonyms"`
	RegionThreshold float64              `mapstructure:"region_threshold" json:"region_threshold"`
	ZoneThreshold   float64              `mapstructure:"zone_threshold" json:"zone_threshold"`
}

type Config struct {
	App       AppConfig       `mapstructure:"app" json:"app"`
	Log       LogConfig       `mapstructure:"log" json:"log"`
	Insurers  []tables.Source `mapstructure:"insurers" json:"insurers"`
	Campaigns CampaignConfig  `mapstructure:"campaigns" json:"campaigns"`
	Pricing   PricingConfig   `mapstructure:"pricing" json:"pricing"`
	History   HistoryConfig   `mapstructure:"history" json:"history"`
	Search    SearchConfig    `mapstructure:"search" json:"search"`
	Worker    WorkerConfig    `mapstructure:"worker" json:"worker"`
	Rules     RulesConfig     `mapstructure:"rules" json:"rules"`
}

var C Config

// Load reads the config file (config/app.yaml or ./app.yaml when path is
// empty), applies SOAT_* environment overrides and stores the result in C.
// A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("app")
		v.SetConfigType("yaml")
		v.AddConfigPath("config")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("SOAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	C = cfg
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "soat-quoter")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.request_timeout", "5s")
	v.SetDefault("app.rate_limit", 0)
	v.SetDefault("app.rate_burst", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)

	v.SetDefault("insurers", []map[string]string{
		{"name": "Rimac", "path": "data/rimac.xlsx"},
		{"name": "La Positiva", "path": "data/positiva.xlsx"},
		{"name": "Pacífico", "path": "data/pacifico.xlsx"},
		{"name": "Protecta", "path": "data/protecta.xlsx"},
		{"name": "Mapfre", "path": "data/mapfre.xlsx"},
	})
	v.SetDefault("campaigns.paths", []string{"campanas.xlsx", "campanas.csv"})

	v.SetDefault("pricing.default_commission", "0.15")
	v.SetDefault("pricing.tax_factor", "1.2154")
	v.SetDefault("pricing.quote_prefix", "2000")

	v.SetDefault("history.backend", "memory")
	v.SetDefault("history.sqlite_path", "data/history.db")
	v.SetDefault("history.redis_url", "redis://localhost:6379/0")
	v.SetDefault("history.mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("history.mongo_database", "soat_quoter")
	v.SetDefault("history.l1_size", 1000)
	v.SetDefault("history.ttl", "720h")

	v.SetDefault("search.enabled", false)
	v.SetDefault("search.host", "http://localhost:7700")
	v.SetDefault("search.index", "vehicles")
	v.SetDefault("search.timeout", "3s")

	v.SetDefault("worker.audit_interval", "15m")
	v.SetDefault("worker.embedded", false)
}

// MatchingRules returns the embedded rules with the configured insurer
// order, synonyms and thresholds applied on top.
func (c *Config) MatchingRules() (*normalizer.Rules, error) {
	rules, err := normalizer.LoadRules()
	if err != nil {
		return nil, err
	}
	if len(c.Insurers) > 0 {
		rules.Insurers = rules.Insurers[:0]
		for _, s := range c.Insurers {
			rules.Insurers = append(rules.Insurers, s.Insurer)
		}
	}
	if len(c.Rules.RegionSynonyms) > 0 {
		rules.RegionSynonyms = c.Rules.RegionSynonyms
	}
	if c.Rules.RegionThreshold > 0 {
		rules.Thresholds.Region = c.Rules.RegionThreshold
	}
	if c.Rules.ZoneThreshold > 0 {
		rules.Thresholds.Zone = c.Rules.ZoneThreshold
	}
	return rules, nil
}

// DefaultCommission parses pricing.default_commission.
func (c *Config) DefaultCommission() (decimal.Decimal, error) {
	return decimal.NewFromString(c.Pricing.DefaultCommission)
}

// TaxFactor parses pricing.tax_factor.
func (c *Config) TaxFactor() (decimal.Decimal, error) {
	return decimal.NewFromString(c.Pricing.TaxFactor)
}

func RequestTimeout() time.Duration {
	if C.App.RequestTimeout > 0 {
		return C.App.RequestTimeout
	}
	return 5 * time.Second
}

// LoggerConfig maps the log section onto the logger builder.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		Format:     c.Log.Format,
		Output:     c.Log.Output,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
	}
}
