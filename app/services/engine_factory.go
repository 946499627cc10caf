package services

import (
	"fmt"

	"github.com/soat-quoter/app/config"
	"github.com/soat-quoter/internal/campaign"
	"github.com/soat-quoter/internal/matcher"
	"github.com/soat-quoter/internal/quoting"
	"github.com/soat-quoter/internal/tables"
	"go.uber.org/zap"
)

// EngineLoader builds a fresh engine from the current files.
type EngineLoader func() (*quoting.Engine, error)

// BuildEngine loads every configured insurer file and wires the campaign
// overlay. It fails only when no insurer loads.
func BuildEngine(cfg *config.Config, logger *zap.Logger) (*quoting.Engine, error) {
	rules, err := cfg.MatchingRules()
	if err != nil {
		return nil, err
	}
	commission, err := cfg.DefaultCommission()
	if err != nil {
		return nil, fmt.Errorf("pricing.default_commission: %w", err)
	}

	registry, err := tables.NewLoader(rules, logger).LoadAll(cfg.Insurers)
	if err != nil {
		return nil, err
	}

	overlay := campaign.NewOverlay(
		campaign.NewFileSource(cfg.Campaigns.Paths...),
		matcher.New(rules),
		logger.Named("campaign"),
	)
	return quoting.NewEngine(quoting.Options{
		Rules:             rules,
		Registry:          registry,
		Campaigns:         overlay,
		DefaultCommission: commission,
		Logger:            logger.Named("quoting"),
	}), nil
}

// ConfigLoader binds BuildEngine to a config for reloads.
func ConfigLoader(cfg *config.Config, logger *zap.Logger) EngineLoader {
	return func() (*quoting.Engine, error) {
		return BuildEngine(cfg, logger)
	}
}
