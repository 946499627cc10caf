package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/soat-quoter/app/config"
	"github.com/soat-quoter/app/services"
	"github.com/soat-quoter/helpers/logger"
	"github.com/soat-quoter/internal/campaign"
	"github.com/soat-quoter/internal/matcher"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to the config file (default config/app.yaml)")
	once := flag.Bool("once", false, "audit once and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.LoggerConfig())
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	rules, err := cfg.MatchingRules()
	if err != nil {
		log.Fatal("Invalid matching rules", zap.Error(err))
	}
	overlay := campaign.NewOverlay(campaign.NewFileSource(cfg.Campaigns.Paths...), matcher.New(rules), log.Named("campaign"))
	worker := services.NewCampaignAuditWorker(overlay, cfg.Worker.AuditInterval, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *once {
		if _, err := worker.RunOnce(ctx); err != nil {
			log.Fatal("Campaign audit failed", zap.Error(err))
		}
		return
	}

	log.Info("Starting campaign audit worker",
		zap.Strings("paths", cfg.Campaigns.Paths),
		zap.Duration("interval", cfg.Worker.AuditInterval))
	worker.Run(ctx)
	log.Info("Worker exited")
}
