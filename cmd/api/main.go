package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soat-quoter/app/config"
	"github.com/soat-quoter/app/controllers"
	"github.com/soat-quoter/app/services"
	"github.com/soat-quoter/helpers/logger"
	"github.com/soat-quoter/internal/search"
	"github.com/soat-quoter/routes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to the config file (default config/app.yaml)")
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

	log.Info("Starting SOAT quoter", zap.String("env", cfg.App.Env))

	ctx := context.Background()
	history, closeHistory, err := services.NewHistoryStore(ctx, cfg.History, log.Named("history"))
	if err != nil {
		log.Fatal("Failed to open quote history", zap.String("backend", cfg.History.Backend), zap.Error(err))
	}
	defer closeHistory()

	taxFactor, err := cfg.TaxFactor()
	if err != nil {
		log.Fatal("Invalid pricing.tax_factor", zap.Error(err))
	}

	searcher := search.NewCatalogSearcher(search.Config{
		Enabled: cfg.Search.Enabled,
		Host:    cfg.Search.Host,
		APIKey:  cfg.Search.APIKey,
		Index:   cfg.Search.Index,
		Timeout: cfg.Search.Timeout,
	}, log.Named("search"))

	metrics := services.NewMetrics()
	quoteService, err := services.NewQuoteService(
		services.ConfigLoader(cfg, log),
		history,
		services.NewLogNotifier(log.Named("notify")),
		metrics,
		searcher,
		services.QuoteServiceConfig{QuotePrefix: cfg.Pricing.QuotePrefix, TaxFactor: taxFactor},
		log,
	)
	if err != nil {
		log.Fatal("Failed to load tariff tables", zap.Error(err))
	}
	adminService := services.NewAdminService(quoteService, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.SetupAllRoutes(router, routes.Controllers{
		Quote:   controllers.NewQuoteController(quoteService, log),
		Catalog: controllers.NewCatalogController(quoteService, log),
		Admin:   controllers.NewAdminController(adminService, cfg.Search.Index, log),
		Health:  controllers.NewHealthController(quoteService),
		Broker:  controllers.NewBrokerAuth(cfg.App.BrokerCode),
		Limiter: controllers.NewRateLimiter(cfg.App.RateLimit, cfg.App.RateBurst),
		Metrics: metrics.Handler(),
	}, log.Named("http"))

	if cfg.App.BrokerCode == "" {
		log.Warn("No broker code configured; broker view and admin routes are disabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting HTTP server", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.Worker.Embedded {
		worker := services.NewCampaignAuditWorker(services.AuditorFunc(adminService.AuditCampaigns), cfg.Worker.AuditInterval, log.Named("audit"))
		g.Go(func() error {
			worker.Run(gCtx)
			return nil
		})
	}

	g.Go(func() error {
		<-gCtx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
	}
	log.Info("Server exited")
}
