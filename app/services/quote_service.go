package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"github.com/soat-quoter/app/models"
	"github.com/soat-quoter/app/requests"
	"github.com/soat-quoter/helpers/utils"
	"github.com/soat-quoter/internal/quoting"
	"github.com/soat-quoter/internal/search"
	"go.uber.org/zap"
)

// ErrInvalidRequest wraps customer form validation failures.
var ErrInvalidRequest = errors.New("invalid quote request")

type QuoteServiceConfig struct {
	QuotePrefix string
	TaxFactor   decimal.Decimal
}

// QuoteService issues quotes and keeps their history. The engine sits
// behind an atomic pointer so Reload never blocks running quotes.
type QuoteService struct {
	engine   atomic.Pointer[quoting.Engine]
	load     EngineLoader
	history  IHistoryStore
	notifier Notifier
	metrics  *Metrics
	catalog  *search.CatalogSearcher
	cfg      QuoteServiceConfig
	now      func() time.Time
	logger   *zap.Logger
}

// NewQuoteService loads the first engine; it fails when that load fails.
func NewQuoteService(
	load EngineLoader,
	history IHistoryStore,
	notifier Notifier,
	metrics *Metrics,
	catalog *search.CatalogSearcher,
	cfg QuoteServiceConfig,
	logger *zap.Logger,
) (*QuoteService, error) {
	if cfg.QuotePrefix == "" {
		cfg.QuotePrefix = "2000"
	}
	if cfg.TaxFactor.IsZero() {
		cfg.TaxFactor = quoting.DefaultTaxFactor
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	if catalog == nil {
		catalog = search.NewCatalogSearcher(search.Config{}, logger)
	}
	s := &QuoteService{
		load:     load,
		history:  history,
		notifier: notifier,
		metrics:  metrics,
		catalog:  catalog,
		cfg:      cfg,
		now:      time.Now,
		logger:   logger,
	}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Engine is the engine currently serving quotes.
func (s *QuoteService) Engine() *quoting.Engine { return s.engine.Load() }

func (s *QuoteService) Catalog() *search.CatalogSearcher { return s.catalog }

func (s *QuoteService) History() IHistoryStore { return s.history }

func (s *QuoteService) Metrics() *Metrics { return s.metrics }

// Reload rebuilds the engine from disk and swaps it in. On error the
// running engine stays.
func (s *QuoteService) Reload() (*quoting.Engine, error) {
	e, err := s.load()
	if err != nil {
		s.metrics.Reloads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load tariff tables: %w", err)
	}
	s.engine.Store(e)
	s.catalog.SetCatalog(e.VehicleCatalog())
	s.metrics.Reloads.WithLabelValues("ok").Inc()
	s.logger.Info("tariff tables loaded",
		zap.Strings("insurers", e.Registry().Insurers()),
		zap.Int("catalog_size", s.catalog.Size()))
	return e, nil
}

// Quote validates the request, prices it with every insurer, stores the
// record and notifies client quotes. History and notifier failures are
// logged, not returned.
func (s *QuoteService) Quote(ctx context.Context, req *requests.QuoteRequest, broker bool) (*models.QuoteRecord, error) {
	if err := req.Validate(broker); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	start := time.Now()
	results := s.Engine().Quote(ctx, req.EngineRequest())
	s.metrics.QuoteDuration.Observe(time.Since(start).Seconds())

	rec := s.newRecord(req, results, broker)
	s.metrics.Quotes.WithLabelValues(rec.Role).Inc()
	for _, r := range results {
		s.metrics.InsurerPrices.WithLabelValues(r.Insurer, outcome(r)).Inc()
	}

	if err := s.history.Save(ctx, rec); err != nil {
		s.metrics.HistoryErrors.Inc()
		s.logger.Error("save quote history", zap.Error(err), zap.String("quote_number", rec.QuoteNumber))
	}
	if !broker && s.notifier != nil {
		if err := s.notifier.NotifyQuote(ctx, rec); err != nil {
			s.logger.Warn("notify quote", zap.Error(err), zap.String("quote_number", rec.QuoteNumber))
		}
	}
	return rec, nil
}

func (s *QuoteService) Get(ctx context.Context, id string) (*models.QuoteRecord, error) {
	return s.history.Get(ctx, id)
}

func (s *QuoteService) Recent(ctx context.Context, limit int) ([]*models.QuoteRecord, error) {
	return s.history.Recent(ctx, limit)
}

func (s *QuoteService) newRecord(req *requests.QuoteRequest, results []quoting.Result, broker bool) *models.QuoteRecord {
	now := s.now()
	role := models.RoleClient
	if broker {
		role = models.RoleBroker
	}
	customer := req.CustomerModel()

	lines := make([]models.QuoteLine, 0, len(results))
	for _, r := range results {
		lines = append(lines, models.NewQuoteLine(r, broker, s.cfg.TaxFactor))
	}
	return &models.QuoteRecord{
		ID:           utils.NewRecordID(),
		QuoteNumber:  utils.QuoteNumber(s.cfg.QuotePrefix, now),
		Role:         role,
		Customer:     customer,
		Vehicle:      req.VehicleModel(),
		Best:         models.NewBestOffer(results),
		Lines:        lines,
		DocumentName: utils.DocumentName(customer.Name, req.Brand, req.Model, req.Usage, now),
		CreatedAt:    now,
	}
}

func outcome(r quoting.Result) string {
	switch {
	case r.HasCampaign:
		return "campaign"
	case r.FinalPrice.IsKnown():
		return "priced"
	default:
		return "unavailable"
	}
}
