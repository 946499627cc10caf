package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/soat-quoter/app/models"
	"go.uber.org/zap"
)

// HybridHistoryService reads through Redis (L1) to MongoDB (L2) and writes
// to both. MongoDB is authoritative for listings and counts.
type HybridHistoryService struct {
	redis  IHistoryStore
	mongo  IHistoryStore
	logger *zap.Logger
}

func NewHybridHistoryService(l1, l2 IHistoryStore, logger *zap.Logger) *HybridHistoryService {
	return &HybridHistoryService{redis: l1, mongo: l2, logger: logger}
}

func (s *HybridHistoryService) Save(ctx context.Context, rec *models.QuoteRecord) error {
	errCh := make(chan error, 2)
	go func() {
		err := s.redis.Save(ctx, rec)
		if err != nil {
			s.logger.Warn("save quote to L1", zap.Error(err))
		}
		errCh <- err
	}()
	go func() {
		errCh <- s.mongo.Save(ctx, rec)
	}()

	var errs []error
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("save quote: %w", errors.Join(errs...))
	}
	return nil
}

func (s *HybridHistoryService) Get(ctx context.Context, id string) (*models.QuoteRecord, error) {
	rec, err := s.redis.Get(ctx, id)
	switch {
	case err == nil:
		return rec, nil
	case !errors.Is(err, ErrQuoteNotFound):
		s.logger.Warn("L1 lookup failed, falling back to L2", zap.Error(err))
	}

	rec, err = s.mongo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.redis.Save(bgCtx, rec); err != nil {
			s.logger.Warn("sync quote L2->L1", zap.Error(err), zap.String("id", id))
		}
	}()
	return rec, nil
}

func (s *HybridHistoryService) Recent(ctx context.Context, limit int) ([]*models.QuoteRecord, error) {
	return s.mongo.Recent(ctx, limit)
}

func (s *HybridHistoryService) Stats(ctx context.Context) (*HistoryStats, error) {
	stats, err := s.mongo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	out := *stats
	out.Backend = "hybrid"
	// every lookup passes through L1 first
	if l1, err := s.redis.Stats(ctx); err == nil {
		out.Lookups = l1.Lookups
	}
	return &out, nil
}

func (s *HybridHistoryService) Close() error {
	return errors.Join(s.redis.Close(), s.mongo.Close())
}
