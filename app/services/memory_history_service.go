package services

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soat-quoter/app/models"
)

// MemoryHistoryService keeps quotes in process. Records older than ttl are
// dropped lazily; ttl <= 0 keeps them forever.
type MemoryHistoryService struct {
	mu      sync.RWMutex
	records map[string]*models.QuoteRecord
	ttl     time.Duration
	now     func() time.Time

	lookups atomic.Int64
	misses  atomic.Int64
}

func NewMemoryHistoryService(ttl time.Duration) *MemoryHistoryService {
	return &MemoryHistoryService{
		records: make(map[string]*models.QuoteRecord),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryHistoryService) Save(ctx context.Context, rec *models.QuoteRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *rec
	s.records[rec.ID] = &cp
	return nil
}

func (s *MemoryHistoryService) Get(ctx context.Context, id string) (*models.QuoteRecord, error) {
	s.lookups.Add(1)

	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()

	if !ok || s.expired(rec) {
		if ok {
			s.mu.Lock()
			delete(s.records, id)
			s.mu.Unlock()
		}
		s.misses.Add(1)
		return nil, ErrQuoteNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *MemoryHistoryService) Recent(ctx context.Context, limit int) ([]*models.QuoteRecord, error) {
	s.mu.RLock()
	out := make([]*models.QuoteRecord, 0, len(s.records))
	for _, rec := range s.records {
		if s.expired(rec) {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryHistoryService) Stats(ctx context.Context) (*HistoryStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &HistoryStats{
		Backend: "memory",
		Lookups: s.lookups.Load(),
		Misses:  s.misses.Load(),
	}
	for _, rec := range s.records {
		if s.expired(rec) {
			continue
		}
		stats.TotalQuotes++
		if rec.IsBroker() {
			stats.BrokerQuotes++
		}
	}
	return stats, nil
}

func (s *MemoryHistoryService) Close() error { return nil }

func (s *MemoryHistoryService) expired(rec *models.QuoteRecord) bool {
	return s.ttl > 0 && s.now().Sub(rec.CreatedAt) > s.ttl
}
