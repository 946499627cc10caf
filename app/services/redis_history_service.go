package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/soat-quoter/app/models"
	"go.uber.org/zap"
)

// RedisHistoryService keeps quotes as JSON values with a TTL. A sorted set
// scored by creation time indexes them for Recent.
type RedisHistoryService struct {
	client *redis.Client
	logger *zap.Logger
	prefix string
	ttl    time.Duration

	lookups atomic.Int64
	misses  atomic.Int64
}

// NewRedisHistoryService connects to redisURL and pings it.
func NewRedisHistoryService(redisURL string, ttl time.Duration, logger *zap.Logger) (*RedisHistoryService, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return NewRedisHistoryServiceWithClient(client, ttl, logger), nil
}

// NewRedisHistoryServiceWithClient wraps an existing client.
func NewRedisHistoryServiceWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisHistoryService {
	return &RedisHistoryService{
		client: client,
		logger: logger,
		prefix: "soat:quote:",
		ttl:    ttl,
	}
}

func (s *RedisHistoryService) indexKey() string { return s.prefix + "index" }

func (s *RedisHistoryService) Save(ctx context.Context, rec *models.QuoteRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode quote: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.prefix+rec.ID, data, s.ttl)
		pipe.ZAdd(ctx, s.indexKey(), redis.Z{
			Score:  float64(rec.CreatedAt.UnixNano()),
			Member: rec.ID,
		})
		return nil
	})
	if err != nil {
		s.logger.Error("save quote to redis", zap.Error(err), zap.String("id", rec.ID))
		return fmt.Errorf("save quote: %w", err)
	}
	s.logger.Debug("quote saved to redis", zap.String("id", rec.ID))
	return nil
}

func (s *RedisHistoryService) Get(ctx context.Context, id string) (*models.QuoteRecord, error) {
	s.lookups.Add(1)

	val, err := s.client.Get(ctx, s.prefix+id).Result()
	if errors.Is(err, redis.Nil) {
		s.misses.Add(1)
		return nil, ErrQuoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get quote: %w", err)
	}

	var rec models.QuoteRecord
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}
	return &rec, nil
}

// Recent walks the index newest first. Index entries whose value expired
// are pruned on the way.
func (s *RedisHistoryService) Recent(ctx context.Context, limit int) ([]*models.QuoteRecord, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.prefix + id
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load quotes: %w", err)
	}

	out := make([]*models.QuoteRecord, 0, len(vals))
	var stale []interface{}
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		var rec models.QuoteRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			s.logger.Warn("skip unreadable quote", zap.Error(err), zap.String("id", ids[i]))
			continue
		}
		out = append(out, &rec)
	}
	if len(stale) > 0 {
		if err := s.client.ZRem(ctx, s.indexKey(), stale...).Err(); err != nil {
			s.logger.Warn("prune quote index", zap.Error(err))
		}
	}
	return out, nil
}

// Stats counts indexed quotes; broker quotes are not tracked here.
func (s *RedisHistoryService) Stats(ctx context.Context) (*HistoryStats, error) {
	total, err := s.client.ZCard(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("count quotes: %w", err)
	}
	return &HistoryStats{
		Backend:     "redis",
		TotalQuotes: total,
		Lookups:     s.lookups.Load(),
		Misses:      s.misses.Load(),
	}, nil
}

func (s *RedisHistoryService) Close() error {
	return s.client.Close()
}
