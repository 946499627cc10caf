package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/soat-quoter/app/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoHistoryService persists quotes in MongoDB with an in-process LRU in
// front of lookups by id.
type MongoHistoryService struct {
	collection *mongo.Collection
	l1Cache    *lru.Cache[string, *models.QuoteRecord]
	logger     *zap.Logger

	lookups atomic.Int64
	misses  atomic.Int64
	l1Hits  atomic.Int64
}

func NewMongoHistoryService(db *mongo.Database, l1Size int, logger *zap.Logger) (*MongoHistoryService, error) {
	if l1Size <= 0 {
		l1Size = 1000
	}
	l1Cache, err := lru.New[string, *models.QuoteRecord](l1Size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}

	collection := db.Collection("quote_history")
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{bson.E{Key: "created_at", Value: -1}}},
		{Keys: bson.D{bson.E{Key: "quote_number", Value: 1}}},
		{Keys: bson.D{bson.E{Key: "customer.plate", Value: 1}}},
		{Keys: bson.D{bson.E{Key: "role", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := collection.Indexes().CreateMany(ctx, indexModels); err != nil {
		logger.Warn("create quote_history indexes", zap.Error(err))
	}

	return &MongoHistoryService{
		collection: collection,
		l1Cache:    l1Cache,
		logger:     logger,
	}, nil
}

func (s *MongoHistoryService) Save(ctx context.Context, rec *models.QuoteRecord) error {
	s.l1Cache.Add(rec.ID, rec)

	opts := options.Replace().SetUpsert(true)
	if _, err := s.collection.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, opts); err != nil {
		s.logger.Error("save quote to mongodb", zap.Error(err), zap.String("id", rec.ID))
		return fmt.Errorf("save quote: %w", err)
	}
	return nil
}

func (s *MongoHistoryService) Get(ctx context.Context, id string) (*models.QuoteRecord, error) {
	s.lookups.Add(1)
	if rec, ok := s.l1Cache.Get(id); ok {
		s.l1Hits.Add(1)
		return rec, nil
	}

	var rec models.QuoteRecord
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		s.misses.Add(1)
		return nil, ErrQuoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get quote: %w", err)
	}
	s.l1Cache.Add(id, &rec)
	return &rec, nil
}

func (s *MongoHistoryService) Recent(ctx context.Context, limit int) ([]*models.QuoteRecord, error) {
	opts := options.Find().SetSort(bson.D{bson.E{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*models.QuoteRecord
	for cursor.Next(ctx) {
		var rec models.QuoteRecord
		if err := cursor.Decode(&rec); err != nil {
			s.logger.Warn("skip unreadable quote", zap.Error(err))
			continue
		}
		out = append(out, &rec)
	}
	return out, cursor.Err()
}

func (s *MongoHistoryService) Stats(ctx context.Context) (*HistoryStats, error) {
	total, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("count quotes: %w", err)
	}
	brokers, err := s.collection.CountDocuments(ctx, bson.M{"role": models.RoleBroker})
	if err != nil {
		return nil, fmt.Errorf("count broker quotes: %w", err)
	}

	s.logger.Debug("history stats",
		zap.Int("l1_size", s.l1Cache.Len()),
		zap.Int64("l1_hits", s.l1Hits.Load()),
		zap.Int64("total", total))

	return &HistoryStats{
		Backend:      "mongo",
		TotalQuotes:  total,
		BrokerQuotes: brokers,
		Lookups:      s.lookups.Load(),
		Misses:       s.misses.Load(),
	}, nil
}

// Close purges the L1 cache. The client is owned by the caller.
func (s *MongoHistoryService) Close() error {
	s.l1Cache.Purge()
	return nil
}

// WarmUp loads the newest quotes into the L1 cache.
func (s *MongoHistoryService) WarmUp(ctx context.Context, limit int) error {
	recs, err := s.Recent(ctx, limit)
	if err != nil {
		return fmt.Errorf("warm up history: %w", err)
	}
	for _, rec := range recs {
		s.l1Cache.Add(rec.ID, rec)
	}
	s.logger.Info("history warm up done", zap.Int("loaded", len(recs)))
	return nil
}
