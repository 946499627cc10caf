package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/soat-quoter/app/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// NewHistoryStore opens the configured backend. The returned close func
// releases the store and any client it opened.
func NewHistoryStore(ctx context.Context, cfg config.HistoryConfig, logger *zap.Logger) (IHistoryStore, func(), error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "memory":
		s := NewMemoryHistoryService(cfg.TTL)
		return s, func() {}, nil

	case "sqlite":
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create history dir: %w", err)
			}
		}
		s, err := NewSQLiteHistoryService(cfg.SQLitePath, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, closer(s, logger), nil

	case "redis":
		s, err := NewRedisHistoryService(cfg.RedisURL, cfg.TTL, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, closer(s, logger), nil

	case "mongo":
		client, err := connectMongo(ctx, cfg.MongoURI, logger)
		if err != nil {
			return nil, nil, err
		}
		s, err := NewMongoHistoryService(client.Database(cfg.MongoDatabase), cfg.L1Size, logger)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		return s, func() {
			closer(s, logger)()
			disconnect(client, logger)
		}, nil

	case "hybrid":
		client, err := connectMongo(ctx, cfg.MongoURI, logger)
		if err != nil {
			return nil, nil, err
		}
		l2, err := NewMongoHistoryService(client.Database(cfg.MongoDatabase), cfg.L1Size, logger)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		l1, err := NewRedisHistoryService(cfg.RedisURL, cfg.TTL, logger)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		s := NewHybridHistoryService(l1, l2, logger)
		return s, func() {
			closer(s, logger)()
			disconnect(client, logger)
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
}

func connectMongo(ctx context.Context, uri string, logger *zap.Logger) (*mongo.Client, error) {
	logger.Info("connecting to MongoDB")

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

func disconnect(client *mongo.Client, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logger.Error("disconnect mongodb", zap.Error(err))
	}
}

func closer(s IHistoryStore, logger *zap.Logger) func() {
	return func() {
		if err := s.Close(); err != nil {
			logger.Error("close history store", zap.Error(err))
		}
	}
}
