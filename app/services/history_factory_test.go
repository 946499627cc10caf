package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/soat-quoter/app/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewHistoryStore(t *testing.T) {
	ctx := context.Background()

	store, closeFn, err := NewHistoryStore(ctx, config.HistoryConfig{Backend: "memory"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryHistoryService{}, store)
	closeFn()

	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, closeFn, err = NewHistoryStore(ctx, config.HistoryConfig{Backend: "SQLite", SQLitePath: path}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &SQLiteHistoryService{}, store)
	closeFn()
	assert.FileExists(t, path)

	_, _, err = NewHistoryStore(ctx, config.HistoryConfig{Backend: "cassandra"}, zap.NewNop())
	assert.Error(t, err)

	_, _, err = NewHistoryStore(ctx, config.HistoryConfig{Backend: "redis", RedisURL: "not a url"}, zap.NewNop())
	assert.Error(t, err)
}
