package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/soat-quoter/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// storeContract runs the behaviour every history backend shares.
func storeContract(t *testing.T, store IHistoryStore) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, record("a", base, models.RoleClient)))
	require.NoError(t, store.Save(ctx, record("b", base.Add(time.Minute), models.RoleBroker)))
	require.NoError(t, store.Save(ctx, record("c", base.Add(2*time.Minute), models.RoleClient)))

	got, err := store.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "2000-b", got.QuoteNumber)
	assert.Equal(t, models.RoleBroker, got.Role)
	assert.Equal(t, "ABC123", got.Customer.Plate)
	require.NotNil(t, got.Best)
	assert.Equal(t, "85.00", got.Best.Price)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "LIMA", got.Lines[0].Zone)
	assert.True(t, got.CreatedAt.Equal(base.Add(time.Minute)))

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrQuoteNotFound)

	recent, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].ID)
	assert.Equal(t, "b", recent[1].ID)

	all, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// replace keeps one row per id
	updated := record("a", base, models.RoleClient)
	updated.Customer.Name = "Renamed"
	require.NoError(t, store.Save(ctx, updated))
	got, err = store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Customer.Name)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalQuotes)
	assert.GreaterOrEqual(t, stats.Misses, int64(1))
}

func TestMemoryHistoryService(t *testing.T) {
	store := NewMemoryHistoryService(0)
	storeContract(t, store)

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "memory", stats.Backend)
	assert.Equal(t, int64(1), stats.BrokerQuotes)
}

func TestMemoryHistoryServiceTTL(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryHistoryService(time.Hour)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, record("old", now.Add(-2*time.Hour), models.RoleClient)))
	require.NoError(t, store.Save(ctx, record("new", now.Add(-time.Minute), models.RoleClient)))

	_, err := store.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrQuoteNotFound)

	recent, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "new", recent[0].ID)
}

func TestSQLiteHistoryService(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := NewSQLiteHistoryService(path, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	storeContract(t, store)

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sqlite", stats.Backend)
	assert.Equal(t, int64(1), stats.BrokerQuotes)
}

func TestSQLiteHistoryServiceKeepsMissingBestOffer(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteHistoryService(filepath.Join(t.TempDir(), "h.db"), zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	rec := record("x", time.Now(), models.RoleClient)
	rec.Best = nil
	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Get(ctx, "x")
	require.NoError(t, err)
	assert.Nil(t, got.Best)
}

func TestSQLiteHistoryServicePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := NewSQLiteHistoryService(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, record("p", time.Now(), models.RoleClient)))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteHistoryService(path, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()
	_, err = reopened.Get(ctx, "p")
	assert.NoError(t, err)
}

func TestHybridHistoryService(t *testing.T) {
	l1 := NewMemoryHistoryService(0)
	l2 := NewMemoryHistoryService(0)
	store := NewHybridHistoryService(l1, l2, zap.NewNop())

	storeContract(t, store)

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hybrid", stats.Backend)
}

func TestHybridHistoryServiceReadsThroughToL2(t *testing.T) {
	ctx := context.Background()
	l1 := NewMemoryHistoryService(0)
	l2 := NewMemoryHistoryService(0)
	store := NewHybridHistoryService(l1, l2, zap.NewNop())

	require.NoError(t, l2.Save(ctx, record("only-l2", time.Now(), models.RoleClient)))

	got, err := store.Get(ctx, "only-l2")
	require.NoError(t, err)
	assert.Equal(t, "only-l2", got.ID)

	assert.Eventually(t, func() bool {
		_, err := l1.Get(ctx, "only-l2")
		return err == nil
	}, time.Second, 10*time.Millisecond)
}

type failingStore struct{ *MemoryHistoryService }

func (failingStore) Save(context.Context, *models.QuoteRecord) error { return errBoom }

func TestHybridHistoryServiceSaveReportsErrors(t *testing.T) {
	store := NewHybridHistoryService(failingStore{NewMemoryHistoryService(0)}, NewMemoryHistoryService(0), zap.NewNop())
	err := store.Save(context.Background(), record("a", time.Now(), models.RoleClient))
	assert.ErrorIs(t, err, errBoom)
}
