package services

import (
	"context"
	"testing"

	"github.com/soat-quoter/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAdminService_Reload(t *testing.T) {
	admin := NewAdminService(newTestQuoteService(t, nil), zap.NewNop())

	res, err := admin.Reload()
	require.NoError(t, err)
	assert.Equal(t, []string{"Protecta", "Rimac"}, res.Insurers)
	assert.Equal(t, 3, res.CatalogSize)
}

func TestAdminService_AuditWithoutCampaigns(t *testing.T) {
	admin := NewAdminService(newTestQuoteService(t, nil), zap.NewNop())

	report, err := admin.AuditCampaigns(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Issues)
	assert.False(t, report.CheckedAt.IsZero())
}

func TestAdminService_IndexCatalogDisabled(t *testing.T) {
	admin := NewAdminService(newTestQuoteService(t, nil), zap.NewNop())

	_, err := admin.IndexCatalog(context.Background())
	assert.ErrorIs(t, err, search.ErrIndexDisabled)
}

func TestAdminService_SystemStats(t *testing.T) {
	s := newTestQuoteService(t, nil)
	_, err := s.Quote(context.Background(), clientRequest(), false)
	require.NoError(t, err)
	admin := NewAdminService(s, zap.NewNop())

	stats, err := admin.GetSystemStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Protecta", "Rimac"}, stats.Insurers)
	assert.Equal(t, 3, stats.CatalogSize)
	assert.False(t, stats.SearchIndex)
	require.NotNil(t, stats.History)
	assert.Equal(t, int64(1), stats.History.TotalQuotes)
	assert.Contains(t, stats.MemoryUsage, "alloc_mb")
}
