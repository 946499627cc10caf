package services

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/soat-quoter/internal/campaign"
	"go.uber.org/zap"
)

// AdminService backs the broker maintenance endpoints.
type AdminService struct {
	quotes    *QuoteService
	logger    *zap.Logger
	startTime time.Time
}

// ReloadResult describes the engine after a reload.
type ReloadResult struct {
	Insurers    []string `json:"insurers"`
	CatalogSize int      `json:"catalog_size"`
}

// SystemStats is the admin overview.
type SystemStats struct {
	Uptime      string                 `json:"uptime"`
	Insurers    []string               `json:"insurers"`
	Classes     int                    `json:"classes"`
	CatalogSize int                    `json:"catalog_size"`
	SearchIndex bool                   `json:"search_index"`
	History     *HistoryStats          `json:"history,omitempty"`
	Goroutines  int                    `json:"goroutines"`
	MemoryUsage map[string]interface{} `json:"memory_usage"`
}

func NewAdminService(quotes *QuoteService, logger *zap.Logger) *AdminService {
	return &AdminService{
		quotes:    quotes,
		logger:    logger,
		startTime: time.Now(),
	}
}

// Reload re-reads the insurer files.
func (as *AdminService) Reload() (*ReloadResult, error) {
	e, err := as.quotes.Reload()
	if err != nil {
		as.logger.Error("reload failed", zap.Error(err))
		return nil, err
	}
	return &ReloadResult{
		Insurers:    e.Registry().Insurers(),
		CatalogSize: as.quotes.Catalog().Size(),
	}, nil
}

// AuditCampaigns checks the campaign sheet as it is on disk now.
func (as *AdminService) AuditCampaigns(ctx context.Context) (campaign.Report, error) {
	overlay := as.quotes.Engine().Campaigns()
	if overlay == nil {
		return campaign.Report{CheckedAt: time.Now()}, nil
	}
	report, err := overlay.Audit(ctx)
	if err != nil {
		return campaign.Report{}, fmt.Errorf("audit campaigns: %w", err)
	}
	as.logger.Info("campaign audit",
		zap.Int("rows", report.Rows),
		zap.Int("active", len(report.Active)),
		zap.Int("issues", len(report.Issues)))
	return report, nil
}

// IndexCatalog pushes the vehicle catalog to the search index.
func (as *AdminService) IndexCatalog(ctx context.Context) (int, error) {
	n, err := as.quotes.Catalog().Index(ctx)
	if err != nil {
		return n, err
	}
	as.logger.Info("catalog indexed", zap.Int("documents", n))
	return n, nil
}

func (as *AdminService) GetSystemStats(ctx context.Context) (*SystemStats, error) {
	e := as.quotes.Engine()

	history, err := as.quotes.History().Stats(ctx)
	if err != nil {
		as.logger.Warn("history stats unavailable", zap.Error(err))
		history = nil
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &SystemStats{
		Uptime:      time.Since(as.startTime).Round(time.Second).String(),
		Insurers:    e.Registry().Insurers(),
		Classes:     len(e.VehicleClasses()),
		CatalogSize: as.quotes.Catalog().Size(),
		SearchIndex: as.quotes.Catalog().Enabled(),
		History:     history,
		Goroutines:  runtime.NumGoroutine(),
		MemoryUsage: map[string]interface{}{
			"alloc_mb":       bToMb(m.Alloc),
			"total_alloc_mb": bToMb(m.TotalAlloc),
			"sys_mb":         bToMb(m.Sys),
			"num_gc":         m.NumGC,
		},
	}, nil
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}
