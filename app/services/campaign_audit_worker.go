package services

import (
	"context"
	"time"

	"github.com/soat-quoter/internal/campaign"
	"go.uber.org/zap"
)

// Auditor is what the worker audits; *campaign.Overlay implements it.
type Auditor interface {
	Audit(ctx context.Context) (campaign.Report, error)
}

// AuditorFunc adapts a function to Auditor.
type AuditorFunc func(ctx context.Context) (campaign.Report, error)

func (f AuditorFunc) Audit(ctx context.Context) (campaign.Report, error) { return f(ctx) }

// CampaignAuditWorker periodically checks the campaign sheet and logs
// rows quote time would silently ignore.
type CampaignAuditWorker struct {
	auditor  Auditor
	interval time.Duration
	logger   *zap.Logger
}

func NewCampaignAuditWorker(auditor Auditor, interval time.Duration, logger *zap.Logger) *CampaignAuditWorker {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &CampaignAuditWorker{auditor: auditor, interval: interval, logger: logger}
}

// Run audits immediately, then every interval until ctx is done.
func (w *CampaignAuditWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.RunOnce(ctx); err != nil {
			w.logger.Error("campaign audit failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce performs a single audit and logs its findings.
func (w *CampaignAuditWorker) RunOnce(ctx context.Context) (campaign.Report, error) {
	report, err := w.auditor.Audit(ctx)
	if err != nil {
		return report, err
	}

	for _, issue := range report.Issues {
		w.logger.Warn("campaign sheet issue",
			zap.Int("row", issue.Row),
			zap.String("kind", string(issue.Kind)),
			zap.String("detail", issue.Detail))
	}
	for _, c := range report.Active {
		w.logger.Info("active campaign",
			zap.Int("row", c.Row),
			zap.String("insurer", c.Insurer),
			zap.String("name", c.Name),
			zap.String("price", c.Price.StringFixed(2)),
			zap.Time("end", c.End))
	}
	w.logger.Info("campaign audit done",
		zap.Int("rows", report.Rows),
		zap.Int("active", len(report.Active)),
		zap.Int("upcoming", len(report.Upcoming)),
		zap.Int("issues", len(report.Issues)))
	return report, nil
}
