package services

import (
	"context"

	"github.com/soat-quoter/app/models"
	"go.uber.org/zap"
)

// Notifier announces a new client quote to the brokerage.
type Notifier interface {
	NotifyQuote(ctx context.Context, rec *models.QuoteRecord) error
}

// LogNotifier writes the announcement to the log.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyQuote(ctx context.Context, rec *models.QuoteRecord) error {
	fields := []zap.Field{
		zap.String("quote_number", rec.QuoteNumber),
		zap.String("role", rec.Role),
		zap.String("customer", rec.Customer.Name),
		zap.String("phone", rec.Customer.Phone),
		zap.String("plate", rec.Customer.Plate),
		zap.String("vehicle", rec.Vehicle.Brand+" "+rec.Vehicle.Model),
	}
	if rec.Best != nil {
		fields = append(fields,
			zap.String("best_insurer", rec.Best.Insurer),
			zap.String("best_price", rec.Best.Price))
	}
	n.logger.Info("new SOAT quote", fields...)
	return nil
}
