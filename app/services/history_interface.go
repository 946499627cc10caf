package services

import (
	"context"
	"errors"

	"github.com/soat-quoter/app/models"
)

// ErrQuoteNotFound is returned by IHistoryStore.Get for an unknown id.
var ErrQuoteNotFound = errors.New("quote not found")

// HistoryStats summarizes a history store.
type HistoryStats struct {
	Backend      string `json:"backend"`
	TotalQuotes  int64  `json:"total_quotes"`
	BrokerQuotes int64  `json:"broker_quotes"`
	Lookups      int64  `json:"lookups"`
	Misses       int64  `json:"misses"`
}

// IHistoryStore keeps issued quotes.
type IHistoryStore interface {
	// Save stores a record, replacing one with the same ID.
	Save(ctx context.Context, rec *models.QuoteRecord) error

	// Get returns ErrQuoteNotFound when id is unknown.
	Get(ctx context.Context, id string) (*models.QuoteRecord, error)

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]*models.QuoteRecord, error)

	Stats(ctx context.Context) (*HistoryStats, error)

	Close() error
}
