package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/soat-quoter/app/models"
	"github.com/soat-quoter/app/requests"
	"github.com/soat-quoter/internal/normalizer"
	"github.com/soat-quoter/internal/quoting"
	"github.com/soat-quoter/internal/tables"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testEngine() *quoting.Engine {
	rimac := &tables.InsurerTables{
		Insurer: "Rimac",
		Tariff: tables.New("TARIFARIO", []string{"Uso", "Clase", "Lima", "Comision"}, [][]string{
			{"PARTICULAR", "AUTOMOVIL", "85", "0.12"},
		}),
		Groups: tables.New("GRUPOS", []string{"Marca", "Modelo", "Grupo"}, [][]string{
			{"TOYOTA", "YARIS, COROLLA", "1"},
			{"KIA", "RIO", "2"},
		}),
	}
	protecta := &tables.InsurerTables{
		Insurer: "Protecta",
		Tariff: tables.New("TARIFARIO", []string{"Uso", "Clase", "Precio"}, [][]string{
			{"PARTICULAR", "AUTOMOVIL", "90"},
		}),
	}
	return quoting.NewEngine(quoting.Options{
		Rules:    normalizer.DefaultRules(),
		Registry: tables.NewRegistry(rimac, protecta),
		Logger:   zap.NewNop(),
	})
}

func staticLoader() EngineLoader {
	return func() (*quoting.Engine, error) { return testEngine(), nil }
}

type recordingNotifier struct {
	got []*models.QuoteRecord
	err error
}

func (n *recordingNotifier) NotifyQuote(_ context.Context, rec *models.QuoteRecord) error {
	n.got = append(n.got, rec)
	return n.err
}

func newTestQuoteService(t *testing.T, notifier Notifier) *QuoteService {
	t.Helper()
	s, err := NewQuoteService(staticLoader(), NewMemoryHistoryService(0), notifier, NewMetrics(), nil, QuoteServiceConfig{}, zap.NewNop())
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2024, 3, 7, 17, 45, 0, 0, time.UTC) }
	return s
}

func clientRequest() *requests.QuoteRequest {
	return &requests.QuoteRequest{
		Region: "Lima",
		Usage:  "Particular",
		Class:  "Automovil",
		Seats:  5,
		Brand:  "Toyota",
		Model:  "Yaris",
		Customer: requests.CustomerInput{
			Name:       "Ana Quispe",
			DocumentID: "45871236",
			Phone:      "999123456",
			Email:      "ana@example.com",
			Plate:      "abc123",
		},
	}
}

func record(id string, at time.Time, role string) *models.QuoteRecord {
	return &models.QuoteRecord{
		ID:          id,
		QuoteNumber: "2000-" + id,
		Role:        role,
		Customer:    models.Customer{Name: "Cliente " + id, Plate: "ABC123"},
		Vehicle:     models.Vehicle{Region: "LIMA", Usage: "PARTICULAR", Class: "AUTOMOVIL", Seats: 5},
		Best:        &models.BestOffer{Insurer: "Rimac", Price: "85.00"},
		Lines: []models.QuoteLine{
			{Insurer: "Rimac", ListPrice: "85.00", Price: "85.00", Zone: "LIMA", Group: "GENERAL"},
		},
		CreatedAt: at,
	}
}

var errBoom = errors.New("boom")
