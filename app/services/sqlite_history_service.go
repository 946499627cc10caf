package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/soat-quoter/app/models"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS quotes (
	id                TEXT PRIMARY KEY,
	quote_number      TEXT NOT NULL,
	role              TEXT NOT NULL,
	customer_name     TEXT NOT NULL DEFAULT '',
	customer_document TEXT NOT NULL DEFAULT '',
	customer_phone    TEXT NOT NULL DEFAULT '',
	customer_email    TEXT NOT NULL DEFAULT '',
	plate             TEXT NOT NULL DEFAULT '',
	region            TEXT NOT NULL,
	usage             TEXT NOT NULL,
	class             TEXT NOT NULL,
	seats             INTEGER NOT NULL DEFAULT 0,
	brand             TEXT NOT NULL DEFAULT '',
	model             TEXT NOT NULL DEFAULT '',
	best_insurer      TEXT NOT NULL DEFAULT '',
	best_price        TEXT NOT NULL DEFAULT '',
	best_has_campaign INTEGER NOT NULL DEFAULT 0,
	lines             TEXT NOT NULL DEFAULT '[]',
	document_name     TEXT NOT NULL DEFAULT '',
	created_at        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_quotes_created_at ON quotes (created_at);
CREATE INDEX IF NOT EXISTS idx_quotes_plate ON quotes (plate);
`

// Fixed-width so created_at sorts as text.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type quoteRow struct {
	ID               string `db:"id"`
	QuoteNumber      string `db:"quote_number"`
	Role             string `db:"role"`
	CustomerName     string `db:"customer_name"`
	CustomerDocument string `db:"customer_document"`
	CustomerPhone    string `db:"customer_phone"`
	CustomerEmail    string `db:"customer_email"`
	Plate            string `db:"plate"`
	Region           string `db:"region"`
	Usage            string `db:"usage"`
	Class            string `db:"class"`
	Seats            int    `db:"seats"`
	Brand            string `db:"brand"`
	Model            string `db:"model"`
	BestInsurer      string `db:"best_insurer"`
	BestPrice        string `db:"best_price"`
	BestHasCampaign  bool   `db:"best_has_campaign"`
	Lines            string `db:"lines"`
	DocumentName     string `db:"document_name"`
	CreatedAt        string `db:"created_at"`
}

// SQLiteHistoryService stores quotes in a local SQLite file.
type SQLiteHistoryService struct {
	db     *sqlx.DB
	logger *zap.Logger

	lookups atomic.Int64
	misses  atomic.Int64
}

// NewSQLiteHistoryService opens (and creates) the database at path.
// ":memory:" gives a throwaway store.
func NewSQLiteHistoryService(path string, logger *zap.Logger) (*SQLiteHistoryService, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteHistoryService{db: db, logger: logger}, nil
}

func (s *SQLiteHistoryService) Save(ctx context.Context, rec *models.QuoteRecord) error {
	row, err := toRow(rec)
	if err != nil {
		return err
	}
	_, err = s.db.NamedExecContext(ctx, `
		INSERT OR REPLACE INTO quotes (
			id, quote_number, role, customer_name, customer_document, customer_phone,
			customer_email, plate, region, usage, class, seats, brand, model,
			best_insurer, best_price, best_has_campaign, lines, document_name, created_at
		) VALUES (
			:id, :quote_number, :role, :customer_name, :customer_document, :customer_phone,
			:customer_email, :plate, :region, :usage, :class, :seats, :brand, :model,
			:best_insurer, :best_price, :best_has_campaign, :lines, :document_name, :created_at
		)`, row)
	if err != nil {
		s.logger.Error("save quote to sqlite", zap.Error(err), zap.String("id", rec.ID))
		return fmt.Errorf("save quote: %w", err)
	}
	return nil
}

func (s *SQLiteHistoryService) Get(ctx context.Context, id string) (*models.QuoteRecord, error) {
	s.lookups.Add(1)

	var row quoteRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM quotes WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		s.misses.Add(1)
		return nil, ErrQuoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get quote: %w", err)
	}
	return row.record()
}

func (s *SQLiteHistoryService) Recent(ctx context.Context, limit int) ([]*models.QuoteRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	var rows []quoteRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM quotes ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}

	out := make([]*models.QuoteRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			s.logger.Warn("skip unreadable quote row", zap.Error(err), zap.String("id", row.ID))
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *SQLiteHistoryService) Stats(ctx context.Context) (*HistoryStats, error) {
	stats := &HistoryStats{
		Backend: "sqlite",
		Lookups: s.lookups.Load(),
		Misses:  s.misses.Load(),
	}
	err := s.db.QueryRowxContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN role = ? THEN 1 ELSE 0 END), 0) FROM quotes`,
		models.RoleBroker,
	).Scan(&stats.TotalQuotes, &stats.BrokerQuotes)
	if err != nil {
		return nil, fmt.Errorf("count quotes: %w", err)
	}
	return stats, nil
}

func (s *SQLiteHistoryService) Close() error {
	return s.db.Close()
}

func toRow(rec *models.QuoteRecord) (quoteRow, error) {
	lines, err := json.Marshal(rec.Lines)
	if err != nil {
		return quoteRow{}, fmt.Errorf("encode quote lines: %w", err)
	}
	row := quoteRow{
		ID:               rec.ID,
		QuoteNumber:      rec.QuoteNumber,
		Role:             rec.Role,
		CustomerName:     rec.Customer.Name,
		CustomerDocument: rec.Customer.DocumentID,
		CustomerPhone:    rec.Customer.Phone,
		CustomerEmail:    rec.Customer.Email,
		Plate:            rec.Customer.Plate,
		Region:           rec.Vehicle.Region,
		Usage:            rec.Vehicle.Usage,
		Class:            rec.Vehicle.Class,
		Seats:            rec.Vehicle.Seats,
		Brand:            rec.Vehicle.Brand,
		Model:            rec.Vehicle.Model,
		Lines:            string(lines),
		DocumentName:     rec.DocumentName,
		CreatedAt:        rec.CreatedAt.UTC().Format(sqliteTimeLayout),
	}
	if rec.Best != nil {
		row.BestInsurer = rec.Best.Insurer
		row.BestPrice = rec.Best.Price
		row.BestHasCampaign = rec.Best.HasCampaign
	}
	return row, nil
}

func (r quoteRow) record() (*models.QuoteRecord, error) {
	created, err := time.Parse(sqliteTimeLayout, r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	rec := &models.QuoteRecord{
		ID:          r.ID,
		QuoteNumber: r.QuoteNumber,
		Role:        r.Role,
		Customer: models.Customer{
			Name:       r.CustomerName,
			DocumentID: r.CustomerDocument,
			Phone:      r.CustomerPhone,
			Email:      r.CustomerEmail,
			Plate:      r.Plate,
		},
		Vehicle: models.Vehicle{
			Region: r.Region,
			Usage:  r.Usage,
			Class:  r.Class,
			Seats:  r.Seats,
			Brand:  r.Brand,
			Model:  r.Model,
		},
		DocumentName: r.DocumentName,
		CreatedAt:    created,
	}
	if r.BestInsurer != "" {
		rec.Best = &models.BestOffer{
			Insurer:     r.BestInsurer,
			Price:       r.BestPrice,
			HasCampaign: r.BestHasCampaign,
		}
	}
	if err := json.Unmarshal([]byte(r.Lines), &rec.Lines); err != nil {
		return nil, fmt.Errorf("decode quote lines: %w", err)
	}
	return rec, nil
}
