package responses

import (
	"github.com/soat-quoter/app/models"
	"github.com/soat-quoter/internal/campaign"
	"github.com/soat-quoter/internal/search"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// QuoteResponse answers POST /v1/quotes.
type QuoteResponse struct {
	QuoteNumber      string             `json:"quote_number"`
	RecordID         string             `json:"record_id"`
	Role             string             `json:"role"`
	Results          []models.QuoteLine `json:"results"`
	BestOffer        *models.BestOffer  `json:"best_offer,omitempty"`
	DocumentName     string             `json:"document_name"`
	ProcessingTimeMs int64              `json:"processing_time_ms"`
}

// QuoteListResponse answers GET /v1/quotes.
type QuoteListResponse struct {
	Quotes []*models.QuoteRecord `json:"quotes"`
	Count  int                   `json:"count"`
}

type ClassesResponse struct {
	Classes []string `json:"classes"`
}

type VehiclesResponse struct {
	Brands  []string            `json:"brands"`
	Catalog map[string][]string `json:"catalog"`
}

type SearchResponse struct {
	Query   string         `json:"query"`
	Matches []search.Match `json:"matches"`
}

// ReloadResponse answers POST /v1/admin/reload.
type ReloadResponse struct {
	Insurers         []string `json:"insurers"`
	CatalogSize      int      `json:"catalog_size"`
	ProcessingTimeMs int64    `json:"processing_time_ms"`
}

type CampaignAuditResponse struct {
	campaign.Report
}

type IndexResponse struct {
	Documents int    `json:"documents"`
	Index     string `json:"index"`
}
