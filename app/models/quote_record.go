package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/soat-quoter/internal/quoting"
)

// Quote roles.
const (
	RoleClient = "CLIENT"
	RoleBroker = "BROKER"
)

// Customer is who the quote was prepared for.
type Customer struct {
	Name       string `bson:"name" json:"name"`
	DocumentID string `bson:"document_id" json:"document_id"`
	Phone      string `bson:"phone" json:"phone"`
	Email      string `bson:"email" json:"email"`
	Plate      string `bson:"plate" json:"plate"`
}

// Vehicle is the quoted vehicle as entered.
type Vehicle struct {
	Region string `bson:"region" json:"region"`
	Usage  string `bson:"usage" json:"usage"`
	Class  string `bson:"class" json:"class"`
	Seats  int    `bson:"seats" json:"seats"`
	Brand  string `bson:"brand" json:"brand"`
	Model  string `bson:"model" json:"model"`
}

// QuoteLine is one insurer result as stored. Money is kept as strings so
// every backend round-trips it exactly.
type QuoteLine struct {
	Insurer          string `bson:"insurer" json:"insurer"`
	ListPrice        string `bson:"list_price" json:"list_price"`
	Price            string `bson:"price" json:"price"`
	HasCampaign      bool   `bson:"has_campaign" json:"has_campaign"`
	CampaignName     string `bson:"campaign_name,omitempty" json:"campaign_name,omitempty"`
	Zone             string `bson:"zone" json:"zone"`
	Group            string `bson:"group" json:"group"`
	Observations     string `bson:"observations" json:"observations"`
	CommissionPct    string `bson:"commission_pct,omitempty" json:"commission_pct,omitempty"`
	CommissionAmount string `bson:"commission_amount,omitempty" json:"commission_amount,omitempty"`
}

// BestOffer is the cheapest line of a quote.
type BestOffer struct {
	Insurer     string `bson:"insurer" json:"insurer"`
	Price       string `bson:"price" json:"price"`
	HasCampaign bool   `bson:"has_campaign" json:"has_campaign"`
}

// QuoteRecord is a quote kept in history.
type QuoteRecord struct {
	ID           string      `bson:"_id" json:"id"`
	QuoteNumber  string      `bson:"quote_number" json:"quote_number"`
	Role         string      `bson:"role" json:"role"`
	Customer     Customer    `bson:"customer" json:"customer"`
	Vehicle      Vehicle     `bson:"vehicle" json:"vehicle"`
	Best         *BestOffer  `bson:"best_offer,omitempty" json:"best_offer,omitempty"`
	Lines        []QuoteLine `bson:"lines" json:"lines"`
	DocumentName string      `bson:"document_name" json:"document_name"`
	CreatedAt    time.Time   `bson:"created_at" json:"created_at"`
}

// NewQuoteLine converts an engine result. Commission figures are only
// filled for broker quotes.
func NewQuoteLine(r quoting.Result, broker bool, taxFactor decimal.Decimal) QuoteLine {
	line := QuoteLine{
		Insurer:      r.Insurer,
		ListPrice:    r.ListPrice.String(),
		Price:        r.FinalPrice.String(),
		HasCampaign:  r.HasCampaign,
		CampaignName: r.CampaignName,
		Zone:         r.PriceColumn,
		Group:        r.Group,
		Observations: r.Observations,
	}
	if broker {
		line.CommissionPct = r.Commission.String()
		if amount, ok := quoting.CommissionAmount(r, taxFactor); ok {
			line.CommissionAmount = amount.StringFixed(2)
		}
	}
	return line
}

// NewBestOffer converts the engine offer, nil when nothing had a price.
func NewBestOffer(results []quoting.Result) *BestOffer {
	offer, ok := quoting.BestOffer(results)
	if !ok {
		return nil
	}
	return &BestOffer{
		Insurer:     offer.Insurer,
		Price:       offer.Price.StringFixed(2),
		HasCampaign: offer.HasCampaign,
	}
}

// IsBroker reports whether the quote was made in the broker view.
func (q *QuoteRecord) IsBroker() bool {
	return q.Role == RoleBroker
}
