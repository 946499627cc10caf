package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/soat-quoter/internal/quoting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(insurer, price string, campaign bool) quoting.Result {
	p := quoting.Unavailable()
	if price != "" {
		p = quoting.Known(decimal.RequireFromString(price))
	}
	return quoting.Result{
		Insurer:     insurer,
		ListPrice:   p,
		FinalPrice:  p,
		HasCampaign: campaign,
		PriceColumn: "LIMA",
		Group:       "GENERAL",
		Commission:  decimal.RequireFromString("0.10"),
	}
}

func TestNewQuoteLine(t *testing.T) {
	tax := decimal.RequireFromString("1.2154")
	r := result("Rimac", "121.54", false)

	client := NewQuoteLine(r, false, tax)
	assert.Equal(t, "121.54", client.Price)
	assert.Equal(t, "LIMA", client.Zone)
	assert.Empty(t, client.CommissionPct)
	assert.Empty(t, client.CommissionAmount)

	broker := NewQuoteLine(r, true, tax)
	assert.Equal(t, "0.1", broker.CommissionPct)
	assert.Equal(t, "10.00", broker.CommissionAmount)

	unavailable := NewQuoteLine(result("Mapfre", "", false), true, tax)
	assert.Equal(t, quoting.UnavailableLabel, unavailable.Price)
	assert.Empty(t, unavailable.CommissionAmount)
}

func TestNewBestOffer(t *testing.T) {
	assert.Nil(t, NewBestOffer([]quoting.Result{result("Rimac", "", false)}))

	best := NewBestOffer([]quoting.Result{
		result("Rimac", "90", false),
		result("Protecta", "75.5", true),
		result("Mapfre", "", false),
	})
	require.NotNil(t, best)
	assert.Equal(t, BestOffer{Insurer: "Protecta", Price: "75.50", HasCampaign: true}, *best)
}
