package quoting

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestOffer(t *testing.T) {
	e := newTestEngine()
	results := e.Quote(context.Background(), Request{"LIMA", "PARTICULAR", "AUTOMOVIL", 5, "TOYOTA", "YARIS"})

	offer, ok := BestOffer(results)
	require.True(t, ok)
	assert.Equal(t, "Pacífico", offer.Insurer)
	assert.Equal(t, "65", offer.Price.String())
	assert.True(t, offer.HasCampaign)
}

func TestBestOfferTiesAndEmpty(t *testing.T) {
	_, ok := BestOffer(nil)
	assert.False(t, ok)

	_, ok = BestOffer([]Result{{Insurer: "Rimac", FinalPrice: Unavailable()}})
	assert.False(t, ok)

	offer, ok := BestOffer([]Result{
		{Insurer: "Rimac", FinalPrice: price("80")},
		{Insurer: "Mapfre", FinalPrice: price("80.00")},
	})
	require.True(t, ok)
	assert.Equal(t, "Rimac", offer.Insurer)
}

func TestCommissionAmount(t *testing.T) {
	r := Result{FinalPrice: price("121.54"), Commission: decimal.RequireFromString("0.15")}
	amount, ok := CommissionAmount(r, DefaultTaxFactor)
	require.True(t, ok)
	assert.Equal(t, "15", amount.String())

	_, ok = CommissionAmount(Result{FinalPrice: Unavailable()}, DefaultTaxFactor)
	assert.False(t, ok)
}

func TestPriceJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A Price `json:"a"`
		B Price `json:"b"`
	}{price("85.5"), Unavailable()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":85.50,"b":"Consultar"}`, string(b))

	var back struct {
		A Price `json:"a"`
		B Price `json:"b"`
		C Price `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":85.50,"b":"Consultar","c":"12.30"}`), &back))
	assert.Equal(t, "85.50", back.A.String())
	assert.False(t, back.B.IsKnown())
	assert.Equal(t, "12.30", back.C.String())
}
