package quoting

import "github.com/shopspring/decimal"

// DefaultTaxFactor removes IGV and the road-safety levy from a SOAT price
// to get the net premium commissions are paid on.
var DefaultTaxFactor = decimal.RequireFromString("1.2154")

// Offer is the cheapest price of a quote.
type Offer struct {
	Insurer     string          `json:"insurer"`
	Price       decimal.Decimal `json:"price"`
	HasCampaign bool            `json:"has_campaign"`
}

// BestOffer returns the lowest known final price; the earlier insurer wins
// a tie. ok is false when no insurer has a price.
func BestOffer(results []Result) (Offer, bool) {
	var best Offer
	found := false
	for _, r := range results {
		amount, ok := r.FinalPrice.Amount()
		if !ok {
			continue
		}
		if !found || amount.LessThan(best.Price) {
			best = Offer{Insurer: r.Insurer, Price: amount, HasCampaign: r.HasCampaign}
			found = true
		}
	}
	return best, found
}

// CommissionAmount is the broker commission in soles for a result: the
// final price without taxes times the commission rate, rounded to cents.
func CommissionAmount(r Result, taxFactor decimal.Decimal) (decimal.Decimal, bool) {
	amount, ok := r.FinalPrice.Amount()
	if !ok || taxFactor.IsZero() {
		return decimal.Decimal{}, false
	}
	return amount.Div(taxFactor).Mul(r.Commission).Round(2), true
}
