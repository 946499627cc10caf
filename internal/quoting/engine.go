// Package quoting compares the SOAT prices of every loaded insurer for one
// vehicle.
package quoting

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/soat-quoter/internal/campaign"
	"github.com/soat-quoter/internal/matcher"
	"github.com/soat-quoter/internal/normalizer"
	"github.com/soat-quoter/internal/tables"
	"go.uber.org/zap"
)

// Row scores. A row failing any present criterion is disqualified.
const (
	scoreUsageExact   = 1000
	scoreUsagePartial = 800
	scoreClass        = 500
	scoreGroupExact   = 500
	scoreGroupGeneric = 100
	scoreSeats        = 200
)

// DefaultCommission applies when the tariff has no usable commission cell.
var DefaultCommission = decimal.RequireFromString("0.15")

// Request is the vehicle to quote.
type Request struct {
	Region string `json:"region"`
	Usage  string `json:"usage"`
	Class  string `json:"class"`
	Seats  int    `json:"seats"`
	Brand  string `json:"brand"`
	Model  string `json:"model"`
}

// Result is the quote of one insurer. ListPrice is the tariff price and
// FinalPrice the price after any campaign.
type Result struct {
	Insurer      string          `json:"insurer"`
	ListPrice    Price           `json:"list_price"`
	FinalPrice   Price           `json:"price"`
	HasCampaign  bool            `json:"has_campaign"`
	CampaignName string          `json:"campaign_name,omitempty"`
	PriceColumn  string          `json:"zone"`
	ColumnMethod matcher.Method  `json:"zone_method"`
	Group        string          `json:"group"`
	Observations string          `json:"observations"`
	Commission   decimal.Decimal `json:"commission_pct"`
	Score        int             `json:"score"`
}

// Options configure an Engine.
type Options struct {
	Rules             *normalizer.Rules
	Registry          *tables.Registry
	Campaigns         *campaign.Overlay
	DefaultCommission decimal.Decimal
	Logger            *zap.Logger
}

// Engine quotes vehicles against a fixed set of tables. It is safe for
// concurrent use.
type Engine struct {
	rules      *normalizer.Rules
	registry   *tables.Registry
	matcher    *matcher.Matcher
	groups     *matcher.GroupDetector
	columns    *matcher.PriceColumnResolver
	campaigns  *campaign.Overlay
	commission decimal.Decimal
	logger     *zap.Logger
}

func NewEngine(opts Options) *Engine {
	rules := opts.Rules
	if rules == nil {
		rules = normalizer.DefaultRules()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	commission := opts.DefaultCommission
	if commission.IsZero() {
		commission = DefaultCommission
	}
	m := matcher.New(rules)
	return &Engine{
		rules:      rules,
		registry:   opts.Registry,
		matcher:    m,
		groups:     matcher.NewGroupDetector(m, opts.Registry),
		columns:    matcher.NewPriceColumnResolver(rules, opts.Registry),
		campaigns:  opts.Campaigns,
		commission: commission,
		logger:     logger,
	}
}

func (e *Engine) Registry() *tables.Registry { return e.registry }

func (e *Engine) Campaigns() *campaign.Overlay { return e.campaigns }

func (e *Engine) Rules() *normalizer.Rules { return e.rules }

// Quote returns one Result per configured insurer that has a tariff table,
// in configured order. Insurers without a tariff are left out.
func (e *Engine) Quote(ctx context.Context, req Request) []Result {
	results := make([]Result, 0, len(e.rules.Insurers))
	for _, insurer := range e.rules.Insurers {
		set := e.registry.Get(insurer)
		if set == nil || set.Tariff == nil {
			continue
		}
		results = append(results, e.quoteInsurer(ctx, insurer, set.Tariff, req))
	}
	return results
}

type tariffColumns struct {
	usage, class, seats, group, obs, commission string
}

func (e *Engine) quoteInsurer(ctx context.Context, insurer string, t *tables.Table, req Request) Result {
	kw := e.rules.Columns.Tariff
	var cols tariffColumns
	cols.usage, _ = t.FindColumn(kw.Usage...)
	cols.class, _ = t.FindColumn(kw.Class...)
	cols.seats, _ = t.FindColumn(kw.Seats...)
	cols.group, _ = t.FindColumn(kw.Group...)
	cols.obs, _ = t.FindColumn(kw.Observations...)
	cols.commission, _ = t.FindColumn(kw.Commission...)

	target := e.groups.Detect(insurer, req.Brand, req.Model, req.Class, req.Usage)
	priceCol, method := e.columns.Explain(insurer, req.Region, t.Columns)

	res := Result{
		Insurer:      insurer,
		ListPrice:    Unavailable(),
		FinalPrice:   Unavailable(),
		PriceColumn:  priceCol,
		ColumnMethod: method,
		Group:        target,
		Commission:   e.commission,
		Score:        -1,
	}

	if cols.usage == "" {
		e.logger.Warn("Tariff has no usage column", zap.String("insurer", insurer))
	} else if best, score := e.bestRow(t, cols, target, req); best >= 0 {
		res.Score = score
		if t.Has(priceCol) {
			if amount, ok := parseAmount(t.Cell(best, priceCol)); ok {
				res.ListPrice = Known(amount)
				res.FinalPrice = res.ListPrice
			}
		}
		if cols.commission != "" {
			if pct, ok := parseCommission(t.Cell(best, cols.commission)); ok {
				res.Commission = pct
			}
		}
		if cols.obs != "" {
			res.Observations = cellText(t.Cell(best, cols.obs))
		}
	}

	if c, ok := e.campaigns.Active(ctx, campaign.Criteria{
		Insurer: insurer,
		Region:  req.Region,
		Usage:   req.Usage,
		Class:   req.Class,
		Model:   req.Model,
	}); ok {
		res.FinalPrice = Known(c.Price)
		res.HasCampaign = true
		res.CampaignName = c.Name
		if res.Observations != "" {
			res.Observations += " | " + c.Name
		} else {
			res.Observations = c.Name
		}
	}

	e.logger.Debug("Quoted insurer",
		zap.String("insurer", insurer),
		zap.String("group", target),
		zap.String("price_column", priceCol),
		zap.String("column_method", string(method)),
		zap.Int("score", res.Score),
		zap.String("price", res.FinalPrice.String()))
	return res
}

// bestRow returns the index and score of the highest scoring row, -1 when
// every row is disqualified. A later row only wins with a strictly higher
// score.
func (e *Engine) bestRow(t *tables.Table, cols tariffColumns, target string, req Request) (int, int) {
	uUsage := normalizer.Normalize(req.Usage)
	best, bestScore := -1, -1
	for i := 0; i < t.Len(); i++ {
		score, ok := e.scoreRow(t, i, cols, target, uUsage, req)
		if ok && score > bestScore {
			best, bestScore = i, score
		}
	}
	return best, bestScore
}

func (e *Engine) scoreRow(t *tables.Table, i int, cols tariffColumns, target, uUsage string, req Request) (int, bool) {
	score := 0

	rUsage := t.Value(i, cols.usage)
	switch {
	case rUsage == uUsage:
		score += scoreUsageExact
	case strings.Contains(rUsage, uUsage):
		score += scoreUsagePartial
	default:
		return 0, false
	}

	if cols.class != "" {
		if !e.matcher.ClassMatches(t.Cell(i, cols.class), req.Class) {
			return 0, false
		}
		score += scoreClass
	}

	if cols.group != "" {
		pts, ok := e.groupScore(t.Cell(i, cols.group), target)
		if !ok {
			return 0, false
		}
		score += pts
	}

	if cols.seats != "" {
		if !e.matcher.SeatsMatch(t.Cell(i, cols.seats), req.Seats) {
			return 0, false
		}
		score += scoreSeats
	}
	return score, true
}

// groupScore compares a tariff group cell with the detected group.
func (e *Engine) groupScore(cell, target string) (int, bool) {
	rGroup := strings.ToUpper(strings.TrimSpace(cell))
	if rGroup == target {
		return scoreGroupExact, true
	}
	wild := e.rules.Markers.GroupWildcards
	if normalizer.Contains(wild, rGroup) && normalizer.Contains(wild, target) {
		return scoreGroupGeneric, true
	}
	a, errA := strconv.Atoi(strings.TrimSuffix(rGroup, ".0"))
	b, errB := strconv.Atoi(target)
	if errA == nil && errB == nil && a == b {
		return scoreGroupExact, true
	}
	return 0, false
}

// parseAmount reads a tariff price cell, ignoring thousands separators.
func parseAmount(cell string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(cell, ",", ""))
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// parseCommission accepts a fraction ("0.12") or a percentage ("12%").
func parseCommission(cell string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(cell)
	pct := strings.HasSuffix(s, "%")
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	d, ok := parseAmount(s)
	if !ok {
		return decimal.Decimal{}, false
	}
	if pct {
		d = d.Div(decimal.NewFromInt(100))
	}
	return d, true
}

func cellText(cell string) string {
	s := strings.TrimSpace(cell)
	if strings.EqualFold(s, "nan") {
		return ""
	}
	return s
}
