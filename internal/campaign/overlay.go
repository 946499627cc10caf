package campaign

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/soat-quoter/internal/matcher"
	"github.com/soat-quoter/internal/normalizer"
	"github.com/soat-quoter/internal/tables"
	"go.uber.org/zap"
)

// DefaultName labels campaigns whose row has no name.
const DefaultName = "Oferta Especial"

// Campaign is one promotional price row.
type Campaign struct {
	Row     int             `json:"row"`
	Insurer string          `json:"insurer"`
	Region  string          `json:"region"`
	Usage   string          `json:"usage"`
	Class   string          `json:"class"`
	Models  string          `json:"models,omitempty"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Start   time.Time       `json:"start"`
	End     time.Time       `json:"end"`
}

// Criteria describes the vehicle a campaign is looked up for.
type Criteria struct {
	Insurer string
	Region  string
	Usage   string
	Class   string
	Model   string
}

// Overlay finds the campaign that applies to a quote.
type Overlay struct {
	source  Source
	matcher *matcher.Matcher
	rules   *normalizer.Rules
	logger  *zap.Logger
	now     func() time.Time
}

func NewOverlay(source Source, m *matcher.Matcher, logger *zap.Logger) *Overlay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Overlay{
		source:  source,
		matcher: m,
		rules:   m.Rules(),
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock replaces the wall clock; the overlay itself is not modified.
func (o *Overlay) WithClock(now func() time.Time) *Overlay {
	cp := *o
	cp.now = now
	return &cp
}

// Active returns the first campaign row, in sheet order, that is in force
// now and covers the criteria. Any problem with the source means no
// campaign.
func (o *Overlay) Active(ctx context.Context, c Criteria) (Campaign, bool) {
	if o == nil || o.source == nil {
		return Campaign{}, false
	}
	t, err := o.source.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNoSource) {
			o.logger.Debug("No campaign source")
		} else {
			o.logger.Warn("Campaign source unreadable", zap.Error(err))
		}
		return Campaign{}, false
	}
	cols, missing := resolveColumns(t, o.rules.Columns.Campaigns)
	if len(missing) > 0 {
		o.logger.Debug("Campaign table lacks required columns", zap.Strings("missing", missing))
		return Campaign{}, false
	}

	now := o.now()
	uInsurer := normalizer.Normalize(c.Insurer)
	uRegion := normalizer.Normalize(c.Region)
	uUsage := normalizer.Normalize(c.Usage)
	uClass := normalizer.Normalize(c.Class)
	uModel := normalizer.Normalize(c.Model)

	for i := 0; i < t.Len(); i++ {
		if t.Value(i, cols.insurer) != uInsurer || t.Value(i, cols.usage) != uUsage {
			continue
		}
		region := t.Value(i, cols.region)
		if region != uRegion && !normalizer.Contains(o.rules.Markers.RegionWildcards, region) {
			continue
		}
		start, end, ok := window(t, i, cols)
		if !ok || now.Before(start) || now.After(end) {
			continue
		}
		if !o.classCovered(t.Cell(i, cols.class), uClass) {
			continue
		}
		if cols.models != "" && !o.modelCovered(t.Value(i, cols.models), uModel) {
			continue
		}
		price, ok := ParsePrice(t.Cell(i, cols.price))
		if !ok {
			continue
		}
		return buildRow(t, i, cols, price, start, end), true
	}
	return Campaign{}, false
}

func (o *Overlay) classCovered(cell, class string) bool {
	items := normalizer.SplitList(normalizer.Normalize(cell), normalizer.ListSeparators)
	if len(items) == 0 {
		return o.matcher.ClassMatches("", class)
	}
	if normalizer.Contains(items, class) {
		return true
	}
	for _, it := range items {
		if o.matcher.ClassMatches(it, class) {
			return true
		}
	}
	return false
}

func (o *Overlay) modelCovered(cell, model string) bool {
	if normalizer.Contains(o.rules.Markers.ModelWildcards, cell) {
		return true
	}
	return normalizer.Contains(normalizer.SplitList(cell, normalizer.ListSeparators), model)
}

func buildRow(t *tables.Table, i int, cols columnSet, price decimal.Decimal, start, end time.Time) Campaign {
	name := ""
	if cols.name != "" {
		name = strings.TrimSpace(t.Cell(i, cols.name))
	}
	if name == "" || normalizer.Normalize(name) == "NAN" {
		name = DefaultName
	}
	c := Campaign{
		Row:     i + 2,
		Insurer: t.Cell(i, cols.insurer),
		Region:  t.Value(i, cols.region),
		Usage:   t.Value(i, cols.usage),
		Class:   t.Value(i, cols.class),
		Name:    name,
		Price:   price,
		Start:   start,
		End:     end,
	}
	if cols.models != "" {
		c.Models = t.Value(i, cols.models)
	}
	return c
}

var nonPrice = regexp.MustCompile(`[^\d.]`)

// ParsePrice keeps digits and dots of a price cell ("S/ 1,250.50") and
// parses the rest.
func ParsePrice(cell string) (decimal.Decimal, bool) {
	clean := nonPrice.ReplaceAllString(cell, "")
	if clean == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// window parses the validity bounds of row i. A date-only end bound lasts
// the whole day.
func window(t *tables.Table, i int, cols columnSet) (time.Time, time.Time, bool) {
	start, _, ok := ParseDate(t.Cell(i, cols.start))
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end, dateOnly, ok := ParseDate(t.Cell(i, cols.end))
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if dateOnly {
		end = endOfDay(end)
	}
	return start, end, true
}

type columnSet struct {
	insurer, region, usage, class, price, start, end string
	name, models                                     string
}

// resolveColumns finds the campaign columns; missing lists the required
// logical columns that could not be found.
func resolveColumns(t *tables.Table, kw normalizer.CampaignColumns) (columnSet, []string) {
	var cols columnSet
	var missing []string
	required := []struct {
		label string
		dst   *string
		keys  []string
	}{
		{"insurer", &cols.insurer, kw.Insurer},
		{"region", &cols.region, kw.Region},
		{"usage", &cols.usage, kw.Usage},
		{"class", &cols.class, kw.Class},
		{"price", &cols.price, kw.Price},
		{"start", &cols.start, kw.Start},
		{"end", &cols.end, kw.End},
	}
	for _, r := range required {
		col, ok := t.FindColumn(r.keys...)
		if !ok {
			missing = append(missing, r.label)
			continue
		}
		*r.dst = col
	}
	cols.name, _ = t.FindColumn(kw.Name...)
	cols.models, _ = t.FindColumn(kw.Models...)
	return cols, missing
}
