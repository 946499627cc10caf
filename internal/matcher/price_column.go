package matcher

import (
	"github.com/soat-quoter/internal/normalizer"
	"github.com/soat-quoter/internal/tables"
)

// Method records which step chose a price column.
type Method string

const (
	MethodDirect   Method = "direct"
	MethodSynonym  Method = "synonym"
	MethodZone     Method = "zone"
	MethodFallback Method = "fallback"
)

// DefaultPriceColumn is returned when nothing else applies.
const DefaultPriceColumn = "PRECIO"

// PriceColumnResolver picks the tariff column holding the price for a region.
type PriceColumnResolver struct {
	rules    *normalizer.Rules
	registry *tables.Registry
}

func NewPriceColumnResolver(rules *normalizer.Rules, registry *tables.Registry) *PriceColumnResolver {
	return &PriceColumnResolver{rules: rules, registry: registry}
}

// Resolve returns the price column for the region among columns. It never
// fails: when no region column is found the generic price column is used.
func (r *PriceColumnResolver) Resolve(insurer, region string, columns []string) string {
	col, _ := r.Explain(insurer, region, columns)
	return col
}

// Explain is Resolve plus the step that produced the answer.
func (r *PriceColumnResolver) Explain(insurer, region string, columns []string) (string, Method) {
	dep := normalizer.Normalize(region)
	th := r.rules.Thresholds

	if col, ok := ClosestMatch(dep, columns, th.Region); ok {
		return col, MethodDirect
	}
	if alt, ok := r.rules.Synonym(dep); ok {
		if col, ok := ClosestMatch(alt, columns, th.Region); ok {
			return col, MethodSynonym
		}
	}
	if col, ok := r.viaZone(insurer, dep, columns); ok {
		return col, MethodZone
	}
	for _, c := range r.rules.Columns.Tariff.PriceFallback {
		if normalizer.Contains(columns, c) {
			return c, MethodFallback
		}
	}
	return DefaultPriceColumn, MethodFallback
}

// viaZone maps the region to a zone label through the insurer's zone table
// and matches the label against the columns. The first row listing the
// region decides only if its label matches; otherwise later rows are tried.
func (r *PriceColumnResolver) viaZone(insurer, dep string, columns []string) (string, bool) {
	set := r.registry.Get(insurer)
	if set == nil || set.Zones == nil {
		return "", false
	}
	z := set.Zones
	cols := r.rules.Columns.Zones
	cRegion, ok1 := z.FindColumn(cols.Region...)
	cZone, ok2 := z.FindColumn(cols.Zone...)
	if !ok1 || !ok2 {
		return "", false
	}
	for i := 0; i < z.Len(); i++ {
		places := normalizer.SplitList(z.Value(i, cRegion), normalizer.ZoneSeparators)
		if !normalizer.Contains(places, dep) {
			continue
		}
		if col, ok := ClosestMatch(z.Value(i, cZone), columns, r.rules.Thresholds.Zone); ok {
			return col, true
		}
	}
	return "", false
}
