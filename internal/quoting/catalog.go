package quoting

import (
	"sort"
	"unicode/utf8"

	"github.com/soat-quoter/internal/normalizer"
	"github.com/soat-quoter/internal/tables"
)

// VehicleClasses lists, sorted, every class named in the tariff and group
// tables of the configured insurers.
func (e *Engine) VehicleClasses() []string {
	seen := map[string]struct{}{}
	ignore := e.rules.Markers.ClassIgnore
	for _, t := range e.tablesOf(func(s *tables.InsurerTables) []*tables.Table {
		return []*tables.Table{s.Tariff, s.Groups}
	}) {
		col, ok := t.FindColumn(e.rules.Columns.CatalogClass...)
		if !ok {
			continue
		}
		for i := 0; i < t.Len(); i++ {
			for _, item := range normalizer.SplitList(t.Cell(i, col), normalizer.ListSeparators) {
				c := normalizer.Normalize(item)
				if normalizer.Contains(ignore, c) || utf8.RuneCountInString(c) <= 1 {
					continue
				}
				seen[c] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// VehicleCatalog maps each brand in the group tables to its sorted models.
func (e *Engine) VehicleCatalog() map[string][]string {
	kw := e.rules.Columns.Groups
	mk := e.rules.Markers
	models := map[string]map[string]struct{}{}
	for _, t := range e.tablesOf(func(s *tables.InsurerTables) []*tables.Table {
		return []*tables.Table{s.Groups}
	}) {
		cBrand, ok1 := t.FindColumn(kw.Brand...)
		cModel, ok2 := t.FindColumn(kw.Model...)
		if !ok1 || !ok2 {
			continue
		}
		for i := 0; i < t.Len(); i++ {
			brand := t.Value(i, cBrand)
			cell := t.Value(i, cModel)
			if normalizer.Contains(mk.BrandIgnore, brand) || normalizer.Contains(mk.ModelIgnore, cell) {
				continue
			}
			if models[brand] == nil {
				models[brand] = map[string]struct{}{}
			}
			for _, m := range normalizer.SplitList(cell, normalizer.ListSeparators) {
				models[brand][m] = struct{}{}
			}
		}
	}
	out := make(map[string][]string, len(models))
	for brand, set := range models {
		list := make([]string, 0, len(set))
		for m := range set {
			list = append(list, m)
		}
		sort.Strings(list)
		out[brand] = list
	}
	return out
}

// Brands returns the catalog brands in order.
func Brands(catalog map[string][]string) []string {
	brands := make([]string, 0, len(catalog))
	for b := range catalog {
		brands = append(brands, b)
	}
	sort.Strings(brands)
	return brands
}

func (e *Engine) tablesOf(pick func(*tables.InsurerTables) []*tables.Table) []*tables.Table {
	var out []*tables.Table
	for _, insurer := range e.rules.Insurers {
		set := e.registry.Get(insurer)
		if set == nil {
			continue
		}
		for _, t := range pick(set) {
			if t != nil {
				out = append(out, t)
			}
		}
	}
	return out
}
