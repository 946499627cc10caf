package matcher

import (
	"strings"

	"github.com/soat-quoter/internal/normalizer"
	"github.com/soat-quoter/internal/tables"
)

// GroupDetector finds the risk group an insurer assigns to a vehicle.
type GroupDetector struct {
	matcher  *Matcher
	registry *tables.Registry
}

func NewGroupDetector(m *Matcher, registry *tables.Registry) *GroupDetector {
	return &GroupDetector{matcher: m, registry: registry}
}

// Detect scans the insurer's group table in row order and returns the group
// of the first row whose brand, model, class and usage all fit. The default
// group is returned when there is no table, a required column is missing or
// no row fits.
func (d *GroupDetector) Detect(insurer, brand, model, class, usage string) string {
	rules := d.matcher.rules
	def := rules.DefaultGroup

	set := d.registry.Get(insurer)
	if set == nil || set.Groups == nil {
		return def
	}
	t := set.Groups
	cols := rules.Columns.Groups

	cBrand, okBrand := t.FindColumn(cols.Brand...)
	cModel, okModel := t.FindColumn(cols.Model...)
	cGroup, okGroup := t.FindColumn(cols.Group...)
	if !okBrand || !okModel || !okGroup {
		return def
	}
	cClass, hasClass := t.FindColumn(cols.Class...)
	cUsage, hasUsage := t.FindColumn(cols.Usage...)

	uBrand := normalizer.Normalize(brand)
	uModel := normalizer.Normalize(model)
	uUsage := normalizer.Normalize(usage)

	for i := 0; i < t.Len(); i++ {
		if t.Value(i, cBrand) != uBrand {
			continue
		}
		if !modelListed(t.Value(i, cModel), uModel) {
			continue
		}
		if hasClass && !d.matcher.ClassMatches(t.Cell(i, cClass), class) {
			continue
		}
		if hasUsage && !usageListed(t.Value(i, cUsage), uUsage) {
			continue
		}
		return GroupCode(t.Cell(i, cGroup), def)
	}
	return def
}

func modelListed(cell, model string) bool {
	if normalizer.Contains(normalizer.SplitList(cell, normalizer.ListSeparators), model) {
		return true
	}
	return strings.Contains(cell, "TODOS")
}

// usageListed accepts the user's usage when the cell lists it, when a listed
// usage is part of it, or when the cell is blank.
func usageListed(cell, usage string) bool {
	items := normalizer.SplitList(cell, normalizer.ListSeparators)
	if len(items) == 0 {
		return true
	}
	if normalizer.Contains(items, usage) {
		return true
	}
	for _, it := range items {
		if strings.Contains(usage, it) {
			return true
		}
	}
	return false
}

// GroupCode upper-cases a group cell and drops the ".0" spreadsheets add to
// whole numbers. A blank cell yields def.
func GroupCode(cell, def string) string {
	code := strings.ToUpper(strings.TrimSpace(cell))
	code = strings.TrimSuffix(code, ".0")
	if code == "" {
		return def
	}
	return code
}
