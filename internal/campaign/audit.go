package campaign

import (
	"context"
	"errors"
	"time"

	"github.com/soat-quoter/internal/normalizer"
	"github.com/soat-quoter/internal/tables"
)

// IssueKind classifies a data-quality problem in the campaign sheet.
type IssueKind string

const (
	IssueMissingColumn  IssueKind = "missing_column"
	IssueBadStart       IssueKind = "bad_start_date"
	IssueBadEnd         IssueKind = "bad_end_date"
	IssueInverted       IssueKind = "inverted_window"
	IssueBadPrice       IssueKind = "bad_price"
	IssueExpired        IssueKind = "expired"
	IssueUnknownInsurer IssueKind = "unknown_insurer"
)

// Issue points at a row (1-based sheet row, 0 for the whole sheet).
type Issue struct {
	Row    int       `json:"row"`
	Kind   IssueKind `json:"kind"`
	Detail string    `json:"detail,omitempty"`
}

// Report is the outcome of auditing the campaign sheet. Rows that quote
// time silently ignores show up here as issues.
type Report struct {
	CheckedAt time.Time  `json:"checked_at"`
	Rows      int        `json:"rows"`
	Active    []Campaign `json:"active"`
	Upcoming  []Campaign `json:"upcoming"`
	Issues    []Issue    `json:"issues"`
}

// Audit loads the source and checks every row. A missing source yields an
// empty report.
func (o *Overlay) Audit(ctx context.Context) (Report, error) {
	now := o.now()
	if o.source == nil {
		return Report{CheckedAt: now}, nil
	}
	t, err := o.source.Load(ctx)
	if errors.Is(err, ErrNoSource) {
		return Report{CheckedAt: now}, nil
	}
	if err != nil {
		return Report{}, err
	}
	return AuditTable(t, o.rules, now), nil
}

// AuditTable checks a campaign table at the given instant.
func AuditTable(t *tables.Table, rules *normalizer.Rules, now time.Time) Report {
	rep := Report{CheckedAt: now, Rows: t.Len()}
	cols, missing := resolveColumns(t, rules.Columns.Campaigns)
	for _, m := range missing {
		rep.Issues = append(rep.Issues, Issue{Kind: IssueMissingColumn, Detail: m})
	}
	if len(missing) > 0 {
		return rep
	}

	known := make([]string, 0, len(rules.Insurers))
	for _, ins := range rules.Insurers {
		known = append(known, normalizer.Normalize(ins))
	}

	for i := 0; i < t.Len(); i++ {
		row := i + 2
		bad := false
		if !normalizer.Contains(known, t.Value(i, cols.insurer)) {
			rep.Issues = append(rep.Issues, Issue{Row: row, Kind: IssueUnknownInsurer, Detail: t.Cell(i, cols.insurer)})
		}
		start, _, okStart := ParseDate(t.Cell(i, cols.start))
		if !okStart {
			rep.Issues = append(rep.Issues, Issue{Row: row, Kind: IssueBadStart, Detail: t.Cell(i, cols.start)})
			bad = true
		}
		end, dateOnly, okEnd := ParseDate(t.Cell(i, cols.end))
		if !okEnd {
			rep.Issues = append(rep.Issues, Issue{Row: row, Kind: IssueBadEnd, Detail: t.Cell(i, cols.end)})
			bad = true
		} else if dateOnly {
			end = endOfDay(end)
		}
		price, okPrice := ParsePrice(t.Cell(i, cols.price))
		if !okPrice {
			rep.Issues = append(rep.Issues, Issue{Row: row, Kind: IssueBadPrice, Detail: t.Cell(i, cols.price)})
			bad = true
		}
		if bad {
			continue
		}
		switch {
		case end.Before(start):
			rep.Issues = append(rep.Issues, Issue{Row: row, Kind: IssueInverted})
		case now.After(end):
			rep.Issues = append(rep.Issues, Issue{Row: row, Kind: IssueExpired, Detail: end.Format("2006-01-02")})
		case now.Before(start):
			rep.Upcoming = append(rep.Upcoming, buildRow(t, i, cols, price, start, end))
		default:
			rep.Active = append(rep.Active, buildRow(t, i, cols, price, start, end))
		}
	}
	return rep
}
