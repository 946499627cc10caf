package campaign

import (
	"context"
	"testing"
	"time"

	"github.com/soat-quoter/internal/normalizer"
	"github.com/soat-quoter/internal/tables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in       string
		want     time.Time
		dateOnly bool
		ok       bool
	}{
		{"15/06/2024", time.Date(2024, 6, 15, 0, 0, 0, 0, time.Local), true, true},
		{"2024-06-15", time.Date(2024, 6, 15, 0, 0, 0, 0, time.Local), true, true},
		{"12/31/2024", time.Date(2024, 12, 31, 0, 0, 0, 0, time.Local), true, true},
		{"15-06-2024", time.Date(2024, 6, 15, 0, 0, 0, 0, time.Local), true, true},
		{"03/04/2024", time.Date(2024, 4, 3, 0, 0, 0, 0, time.Local), true, true},
		{"5/6/2024", time.Date(2024, 6, 5, 0, 0, 0, 0, time.Local), true, true},
		{"2024-06-15 18:30:00", time.Date(2024, 6, 15, 18, 30, 0, 0, time.Local), false, true},
		{"45458", time.Date(2024, 6, 15, 0, 0, 0, 0, time.Local), true, true},
		{"", time.Time{}, false, false},
		{"mañana", time.Time{}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, dateOnly, ok := ParseDate(tt.in)
			require.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, tt.dateOnly, dateOnly)
		})
	}
}

func TestAuditTable(t *testing.T) {
	tbl := tables.New("CAMPANAS", campaignHeader, [][]string{
		{"Rimac", "LIMA", "PARTICULAR", "AUTOMOVIL", "", "79.90", "01/06/2024", "30/06/2024", "Verano"},
		{"Rimac", "ICA", "PARTICULAR", "AUTOMOVIL", "", "60", "01/01/2024", "31/05/2024", "Vencida"},
		{"Rimac", "ICA", "PARTICULAR", "AUTOMOVIL", "", "61", "16/06/2024", "30/06/2024", "Futura"},
		{"Qualitas", "ICA", "PARTICULAR", "AUTOMOVIL", "", "Consultar", "ayer", "30/06/2024", ""},
		{"Mapfre", "ICA", "PARTICULAR", "AUTOMOVIL", "", "50", "30/06/2024", "01/06/2024", ""},
	})
	rep := AuditTable(tbl, normalizer.DefaultRules(), fixedNow())

	assert.Equal(t, 5, rep.Rows)
	require.Len(t, rep.Active, 1)
	assert.Equal(t, "Verano", rep.Active[0].Name)
	assert.Equal(t, 2, rep.Active[0].Row)
	require.Len(t, rep.Upcoming, 1)
	assert.Equal(t, "Futura", rep.Upcoming[0].Name)

	kinds := map[IssueKind]int{}
	for _, is := range rep.Issues {
		kinds[is.Kind] = is.Row
	}
	assert.Equal(t, 3, kinds[IssueExpired])
	assert.Equal(t, 5, kinds[IssueUnknownInsurer])
	assert.Equal(t, 5, kinds[IssueBadStart])
	assert.Equal(t, 5, kinds[IssueBadPrice])
	assert.Equal(t, 6, kinds[IssueInverted])
	assert.NotContains(t, kinds, IssueBadEnd)
}

func TestAuditMissingColumns(t *testing.T) {
	tbl := tables.New("CAMPANAS", []string{"Aseguradora", "Precio"}, nil)
	rep := AuditTable(tbl, normalizer.DefaultRules(), fixedNow())

	var missing []string
	for _, is := range rep.Issues {
		assert.Equal(t, IssueMissingColumn, is.Kind)
		missing = append(missing, is.Detail)
	}
	assert.Equal(t, []string{"region", "usage", "class", "start", "end"}, missing)
}

func TestOverlayAuditWithoutSource(t *testing.T) {
	rep, err := newTestOverlay(nil).Audit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rep.Issues)
	assert.True(t, fixedNow().Equal(rep.CheckedAt))
}
