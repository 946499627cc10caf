package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() map[string][]string {
	return map[string][]string{
		"TOYOTA":  {"COROLLA", "HILUX", "YARIS"},
		"HYUNDAI": {"ACCENT", "TUCSON"},
		"KIA":     {"RIO 1.4", "RIO 14", "SPORTAGE"},
	}
}

func newLocalSearcher(t *testing.T) *CatalogSearcher {
	t.Helper()
	s := NewCatalogSearcher(Config{}, nil)
	s.SetCatalog(testCatalog())
	return s
}

func TestCatalogSearcher_Disabled(t *testing.T) {
	s := newLocalSearcher(t)
	assert.False(t, s.Enabled())
	assert.Equal(t, 8, s.Size())

	_, err := s.Index(context.Background())
	assert.ErrorIs(t, err, ErrIndexDisabled)
}

func TestCatalogSearcher_EnabledNeedsHost(t *testing.T) {
	assert.False(t, NewCatalogSearcher(Config{Enabled: true}, nil).Enabled())
	assert.True(t, NewCatalogSearcher(Config{Enabled: true, Host: "http://localhost:7700"}, nil).Enabled())
}

func TestCatalogSearcher_SearchLocal(t *testing.T) {
	s := newLocalSearcher(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		q, brand  string
		wantFirst Match
		wantLen   int
	}{
		{
			name:      "model prefix",
			q:         "cor",
			wantFirst: Match{Brand: "TOYOTA", Model: "COROLLA", Score: scorePrefix, Source: SourceLocal},
			wantLen:   1,
		},
		{
			name:      "substring of label",
			q:         "ota hil",
			wantFirst: Match{Brand: "TOYOTA", Model: "HILUX", Score: scoreSubstring, Source: SourceLocal},
			wantLen:   1,
		},
		{
			name:      "accent and case folded",
			q:         "Túcson",
			wantFirst: Match{Brand: "HYUNDAI", Model: "TUCSON", Score: scorePrefix, Source: SourceLocal},
			wantLen:   1,
		},
		{
			name:      "brand filter",
			q:         "",
			brand:     "kia",
			wantFirst: Match{Brand: "KIA", Model: "RIO 1.4", Score: scorePrefix, Source: SourceLocal},
			wantLen:   3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Search(ctx, tt.q, tt.brand, 10)
			require.Len(t, got, tt.wantLen)
			assert.Equal(t, tt.wantFirst, got[0])
		})
	}
}

func TestCatalogSearcher_FuzzyNeighbour(t *testing.T) {
	s := newLocalSearcher(t)

	got := s.Search(context.Background(), "HILUZ", "", 5)
	require.NotEmpty(t, got)
	assert.Equal(t, "HILUX", got[0].Model)
	assert.Less(t, got[0].Score, scoreSubstring)
}

func TestCatalogSearcher_Limit(t *testing.T) {
	s := newLocalSearcher(t)
	assert.Len(t, s.Search(context.Background(), "", "", 2), 2)
}

func TestDocumentsUniqueIDs(t *testing.T) {
	docs := documents(testCatalog())
	ids := map[string]bool{}
	for _, d := range docs {
		assert.False(t, ids[d.id], d.id)
		ids[d.id] = true
	}
	assert.True(t, ids["KIA_RIO_14"])
	assert.True(t, ids["KIA_RIO_14_1"])
}
