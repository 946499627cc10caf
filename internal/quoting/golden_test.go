package quoting

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// goldenCase is one file under testdata/golden. Only the insurers listed
// in Expect.Results are checked; a missing Best means no insurer has a
// price.
type goldenCase struct {
	Request Request `json:"request"`
	Expect  struct {
		Results map[string]struct {
			ListPrice   string `json:"list_price"`
			Price       string `json:"price"`
			HasCampaign bool   `json:"has_campaign"`
		} `json:"results"`
		Best *struct {
			Insurer string `json:"insurer"`
			Price   string `json:"price"`
		} `json:"best"`
	} `json:"expect"`
}

func TestGoldenQuotes(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "golden", "*.json"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	e := newTestEngine()
	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			data, err := os.ReadFile(file)
			require.NoError(t, err)
			var gc goldenCase
			require.NoError(t, json.Unmarshal(data, &gc))

			results := e.Quote(context.Background(), gc.Request)
			got := byInsurer(results)
			for insurer, want := range gc.Expect.Results {
				r, ok := got[insurer]
				require.True(t, ok, insurer)
				assert.Equal(t, want.ListPrice, r.ListPrice.String(), "%s list price", insurer)
				assert.Equal(t, want.Price, r.FinalPrice.String(), "%s price", insurer)
				assert.Equal(t, want.HasCampaign, r.HasCampaign, "%s campaign", insurer)
			}

			best, ok := BestOffer(results)
			if gc.Expect.Best == nil {
				assert.False(t, ok, "unexpected best offer %+v", best)
				return
			}
			require.True(t, ok)
			assert.Equal(t, gc.Expect.Best.Insurer, best.Insurer)
			assert.Equal(t, gc.Expect.Best.Price, best.Price.StringFixed(2))
		})
	}
}
