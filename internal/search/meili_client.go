// Package search looks up brands and models of the vehicle catalog.
package search

import (
	"fmt"
	"strings"

	ms "github.com/meilisearch/meilisearch-go"
)

// ClientWrapper wraps the Meilisearch calls used by the catalog index.
type ClientWrapper struct {
	cli ms.ServiceManager
}

func NewClientWrapper(url, key string) *ClientWrapper {
	return &ClientWrapper{cli: ms.New(url, ms.WithAPIKey(key))}
}

// Healthy reports whether the server answers its health endpoint.
func (c *ClientWrapper) Healthy() error {
	if _, err := c.cli.Health(); err != nil {
		return fmt.Errorf("meilisearch health: %w", err)
	}
	return nil
}

// SearchIndex runs q against index, optionally filtered.
func (c *ClientWrapper) SearchIndex(index, q, filter string, limit int64) (*ms.SearchResponse, error) {
	req := &ms.SearchRequest{Limit: limit}
	if filter != "" {
		req.Filter = filter
	}
	return c.cli.Index(index).Search(q, req)
}

// Configure sets the searchable and filterable attributes of index.
func (c *ClientWrapper) Configure(index string) (int64, error) {
	task, err := c.cli.Index(index).UpdateSettings(&ms.Settings{
		SearchableAttributes: []string{"model", "brand", "label"},
		FilterableAttributes: []string{"brand"},
		SortableAttributes:   []string{"brand", "model"},
		TypoTolerance: &ms.TypoTolerance{
			Enabled: true,
			MinWordSizeForTypos: ms.MinWordSizeForTypos{
				OneTypo:  3,
				TwoTypos: 7,
			},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("configure index %s: %w", index, err)
	}
	return task.TaskUID, nil
}

// AddDocuments uploads docs keyed by "id" and returns the task id.
func (c *ClientWrapper) AddDocuments(index string, docs []map[string]interface{}) (int64, error) {
	task, err := c.cli.Index(index).AddDocuments(docs, "id")
	if err != nil {
		return 0, err
	}
	return task.TaskUID, nil
}

// FilterBrand restricts a search to one brand.
func FilterBrand(brand string) string {
	if brand == "" {
		return ""
	}
	return fmt.Sprintf("brand = %q", strings.ToUpper(brand))
}
