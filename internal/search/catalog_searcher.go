package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/soat-quoter/internal/normalizer"
	"github.com/xrash/smetrics"
	"go.uber.org/zap"
)

// ErrIndexDisabled is returned by Index when no Meilisearch host is set.
var ErrIndexDisabled = errors.New("catalog index disabled")

// Match sources.
const (
	SourceIndex = "meilisearch"
	SourceLocal = "local"
)

// Local match scores.
const (
	scorePrefix    = 1.0
	scoreSubstring = 0.9
	minSimilarity  = 0.8
)

const batchSize = 1000

type Config struct {
	Enabled bool
	Host    string
	APIKey  string
	Index   string
	Timeout time.Duration
}

// Match is one catalog entry returned by Search.
type Match struct {
	Brand  string  `json:"brand"`
	Model  string  `json:"model"`
	Score  float64 `json:"score"`
	Source string  `json:"source"`
}

type vehicleDoc struct {
	id    string
	brand string
	model string
}

// CatalogSearcher searches the brand/model catalog. With Meilisearch
// configured it queries the index and falls back to the in-memory catalog
// on any index error.
type CatalogSearcher struct {
	client    *ClientWrapper
	indexName string
	timeout   time.Duration
	logger    *zap.Logger

	mu   sync.RWMutex
	docs []vehicleDoc
}

func NewCatalogSearcher(cfg Config, logger *zap.Logger) *CatalogSearcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &CatalogSearcher{
		indexName: cfg.Index,
		timeout:   cfg.Timeout,
		logger:    logger,
	}
	if s.indexName == "" {
		s.indexName = "vehicles"
	}
	if s.timeout <= 0 {
		s.timeout = 3 * time.Second
	}
	if cfg.Enabled && cfg.Host != "" {
		s.client = NewClientWrapper(cfg.Host, cfg.APIKey)
	}
	return s
}

// Enabled reports whether a Meilisearch index backs the searcher.
func (s *CatalogSearcher) Enabled() bool { return s.client != nil }

// SetCatalog replaces the in-memory catalog (brand → models).
func (s *CatalogSearcher) SetCatalog(catalog map[string][]string) {
	docs := documents(catalog)
	s.mu.Lock()
	s.docs = docs
	s.mu.Unlock()
}

// Size is the number of brand/model pairs held in memory.
func (s *CatalogSearcher) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Index pushes the in-memory catalog to Meilisearch and returns the number
// of documents sent.
func (s *CatalogSearcher) Index(ctx context.Context) (int, error) {
	if s.client == nil {
		return 0, ErrIndexDisabled
	}
	if err := s.client.Healthy(); err != nil {
		return 0, err
	}
	if _, err := s.client.Configure(s.indexName); err != nil {
		return 0, err
	}

	s.mu.RLock()
	docs := make([]map[string]interface{}, 0, len(s.docs))
	for _, d := range s.docs {
		docs = append(docs, map[string]interface{}{
			"id":    d.id,
			"brand": d.brand,
			"model": d.model,
			"label": d.brand + " " + d.model,
		})
	}
	s.mu.RUnlock()

	for i := 0; i < len(docs); i += batchSize {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		end := i + batchSize
		if end > len(docs) {
			end = len(docs)
		}
		task, err := s.client.AddDocuments(s.indexName, docs[i:end])
		if err != nil {
			return i, fmt.Errorf("add documents %d-%d: %w", i, end, err)
		}
		s.logger.Info("catalog batch queued",
			zap.Int("from", i),
			zap.Int("to", end),
			zap.Int64("task_uid", task))
	}
	return len(docs), nil
}

// Search returns up to limit catalog entries for q, optionally within one
// brand.
func (s *CatalogSearcher) Search(ctx context.Context, q, brand string, limit int) []Match {
	if limit <= 0 {
		limit = 10
	}
	if s.client != nil {
		matches, err := s.searchIndex(ctx, q, brand, limit)
		if err == nil {
			return matches
		}
		s.logger.Warn("catalog index search failed, using local catalog", zap.Error(err))
	}
	return s.searchLocal(q, brand, limit)
}

func (s *CatalogSearcher) searchIndex(ctx context.Context, q, brand string, limit int) ([]Match, error) {
	type answer struct {
		matches []Match
		err     error
	}
	ch := make(chan answer, 1)
	go func() {
		res, err := s.client.SearchIndex(s.indexName, q, FilterBrand(normalizer.Normalize(brand)), int64(limit))
		if err != nil {
			ch <- answer{err: err}
			return
		}
		var out []Match
		for _, hit := range res.Hits {
			m, ok := hit.(map[string]interface{})
			if !ok {
				continue
			}
			b, _ := m["brand"].(string)
			md, _ := m["model"].(string)
			if b == "" || md == "" {
				continue
			}
			out = append(out, Match{Brand: b, Model: md, Score: 1, Source: SourceIndex})
		}
		ch <- answer{matches: out}
	}()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	select {
	case a := <-ch:
		return a.matches, a.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// searchLocal ranks prefix hits over substring hits over Jaro-Winkler
// neighbours; equal scores keep catalog order.
func (s *CatalogSearcher) searchLocal(q, brand string, limit int) []Match {
	query := normalizer.Normalize(q)
	brand = normalizer.Normalize(brand)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Match
	for _, d := range s.docs {
		if brand != "" && d.brand != brand {
			continue
		}
		score := localScore(query, d)
		if score < minSimilarity {
			continue
		}
		out = append(out, Match{Brand: d.brand, Model: d.model, Score: score, Source: SourceLocal})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func localScore(query string, d vehicleDoc) float64 {
	if query == "" {
		return scorePrefix
	}
	label := d.brand + " " + d.model
	switch {
	case strings.HasPrefix(d.model, query), strings.HasPrefix(d.brand, query), strings.HasPrefix(label, query):
		return scorePrefix
	case strings.Contains(label, query):
		return scoreSubstring
	}
	best := 0.0
	for _, target := range []string{d.model, d.brand, label} {
		if jw := smetrics.JaroWinkler(query, target, 0.7, 4); jw > best {
			best = jw
		}
	}
	// keep fuzzy hits below substring hits
	return best * scoreSubstring
}

func documents(catalog map[string][]string) []vehicleDoc {
	brands := make([]string, 0, len(catalog))
	for b := range catalog {
		brands = append(brands, b)
	}
	sort.Strings(brands)

	seen := map[string]int{}
	var docs []vehicleDoc
	for _, b := range brands {
		for _, m := range catalog[b] {
			id := normalizer.Slug(b + " " + m)
			if id == "" {
				continue
			}
			// "RIO 1.4" and "RIO 14" slug alike
			if n := seen[id]; n > 0 {
				seen[id]++
				id = fmt.Sprintf("%s_%d", id, n)
			} else {
				seen[id] = 1
			}
			docs = append(docs, vehicleDoc{id: id, brand: b, model: m})
		}
	}
	return docs
}
