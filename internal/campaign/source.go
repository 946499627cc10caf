// Package campaign applies time-bounded promotional prices on top of the
// tariff quotes.
package campaign

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/soat-quoter/internal/tables"
)

// ErrNoSource means no campaign file exists; it is not a failure.
var ErrNoSource = errors.New("no campaign source")

// Source yields the current campaign table.
type Source interface {
	Load(ctx context.Context) (*tables.Table, error)
}

// FileSource reads the first existing path of Paths, typically
// campanas.xlsx then campanas.csv. The file is read on every Load so edits
// take effect without a restart. A path that exists but cannot be read is
// skipped in favor of the next one.
type FileSource struct {
	Paths []string
}

func NewFileSource(paths ...string) *FileSource {
	return &FileSource{Paths: paths}
}

func (s *FileSource) Load(ctx context.Context) (*tables.Table, error) {
	var lastErr error
	for _, p := range s.Paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		t, err := readFile(p)
		if err != nil {
			lastErr = fmt.Errorf("read %s: %w", p, err)
			continue
		}
		return t, nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNoSource
}

func readFile(path string) (*tables.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return tables.ReadCSV(f, "CAMPANAS")
	}
	sheets, err := tables.ReadWorkbook(f)
	if err != nil {
		return nil, err
	}
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no data")
	}
	return sheets[0], nil
}

// StaticSource serves a fixed table; used by tests and by callers that
// already hold the campaign sheet in memory.
type StaticSource struct {
	Table *tables.Table
}

func (s StaticSource) Load(context.Context) (*tables.Table, error) {
	if s.Table == nil {
		return nil, ErrNoSource
	}
	return s.Table, nil
}
