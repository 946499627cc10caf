package tables

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/soat-quoter/internal/normalizer"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

// ErrNoInsurers is returned when not a single insurer file could be read.
var ErrNoInsurers = errors.New("no insurer tables loaded")

// Source points at the workbook or CSV export of one insurer.
type Source struct {
	Insurer string `mapstructure:"name" json:"name"`
	Path    string `mapstructure:"path" json:"path"`
}

// InsurerTables are the tables of one insurer. Groups and Zones may be nil.
type InsurerTables struct {
	Insurer string
	Tariff  *Table
	Groups  *Table
	Zones   *Table
}

// Registry maps insurer names to their tables.
type Registry struct {
	byInsurer map[string]*InsurerTables
}

// NewRegistry builds a registry from already loaded tables.
func NewRegistry(sets ...*InsurerTables) *Registry {
	r := &Registry{byInsurer: make(map[string]*InsurerTables, len(sets))}
	for _, s := range sets {
		r.byInsurer[s.Insurer] = s
	}
	return r
}

// Get returns the tables of an insurer, nil when it was never loaded.
func (r *Registry) Get(insurer string) *InsurerTables {
	if r == nil {
		return nil
	}
	return r.byInsurer[insurer]
}

// Insurers returns the sorted names present in the registry.
func (r *Registry) Insurers() []string {
	names := make([]string, 0, len(r.byInsurer))
	for n := range r.byInsurer {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Loader reads insurer files and classifies their sheets.
type Loader struct {
	sheets normalizer.SheetKeywords
	logger *zap.Logger
}

func NewLoader(rules *normalizer.Rules, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{sheets: rules.Sheets, logger: logger}
}

// LoadAll loads every source. A file that fails to load is logged and
// skipped; ErrNoInsurers is returned only when all of them fail.
func (l *Loader) LoadAll(sources []Source) (*Registry, error) {
	reg := NewRegistry()
	for _, src := range sources {
		set, err := l.LoadFile(src.Insurer, src.Path)
		if err != nil {
			l.logger.Error("Failed to load insurer tables",
				zap.String("insurer", src.Insurer),
				zap.String("path", src.Path),
				zap.Error(err))
			continue
		}
		reg.byInsurer[src.Insurer] = set
		l.logger.Info("Loaded insurer tables",
			zap.String("insurer", src.Insurer),
			zap.Int("tariff_rows", set.Tariff.Len()),
			zap.Int("group_rows", set.Groups.Len()),
			zap.Int("zone_rows", set.Zones.Len()))
	}
	if len(reg.byInsurer) == 0 {
		return nil, ErrNoInsurers
	}
	return reg, nil
}

// LoadFile reads one insurer file. xlsx sheets are classified by name; a
// CSV file is a single sheet classified by its headers.
func (l *Loader) LoadFile(insurer, path string) (*InsurerTables, error) {
	var sheets []*Table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		t, err := ReadCSV(f, insurer)
		if err != nil {
			return nil, fmt.Errorf("read csv %s: %w", path, err)
		}
		t.Name = l.csvSheetName(t)
		sheets = append(sheets, t)
	case ".xlsx", ".xlsm":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sheets, err = ReadWorkbook(f)
		if err != nil {
			return nil, fmt.Errorf("read workbook %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}

	set := &InsurerTables{Insurer: insurer}
	for _, sh := range sheets {
		kind := l.Classify(sh.Name)
		switch kind {
		case KindZones:
			set.Zones = sh
		case KindGroups:
			set.Groups = Concat(set.Groups, sh)
		case KindTariff:
			if set.Tariff != nil {
				l.logger.Warn("Tariff sheet replaced by a later one",
					zap.String("insurer", insurer), zap.String("sheet", sh.Name))
			}
			set.Tariff = sh
		default:
			l.logger.Debug("Ignoring unclassified sheet",
				zap.String("insurer", insurer), zap.String("sheet", sh.Name))
		}
	}
	return set, nil
}

// Classify maps a sheet name to its kind. Zone keywords are checked first,
// then group keywords, then tariff keywords.
func (l *Loader) Classify(sheet string) Kind {
	name := normalizer.Normalize(sheet)
	switch {
	case containsAny(name, l.sheets.Zone):
		return KindZones
	case containsAny(name, l.sheets.Groups):
		return KindGroups
	case containsAny(name, l.sheets.Tariff):
		return KindTariff
	}
	return KindUnknown
}

// csvSheetName gives a CSV export the sheet name its headers suggest, so
// that Classify can treat it like a workbook sheet.
func (l *Loader) csvSheetName(t *Table) string {
	headers := strings.Join(t.Columns, " ")
	switch {
	case containsAny(headers, l.sheets.CSVZoneHeaders):
		return "ZONAS"
	case containsAny(headers, l.sheets.CSVGroupHeaders):
		return "GRUPOS"
	case containsAny(headers, l.sheets.CSVTariffHeaders):
		return "TARIFARIO"
	}
	return t.Name
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// ReadWorkbook reads every sheet of an xlsx workbook. Cells are taken raw,
// so dates arrive as Excel serial numbers.
func ReadWorkbook(r io.Reader) ([]*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var out []*Table
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", name, err)
		}
		if len(rows) == 0 {
			continue
		}
		out = append(out, New(name, rows[0], rows[1:]))
	}
	return out, nil
}

// ReadCSV reads a CSV export. UTF-8 input is used as is, anything else is
// decoded as Latin-1. The delimiter is sniffed from the header line.
func ReadCSV(r io.Reader, name string) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(raw) {
		raw, err = charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("decode latin-1: %w", err)
		}
	}

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = sniffDelimiter(raw)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("empty csv")
	}
	return New(name, records[0], records[1:]), nil
}

var delimiters = []rune{',', ';', '\t', '|'}

// sniffDelimiter picks the candidate that occurs most often, outside
// quotes, on the first line.
func sniffDelimiter(raw []byte) rune {
	line := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		line = raw[:i]
	}
	counts := make(map[rune]int, len(delimiters))
	inQuotes := false
	for _, r := range string(line) {
		if r == '"' {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes {
			counts[r]++
		}
	}
	best := ','
	for _, d := range delimiters {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best
}
