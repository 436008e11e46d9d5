// Package events models BIDS event tables: ordered columns with sidecar
// annotations plus ordered rows, loaded from tabular text or SNIRF stimulus
// streams and saved back to the tabular/sidecar pair.
package events

import (
	"fmt"
	"log"
	"sort"
	"strconv"

	"github.com/neurotab/neurotab/internal/errors"
	"github.com/neurotab/neurotab/internal/sidecar"
	"github.com/neurotab/neurotab/internal/snirf"
	"github.com/neurotab/neurotab/pkg/types"
)

// metadataKind selects how Load resolves the sidecar.
type metadataKind int

const (
	metaNone metadataKind = iota
	metaPath
	metaSearch
)

// MetadataSpec tells Load where the sidecar comes from: nowhere, an explicit
// file, or an ancestor-directory search.
type MetadataSpec struct {
	kind metadataKind
	path string
}

// NoMetadata loads without any sidecar.
func NoMetadata() MetadataSpec {
	return MetadataSpec{kind: metaNone}
}

// MetadataFile loads the sidecar at the given path.
func MetadataFile(path string) MetadataSpec {
	return MetadataSpec{kind: metaPath, path: path}
}

// MetadataSearch requests the ancestor-directory inheritance search.
func MetadataSearch() MetadataSpec {
	return MetadataSpec{kind: metaSearch}
}

// Table is an event table: an ordered, duplicate-free column sequence and an
// ordered row sequence. A Table is owned by a single caller; it is not safe
// for concurrent use.
type Table struct {
	columns []types.Column
	byName  map[string]int
	rows    []*types.Record

	source string
	task   string

	resolver sidecar.Resolver
}

// New returns an empty table.
func New() *Table {
	return &Table{byName: make(map[string]int)}
}

// SetSearchDepth overrides how many ancestor directory levels the sidecar
// inheritance search climbs. Zero or negative restores the default.
func (t *Table) SetSearchDepth(depth int) {
	t.resolver.Depth = depth
}

// Open constructs a table and immediately loads it from path.
func Open(path string, meta MetadataSpec) (*Table, error) {
	t := New()
	if err := t.Load(path, meta); err != nil {
		return nil, err
	}
	return t, nil
}

// Load replaces the table's content with the events in the source at path.
// Previous content is discarded up front, so a failed load leaves an empty
// table; this is an intentional contract, not an accident of ordering.
func (t *Table) Load(path string, meta MetadataSpec) error {
	t.columns = nil
	t.rows = nil
	t.byName = make(map[string]int)
	t.source = path
	t.task = types.TaskFromPath(path)

	var contents sidecar.Contents
	var err error
	switch meta.kind {
	case metaSearch:
		contents, err = t.resolver.Search(path, t.task)
	case metaPath:
		contents, err = sidecar.LoadFile(meta.path)
	}
	if err != nil {
		return err
	}

	switch types.ClassifySource(path) {
	case types.SourceTabular:
		return t.loadTabular(path, contents)
	case types.SourceSNIRF:
		doc, err := snirf.Open(path)
		if err != nil {
			return err
		}
		t.loadStims(doc, contents)
		return nil
	default:
		return errors.NewFormatError(errors.CodeUnsupportedFormat,
			fmt.Sprintf("cannot load %s: not %s or %s", path, types.SNIRFSuffix, types.TabularSuffix))
	}
}

// addColumn declares a column once, in discovery order. Returns false when
// the name is already known.
func (t *Table) addColumn(name string, ann types.Annotations) bool {
	if _, ok := t.byName[name]; ok {
		return false
	}
	if ann == nil {
		ann = types.Annotations{}
	}
	t.byName[name] = len(t.columns)
	t.columns = append(t.columns, types.Column{Name: name, Annotations: ann})
	return true
}

// hasColumn reports whether the table declares a column with the given name.
func (t *Table) hasColumn(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Task returns the task identifier extracted from the source path.
func (t *Table) Task() string {
	return t.task
}

// Source returns the path the table was last loaded from.
func (t *Table) Source() string {
	return t.source
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// ColumnNames returns the column names in discovery order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// ColumnDescriptions returns the column-to-annotations mapping. This is the
// content that Save writes as the sidecar.
func (t *Table) ColumnDescriptions() map[string]types.Annotations {
	out := make(map[string]types.Annotations, len(t.columns))
	for _, col := range t.columns {
		out[col.Name] = col.Annotations
	}
	return out
}

// Rows returns copies of the table's records in row order. Mutating the
// returned records does not affect the table.
func (t *Table) Rows() []*types.Record {
	out := make([]*types.Record, len(t.rows))
	for i, row := range t.rows {
		out[i] = row.Clone()
	}
	return out
}

// GetColumn returns every record's value for name, in row order. Records
// lacking the key contribute nil. Fails when the table declares no such
// column.
func (t *Table) GetColumn(name string) ([]any, error) {
	if !t.hasColumn(name) {
		return nil, errors.NewColumnError(fmt.Sprintf("no column named %q", name))
	}
	values := make([]any, len(t.rows))
	for i, row := range t.rows {
		if v, ok := row.Get(name); ok {
			values[i] = v
		}
	}
	return values, nil
}

// SortByOnset reorders rows ascending by the numeric value of the "onset"
// column. The sort is stable: equal onsets keep their original relative
// order. Without an onset column the table is left unchanged and a warning
// is logged. Rows whose onset does not parse as a number sort last.
func (t *Table) SortByOnset() {
	if !t.hasColumn("onset") {
		log.Printf("events: %s not sorted: no onset column", t.source)
		return
	}
	sort.SliceStable(t.rows, func(i, j int) bool {
		return onsetValue(t.rows[i]) < onsetValue(t.rows[j])
	})
}

// onsetValue coerces a record's onset to float64 for ordering. Missing or
// unparsable onsets sort after every finite value.
func onsetValue(r *types.Record) float64 {
	v, ok := r.Get("onset")
	if !ok {
		return maxOnset
	}
	f, ok := toFloat(v)
	if !ok {
		return maxOnset
	}
	return f
}

const maxOnset = 1e308

// toFloat coerces a scalar cell value to float64.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// formatValue renders a cell value for the tabular text format. Missing
// values render as the empty field.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}
