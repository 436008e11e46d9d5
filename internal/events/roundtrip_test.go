package events

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurotab/neurotab/internal/snirf"
	"github.com/neurotab/neurotab/pkg/types"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "sub-01_task-tapping_events.tsv")
	meta := filepath.Join(dir, "sub-01_task-tapping_events.json")
	writeFile(t, src, "onset\tduration\ttrial_type\n1.0\t5.0\tleft\n13.0\t5.0\t\n")
	writeFile(t, meta, `{"onset": {"Description": "Event onset", "Units": "s"}, "duration": {}, "trial_type": {}}`)

	tbl, err := Open(src, MetadataFile(meta))
	require.NoError(t, err)

	outSrc := filepath.Join(dir, "out_task-tapping_events.tsv")
	outMeta := filepath.Join(dir, "out_task-tapping_events.json")
	require.NoError(t, tbl.Save(outSrc, outMeta))

	reloaded, err := Open(outSrc, MetadataFile(outMeta))
	require.NoError(t, err)

	assert.Equal(t, tbl.ColumnNames(), reloaded.ColumnNames())
	assert.Equal(t, tbl.ColumnDescriptions(), reloaded.ColumnDescriptions())
	require.Equal(t, tbl.Len(), reloaded.Len())
	for _, name := range tbl.ColumnNames() {
		want, err := tbl.GetColumn(name)
		require.NoError(t, err)
		got, err := reloaded.GetColumn(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, "column %s", name)
	}
}

func TestSave_MissingKeysWriteEmptyFields(t *testing.T) {
	dir := t.TempDir()

	// Two streams with different widths give rows that do not populate
	// every declared column.
	tbl := New()
	tbl.loadStim(&stimWide, nil)
	tbl.loadStim(&stimNarrow, nil)

	out := filepath.Join(dir, "mixed_task-x_events.tsv")
	require.NoError(t, tbl.Save(out, ""))

	reloaded, err := Open(out, NoMetadata())
	require.NoError(t, err)

	col, err := reloaded.GetColumn("value")
	require.NoError(t, err)
	assert.Equal(t, []any{"1", ""}, col)
}

var (
	stimWide   = snirf.Stim{Name: "wide", Data: [][]float64{{1, 5, 1}}}
	stimNarrow = snirf.Stim{Name: "narrow", Data: [][]float64{{7, 5}}}
)

func TestSave_SnirfValuesSerializeAsText(t *testing.T) {
	dir := t.TempDir()

	tbl := New()
	tbl.loadStim(&snirf.Stim{Name: "tapping", Data: [][]float64{{1.25, 5, 1}}}, nil)

	out := filepath.Join(dir, "conv_task-x_events.tsv")
	meta := filepath.Join(dir, "conv_task-x_events.json")
	require.NoError(t, tbl.Save(out, meta))

	reloaded, err := Open(out, MetadataFile(meta))
	require.NoError(t, err)

	onsets, err := reloaded.GetColumn("onset")
	require.NoError(t, err)
	assert.Equal(t, []any{"1.25"}, onsets)
	assert.Equal(t, tbl.ColumnDescriptions(), reloaded.ColumnDescriptions())
}

// TestProperty_TabularRoundTrip validates the core persistence property: for
// any table, save followed by load reproduces column order, annotation
// content, and the record sequence (values compared as text, the canonical
// representation).
func TestProperty_TabularRoundTrip(t *testing.T) {
	dir := t.TempDir()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	run := 0
	properties.Property("save then load reproduces the table", prop.ForAll(
		func(seed int64) bool {
			run++
			tbl := randomTable(rand.New(rand.NewSource(seed)))

			src := filepath.Join(dir, fmt.Sprintf("prop%d_task-x_events.tsv", run))
			meta := filepath.Join(dir, fmt.Sprintf("prop%d_task-x_events.json", run))
			if err := tbl.Save(src, meta); err != nil {
				return false
			}

			reloaded, err := Open(src, MetadataFile(meta))
			if err != nil {
				return false
			}

			if !reflect.DeepEqual(tbl.ColumnNames(), reloaded.ColumnNames()) {
				return false
			}
			if !reflect.DeepEqual(tbl.ColumnDescriptions(), reloaded.ColumnDescriptions()) {
				return false
			}
			if tbl.Len() != reloaded.Len() {
				return false
			}
			for _, name := range tbl.ColumnNames() {
				want, err := tbl.GetColumn(name)
				if err != nil {
					return false
				}
				got, err := reloaded.GetColumn(name)
				if err != nil {
					return false
				}
				if !reflect.DeepEqual(want, got) {
					return false
				}
			}
			return true
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}

// randomTable builds a table with 1-5 columns and 0-20 rows of text values
// that exercise quoting: tabs, quotes, newlines, and empty fields.
func randomTable(r *rand.Rand) *Table {
	tbl := New()

	ncol := 1 + r.Intn(5)
	names := make([]string, ncol)
	for i := range names {
		names[i] = fmt.Sprintf("col%d_%s", i, randomWord(r))
		ann := types.Annotations{}
		if r.Intn(2) == 0 {
			ann["Description"] = randomWord(r)
		}
		if r.Intn(3) == 0 {
			ann["Units"] = "s"
		}
		tbl.addColumn(names[i], ann)
	}

	nrow := r.Intn(21)
	for i := 0; i < nrow; i++ {
		row := types.NewRecord()
		for _, name := range names {
			row.Set(name, randomCell(r))
		}
		tbl.rows = append(tbl.rows, row)
	}
	return tbl
}

func randomWord(r *rand.Rand) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	n := 1 + r.Intn(8)
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[r.Intn(len(letters))]
	}
	return string(b)
}

func randomCell(r *rand.Rand) string {
	switch r.Intn(6) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("%g", r.Float64()*100)
	case 2:
		return randomWord(r) + "\t" + randomWord(r)
	case 3:
		return `say "` + randomWord(r) + `"`
	case 4:
		return randomWord(r) + "\n" + randomWord(r)
	default:
		return randomWord(r)
	}
}

