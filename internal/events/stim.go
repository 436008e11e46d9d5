package events

import (
	"fmt"

	"github.com/neurotab/neurotab/internal/sidecar"
	"github.com/neurotab/neurotab/internal/snirf"
	"github.com/neurotab/neurotab/pkg/types"
)

// loadStims translates a container's stimulus streams into the table's
// column/record shape. Streams are processed in container-declared order;
// columns accumulate across streams without duplication, so the first
// stream to introduce a name decides its annotations, and all streams'
// rows land in the one table.
func (t *Table) loadStims(doc *snirf.Document, contents sidecar.Contents) {
	for _, group := range doc.Groups {
		for _, stim := range group.Stims {
			t.loadStim(stim, contents)
		}
	}
}

// loadStim appends one stream's events.
func (t *Table) loadStim(stim *snirf.Stim, contents sidecar.Contents) {
	labels := stimLabels(stim)

	for _, name := range labels {
		if t.hasColumn(name) {
			continue
		}
		ann := defaultStimAnnotations(name)
		// Sidecar wins over built-in defaults.
		if sc, ok := contents[name]; ok {
			ann = sc
		}
		t.addColumn(name, ann)
	}

	ncol := stim.Cols()
	for _, event := range stim.Data {
		row := types.NewRecord()
		for j := 0; j < ncol; j++ {
			row.Set(labels[j], event[j])
		}
		// The stream identity is authoritative for trial_type, even when a
		// positional column carries the same name.
		row.Set(trialTypeColumn, stim.Name)
		t.rows = append(t.rows, row)
	}
}

// stimLabels derives the column labels for a stream: declared labels (or the
// conventional onset/duration/value) truncated to the data width, padded
// with synthetic names for any shortfall, plus the trailing trial_type.
// Truncation tolerates containers that declare more labels than columns.
func stimLabels(stim *snirf.Stim) []string {
	ncol := stim.Cols()

	var labels []string
	if stim.DataLabels != nil {
		labels = append(labels, stim.DataLabels...)
	} else {
		labels = append(labels, defaultStimLabels...)
	}
	if len(labels) > ncol {
		labels = labels[:ncol]
	}
	for i := 0; len(labels) < ncol; i++ {
		labels = append(labels, fmt.Sprintf("column%d", i))
	}

	return append(labels, trialTypeColumn)
}
