// Package snirf provides read-only access to the stimulus content of SNIRF
// containers. The exported types are a minimal structural contract (named
// stimulus streams, each an ordered numeric table with optional column
// labels) so that consumers never depend on the shape of the underlying
// HDF5 library's types.
package snirf

import (
	"sort"
	"strconv"
	"strings"
)

// Stim is one stimulus stream: a named 2-D numeric table (rows are events,
// columns are measured fields) with an optional list of column labels.
type Stim struct {
	// Name is the stimulus condition name.
	Name string

	// Data holds one row per event. All rows have the same width.
	Data [][]float64

	// DataLabels optionally names the data columns. A nil slice means the
	// container declared no labels; the list may legitimately be shorter or
	// longer than the data width (upstream writers get this wrong).
	DataLabels []string
}

// Cols returns the column count of the stim's data array.
func (s *Stim) Cols() int {
	if len(s.Data) == 0 {
		return 0
	}
	return len(s.Data[0])
}

// Group is one logical measurement group ("nirs" element) of a container.
type Group struct {
	// Name is the HDF5 group name ("nirs", "nirs1", ...).
	Name string

	// Stims holds the group's stimulus streams in container-declared order.
	Stims []*Stim
}

// Document is the stimulus view of one SNIRF container.
type Document struct {
	// Path is the container the document was read from.
	Path string

	// Groups holds the measurement groups in container-declared order.
	Groups []*Group
}

// sortIndexed sorts names of the form prefix, prefix1, prefix2, ... by their
// numeric suffix so that prefix10 follows prefix9 rather than prefix1.
func sortIndexed(names []string, prefix string) {
	sort.SliceStable(names, func(i, j int) bool {
		return indexSuffix(names[i], prefix) < indexSuffix(names[j], prefix)
	})
}

// indexSuffix returns the numeric suffix of an indexed name. The bare prefix
// sorts first.
func indexSuffix(name, prefix string) int {
	suffix := strings.TrimPrefix(name, prefix)
	if suffix == "" {
		return 0
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0
	}
	return n
}
