package snirf

import (
	"fmt"
	"strings"

	"gonum.org/v1/hdf5"

	"github.com/neurotab/neurotab/internal/errors"
)

// Open reads the stimulus content of the SNIRF container at path into a
// Document. The container is opened read-only and fully released before
// returning, even on failure.
func Open(path string) (*Document, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, errors.NewContainerError(errors.CodeContainerOpenFailed,
			fmt.Sprintf("opening %s", path), err)
	}
	defer f.Close()

	groupNames, err := childNames(&f.CommonFG)
	if err != nil {
		return nil, errors.NewContainerError(errors.CodeContainerReadFailed,
			fmt.Sprintf("listing groups of %s", path), err)
	}

	doc := &Document{Path: path}
	nirsNames := filterIndexed(groupNames, "nirs")
	sortIndexed(nirsNames, "nirs")

	for _, name := range nirsNames {
		group, err := readGroup(&f.CommonFG, name)
		if err != nil {
			return nil, errors.NewContainerError(errors.CodeContainerReadFailed,
				fmt.Sprintf("reading group %s of %s", name, path), err)
		}
		doc.Groups = append(doc.Groups, group)
	}

	return doc, nil
}

// readGroup reads one nirs group and its stim children.
func readGroup(parent *hdf5.CommonFG, name string) (*Group, error) {
	g, err := parent.OpenGroup(name)
	if err != nil {
		return nil, err
	}
	defer g.Close()

	children, err := childNames(&g.CommonFG)
	if err != nil {
		return nil, err
	}

	group := &Group{Name: name}
	stimNames := filterIndexed(children, "stim")
	sortIndexed(stimNames, "stim")

	for _, stimName := range stimNames {
		stim, err := readStim(&g.CommonFG, stimName)
		if err != nil {
			return nil, fmt.Errorf("stim %s: %w", stimName, err)
		}
		group.Stims = append(group.Stims, stim)
	}

	return group, nil
}

// readStim reads one stim group: its name, data array, and optional labels.
func readStim(parent *hdf5.CommonFG, name string) (*Stim, error) {
	g, err := parent.OpenGroup(name)
	if err != nil {
		return nil, err
	}
	defer g.Close()

	children, err := childNames(&g.CommonFG)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(children))
	for _, c := range children {
		present[c] = true
	}

	stim := &Stim{}

	if present["name"] {
		stim.Name, err = readString(&g.CommonFG, "name")
		if err != nil {
			return nil, err
		}
	}

	if present["data"] {
		stim.Data, err = readMatrix(&g.CommonFG, "data")
		if err != nil {
			return nil, err
		}
	}

	if present["dataLabels"] {
		stim.DataLabels, err = readStrings(&g.CommonFG, "dataLabels")
		if err != nil {
			return nil, err
		}
	}

	return stim, nil
}

// childNames lists the immediate children of an HDF5 group.
func childNames(g *hdf5.CommonFG) ([]string, error) {
	n, err := g.NumObjects()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, n)
	for i := uint(0); i < n; i++ {
		name, err := g.ObjectNameByIndex(i)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// readMatrix reads a 2-D float64 dataset. A 1-D dataset of length n is
// treated as a single row of width n, matching how some writers store a
// lone stimulus event.
func readMatrix(g *hdf5.CommonFG, name string) ([][]float64, error) {
	d, err := g.OpenDataset(name)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	space := d.Space()
	defer space.Close()

	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, err
	}

	var rows, cols int
	switch len(dims) {
	case 1:
		rows, cols = 1, int(dims[0])
	case 2:
		rows, cols = int(dims[0]), int(dims[1])
	default:
		return nil, fmt.Errorf("dataset %s has rank %d, want 1 or 2", name, len(dims))
	}

	flat := make([]float64, rows*cols)
	if rows*cols > 0 {
		if err := d.Read(&flat); err != nil {
			return nil, err
		}
	}

	data := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		data[i] = flat[i*cols : (i+1)*cols]
	}
	return data, nil
}

// readString reads a scalar string dataset.
func readString(g *hdf5.CommonFG, name string) (string, error) {
	d, err := g.OpenDataset(name)
	if err != nil {
		return "", err
	}
	defer d.Close()

	var s string
	if err := d.Read(&s); err != nil {
		return "", err
	}
	return strings.TrimRight(s, "\x00"), nil
}

// readStrings reads a 1-D string dataset.
func readStrings(g *hdf5.CommonFG, name string) ([]string, error) {
	d, err := g.OpenDataset(name)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	space := d.Space()
	defer space.Close()

	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, err
	}
	if len(dims) != 1 {
		return nil, fmt.Errorf("dataset %s has rank %d, want 1", name, len(dims))
	}

	out := make([]string, int(dims[0]))
	if len(out) > 0 {
		if err := d.Read(&out); err != nil {
			return nil, err
		}
		for i, s := range out {
			out[i] = strings.TrimRight(s, "\x00")
		}
	}
	return out, nil
}

// filterIndexed keeps names that are the bare prefix or prefix + digits.
func filterIndexed(names []string, prefix string) []string {
	var out []string
	for _, name := range names {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		suffix := strings.TrimPrefix(name, prefix)
		if suffix == "" || allDigits(suffix) {
			out = append(out, name)
		}
	}
	return out
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
