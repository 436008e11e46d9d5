package events

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	neuroerr "github.com/neurotab/neurotab/internal/errors"
	"github.com/neurotab/neurotab/internal/sidecar"
	"github.com/neurotab/neurotab/pkg/types"
)

// utf8BOM is the byte-order mark some writers prepend to events files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// loadTabular reads a tab-delimited, quoted events file with a header row.
// The header establishes column order; sidecar annotations attach by exact,
// case-sensitive name match. Every header key is preserved in every row,
// empty fields included.
func (t *Table) loadTabular(path string, contents sidecar.Contents) error {
	f, err := os.Open(path)
	if err != nil {
		return neuroerr.WrapFormatError(neuroerr.CodeMalformedTable,
			fmt.Sprintf("opening %s", path), err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if err := skipBOM(br); err != nil {
		return neuroerr.WrapFormatError(neuroerr.CodeMalformedTable,
			fmt.Sprintf("reading %s", path), err)
	}

	r := csv.NewReader(br)
	r.Comma = '\t'

	header, err := r.Read()
	if err == io.EOF {
		// A headerless empty file is an empty table, not an error.
		return nil
	}
	if err != nil {
		return tabularError(path, err)
	}

	for _, name := range header {
		if !t.addColumn(name, contents[name]) {
			return neuroerr.NewFormatError(neuroerr.CodeMalformedTable,
				fmt.Sprintf("%s: duplicate column %q in header", path, name))
		}
	}

	for {
		fields, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return tabularError(path, err)
		}
		row := types.NewRecord()
		for i, name := range header {
			row.Set(name, fields[i])
		}
		t.rows = append(t.rows, row)
	}
}

// tabularError maps a csv error to the table's format error, naming the
// offending row when the parser reports one.
func tabularError(path string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return neuroerr.WrapFormatError(neuroerr.CodeMalformedTable,
			fmt.Sprintf("%s: row %d", path, pe.Line), err)
	}
	return neuroerr.WrapFormatError(neuroerr.CodeMalformedTable, path, err)
}

// skipBOM consumes a leading UTF-8 byte-order mark if present.
func skipBOM(br *bufio.Reader) error {
	prefix, err := br.Peek(len(utf8BOM))
	if err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	if string(prefix) == string(utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the table as tab-delimited text at path: the column sequence
// as the header, then every record as one row with fields in column order.
// A record missing a column's key is written as an empty field. When
// sidecarPath is non-empty, the column-to-annotations mapping is written
// there as formatted JSON. Save never mutates the table.
func (t *Table) Save(path, sidecarPath string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("events: creating %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("events: writing %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	w.Comma = '\t'

	names := t.ColumnNames()
	if len(names) > 0 {
		if err := w.Write(names); err != nil {
			return fmt.Errorf("events: writing %s: %w", path, err)
		}
		fields := make([]string, len(names))
		for _, row := range t.rows {
			for i, name := range names {
				v, _ := row.Get(name)
				fields[i] = formatValue(v)
			}
			if err := w.Write(fields); err != nil {
				return fmt.Errorf("events: writing %s: %w", path, err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("events: writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("events: closing %s: %w", path, err)
	}

	if sidecarPath == "" {
		return nil
	}
	return t.saveSidecar(sidecarPath)
}

// saveSidecar writes the column descriptions as formatted JSON.
func (t *Table) saveSidecar(path string) error {
	data, err := json.MarshalIndent(t.ColumnDescriptions(), "", "    ")
	if err != nil {
		return fmt.Errorf("events: encoding sidecar %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("events: writing sidecar %s: %w", path, err)
	}
	return nil
}
