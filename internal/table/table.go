// Package table provides the in-memory tabular core shared by every
// feature transform: an ordered-column string table plus CSV/XLSX input,
// CSV output, and append-only writers for incremental run artifacts.
package table

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// Table is an ordered-column, row-major table of string cells. Cells keep
// their raw text form; transforms that need numbers parse on demand.
type Table struct {
	Columns []string
	Rows    [][]string
}

// SchemaError reports a column the caller required but the table lacks.
// It is fatal to the operation that raised it and is never recovered.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("table: missing column %q", e.Column)
}

// New returns an empty table with the given column order.
func New(columns []string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return len(t.Rows) }

// ColumnIndex returns the position of a named column, or a *SchemaError
// if the table does not carry it.
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, c := range t.Columns {
		if c == name {
			return i, nil
		}
	}
	return -1, &SchemaError{Column: name}
}

// Column returns all cells of a named column in row order.
func (t *Table) Column(name string) ([]string, error) {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

// AppendRow adds a row. The row must match the column count.
func (t *Table) AppendRow(row []string) error {
	if len(row) != len(t.Columns) {
		return eris.Errorf("table: row has %d cells, want %d", len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// WithColumn returns a copy of the table extended with a new column
// appended after the existing ones. values must have one cell per row.
func (t *Table) WithColumn(name string, values []string) (*Table, error) {
	if len(values) != len(t.Rows) {
		return nil, eris.Errorf("table: column %q has %d values, want %d", name, len(values), len(t.Rows))
	}
	out := New(append(append([]string(nil), t.Columns...), name))
	out.Rows = make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = append(append([]string(nil), row...), values[i])
	}
	return out, nil
}
