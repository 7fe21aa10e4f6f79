package model

import (
	"fmt"

	"github.com/shapefit/shapefit/errs"
)

// ListLookup is a Model over an indexed list: Predict(i) returns
// Data[i-Base]. Base shifts external indices (session numbers, subject IDs
// starting at 1) onto the zero-based slice.
type ListLookup struct {
	Data []any
	Base int
}

var _ Model = (*ListLookup)(nil)

// NewListLookup creates a list lookup with the given index base.
func NewListLookup(data []any, base int) *ListLookup {
	return &ListLookup{Data: data, Base: base}
}

// Predict returns the stored element for an index-like input.
func (l *ListLookup) Predict(x any) (any, error) {
	idx, err := indexOf(x)
	if err != nil {
		return nil, err
	}

	i := idx - l.Base
	if i < 0 || i >= len(l.Data) {
		return nil, fmt.Errorf("%w: index %d outside [%d, %d)", errs.ErrShapeMismatch, idx, l.Base, l.Base+len(l.Data))
	}

	return l.Data[i], nil
}

// Column is one named column of a Table.
type Column struct {
	Name   string
	Values []float64
}

// Table is a minimal named-column table, enough to serve row extraction for
// lookups without a dataframe dependency.
type Table struct {
	Columns []Column
}

// column returns the named column, or nil.
func (t Table) column(name string) []float64 {
	for _, c := range t.Columns {
		if c.Name == name {
			return c.Values
		}
	}

	return nil
}

// NumRows returns the row count of the first column, or 0 for an empty table.
func (t Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}

	return len(t.Columns[0].Values)
}

// TableLookup is a Model over a Table: Predict(i) returns the values of the
// configured output columns at row i-Base, in configuration order.
type TableLookup struct {
	Table      Table
	OutputKeys []string
	Base       int
}

var _ Model = (*TableLookup)(nil)

// NewTableLookup creates a table-row lookup.
func NewTableLookup(table Table, outputKeys []string, base int) *TableLookup {
	return &TableLookup{Table: table, OutputKeys: outputKeys, Base: base}
}

// Predict extracts the configured columns of one row.
func (l *TableLookup) Predict(x any) (any, error) {
	idx, err := indexOf(x)
	if err != nil {
		return nil, err
	}

	i := idx - l.Base
	if i < 0 || i >= l.Table.NumRows() {
		return nil, fmt.Errorf("%w: row %d outside [%d, %d)", errs.ErrShapeMismatch, idx, l.Base, l.Base+l.Table.NumRows())
	}

	out := make([]float64, len(l.OutputKeys))
	for k, key := range l.OutputKeys {
		col := l.Table.column(key)
		if col == nil {
			return nil, fmt.Errorf("%w: table has no column %q", errs.ErrShapeMismatch, key)
		}
		out[k] = col[i]
	}

	return out, nil
}
