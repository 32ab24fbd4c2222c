// Package resultset wraps an executor.Result in the row-oriented
// accessors callers actually want (first row, scalar value, maps,
// tuples) instead of requiring every caller to index Columns/Rows by
// hand.
//
// Grounded on original_source's result.py. Python's ResultSet iterates
// rows as attribute-access objects (SimpleNamespace or a typed Relation
// class); Go has neither, so ToMaps stands in for to_dicts/__iter__ and
// First returns the same map shape. to_df (pandas) is dropped outright —
// no dataframe library appears anywhere in the example corpus.
package resultset

import (
	"errors"

	"github.com/inputlayer/inputlayer-go/executor"
)

// ErrEmpty is returned by Scalar when the result has no rows, or its
// first row has no columns.
var ErrEmpty = errors.New("resultset: no results to extract scalar from")

// ResultSet is a read-only view over an executor.Result.
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// New wraps an executor.Result.
func New(r executor.Result) ResultSet {
	return ResultSet{Columns: r.Columns, Rows: r.Rows}
}

// Len is the row count.
func (rs ResultSet) Len() int { return len(rs.Rows) }

// Empty reports whether the result has no rows.
func (rs ResultSet) Empty() bool { return len(rs.Rows) == 0 }

// First returns the first row as a column-name-to-value map, and false
// if the result is empty.
func (rs ResultSet) First() (map[string]any, bool) {
	if len(rs.Rows) == 0 {
		return nil, false
	}
	return rs.rowToMap(rs.Rows[0]), true
}

// Scalar returns the single value from a 1x1 result.
func (rs ResultSet) Scalar() (any, error) {
	if len(rs.Rows) == 0 || len(rs.Rows[0]) == 0 {
		return nil, ErrEmpty
	}
	return rs.Rows[0][0], nil
}

// ToMaps converts every row to a column-name-to-value map.
func (rs ResultSet) ToMaps() []map[string]any {
	out := make([]map[string]any, len(rs.Rows))
	for i, row := range rs.Rows {
		out[i] = rs.rowToMap(row)
	}
	return out
}

// ToTuples returns a defensive copy of the rows, each as its own slice.
func (rs ResultSet) ToTuples() [][]any {
	out := make([][]any, len(rs.Rows))
	for i, row := range rs.Rows {
		cp := make([]any, len(row))
		copy(cp, row)
		out[i] = cp
	}
	return out
}

func (rs ResultSet) rowToMap(row []any) map[string]any {
	m := make(map[string]any, len(rs.Columns))
	for i, col := range rs.Columns {
		if i >= len(row) {
			break
		}
		m[col] = row[i]
	}
	return m
}
