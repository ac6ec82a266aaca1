package models

import (
	"fmt"
	"strings"
)

// Row is a single spreadsheet record. Columns are discovered at load time,
// not declared, so a row is a loose name -> value mapping. Values are strings
// as parsed from the source file; aggregation replaces summed cells with
// float64.
type Row map[string]any

// Table is an ordered set of columns plus the rows that carry them.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

func NewTable(columns []string) *Table {
	return &Table{Columns: columns, Rows: []Row{}}
}

func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// EnsureColumn adds a column with a default value for every existing row.
// A no-op when the column already exists.
func (t *Table) EnsureColumn(name string, def any) {
	if t.HasColumn(name) {
		return
	}
	t.Columns = append(t.Columns, name)
	for _, row := range t.Rows {
		row[name] = def
	}
}

// CellString renders a cell for string-keyed operations (grouping, key
// matching). Numeric cells keep their shortest decimal form.
func CellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.6f", val), "0"), ".")
	default:
		return fmt.Sprintf("%v", val)
	}
}
