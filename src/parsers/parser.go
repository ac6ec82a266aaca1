package parsers

import (
	"io"
	"strings"

	"github.com/username/noonfolio/src/models"
)

// Parser turns a raw spreadsheet stream into a Table. The first row is the
// header; header names are trimmed of surrounding whitespace before the core
// ever sees them.
type Parser interface {
	Parse(file io.Reader) (*models.Table, error)
}

// tableFromRecords builds a Table from header + data rows. Ragged rows are
// padded with empty cells.
func tableFromRecords(records [][]string) *models.Table {
	header := records[0]
	columns := make([]string, len(header))
	for i, c := range header {
		columns[i] = strings.TrimSpace(c)
	}

	table := models.NewTable(columns)
	for _, rec := range records[1:] {
		row := models.Row{}
		for i, col := range columns {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
