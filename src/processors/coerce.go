package processors

import (
	"strconv"
	"strings"

	"github.com/username/noonfolio/src/models"
)

// ToFloat attempts numeric coercion of a cell value. Blank and unparseable
// cells report false.
func ToFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// CoerceFloat coerces a cell to a number, defaulting to 0. Bad values are
// never an error in this pipeline.
func CoerceFloat(v any) float64 {
	f, _ := ToFloat(v)
	return f
}

// SumNumeric folds a column across rows, treating non-coercible cells as 0.
func SumNumeric(rows []models.Row, col string) float64 {
	var sum float64
	for _, row := range rows {
		sum += CoerceFloat(row[col])
	}
	return sum
}

// anyNumeric reports whether at least one cell in the column coerces, which
// decides between a sum fold and a first-non-empty fold.
func anyNumeric(rows []models.Row, col string) bool {
	for _, row := range rows {
		if _, ok := ToFloat(row[col]); ok {
			return true
		}
	}
	return false
}

// FirstNonEmpty returns the first non-blank value of the column in row order.
func FirstNonEmpty(rows []models.Row, col string) string {
	for _, row := range rows {
		if s := strings.TrimSpace(models.CellString(row[col])); s != "" {
			return s
		}
	}
	return ""
}

// UniqueJoined folds a free-text column as a comma-joined set of unique
// non-empty values, order preserved, duplicates removed.
func UniqueJoined(rows []models.Row, col string) string {
	seen := make(map[string]bool)
	var vals []string
	for _, row := range rows {
		s := strings.TrimSpace(models.CellString(row[col]))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		vals = append(vals, s)
	}
	return strings.Join(vals, ", ")
}
