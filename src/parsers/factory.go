package parsers

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/username/noonfolio/src/logger"
	"github.com/username/noonfolio/src/models"
)

func GetParser(filename string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return NewCSVParser(), nil
	case ".xlsx":
		return NewXLSXParser(), nil
	case ".xls":
		return NewXLSParser(), nil
	default:
		return nil, fmt.Errorf("no parser available for file: %s", filename)
	}
}

// ParseAuto is the safe reader: pick the parser by extension, and when a
// workbook turns out not to be one (mislabeled exports are common), retry the
// bytes as CSV before giving up. Unknown extensions go straight to CSV.
func ParseAuto(data []byte, filename string) (*models.Table, error) {
	parser, err := GetParser(filename)
	if err != nil {
		parser = NewCSVParser()
	}

	table, parseErr := parser.Parse(bytes.NewReader(data))
	if parseErr == nil {
		return table, nil
	}

	if _, isCSV := parser.(*csvParserImpl); !isCSV {
		logger.L.Warn("Workbook parse failed, retrying as CSV", "filename", filename, "error", parseErr)
		if table, err := NewCSVParser().Parse(bytes.NewReader(data)); err == nil {
			return table, nil
		}
	}
	return nil, parseErr
}
