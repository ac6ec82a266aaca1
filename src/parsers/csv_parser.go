package parsers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/username/noonfolio/src/models"
)

type csvParserImpl struct{}

func NewCSVParser() Parser {
	return &csvParserImpl{}
}

func (p *csvParserImpl) Parse(file io.Reader) (*models.Table, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV records: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("file contains no rows")
	}
	return tableFromRecords(records), nil
}
