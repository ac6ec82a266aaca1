package parsers

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/username/noonfolio/src/models"
)

type xlsxParserImpl struct{}

func NewXLSXParser() Parser {
	return &xlsxParserImpl{}
}

func (p *xlsxParserImpl) Parse(file io.Reader) (*models.Table, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(records) == 0 {
		return nil, errors.New("workbook contains no rows")
	}
	return tableFromRecords(records), nil
}

type xlsParserImpl struct{}

func NewXLSParser() Parser {
	return &xlsParserImpl{}
}

// legacy BIFF workbooks; the extrame/xls reader needs a seeker, so the
// stream is buffered first.
func (p *xlsParserImpl) Parse(file io.Reader) (*models.Table, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to buffer xls stream: %w", err)
	}

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open xls workbook: %w", err)
	}

	records := wb.ReadAllCells(1 << 20)
	if len(records) == 0 {
		return nil, errors.New("workbook contains no rows")
	}
	return tableFromRecords(records), nil
}
