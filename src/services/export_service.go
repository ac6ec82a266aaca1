package services

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/username/noonfolio/src/models"
)

// maxSheetNameLen is the workbook format's hard sheet-name limit.
const maxSheetNameLen = 31

type exportServiceImpl struct{}

func NewExportService() ExportService {
	return &exportServiceImpl{}
}

// BuildWorkbook serializes the three channel tables into one xlsx blob with
// the fixed sheet names FBB / FBN / OTHER. Numeric cells are written as
// numbers so a reload sees the same values.
func (e *exportServiceImpl) BuildWorkbook(report *models.CommissionReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name  string
		table *models.Table
	}{
		{string(models.ChannelFBB), report.FBB},
		{string(models.ChannelFBN), report.FBN},
		{string(models.ChannelOther), report.Other},
	}

	for i, sheet := range sheets {
		name := sheet.name
		if len(name) > maxSheetNameLen {
			name = name[:maxSheetNameLen]
		}
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return nil, fmt.Errorf("failed to rename sheet %q: %w", name, err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("failed to create sheet %q: %w", name, err)
			}
		}
		if err := writeTable(f, name, sheet.table); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTable(f *excelize.File, sheet string, table *models.Table) error {
	if table == nil {
		return nil
	}
	for c, col := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return fmt.Errorf("failed to write header for sheet %q: %w", sheet, err)
		}
	}
	for r, row := range table.Rows {
		for c, col := range table.Columns {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, row[col]); err != nil {
				return fmt.Errorf("failed to write row %d for sheet %q: %w", r+1, sheet, err)
			}
		}
	}
	return nil
}
