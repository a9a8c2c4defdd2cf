package export

import (
	"fmt"
	"github.com/Geniuskaa/race_results/pkg/parser"
	"github.com/xuri/excelize/v2"
)

const (
	DEFAULT_SHEET = "Sheet1"
	EXPORT_SHEET  = "Results"
)

var header = []interface{}{"Place", "Bib", "Last", "First", "Grade", "School", "Time", "Score"}

// Xlsx lays the result lines out as a workbook, one field per cell under a header row.
func Xlsx(lines []parser.Line) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName(DEFAULT_SHEET, EXPORT_SHEET)

	if err := f.SetSheetRow(EXPORT_SHEET, "A1", &header); err != nil {
		return nil, fmt.Errorf("f.SetSheetRow failed: %w", err)
	}

	for i, l := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("excelize.CoordinatesToCellName failed: %w", err)
		}
		row := make([]interface{}, len(l.Fields))
		for j, v := range l.Fields {
			row[j] = v
		}
		if err := f.SetSheetRow(EXPORT_SHEET, cell, &row); err != nil {
			return nil, fmt.Errorf("f.SetSheetRow failed: %w", err)
		}
	}

	return f, nil
}

func WriteXlsx(path string, lines []parser.Line) error {
	f, err := Xlsx(lines)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("f.SaveAs failed: %w", err)
	}
	return nil
}
