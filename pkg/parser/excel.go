package parser

import (
	"errors"
	"fmt"
	"github.com/xuri/excelize/v2"
	"io"
	"strings"
)

const (
	MAX_ROWS = 1500
)

var ErrNoSheet = errors.New("workbook has no such sheet")

type XlsxOptions struct {
	Options
	// SheetName defaults to the first sheet of the workbook.
	SheetName string
	// HeaderRows rows at the top of the sheet are not results.
	HeaderRows int
}

// ParseXlsx reads a results sheet where each row holds the same columns as a text line.
// The cells of a row are joined with a space and go through the same transformation.
func (i Impl) ParseXlsx(r io.Reader, opts XlsxOptions) (*Response, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("excelize.OpenReader failed: %w", err)
	}

	defer func() {
		_ = f.Close()
	}()

	sheet := opts.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("ParseXlsx failed: %w", ErrNoSheet)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("f.GetRows failed: %q: %w", sheet, err)
	}

	if len(rows) > MAX_ROWS {
		return nil, fmt.Errorf("ParseXlsx failed: %d rows: %w", len(rows), ErrTooManyRows)
	}

	c := newCollector(opts.Options)
	for n, row := range rows {
		if n < opts.HeaderRows {
			continue
		}
		if err := c.add(n+1, strings.Join(row, " ")); err != nil {
			return nil, fmt.Errorf("ParseXlsx failed: %w", err)
		}
	}

	return c.response(), nil
}
