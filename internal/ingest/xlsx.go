package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads the first sheet of a workbook and applies the same
// header and row validation as ParseCSV. Fully empty rows are skipped;
// excelize drops trailing empty cells, so a row missing its URL column
// fails the column-count check just like a short CSV row would.
func ParseXLSX(r io.Reader) ([]ProductRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	if err := validateHeader(records[0]); err != nil {
		return nil, err
	}

	var rows []ProductRow
	for i, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		row, err := toRow(record, i+2)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}
