package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var (
	ErrEmptyFile     = errors.New("file is empty")
	ErrInvalidHeader = errors.New("invalid header format, expected: S. No, Product Name, Input Image Urls")
)

var expectedHeader = []string{"sno", "productname", "inputimageurls"}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// ProductRow is one validated data row of an uploaded spreadsheet.
type ProductRow struct {
	SerialNumber   string
	ProductName    string
	InputImageURLs string
}

// normalize strips non-alphanumeric characters and lowercases, so headers
// like "S. No", " Product-Name " and "InputImageURLs" all match their
// canonical form.
func normalize(text string) string {
	return strings.ToLower(nonAlphanumeric.ReplaceAllString(text, ""))
}

func validateHeader(header []string) error {
	if len(header) != len(expectedHeader) {
		return ErrInvalidHeader
	}
	for i, col := range header {
		if normalize(col) != expectedHeader[i] {
			return ErrInvalidHeader
		}
	}
	return nil
}

func toRow(record []string, line int) (ProductRow, error) {
	if len(record) != 3 {
		return ProductRow{}, fmt.Errorf("row %d has %d columns, expected exactly 3", line, len(record))
	}
	return ProductRow{
		SerialNumber:   strings.TrimSpace(record[0]),
		ProductName:    strings.TrimSpace(record[1]),
		InputImageURLs: strings.TrimSpace(record[2]),
	}, nil
}

// ParseCSV validates the header row and returns one ProductRow per data
// row, in file order.
func ParseCSV(r io.Reader) ([]ProductRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	var rows []ProductRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", line+1, err)
		}
		line++
		row, err := toRow(record, line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}
