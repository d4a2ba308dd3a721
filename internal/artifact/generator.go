package artifact

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ffaiyaz23/image-processor/internal/store"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

var columns = []string{"S. No", "Product Name", "Input Image Urls", "Output Image Urls"}

// Generator writes the downloadable summary file for a job: one row per
// product in load order, header row first. Generation is idempotent per
// job id: if the file already exists on disk it is left untouched.
type Generator struct {
	store     store.Store
	outputDir string
}

func NewGenerator(st store.Store, outputDir string) *Generator {
	return &Generator{store: st, outputDir: outputDir}
}

func (g *Generator) CSVPath(jobID uuid.UUID) string {
	return filepath.Join(g.outputDir, jobID.String()+"_output.csv")
}

func (g *Generator) XLSXPath(jobID uuid.UUID) string {
	return filepath.Join(g.outputDir, jobID.String()+"_output.xlsx")
}

func (g *Generator) GenerateCSV(jobID uuid.UUID) (string, error) {
	path := g.CSVPath(jobID)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	products, err := g.store.ListProducts(jobID)
	if err != nil {
		return "", fmt.Errorf("failed to list products: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(columns); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write header: %w", err)
	}
	for _, p := range products {
		record := []string{p.SerialNumber, p.ProductName, p.InputImageURLs, p.OutputImageURLs}
		if err := writer.Write(record); err != nil {
			f.Close()
			return "", fmt.Errorf("failed to write row %d: %w", p.Position, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to flush output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close output file: %w", err)
	}

	return path, nil
}

func (g *Generator) GenerateXLSX(jobID uuid.UUID) (string, error) {
	path := g.XLSXPath(jobID)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	products, err := g.store.ListProducts(jobID)
	if err != nil {
		return "", fmt.Errorf("failed to list products: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Products"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return "", err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for row, p := range products {
		record := []string{p.SerialNumber, p.ProductName, p.InputImageURLs, p.OutputImageURLs}
		for col, v := range record {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	return path, nil
}
