package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"product-extractor/internal/types"
)

// xlsxSheet is the worksheet holding one row per extraction
const xlsxSheet = "products"

// XLSXWriter appends extraction results to an Excel workbook. The workbook is
// saved after every Write. It is safe for concurrent use.
type XLSXWriter struct {
	mu   sync.Mutex
	path string
	file *excelize.File
	next int
}

// NewXLSXWriter opens the workbook at path, or creates it with a header row.
// Rows written later go below any rows already in the products sheet.
func NewXLSXWriter(path string) (*XLSXWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("xlsx: create output dir: %w", err)
	}

	f, err := openWorkbook(path)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(xlsxSheet)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsx: read sheet %q: %w", xlsxSheet, err)
	}

	w := &XLSXWriter{path: path, file: f, next: len(rows) + 1}
	if len(rows) == 0 {
		if err := w.appendRow(csvHeader); err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := f.SaveAs(path); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("xlsx: save %q: %w", path, err)
		}
	}

	return w, nil
}

func openWorkbook(path string) (*excelize.File, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		f := excelize.NewFile()
		if err := f.SetSheetName(f.GetSheetName(0), xlsxSheet); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("xlsx: name sheet: %w", err)
		}
		return f, nil
	} else if err != nil {
		return nil, fmt.Errorf("xlsx: stat %q: %w", path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open workbook %q: %w", path, err)
	}

	index, err := f.GetSheetIndex(xlsxSheet)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsx: find sheet %q: %w", xlsxSheet, err)
	}
	if index == -1 {
		if _, err := f.NewSheet(xlsxSheet); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("xlsx: add sheet %q: %w", xlsxSheet, err)
		}
	}
	return f, nil
}

func (x *XLSXWriter) appendRow(values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, x.next)
	if err != nil {
		return fmt.Errorf("xlsx: cell for row %d: %w", x.next, err)
	}

	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := x.file.SetSheetRow(xlsxSheet, cell, &row); err != nil {
		return fmt.Errorf("xlsx: write row %d: %w", x.next, err)
	}
	x.next++
	return nil
}

// Write appends one row per result and saves the workbook
func (x *XLSXWriter) Write(results []*types.ExtractionResult) error {
	if len(results) == 0 {
		return nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	for _, r := range results {
		if err := x.appendRow([]string{
			r.URL,
			r.Site,
			r.Product.Title,
			r.Product.Price,
			r.Product.Rating,
			r.Product.Availability,
			r.ExtractedAt.Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}

	if err := x.file.SaveAs(x.path); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", x.path, err)
	}
	return nil
}

// Close releases the workbook
func (x *XLSXWriter) Close() error {
	return x.file.Close()
}
