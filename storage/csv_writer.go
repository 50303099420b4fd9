package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"product-extractor/internal/types"
)

var csvHeader = []string{"url", "site", "title", "price", "rating", "availability", "extracted_at"}

// CSVWriter appends extraction results to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter opens the CSV file at path for appending, creating it and its
// directories if needed. The header row is written only to a new or empty file.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("csv: open file %q: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: stat file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	if info.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("csv: write header: %w", err)
		}
		w.Flush()
	}

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends one row per result
func (c *CSVWriter) Write(results []*types.ExtractionResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range results {
		row := []string{
			r.URL,
			r.Site,
			r.Product.Title,
			r.Product.Price,
			r.Product.Rating,
			r.Product.Availability,
			r.ExtractedAt.Format(time.RFC3339),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
