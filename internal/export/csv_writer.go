package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"rentsurvey/internal/models"
)

// CSVWriter writes surviving listings to a CSV file with a header row.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row.
func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(recordFields); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()
	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends one row per listing in export column order.
func (c *CSVWriter) Write(listings []*models.Listing) error {
	for _, l := range listings {
		record := recordOf(l)
		row := make([]string, len(recordFields))
		for i, field := range recordFields {
			row[i] = cellString(record[field])
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
