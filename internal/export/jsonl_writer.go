package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"rentsurvey/internal/models"
)

// JSONLWriter writes surviving listings as one JSON object per line.
type JSONLWriter struct {
	file *os.File
	buf  *bufio.Writer
}

// NewJSONLWriter creates (or truncates) the JSONL file at the given path.
func NewJSONLWriter(path string) (*JSONLWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("jsonl: create file %q: %w", path, err)
	}
	return &JSONLWriter{file: f, buf: bufio.NewWriter(f)}, nil
}

// Write appends one line per listing.
func (j *JSONLWriter) Write(listings []*models.Listing) error {
	for _, l := range listings {
		line, err := json.Marshal(recordOf(l))
		if err != nil {
			return fmt.Errorf("jsonl: marshal record: %w", err)
		}
		if _, err := j.buf.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("jsonl: write record: %w", err)
		}
	}
	return nil
}

// Close flushes and closes the underlying file.
func (j *JSONLWriter) Close() error {
	if err := j.buf.Flush(); err != nil {
		_ = j.file.Close()
		return err
	}
	return j.file.Close()
}
