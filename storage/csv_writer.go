package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"perfume-dashboard/models"
)

// CSVWriter writes normalized listings as CSV using the display column names.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	c, err := newCSVWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	c.file = f
	return c, nil
}

// NewCSVStream writes to an arbitrary writer, e.g. an HTTP response.
// Close flushes but does not close w.
func NewCSVStream(w io.Writer) (*CSVWriter, error) {
	return newCSVWriter(w)
}

func newCSVWriter(w io.Writer) (*CSVWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.DisplayColumns); err != nil {
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	cw.Flush()
	return &CSVWriter{writer: cw}, nil
}

// Write appends the listings in order.
func (c *CSVWriter) Write(listings []*models.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range listings {
		if err := c.writer.Write(listingRecord(l)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file, if any.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	if c.file == nil {
		return c.writer.Error()
	}
	return c.file.Close()
}

// listingRecord renders a listing in DisplayColumns order. Null cells are empty.
func listingRecord(l *models.Listing) []string {
	return []string{
		l.Brand.String,
		l.Title.String,
		l.PriceText.String,
		l.Available.String,
		l.SoldText.String,
		l.Location.String,
		l.Category.Label(),
		strconv.FormatFloat(l.Price, 'f', -1, 64),
		strconv.Itoa(l.Sold),
	}
}
