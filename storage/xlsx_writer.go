package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"perfume-dashboard/models"
)

// SheetName is the worksheet holding exported listings.
const SheetName = "Datos"

// XLSXWriter builds a workbook of normalized listings, one row per listing.
type XLSXWriter struct {
	file   *excelize.File
	stream *excelize.StreamWriter
	row    int
}

// NewXLSXWriter creates an in-memory workbook with the header row written.
func NewXLSXWriter() (*XLSXWriter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsx: stream writer: %w", err)
	}

	header := make([]interface{}, len(models.DisplayColumns))
	for i, name := range models.DisplayColumns {
		header[i] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsx: write header: %w", err)
	}

	return &XLSXWriter{file: f, stream: sw, row: 1}, nil
}

// Write appends the listings. Numeric columns are stored as numbers.
func (x *XLSXWriter) Write(listings []*models.Listing) error {
	for _, l := range listings {
		x.row++
		cell, err := excelize.CoordinatesToCellName(1, x.row)
		if err != nil {
			return fmt.Errorf("xlsx: cell name: %w", err)
		}
		values := []interface{}{
			nullable(l.Brand.String, l.Brand.Valid),
			nullable(l.Title.String, l.Title.Valid),
			nullable(l.PriceText.String, l.PriceText.Valid),
			nullable(l.Available.String, l.Available.Valid),
			nullable(l.SoldText.String, l.SoldText.Valid),
			nullable(l.Location.String, l.Location.Valid),
			l.Category.Label(),
			l.Price,
			l.Sold,
		}
		if err := x.stream.SetRow(cell, values); err != nil {
			return fmt.Errorf("xlsx: write row %d: %w", x.row, err)
		}
	}
	return nil
}

// WriteTo flushes the sheet and serializes the workbook to w.
func (x *XLSXWriter) WriteTo(w io.Writer) (int64, error) {
	if err := x.stream.Flush(); err != nil {
		return 0, fmt.Errorf("xlsx: flush: %w", err)
	}
	n, err := x.file.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("xlsx: write workbook: %w", err)
	}
	return n, nil
}

// SaveAs flushes the sheet and writes the workbook to path.
func (x *XLSXWriter) SaveAs(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("xlsx: create output dir: %w", err)
	}
	if err := x.stream.Flush(); err != nil {
		return fmt.Errorf("xlsx: flush: %w", err)
	}
	if err := x.file.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", path, err)
	}
	return nil
}

func (x *XLSXWriter) Close() error {
	return x.file.Close()
}

func nullable(s string, valid bool) interface{} {
	if !valid {
		return nil
	}
	return s
}
