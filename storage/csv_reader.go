package storage

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"perfume-dashboard/models"
)

// ErrSchema is returned when a source is not a CSV with the expected columns.
var ErrSchema = errors.New("invalid source schema")

// naValues are the cell spellings read as missing, matching the usual
// dataframe CSV conventions.
var naValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// ReadListings parses a CSV with a header row into raw listings tagged with
// category. Row order is preserved. Extra columns are ignored. Rows shorter
// than the header are padded with missing cells; longer rows are rejected.
func ReadListings(r io.Reader, category models.Category) ([]*models.RawListing, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: read: %v: %w", err, ErrSchema)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv: missing header row: %w", ErrSchema)
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if missing := missingColumns(header); len(missing) > 0 {
		return nil, fmt.Errorf("csv: missing or duplicate columns %s: %w", strings.Join(missing, ", "), ErrSchema)
	}
	if len(records) == 1 {
		return []*models.RawListing{}, nil
	}
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) > len(header) {
			return nil, fmt.Errorf("csv: row %d has %d fields, header has %d: %w", i+1, len(rec), len(header), ErrSchema)
		}
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		records[i] = rec
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naValues),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("csv: load dataframe: %v: %w", df.Err, ErrSchema)
	}

	cols := make(map[string]series.Series, len(models.SourceColumns))
	for _, name := range models.SourceColumns {
		cols[name] = df.Col(name)
	}

	out := make([]*models.RawListing, 0, df.Nrow())
	cells := make(map[string]sql.NullString, len(models.SourceColumns))
	for i := 0; i < df.Nrow(); i++ {
		for name, col := range cols {
			elem := col.Elem(i)
			if elem.IsNA() {
				cells[name] = sql.NullString{}
			} else {
				cells[name] = sql.NullString{String: elem.String(), Valid: true}
			}
		}
		out = append(out, MapRecord(cells, category))
	}
	return out, nil
}

// MapRecord is the single mapping from source columns to the typed record.
// Columns absent from cells map to null.
func MapRecord(cells map[string]sql.NullString, category models.Category) *models.RawListing {
	return &models.RawListing{
		Brand:     cells[models.ColBrand],
		Title:     cells[models.ColTitle],
		PriceText: cells[models.ColPrice],
		Available: cells[models.ColAvailable],
		SoldText:  cells[models.ColSold],
		Location:  cells[models.ColLocation],
		Category:  category,
	}
}

// missingColumns reports canonical columns that are absent or duplicated.
// Duplicates count as missing since the dataframe suffixes repeated names.
func missingColumns(header []string) []string {
	present := make(map[string]int, len(header))
	for _, h := range header {
		present[h]++
	}
	var missing []string
	for _, c := range models.SourceColumns {
		if present[c] != 1 {
			missing = append(missing, c)
		}
	}
	return missing
}
