package models

import (
	"database/sql"
	"strings"
)

// Category is the gender partition a listing belongs to. It is assigned from
// the source file a row was read from, never from the row's content.
type Category string

const (
	CategoryMale   Category = "Male"
	CategoryFemale Category = "Female"
	// CategoryAll is only valid as a filter value.
	CategoryAll Category = "All"
)

// Label returns the dashboard display label for the category.
func (c Category) Label() string {
	switch c {
	case CategoryMale:
		return "Hombre"
	case CategoryFemale:
		return "Mujer"
	default:
		return "Ambos"
	}
}

// ParseCategory accepts the English values and the dashboard's Spanish labels,
// case-insensitively. Empty input means All.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "ambos", "both":
		return CategoryAll, true
	case "male", "hombre", "men":
		return CategoryMale, true
	case "female", "mujer", "women":
		return CategoryFemale, true
	}
	return "", false
}

// MissingBrandLabel is what an absent brand renders as in brand pickers.
const MissingBrandLabel = "nan"

// Source column names expected in every input file.
const (
	ColBrand     = "brand"
	ColTitle     = "title"
	ColPrice     = "price"
	ColAvailable = "available"
	ColSold      = "sold"
	ColLocation  = "itemLocation"
)

// SourceColumns lists the canonical source columns in file order.
var SourceColumns = []string{ColBrand, ColTitle, ColPrice, ColAvailable, ColSold, ColLocation}

// DisplayColumns are the presentation names used by exports and the raw data table.
var DisplayColumns = []string{
	"Marca", "Titulo", "Precio_Texto", "Disponibles", "Vendidos_Texto", "Ubicacion",
	"Genero", "Precio", "Vendidos",
}

// RawListing is one source row after the canonical rename. Null fields are
// cells that were empty or NA in the source file.
type RawListing struct {
	Brand     sql.NullString
	Title     sql.NullString
	PriceText sql.NullString
	Available sql.NullString
	SoldText  sql.NullString
	Location  sql.NullString
	Category  Category
}

// Listing is a normalized row of the unified table. Listings are shared
// read-only between views and must not be modified after cleaning.
type Listing struct {
	Row       int
	Brand     sql.NullString
	Title     sql.NullString
	PriceText sql.NullString
	Available sql.NullString
	SoldText  sql.NullString
	Location  sql.NullString
	Category  Category

	Price       float64
	Sold        int
	PriceParsed bool
	SoldParsed  bool
}

// BrandLabel returns the brand, or MissingBrandLabel when absent.
func (l *Listing) BrandLabel() string {
	if !l.Brand.Valid {
		return MissingBrandLabel
	}
	return l.Brand.String
}

// Dataset is the unified, normalized table built once per source signature.
type Dataset struct {
	Signature string
	Listings  []*Listing
	MaleRows  int
	// FemaleRows counts rows from the second source.
	FemaleRows int
}

// Len returns the number of rows in the unified table.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Listings)
}

// ListingRecord is the presentation form of a Listing, keyed by display
// column names. Null source cells are nil.
type ListingRecord struct {
	Row       int     `json:"row"`
	Brand     *string `json:"Marca"`
	Title     *string `json:"Titulo"`
	PriceText *string `json:"Precio_Texto"`
	Available *string `json:"Disponibles"`
	SoldText  *string `json:"Vendidos_Texto"`
	Location  *string `json:"Ubicacion"`
	Category  string  `json:"Genero"`
	Price     float64 `json:"Precio"`
	Sold      int     `json:"Vendidos"`
}

// Record converts the listing for display.
func (l *Listing) Record() ListingRecord {
	return ListingRecord{
		Row:       l.Row,
		Brand:     nullable(l.Brand),
		Title:     nullable(l.Title),
		PriceText: nullable(l.PriceText),
		Available: nullable(l.Available),
		SoldText:  nullable(l.SoldText),
		Location:  nullable(l.Location),
		Category:  l.Category.Label(),
		Price:     l.Price,
		Sold:      l.Sold,
	}
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
