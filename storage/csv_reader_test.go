package storage

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfume-dashboard/models"
)

const sampleCSV = `brand,title,price,available,sold,itemLocation,extra
Dior,Sauvage EDT 100ml,$89.99,5 available,120 sold,"New York, USA",x
,Unbranded Oud,$12.50,,N/A,Dubai,y
Chanel,Bleu de Chanel,"$1,020.00",More than 10 available,,Paris,z
`

func TestReadListingsMapsColumnsAndNulls(t *testing.T) {
	rows, err := ReadListings(strings.NewReader(sampleCSV), models.CategoryMale)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	first := rows[0]
	assert.Equal(t, "Dior", first.Brand.String)
	assert.True(t, first.Brand.Valid)
	assert.Equal(t, "Sauvage EDT 100ml", first.Title.String)
	assert.Equal(t, "$89.99", first.PriceText.String)
	assert.Equal(t, "5 available", first.Available.String)
	assert.Equal(t, "120 sold", first.SoldText.String)
	assert.Equal(t, "New York, USA", first.Location.String)
	assert.Equal(t, models.CategoryMale, first.Category)

	second := rows[1]
	assert.False(t, second.Brand.Valid, "empty brand cell should be null")
	assert.False(t, second.Available.Valid)
	assert.False(t, second.SoldText.Valid, "N/A should be read as null")

	third := rows[2]
	assert.Equal(t, "$1,020.00", third.PriceText.String)
	assert.False(t, third.SoldText.Valid)
}

func TestReadListingsPreservesOrder(t *testing.T) {
	rows, err := ReadListings(strings.NewReader(sampleCSV), models.CategoryFemale)
	require.NoError(t, err)

	titles := make([]string, len(rows))
	for i, r := range rows {
		titles[i] = r.Title.String
		assert.Equal(t, models.CategoryFemale, r.Category)
	}
	assert.Equal(t, []string{"Sauvage EDT 100ml", "Unbranded Oud", "Bleu de Chanel"}, titles)
}

func TestReadListingsHeaderOnly(t *testing.T) {
	rows, err := ReadListings(strings.NewReader("brand,title,price,available,sold,itemLocation\n"), models.CategoryMale)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadListingsStripsBOM(t *testing.T) {
	in := "\ufeffbrand,title,price,available,sold,itemLocation\nA,T,$1,,1 sold,X\n"
	rows, err := ReadListings(strings.NewReader(in), models.CategoryMale)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].Brand.String)
}

func TestReadListingsPadsShortRows(t *testing.T) {
	in := "brand,title,price,available,sold,itemLocation\nA,x,$1,1\nB,y,$2,3,4 sold,Lima\nC\n"
	rows, err := ReadListings(strings.NewReader(in), models.CategoryMale)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "$1", rows[0].PriceText.String)
	assert.Equal(t, "1", rows[0].Available.String)
	assert.False(t, rows[0].SoldText.Valid, "missing trailing cell should be null")
	assert.False(t, rows[0].Location.Valid)

	assert.Equal(t, "Lima", rows[1].Location.String)

	assert.Equal(t, "C", rows[2].Brand.String)
	assert.False(t, rows[2].Title.Valid)
	assert.False(t, rows[2].PriceText.Valid)
}

func TestReadListingsSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"missing column", "brand,title,price,available,sold\nA,B,C,D,E\n"},
		{"duplicate column", "brand,brand,title,price,available,sold,itemLocation\nA,A,B,C,D,E,F\n"},
		{"row too long", "brand,title,price,available,sold,itemLocation\nA,B,C,D,E,F,G\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadListings(strings.NewReader(tt.in), models.CategoryMale)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSchema), "got %v", err)
		})
	}
}
