package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"perfume-dashboard/models"
)

func fixtureTable() []*models.Listing {
	return numbered(
		listing("Dior", "Sauvage", models.CategoryMale, 90, 30),
		listing("Armani", "Code", models.CategoryMale, 60, 50),
		listing("Dior", "Homme", models.CategoryMale, 110, 20),
		listing("", "Unbranded", models.CategoryMale, 15, 100),
		listing("Chanel", "No 5", models.CategoryFemale, 150, 50),
		listing("Lancome", "Idole", models.CategoryFemale, 70, 5),
		listing("Dior", "J'adore", models.CategoryFemale, 400, 0),
	)
}

func TestFilterByCategory(t *testing.T) {
	table := fixtureTable()
	tests := []struct {
		cat  models.Category
		want int
	}{
		{models.CategoryAll, 7},
		{"", 7},
		{models.CategoryMale, 4},
		{models.CategoryFemale, 3},
	}
	for _, tt := range tests {
		got := FilterByCategory(table, tt.cat)
		if len(got) != tt.want {
			t.Errorf("FilterByCategory(%q): got %d rows, want %d", tt.cat, len(got), tt.want)
		}
		for _, l := range got {
			if tt.cat == models.CategoryMale || tt.cat == models.CategoryFemale {
				if l.Category != tt.cat {
					t.Errorf("FilterByCategory(%q): row %d has category %s", tt.cat, l.Row, l.Category)
				}
			}
		}
	}
}

func TestFilterDoesNotMutateBase(t *testing.T) {
	table := fixtureTable()
	out := FilterByCategory(table, models.CategoryAll)
	out[0] = nil
	assert.NotNil(t, table[0])
}

func TestFilterByPriceCeilingIsStrict(t *testing.T) {
	got := FilterByPriceCeiling(fixtureTable(), 110)
	for _, l := range got {
		if l.Price >= 110 {
			t.Errorf("row %d: price %v not below ceiling", l.Row, l.Price)
		}
	}
	assert.Len(t, got, 4)
	assert.Empty(t, FilterByPriceCeiling(fixtureTable(), 0))
}

func TestFilterByBrandSubset(t *testing.T) {
	table := fixtureTable()

	assert.Empty(t, FilterByBrandSubset(table, nil))
	assert.Empty(t, FilterByBrandSubset(table, []string{}))

	dior := FilterByBrandSubset(table, []string{"Dior"})
	assert.Len(t, dior, 3)

	branded := numbered(
		listing("Dior", "a", models.CategoryMale, 1, 1),
		listing("Chanel", "b", models.CategoryFemale, 1, 1),
	)
	assert.Equal(t, branded, FilterByBrandSubset(branded, []string{"Chanel", "Dior"}))

	// Null brands match nothing, not even the "nan" display label.
	assert.Len(t, FilterByBrandSubset(table, []string{models.MissingBrandLabel}), 0)
}

func TestApplyFilter(t *testing.T) {
	ceiling := 100.0
	got := ApplyFilter(fixtureTable(), models.FilterContext{
		Category:     models.CategoryMale,
		PriceCeiling: &ceiling,
		Brands:       []string{"Dior", "Armani"},
	})
	titles := make([]string, len(got))
	for i, l := range got {
		titles[i] = l.Title.String
	}
	assert.Equal(t, []string{"Sauvage", "Code"}, titles)

	assert.Len(t, ApplyFilter(fixtureTable(), models.FilterContext{Category: models.CategoryAll}), 7)
	assert.Empty(t, ApplyFilter(fixtureTable(), models.FilterContext{Brands: []string{}}))
}

func TestSummarize(t *testing.T) {
	m := Summarize(fixtureTable())
	assert.Equal(t, 7, m.Count)
	assert.InDelta(t, 895.0/7, m.MeanPrice, 1e-9)
	assert.Equal(t, 255, m.TotalSold)
	assert.Equal(t, 4, m.DistinctBrands)
	assert.Zero(t, m.UnparsedPrice)
}

func TestSummarizeEmpty(t *testing.T) {
	m := Summarize(nil)
	if m.Count != 0 || m.TotalSold != 0 || m.DistinctBrands != 0 || m.MeanPrice != 0 {
		t.Errorf("Summarize(nil) = %+v; want zero metrics", m)
	}
}

func TestSummarizeCountsUnparsed(t *testing.T) {
	table := fixtureTable()
	table[0].PriceParsed = false
	table[1].SoldParsed = false
	table[2].SoldParsed = false
	m := Summarize(table)
	assert.Equal(t, 1, m.UnparsedPrice)
	assert.Equal(t, 2, m.UnparsedSold)
}

func TestTopBrandsByVolume(t *testing.T) {
	got := TopBrandsByVolume(fixtureTable(), 10)
	// Dior, Armani and Chanel tie at 50 and keep first-appearance order.
	want := []models.BrandVolume{
		{Brand: "Dior", Sold: 50},
		{Brand: "Armani", Sold: 50},
		{Brand: "Chanel", Sold: 50},
		{Brand: "Lancome", Sold: 5},
	}
	assert.Equal(t, want, got)

	for i := 1; i < len(got); i++ {
		if got[i].Sold > got[i-1].Sold {
			t.Errorf("not descending at %d: %d > %d", i, got[i].Sold, got[i-1].Sold)
		}
	}
}

func TestTopBrandsByVolumeLimit(t *testing.T) {
	assert.Len(t, TopBrandsByVolume(fixtureTable(), 2), 2)
	assert.Empty(t, TopBrandsByVolume(fixtureTable(), 0))
	assert.Empty(t, TopBrandsByVolume(fixtureTable(), -3))
	assert.Empty(t, TopBrandsByVolume(nil, 5))
}

func TestTopBrandsByVolumeTiesAreStable(t *testing.T) {
	table := numbered(
		listing("Zeta", "a", models.CategoryMale, 1, 7),
		listing("Alpha", "b", models.CategoryMale, 1, 7),
		listing("Mid", "c", models.CategoryMale, 1, 9),
		listing("Beta", "d", models.CategoryMale, 1, 7),
	)
	got := TopBrandsByVolume(table, 3)
	assert.Equal(t, []models.BrandVolume{
		{Brand: "Mid", Sold: 9},
		{Brand: "Zeta", Sold: 7},
		{Brand: "Alpha", Sold: 7},
	}, got)
}

func TestTopProductsForBrand(t *testing.T) {
	table := numbered(
		listing("Dior", "a", models.CategoryMale, 1, 5),
		listing("Dior", "b", models.CategoryMale, 1, 9),
		listing("Chanel", "x", models.CategoryFemale, 1, 99),
		listing("Dior", "c", models.CategoryFemale, 1, 5),
		listing("Dior", "d", models.CategoryFemale, 1, 1),
	)
	got := TopProductsForBrand(table, "Dior", 3)
	titles := make([]string, len(got))
	for i, l := range got {
		titles[i] = l.Title.String
	}
	assert.Equal(t, []string{"b", "a", "c"}, titles)

	assert.Empty(t, TopProductsForBrand(table, "Nobody", 3))
	assert.Empty(t, TopProductsForBrand(table, "Dior", 0))
}

func TestCategoryComposition(t *testing.T) {
	got := CategoryComposition(fixtureTable())
	assert.Equal(t, []models.CategoryShare{
		{Category: models.CategoryMale, Label: "Hombre", Count: 4},
		{Category: models.CategoryFemale, Label: "Mujer", Count: 3},
	}, got)

	onlyFemale := FilterByCategory(fixtureTable(), models.CategoryFemale)
	assert.Len(t, CategoryComposition(onlyFemale), 1)
	assert.Empty(t, CategoryComposition(nil))
}

func TestBrandOptions(t *testing.T) {
	got := BrandOptions(fixtureTable())
	assert.Equal(t, []string{"Armani", "Chanel", "Dior", "Lancome", "nan"}, got)
	assert.Empty(t, BrandOptions(nil))
}

func TestBrandsByListingCount(t *testing.T) {
	got := BrandsByListingCount(fixtureTable(), 2)
	assert.Equal(t, []models.BrandCount{
		{Brand: "Dior", Count: 3},
		{Brand: "Armani", Count: 1},
	}, got)
	assert.Equal(t, []string{"Dior", "Armani"}, BrandNames(got))
	assert.Empty(t, BrandsByListingCount(fixtureTable(), 0))
}

func TestParsedOnly(t *testing.T) {
	table := fixtureTable()
	table[1].PriceParsed = false
	table[4].SoldParsed = false
	got := ParsedOnly(table)
	assert.Len(t, got, 5)
	for _, l := range got {
		assert.True(t, l.PriceParsed && l.SoldParsed)
	}
}

func TestProductEntries(t *testing.T) {
	table := fixtureTable()
	got := ProductEntries(table[:2])
	assert.Equal(t, []models.ProductEntry{
		{Row: 0, Title: "Sauvage", Sold: 30, Price: 90},
		{Row: 1, Title: "Code", Sold: 50, Price: 60},
	}, got)
}
