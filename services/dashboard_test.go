package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfume-dashboard/models"
)

func newTestDashboard() *DashboardService {
	ds := &models.Dataset{Listings: fixtureTable(), MaleRows: 4, FemaleRows: 3}
	return NewDashboardService(ds, DashboardDefaults{
		TopLimit:           10,
		BoxDefaultBrands:   2,
		StripDefaultBrands: 3,
		ViolinCeiling:      300,
	}, newTestLogger())
}

func TestIsAllBrands(t *testing.T) {
	for _, in := range []string{"", "todas", "Todas", " all "} {
		if !IsAllBrands(in) {
			t.Errorf("IsAllBrands(%q) = false; want true", in)
		}
	}
	if IsAllBrands("Dior") {
		t.Errorf("IsAllBrands(Dior) = true; want false")
	}
}

func TestDashboardBuildAll(t *testing.T) {
	view := newTestDashboard().Build(DashboardRequest{})

	assert.Equal(t, models.CategoryAll, view.Category)
	assert.Equal(t, 7, view.Summary.Count)
	assert.Len(t, view.Composition, 2)
	assert.Len(t, view.Ranking.Brands, 4)
	assert.Empty(t, view.Ranking.Products)
	assert.Equal(t, []string{"Armani", "Chanel", "Dior", "Lancome", "nan"}, view.BrandOptions)
	assert.Equal(t, []string{"Dior", "Armani"}, view.BoxBrands)
	assert.Equal(t, []string{"Dior", "Armani", "Chanel"}, view.StripBrands)
	assert.Len(t, view.Box, 2)
	assert.Len(t, view.Strip, 5)
	assert.Len(t, view.Violin.Groups, 2)
}

func TestDashboardBuildCategory(t *testing.T) {
	view := newTestDashboard().Build(DashboardRequest{Category: models.CategoryFemale})

	assert.Equal(t, 3, view.Summary.Count)
	assert.Nil(t, view.Composition)
	assert.Equal(t, []string{"Chanel", "Dior", "Lancome"}, view.BrandOptions)
	require.Len(t, view.Violin.Groups, 1)
	assert.Equal(t, models.CategoryFemale, view.Violin.Groups[0].Category)
}

func TestDashboardBrandDrillDown(t *testing.T) {
	view := newTestDashboard().Build(DashboardRequest{Brand: "Dior", Limit: 2})

	assert.Equal(t, "Dior", view.Ranking.Brand)
	assert.Empty(t, view.Ranking.Brands)
	require.Len(t, view.Ranking.Products, 2)
	assert.Equal(t, "Sauvage", view.Ranking.Products[0].Title)
	assert.Equal(t, "Homme", view.Ranking.Products[1].Title)
}

func TestDashboardExplicitSelections(t *testing.T) {
	ceiling := 100.0
	view := newTestDashboard().Build(DashboardRequest{
		BoxBrands:   []string{"Chanel"},
		StripBrands: []string{},
		Ceiling:     &ceiling,
	})

	assert.Equal(t, []string{"Chanel"}, view.BoxBrands)
	require.Len(t, view.Box, 1)
	assert.Equal(t, "Chanel", view.Box[0].Group)
	assert.Empty(t, view.StripBrands)
	assert.Empty(t, view.Strip)
	assert.Equal(t, 100.0, view.Violin.Ceiling)
}

func TestDashboardBoxRespectsCategory(t *testing.T) {
	svc := newTestDashboard()
	box := svc.Box(models.CategoryMale, []string{"Dior", "Chanel"})
	require.Len(t, box, 1)
	assert.Equal(t, "Dior", box[0].Group)
	assert.Equal(t, 2, box[0].Count)
}

func TestDashboardDefaultLimit(t *testing.T) {
	svc := NewDashboardService(&models.Dataset{Listings: fixtureTable()}, DashboardDefaults{}, newTestLogger())
	assert.Equal(t, 10, svc.Defaults().TopLimit)
	assert.Len(t, svc.Ranking(models.CategoryAll, "todas", 0).Brands, 4)
	assert.Len(t, svc.Ranking(models.CategoryAll, "", 1).Brands, 1)
}
