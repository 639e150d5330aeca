package charts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfume-dashboard/models"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func assertImage(t *testing.T, f Format, b []byte) {
	t.Helper()
	require.NotEmpty(t, b)
	if f == PNG {
		assert.True(t, bytes.HasPrefix(b, pngMagic), "expected PNG header")
	} else {
		assert.Contains(t, string(b), "<svg")
	}
}

func sampleBoxes() []models.BoxStats {
	return []models.BoxStats{
		{Group: "Dior", Count: 5, Min: 10, Q1: 11, Median: 12, Q3: 13, Max: 100, LowerWhisker: 10, UpperWhisker: 13, Outliers: []float64{100}},
		{Group: "Chanel", Count: 1, Min: 40, Q1: 40, Median: 40, Q3: 40, Max: 40, LowerWhisker: 40, UpperWhisker: 40},
	}
}

func sampleViolin() models.ViolinView {
	return models.ViolinView{
		Ceiling: 300,
		Groups: []models.ViolinGroup{
			{
				Category: models.CategoryMale, Label: "Hombre",
				Box:     models.BoxStats{Group: "Hombre", Min: 10, Q1: 20, Median: 30, Q3: 40, Max: 50, LowerWhisker: 10, UpperWhisker: 50},
				Density: []models.DensityPoint{{Price: 10, Density: 0.01}, {Price: 30, Density: 0.03}, {Price: 50, Density: 0.01}},
			},
			{
				Category: models.CategoryFemale, Label: "Mujer",
				Box:     models.BoxStats{Group: "Mujer", Min: 60, Q1: 60, Median: 60, Q3: 60, Max: 60, LowerWhisker: 60, UpperWhisker: 60},
				Density: []models.DensityPoint{{Price: 60, Density: 0.4}},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, ok := ParseFormat("SVG")
	assert.True(t, ok)
	assert.Equal(t, SVG, f)
	assert.Equal(t, "image/svg+xml", f.ContentType())
	assert.Equal(t, "image/png", PNG.ContentType())

	_, ok = ParseFormat("gif")
	assert.False(t, ok)
}

func TestRenderCharts(t *testing.T) {
	r := NewRenderer(640, 360)
	renders := map[string]func(*bytes.Buffer, Format) error{
		"composition": func(b *bytes.Buffer, f Format) error {
			return r.Composition(b, f, []models.CategoryShare{
				{Category: models.CategoryMale, Label: "Hombre", Count: 3},
				{Category: models.CategoryFemale, Label: "Mujer", Count: 2},
			})
		},
		"brand ranking": func(b *bytes.Buffer, f Format) error {
			return r.Ranking(b, f, models.RankingView{Brands: []models.BrandVolume{{Brand: "Dior", Sold: 50}, {Brand: "Chanel", Sold: 20}}})
		},
		"product ranking": func(b *bytes.Buffer, f Format) error {
			return r.Ranking(b, f, models.RankingView{Brand: "Dior", Products: []models.ProductEntry{{Title: "Sauvage Eau de Toilette 100ml", Sold: 7}}})
		},
		"box": func(b *bytes.Buffer, f Format) error {
			return r.Box(b, f, sampleBoxes())
		},
		"strip": func(b *bytes.Buffer, f Format) error {
			return r.Strip(b, f, []models.StripPoint{
				{Brand: "Dior", Price: 90, Category: models.CategoryMale},
				{Brand: "Dior", Price: 120, Category: models.CategoryFemale},
				{Brand: "Chanel", Price: 150, Category: models.CategoryFemale},
			}, []string{"Dior", "Chanel"})
		},
		"violin": func(b *bytes.Buffer, f Format) error {
			return r.Violin(b, f, sampleViolin())
		},
	}

	for name, render := range renders {
		for _, f := range []Format{PNG, SVG} {
			t.Run(name+"/"+string(f), func(t *testing.T) {
				var buf bytes.Buffer
				require.NoError(t, render(&buf, f))
				assertImage(t, f, buf.Bytes())
			})
		}
	}
}

func TestEmptyViewsRenderPlaceholder(t *testing.T) {
	r := &Renderer{}
	renders := map[string]func(*bytes.Buffer) error{
		"composition": func(b *bytes.Buffer) error { return r.Composition(b, SVG, nil) },
		"zero shares": func(b *bytes.Buffer) error {
			return r.Composition(b, SVG, []models.CategoryShare{{Category: models.CategoryMale, Count: 0}})
		},
		"ranking":      func(b *bytes.Buffer) error { return r.Ranking(b, SVG, models.RankingView{}) },
		"zero ranking": func(b *bytes.Buffer) error { return r.Ranking(b, SVG, models.RankingView{Brands: []models.BrandVolume{{Brand: "A"}}}) },
		"box":          func(b *bytes.Buffer) error { return r.Box(b, SVG, nil) },
		"strip":        func(b *bytes.Buffer) error { return r.Strip(b, SVG, nil, []string{"A"}) },
		"violin":       func(b *bytes.Buffer) error { return r.Violin(b, SVG, models.ViolinView{Insufficient: true}) },
	}

	for name, render := range renders {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, render(&buf))
			assertImage(t, SVG, buf.Bytes())
		})
	}
}

func TestPlaceholderCarriesMessage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&Renderer{}).Violin(&buf, SVG, models.ViolinView{Insufficient: true}))
	assert.Contains(t, buf.String(), noDataMessage)
}

func TestGroupTicksPadAxis(t *testing.T) {
	ticks := groupTicks([]string{"Dior"})
	require.Len(t, ticks, 3)
	assert.Equal(t, 0.0, ticks[0].Value)
	assert.Equal(t, "Dior", ticks[1].Label)
	assert.Equal(t, 2.0, ticks[2].Value)
}

func TestPriceRangeNeverEmpty(t *testing.T) {
	r := priceRange(40, 40)
	assert.Greater(t, r.Max, r.Min)
	assert.GreaterOrEqual(t, r.Min, 0.0)
}

func TestJitterBounds(t *testing.T) {
	for k := 0; k < 50; k++ {
		j := jitter(k)
		assert.LessOrEqual(t, j, 0.3+1e-9)
		assert.GreaterOrEqual(t, j, -0.3-1e-9)
	}
}
