package services

import (
	"math"
	"sort"

	"github.com/go-gota/gota/series"

	"perfume-dashboard/models"
)

const densitySamples = 50

// PriceBoxStats returns one box per brand, in the order given. Brands with
// no listings in table are skipped.
func PriceBoxStats(table []*models.Listing, brands []string) []models.BoxStats {
	byBrand := make(map[string][]float64, len(brands))
	for _, l := range table {
		if l.Brand.Valid {
			byBrand[l.Brand.String] = append(byBrand[l.Brand.String], l.Price)
		}
	}

	out := make([]models.BoxStats, 0, len(brands))
	seen := make(map[string]struct{}, len(brands))
	for _, b := range brands {
		if _, dup := seen[b]; dup {
			continue
		}
		seen[b] = struct{}{}
		prices := byBrand[b]
		if len(prices) == 0 {
			continue
		}
		out = append(out, boxStats(b, prices))
	}
	return out
}

// boxStats computes quartiles and Tukey whiskers (1.5 IQR) for values.
// Quartiles are linearly interpolated the way the browser box plots draw them.
func boxStats(group string, values []float64) models.BoxStats {
	s := series.Floats(values)
	sorted := s.Float()
	sort.Float64s(sorted)
	st := models.BoxStats{
		Group:    group,
		Count:    len(values),
		Min:      s.Min(),
		Q1:       linearQuantile(sorted, 0.25),
		Median:   s.Median(),
		Q3:       linearQuantile(sorted, 0.75),
		Max:      s.Max(),
		Outliers: []float64{},
	}

	iqr := st.Q3 - st.Q1
	lowFence, highFence := st.Q1-1.5*iqr, st.Q3+1.5*iqr
	st.LowerWhisker, st.UpperWhisker = st.Max, st.Min
	for _, v := range values {
		if v < lowFence || v > highFence {
			st.Outliers = append(st.Outliers, v)
			continue
		}
		st.LowerWhisker = math.Min(st.LowerWhisker, v)
		st.UpperWhisker = math.Max(st.UpperWhisker, v)
	}
	return st
}

// linearQuantile interpolates between the order statistics of sorted,
// placing sample i at (i+0.5)/n.
func linearQuantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := p*float64(n) - 0.5
	if pos <= 0 {
		return sorted[0]
	}
	if pos >= float64(n-1) {
		return sorted[n-1]
	}
	lo := int(math.Floor(pos))
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// StripPoints returns one point per listing of the selected brands, in table order.
func StripPoints(table []*models.Listing, brands []string) []models.StripPoint {
	rows := FilterByBrandSubset(table, brands)
	out := make([]models.StripPoint, len(rows))
	for i, l := range rows {
		out[i] = models.StripPoint{
			Brand:    l.Brand.String,
			Price:    l.Price,
			Category: l.Category,
			Title:    l.Title.String,
		}
	}
	return out
}

// ViolinDensity compares the price distribution of each category over the
// listings priced strictly below ceiling.
func ViolinDensity(table []*models.Listing, ceiling float64) models.ViolinView {
	view := models.ViolinView{Ceiling: ceiling, Groups: []models.ViolinGroup{}}

	subset := FilterByPriceCeiling(table, ceiling)
	if len(subset) == 0 {
		view.Insufficient = true
		return view
	}

	byCategory := make(map[models.Category][]float64, 2)
	for _, l := range subset {
		byCategory[l.Category] = append(byCategory[l.Category], l.Price)
	}
	for _, c := range []models.Category{models.CategoryMale, models.CategoryFemale} {
		prices := byCategory[c]
		if len(prices) == 0 {
			continue
		}
		view.Groups = append(view.Groups, models.ViolinGroup{
			Category: c,
			Label:    c.Label(),
			Box:      boxStats(c.Label(), prices),
			Density:  kernelDensity(prices, densitySamples),
		})
	}
	return view
}

// kernelDensity estimates a Gaussian KDE with Scott's bandwidth, sampled at
// n evenly spaced prices spanning the data.
func kernelDensity(values []float64, n int) []models.DensityPoint {
	s := series.Floats(values)
	lo, hi := s.Min(), s.Max()

	h := 0.0
	if len(values) > 1 {
		h = 1.06 * s.StdDev() * math.Pow(float64(len(values)), -0.2)
	}
	if h <= 0 || math.IsNaN(h) {
		h = 1
	}

	if hi == lo {
		return []models.DensityPoint{{Price: lo, Density: gaussianSum(values, lo, h)}}
	}

	out := make([]models.DensityPoint, n)
	step := (hi - lo) / float64(n-1)
	for i := 0; i < n; i++ {
		x := lo + float64(i)*step
		out[i] = models.DensityPoint{Price: x, Density: gaussianSum(values, x, h)}
	}
	return out
}

func gaussianSum(values []float64, x, h float64) float64 {
	norm := 1 / (float64(len(values)) * h * math.Sqrt(2*math.Pi))
	var sum float64
	for _, v := range values {
		z := (x - v) / h
		sum += math.Exp(-0.5 * z * z)
	}
	return sum * norm
}
