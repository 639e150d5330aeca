package services

import (
	"sort"

	"perfume-dashboard/models"
)

// The functions in this file never modify their input. Filters return new
// slices that share the (read-only) listings of the base table.

// FilterByCategory returns every row for CategoryAll, else exact matches.
func FilterByCategory(table []*models.Listing, category models.Category) []*models.Listing {
	if category == models.CategoryAll || category == "" {
		return append([]*models.Listing(nil), table...)
	}
	out := make([]*models.Listing, 0, len(table))
	for _, l := range table {
		if l.Category == category {
			out = append(out, l)
		}
	}
	return out
}

// FilterByPriceCeiling keeps rows with Price strictly below ceiling.
func FilterByPriceCeiling(table []*models.Listing, ceiling float64) []*models.Listing {
	out := make([]*models.Listing, 0, len(table))
	for _, l := range table {
		if l.Price < ceiling {
			out = append(out, l)
		}
	}
	return out
}

// FilterByBrandSubset keeps rows whose brand is in brands. Rows without a
// brand never match. An empty set yields an empty table.
func FilterByBrandSubset(table []*models.Listing, brands []string) []*models.Listing {
	set := make(map[string]struct{}, len(brands))
	for _, b := range brands {
		set[b] = struct{}{}
	}
	out := make([]*models.Listing, 0)
	if len(set) == 0 {
		return out
	}
	for _, l := range table {
		if !l.Brand.Valid {
			continue
		}
		if _, ok := set[l.Brand.String]; ok {
			out = append(out, l)
		}
	}
	return out
}

// ApplyFilter applies category, then price ceiling, then brand subset.
func ApplyFilter(table []*models.Listing, f models.FilterContext) []*models.Listing {
	out := FilterByCategory(table, f.Category)
	if f.PriceCeiling != nil {
		out = FilterByPriceCeiling(out, *f.PriceCeiling)
	}
	if f.Brands != nil {
		out = FilterByBrandSubset(out, f.Brands)
	}
	return out
}

// ParsedOnly keeps rows whose price and sold text both parsed, for
// aggregates that must not be diluted by degraded zeros.
func ParsedOnly(table []*models.Listing) []*models.Listing {
	out := make([]*models.Listing, 0, len(table))
	for _, l := range table {
		if l.PriceParsed && l.SoldParsed {
			out = append(out, l)
		}
	}
	return out
}

// Summarize computes the headline metrics. MeanPrice is 0 for an empty table.
func Summarize(table []*models.Listing) models.SummaryMetrics {
	var m models.SummaryMetrics
	m.Count = len(table)
	if m.Count == 0 {
		return m
	}

	brands := make(map[string]struct{})
	var total float64
	for _, l := range table {
		total += l.Price
		m.TotalSold += l.Sold
		if l.Brand.Valid {
			brands[l.Brand.String] = struct{}{}
		}
		if !l.PriceParsed {
			m.UnparsedPrice++
		}
		if !l.SoldParsed {
			m.UnparsedSold++
		}
	}
	m.MeanPrice = total / float64(m.Count)
	m.DistinctBrands = len(brands)
	return m
}

// TopBrandsByVolume sums Sold per brand and returns the limit best brands,
// descending. Ties keep the order in which brands first appear.
func TopBrandsByVolume(table []*models.Listing, limit int) []models.BrandVolume {
	if limit <= 0 {
		return []models.BrandVolume{}
	}

	index := make(map[string]int)
	groups := make([]models.BrandVolume, 0)
	for _, l := range table {
		if !l.Brand.Valid {
			continue
		}
		i, ok := index[l.Brand.String]
		if !ok {
			i = len(groups)
			index[l.Brand.String] = i
			groups = append(groups, models.BrandVolume{Brand: l.Brand.String})
		}
		groups[i].Sold += l.Sold
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Sold > groups[j].Sold
	})
	if len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

// TopProductsForBrand returns the brand's listings with the highest Sold,
// descending. Ties keep table order.
func TopProductsForBrand(table []*models.Listing, brand string, limit int) []*models.Listing {
	out := make([]*models.Listing, 0)
	if limit <= 0 {
		return out
	}
	for _, l := range table {
		if l.Brand.Valid && l.Brand.String == brand {
			out = append(out, l)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Sold > out[j].Sold
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CategoryComposition counts listings per category, male first. Categories
// with no rows are omitted.
func CategoryComposition(table []*models.Listing) []models.CategoryShare {
	counts := make(map[models.Category]int, 2)
	for _, l := range table {
		counts[l.Category]++
	}
	out := make([]models.CategoryShare, 0, 2)
	for _, c := range []models.Category{models.CategoryMale, models.CategoryFemale} {
		if counts[c] > 0 {
			out = append(out, models.CategoryShare{Category: c, Label: c.Label(), Count: counts[c]})
		}
	}
	return out
}

// BrandOptions returns the sorted distinct brand labels, with a missing
// brand shown as models.MissingBrandLabel.
func BrandOptions(table []*models.Listing) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, l := range table {
		label := l.BrandLabel()
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// BrandsByListingCount ranks brands by number of listings, descending, ties
// in first-appearance order. Listings without a brand are not counted.
func BrandsByListingCount(table []*models.Listing, limit int) []models.BrandCount {
	if limit <= 0 {
		return []models.BrandCount{}
	}
	index := make(map[string]int)
	out := make([]models.BrandCount, 0)
	for _, l := range table {
		if !l.Brand.Valid {
			continue
		}
		i, ok := index[l.Brand.String]
		if !ok {
			i = len(out)
			index[l.Brand.String] = i
			out = append(out, models.BrandCount{Brand: l.Brand.String})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// BrandNames extracts the brand column of a ranking.
func BrandNames(counts []models.BrandCount) []string {
	out := make([]string, len(counts))
	for i, c := range counts {
		out[i] = c.Brand
	}
	return out
}

// ProductEntries converts listings to ranking entries.
func ProductEntries(listings []*models.Listing) []models.ProductEntry {
	out := make([]models.ProductEntry, len(listings))
	for i, l := range listings {
		out[i] = models.ProductEntry{Row: l.Row, Title: l.Title.String, Sold: l.Sold, Price: l.Price}
	}
	return out
}
