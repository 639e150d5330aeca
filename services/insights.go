package services

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"perfume-dashboard/models"
	"perfume-dashboard/utils"
)

const reportTopBrands = 5

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(listings []*models.Listing) *models.InsightReport {
	report := &models.InsightReport{
		Summary:            Summarize(listings),
		Composition:        CategoryComposition(listings),
		TopBrands:          TopBrandsByVolume(listings, reportTopBrands),
		ListingsByLocation: make(map[string]int),
	}

	if len(listings) == 0 {
		return report
	}

	report.MinPrice = listings[0].Price
	report.MaxPrice = listings[0].Price
	report.MostExpensive = listings[0]
	for _, l := range listings {
		if l.Price < report.MinPrice {
			report.MinPrice = l.Price
		}
		if l.Price > report.MaxPrice {
			report.MaxPrice = l.Price
			report.MostExpensive = l
		}
		if l.Location.Valid && l.Location.String != "" {
			report.ListingsByLocation[l.Location.String]++
		}
	}
	report.Summary.MeanPrice = round2(report.Summary.MeanPrice)

	s.logger.Debug("[insights] Report over %d listings, %d locations",
		len(listings), len(report.ListingsByLocation))
	return report
}

func (s *InsightService) Print(w io.Writer, title string, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  🧴 %s\033[0m\n", strings.ToUpper(title))
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total listings   : \033[1m%d\033[0m\n", r.Summary.Count)
	fmt.Fprintf(w, "  Units sold       : \033[1m%d\033[0m\n", r.Summary.TotalSold)
	fmt.Fprintf(w, "  Distinct brands  : \033[1m%d\033[0m\n", r.Summary.DistinctBrands)
	for _, c := range r.Composition {
		fmt.Fprintf(w, "  %-16s : \033[1m%d\033[0m\n", c.Label, c.Count)
	}
	if r.Summary.UnparsedPrice > 0 || r.Summary.UnparsedSold > 0 {
		fmt.Fprintf(w, "  Unparsed price/sold text : %d / %d (counted as 0)\n",
			r.Summary.UnparsedPrice, r.Summary.UnparsedSold)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Price Statistics\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.Summary.Count > 0 {
		fmt.Fprintf(w, "  Average price : \033[1;32m$%.2f\033[0m\n", r.Summary.MeanPrice)
		fmt.Fprintf(w, "  Minimum price : \033[1;32m$%.2f\033[0m\n", r.MinPrice)
		fmt.Fprintf(w, "  Maximum price : \033[1;32m$%.2f\033[0m\n", r.MaxPrice)
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	if r.MostExpensive != nil {
		fmt.Fprintf(w, "\033[1;33m  Most Expensive Listing\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", truncate(r.MostExpensive.Title.String, 50))
		fmt.Fprintf(w, "  Brand : %s\n", r.MostExpensive.BrandLabel())
		fmt.Fprintf(w, "  Price : \033[1;31m$%.2f\033[0m\n", r.MostExpensive.Price)
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\033[1;33m  Top %d Brands by Units Sold\033[0m\n", reportTopBrands)
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TopBrands) == 0 {
		fmt.Fprintf(w, "  No brand data\n")
	} else {
		for i, b := range r.TopBrands {
			fmt.Fprintf(w, "  \033[1m%d.\033[0m %-40s \033[1;32m%d\033[0m\n",
				i+1, truncate(b.Brand, 38), b.Sold)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Listings by Location\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ListingsByLocation) == 0 {
		fmt.Fprintf(w, "  No location data\n")
	} else {
		for _, lc := range topLocations(r.ListingsByLocation, 10) {
			bar := strings.Repeat("█", barWidth(lc.count, r.Summary.Count, 20))
			fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(lc.loc, 28), bar, lc.count)
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

type locCount struct {
	loc   string
	count int
}

// topLocations sorts by count descending, then name, and keeps the first n.
func topLocations(m map[string]int, n int) []locCount {
	locs := make([]locCount, 0, len(m))
	for loc, cnt := range m {
		locs = append(locs, locCount{loc, cnt})
	}
	sort.Slice(locs, func(i, j int) bool {
		if locs[i].count != locs[j].count {
			return locs[i].count > locs[j].count
		}
		return locs[i].loc < locs[j].loc
	})
	if len(locs) > n {
		locs = locs[:n]
	}
	return locs
}

// barWidth scales count against total onto at most width cells, minimum 1.
func barWidth(count, total, width int) int {
	if total <= 0 {
		return 0
	}
	n := int(math.Round(float64(count) / float64(total) * float64(width)))
	if n < 1 {
		n = 1
	}
	return n
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
