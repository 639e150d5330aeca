package models

// InsightReport is the terminal summary printed by the summary command.
type InsightReport struct {
	Summary     SummaryMetrics
	Composition []CategoryShare
	MinPrice    float64
	MaxPrice    float64
	// MostExpensive is nil when the table is empty.
	MostExpensive *Listing
	TopBrands     []BrandVolume
	// ListingsByLocation counts listings per item location. Rows without a
	// location are not counted.
	ListingsByLocation map[string]int
}
