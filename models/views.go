package models

// FilterContext is the per-request filter state chosen in the dashboard.
type FilterContext struct {
	Category     Category
	PriceCeiling *float64
	// Brands is nil when no brand selection was made. A non-nil empty slice
	// is an explicit empty selection and yields no rows.
	Brands []string
}

// SummaryMetrics holds the headline cards of the dashboard.
type SummaryMetrics struct {
	Count          int     `json:"count"`
	MeanPrice      float64 `json:"mean_price"`
	TotalSold      int     `json:"total_sold"`
	DistinctBrands int     `json:"distinct_brands"`
	UnparsedPrice  int     `json:"unparsed_price"`
	UnparsedSold   int     `json:"unparsed_sold"`
}

// BrandVolume is one entry of the brand ranking.
type BrandVolume struct {
	Brand string `json:"brand"`
	Sold  int    `json:"sold"`
}

// BrandCount is a brand with its number of listings.
type BrandCount struct {
	Brand string `json:"brand"`
	Count int    `json:"count"`
}

// CategoryShare is one slice of the market composition chart.
type CategoryShare struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Count    int      `json:"count"`
}

// ProductEntry is a listing as shown in the per-brand product ranking.
type ProductEntry struct {
	Row   int     `json:"row"`
	Title string  `json:"title"`
	Sold  int     `json:"sold"`
	Price float64 `json:"price"`
}

// BoxStats describes one box of a box plot.
type BoxStats struct {
	Group        string    `json:"group"`
	Count        int       `json:"count"`
	Min          float64   `json:"min"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	Max          float64   `json:"max"`
	LowerWhisker float64   `json:"lower_whisker"`
	UpperWhisker float64   `json:"upper_whisker"`
	Outliers     []float64 `json:"outliers"`
}

// StripPoint is one listing in the strip plot.
type StripPoint struct {
	Brand    string   `json:"brand"`
	Price    float64  `json:"price"`
	Category Category `json:"category"`
	Title    string   `json:"title"`
}

// DensityPoint is a sample of an estimated price density.
type DensityPoint struct {
	Price   float64 `json:"price"`
	Density float64 `json:"density"`
}

// ViolinGroup is the price density of one category.
type ViolinGroup struct {
	Category Category       `json:"category"`
	Label    string         `json:"label"`
	Box      BoxStats       `json:"box"`
	Density  []DensityPoint `json:"density"`
}

// ViolinView is the price density comparison between categories.
type ViolinView struct {
	Ceiling      float64       `json:"ceiling"`
	Insufficient bool          `json:"insufficient"`
	Groups       []ViolinGroup `json:"groups"`
}

// RankingView is either the brand ranking or, when a brand is selected,
// that brand's best-selling products.
type RankingView struct {
	Brand    string         `json:"brand,omitempty"`
	Brands   []BrandVolume  `json:"brands,omitempty"`
	Products []ProductEntry `json:"products,omitempty"`
}

// DashboardView is everything one dashboard render needs.
type DashboardView struct {
	Category     Category        `json:"category"`
	Summary      SummaryMetrics  `json:"summary"`
	Composition  []CategoryShare `json:"composition,omitempty"`
	Ranking      RankingView     `json:"ranking"`
	BrandOptions []string        `json:"brand_options"`
	BoxBrands    []string        `json:"box_brands"`
	Box          []BoxStats      `json:"box"`
	StripBrands  []string        `json:"strip_brands"`
	Strip        []StripPoint    `json:"strip"`
	Violin       ViolinView      `json:"violin"`
}
