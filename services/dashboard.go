package services

import (
	"strings"

	"perfume-dashboard/models"
	"perfume-dashboard/utils"
)

// DashboardDefaults are the widget defaults of the dashboard.
type DashboardDefaults struct {
	TopLimit           int
	BoxDefaultBrands   int
	StripDefaultBrands int
	ViolinCeiling      float64
}

// DashboardRequest is the UI state of one render.
type DashboardRequest struct {
	Category models.Category `json:"category"`
	// Brand drills the ranking down to one brand's products. Empty means all brands.
	Brand string `json:"brand"`
	// BoxBrands and StripBrands are nil when the user made no selection.
	BoxBrands   []string `json:"box_brands"`
	StripBrands []string `json:"strip_brands"`
	Ceiling     *float64 `json:"ceiling"`
	Limit       int      `json:"limit"`
}

// IsAllBrands reports whether a ranking brand selection means "every brand".
func IsAllBrands(brand string) bool {
	switch strings.ToLower(strings.TrimSpace(brand)) {
	case "", "todas", "all":
		return true
	}
	return false
}

// DashboardService answers view requests over one immutable dataset.
type DashboardService struct {
	data     *models.Dataset
	defaults DashboardDefaults
	logger   *utils.Logger
}

func NewDashboardService(data *models.Dataset, defaults DashboardDefaults, logger *utils.Logger) *DashboardService {
	if defaults.TopLimit <= 0 {
		defaults.TopLimit = 10
	}
	return &DashboardService{data: data, defaults: defaults, logger: logger}
}

// Dataset returns the underlying dataset.
func (s *DashboardService) Dataset() *models.Dataset {
	return s.data
}

// Defaults returns the configured widget defaults.
func (s *DashboardService) Defaults() DashboardDefaults {
	return s.defaults
}

// Listings returns the rows of one category.
func (s *DashboardService) Listings(category models.Category) []*models.Listing {
	return FilterByCategory(s.data.Listings, category)
}

func (s *DashboardService) limit(n int) int {
	if n <= 0 {
		return s.defaults.TopLimit
	}
	return n
}

// Ranking returns the brand ranking, or the products of brand when one is selected.
func (s *DashboardService) Ranking(category models.Category, brand string, limit int) models.RankingView {
	rows := s.Listings(category)
	limit = s.limit(limit)
	if IsAllBrands(brand) {
		return models.RankingView{Brands: TopBrandsByVolume(rows, limit)}
	}
	return models.RankingView{
		Brand:    brand,
		Products: ProductEntries(TopProductsForBrand(rows, brand, limit)),
	}
}

// BoxBrands resolves the box plot selection, defaulting to the brands with
// the most listings.
func (s *DashboardService) BoxBrands(category models.Category, selected []string) []string {
	if selected != nil {
		return selected
	}
	return BrandNames(BrandsByListingCount(s.Listings(category), s.defaults.BoxDefaultBrands))
}

// StripBrands resolves the strip plot selection like BoxBrands.
func (s *DashboardService) StripBrands(category models.Category, selected []string) []string {
	if selected != nil {
		return selected
	}
	return BrandNames(BrandsByListingCount(s.Listings(category), s.defaults.StripDefaultBrands))
}

// Box returns price boxes for the selected brands.
func (s *DashboardService) Box(category models.Category, brands []string) []models.BoxStats {
	rows := ApplyFilter(s.data.Listings, models.FilterContext{Category: category, Brands: brands})
	return PriceBoxStats(rows, brands)
}

// Strip returns strip plot points for the selected brands.
func (s *DashboardService) Strip(category models.Category, brands []string) []models.StripPoint {
	return StripPoints(s.Listings(category), brands)
}

// Violin returns per-category densities under ceiling, or the configured default.
func (s *DashboardService) Violin(category models.Category, ceiling *float64) models.ViolinView {
	c := s.defaults.ViolinCeiling
	if ceiling != nil {
		c = *ceiling
	}
	return ViolinDensity(s.Listings(category), c)
}

// Build computes every view of one dashboard render.
func (s *DashboardService) Build(req DashboardRequest) models.DashboardView {
	if req.Category == "" {
		req.Category = models.CategoryAll
	}
	rows := s.Listings(req.Category)

	view := models.DashboardView{
		Category:     req.Category,
		Summary:      Summarize(rows),
		Ranking:      s.Ranking(req.Category, req.Brand, req.Limit),
		BrandOptions: BrandOptions(rows),
		BoxBrands:    s.BoxBrands(req.Category, req.BoxBrands),
		StripBrands:  s.StripBrands(req.Category, req.StripBrands),
		Violin:       s.Violin(req.Category, req.Ceiling),
	}
	// Composition compares categories, so it is only shown for All.
	if req.Category == models.CategoryAll {
		view.Composition = CategoryComposition(rows)
	}
	view.Box = s.Box(req.Category, view.BoxBrands)
	view.Strip = s.Strip(req.Category, view.StripBrands)

	s.logger.Debug("[dashboard] Built view: category=%s rows=%d brand=%q",
		req.Category, len(rows), req.Brand)
	return view
}
