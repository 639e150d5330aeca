package services

import (
	"perfume-dashboard/metrics"
	"perfume-dashboard/models"
	"perfume-dashboard/utils"
)

// Cleaner derives the numeric price and sold fields of raw listings.
type Cleaner struct {
	logger  *utils.Logger
	metrics *metrics.Metrics
}

// NewCleaner creates a Cleaner with the given logger. m may be nil.
func NewCleaner(logger *utils.Logger, m *metrics.Metrics) *Cleaner {
	return &Cleaner{logger: logger, metrics: m}
}

// Clean normalizes every raw listing. No row is dropped: unparseable price
// or sold text degrades to zero and clears the matching parsed flag.
func (c *Cleaner) Clean(raw []*models.RawListing) []*models.Listing {
	result := make([]*models.Listing, 0, len(raw))
	var badPrice, badSold int

	for i, r := range raw {
		price, priceOK := NormalizeFloat(r.PriceText)
		sold, soldOK := NormalizeInt(r.SoldText)

		if !priceOK {
			badPrice++
			c.logger.Debug("[cleaner] Row %d: price %q degraded to 0", i, r.PriceText.String)
		}
		if !soldOK {
			badSold++
		}

		result = append(result, &models.Listing{
			Row:         i,
			Brand:       r.Brand,
			Title:       r.Title,
			PriceText:   r.PriceText,
			Available:   r.Available,
			SoldText:    r.SoldText,
			Location:    r.Location,
			Category:    r.Category,
			Price:       price,
			Sold:        sold,
			PriceParsed: priceOK,
			SoldParsed:  soldOK,
		})
	}

	c.metrics.ObserveUnparsed("price", badPrice)
	c.metrics.ObserveUnparsed("sold", badSold)

	c.logger.Info("[cleaner] Normalized %d listings (price→0: %d, sold→0: %d)",
		len(result), badPrice, badSold)
	return result
}
