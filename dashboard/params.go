package dashboard

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"perfume-dashboard/models"
	"perfume-dashboard/services"
)

// parseRequest reads the filter query parameters shared by every view.
//
//	category      all|male|female (or ambos|hombre|mujer)
//	brand         ranking drill-down, empty or "todas" for every brand
//	brands        box and strip selection, repeatable
//	box_brands    box selection, overrides brands
//	strip_brands  strip selection, overrides brands
//	ceiling       violin price ceiling
//	limit         ranking length
//
// An absent selection means "use the defaults"; a present but empty one
// (?brands=) selects nothing.
func parseRequest(c *gin.Context) (services.DashboardRequest, error) {
	var req services.DashboardRequest

	cat, ok := models.ParseCategory(c.Query("category"))
	if !ok {
		return req, fmt.Errorf("invalid category %q", c.Query("category"))
	}
	req.Category = cat

	// Brand names are matched verbatim, surrounding spaces included.
	req.Brand = c.Query("brand")
	if services.IsAllBrands(req.Brand) {
		req.Brand = ""
	}

	shared := brandSelection(c, "brands")
	req.BoxBrands = shared
	req.StripBrands = shared
	if b := brandSelection(c, "box_brands"); b != nil {
		req.BoxBrands = b
	}
	if b := brandSelection(c, "strip_brands"); b != nil {
		req.StripBrands = b
	}

	if raw, ok := c.GetQuery("ceiling"); ok && raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || !validCeiling(v) {
			return req, fmt.Errorf("invalid ceiling %q", raw)
		}
		req.Ceiling = &v
	}

	if raw, ok := c.GetQuery("limit"); ok && raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return req, fmt.Errorf("invalid limit %q", raw)
		}
		req.Limit = n
	}
	return req, nil
}

// validCeiling rejects non-positive and non-finite ceilings. NaN and Inf
// cannot be encoded as JSON.
func validCeiling(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// brandSelection returns nil when key is absent. Blank values are dropped;
// the others are kept as sent.
func brandSelection(c *gin.Context, key string) []string {
	values, ok := c.GetQueryArray(key)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
