package dashboard

import (
	"bytes"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"perfume-dashboard/charts"
	"perfume-dashboard/models"
	"perfume-dashboard/services"
)

func (s *Server) request(c *gin.Context) (services.DashboardRequest, bool) {
	req, err := parseRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, false
	}
	return req, true
}

// rows returns the category rows, restricted to fully parsed rows when
// ?parsed_only=true.
func (s *Server) rows(c *gin.Context, category models.Category) []*models.Listing {
	rows := s.svc.Listings(category)
	if c.Query("parsed_only") == "true" {
		rows = services.ParsedOnly(rows)
	}
	return rows
}

func (s *Server) dashboard(c *gin.Context) {
	req, ok := s.request(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.svc.Build(req))
}

func (s *Server) summary(c *gin.Context) {
	req, ok := s.request(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, services.Summarize(s.rows(c, req.Category)))
}

func (s *Server) composition(c *gin.Context) {
	req, ok := s.request(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"composition": services.CategoryComposition(s.svc.Listings(req.Category))})
}

func (s *Server) ranking(c *gin.Context) {
	req, ok := s.request(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.svc.Ranking(req.Category, req.Brand, req.Limit))
}

func (s *Server) brands(c *gin.Context) {
	req, ok := s.request(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"options":        services.BrandOptions(s.svc.Listings(req.Category)),
		"box_defaults":   s.svc.BoxBrands(req.Category, nil),
		"strip_defaults": s.svc.StripBrands(req.Category, nil),
	})
}

func (s *Server) box(c *gin.Context) {
	req, ok := s.request(c)
	if !ok {
		return
	}
	brands := s.svc.BoxBrands(req.Category, req.BoxBrands)
	c.JSON(http.StatusOK, gin.H{"brands": brands, "boxes": s.svc.Box(req.Category, brands)})
}

func (s *Server) strip(c *gin.Context) {
	req, ok := s.request(c)
	if !ok {
		return
	}
	brands := s.svc.StripBrands(req.Category, req.StripBrands)
	c.JSON(http.StatusOK, gin.H{"brands": brands, "points": s.svc.Strip(req.Category, brands)})
}

func (s *Server) violin(c *gin.Context) {
	req, ok := s.request(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.svc.Violin(req.Category, req.Ceiling))
}

func (s *Server) listings(c *gin.Context) {
	req, ok := s.request(c)
	if !ok {
		return
	}
	rows := s.rows(c, req.Category)
	records := make([]models.ListingRecord, len(rows))
	for i, l := range rows {
		records[i] = l.Record()
	}
	c.JSON(http.StatusOK, gin.H{"count": len(records), "columns": models.DisplayColumns, "listings": records})
}

// chart serves /charts/<name>.<png|svg>.
func (s *Server) chart(c *gin.Context) {
	file := c.Param("file")
	ext := path.Ext(file)
	name := strings.TrimSuffix(file, ext)
	format, ok := charts.ParseFormat(strings.TrimPrefix(ext, "."))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown chart format"})
		return
	}

	req, ok := s.request(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	var err error
	switch name {
	case "composition":
		err = s.renderer.Composition(&buf, format, services.CategoryComposition(s.svc.Listings(req.Category)))
	case "ranking":
		err = s.renderer.Ranking(&buf, format, s.svc.Ranking(req.Category, req.Brand, req.Limit))
	case "box":
		err = s.renderer.Box(&buf, format, s.svc.Box(req.Category, s.svc.BoxBrands(req.Category, req.BoxBrands)))
	case "strip":
		brands := s.svc.StripBrands(req.Category, req.StripBrands)
		err = s.renderer.Strip(&buf, format, s.svc.Strip(req.Category, brands), brands)
	case "violin":
		err = s.renderer.Violin(&buf, format, s.svc.Violin(req.Category, req.Ceiling))
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown chart " + name})
		return
	}
	if err != nil {
		s.logger.Error("[http] Render %s: %v", file, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "chart rendering failed"})
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
