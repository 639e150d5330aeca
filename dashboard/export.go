package dashboard

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"perfume-dashboard/models"
	"perfume-dashboard/storage"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportName is the download file name for a category, e.g. perfumes_mujer.csv.
func ExportName(category models.Category, ext string) string {
	return fmt.Sprintf("perfumes_%s.%s", strings.ToLower(category.Label()), ext)
}

func (s *Server) exportCSV(c *gin.Context) {
	req, ok := s.request(c)
	if !ok {
		return
	}
	rows := s.rows(c, req.Category)

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+ExportName(req.Category, "csv")+`"`)
	c.Status(http.StatusOK)

	w, err := storage.NewCSVStream(c.Writer)
	if err != nil {
		s.logger.Error("[export] CSV header: %v", err)
		return
	}
	if err := w.Write(rows); err != nil {
		s.logger.Error("[export] CSV rows: %v", err)
	}
	if err := w.Close(); err != nil {
		s.logger.Error("[export] CSV flush: %v", err)
	}
}

func (s *Server) exportXLSX(c *gin.Context) {
	req, ok := s.request(c)
	if !ok {
		return
	}
	rows := s.rows(c, req.Category)

	x, err := storage.NewXLSXWriter()
	if err != nil {
		s.logger.Error("[export] XLSX: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	defer x.Close()

	if err := x.Write(rows); err != nil {
		s.logger.Error("[export] XLSX rows: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", `attachment; filename="`+ExportName(req.Category, "xlsx")+`"`)
	c.Status(http.StatusOK)
	if _, err := x.WriteTo(c.Writer); err != nil {
		s.logger.Error("[export] XLSX write: %v", err)
	}
}
