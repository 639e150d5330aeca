package services

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"perfume-dashboard/metrics"
	"perfume-dashboard/models"
)

const csvHeader = "brand,title,price,available,sold,itemLocation\n"

// listing builds a normalized row. An empty brand is a null brand.
func listing(brand, title string, cat models.Category, price float64, sold int) *models.Listing {
	l := &models.Listing{
		Title:       ns(title),
		Category:    cat,
		Price:       price,
		Sold:        sold,
		PriceParsed: true,
		SoldParsed:  true,
	}
	if brand != "" {
		l.Brand = ns(brand)
	}
	return l
}

func numbered(rows ...*models.Listing) []*models.Listing {
	for i, l := range rows {
		l.Row = i
	}
	return rows
}

func writeCSV(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// memSource is an in-memory storage.Source that counts Open calls.
type memSource struct {
	name  string
	sig   string
	body  string
	err   error
	opens atomic.Int32
}

func (s *memSource) Location() string { return s.name }

func (s *memSource) Signature(context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.sig, nil
}

func (s *memSource) Open(context.Context) (io.ReadCloser, error) {
	s.opens.Add(1)
	return io.NopCloser(strings.NewReader(s.body)), nil
}

func scrapeMetrics(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	return rec.Body.String()
}

func contains(s, sub string) bool { return strings.Contains(s, sub) }

func csvRow(cells ...string) string {
	return fmt.Sprintf("%s\n", strings.Join(cells, ","))
}
