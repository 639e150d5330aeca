package charts

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"perfume-dashboard/models"
)

// Format is an image encoding supported by the renderer.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat accepts "png" and "svg", case-insensitively.
func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(s)) {
	case PNG:
		return PNG, true
	case SVG:
		return SVG, true
	}
	return "", false
}

// ContentType is the HTTP media type of the format.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

var (
	colorMale    = drawing.ColorFromHex("1f77b4")
	colorFemale  = drawing.ColorFromHex("e377c2")
	colorBar     = drawing.ColorFromHex("2a9d8f")
	colorMuted   = drawing.ColorFromHex("b0b0b0")
	colorOutline = drawing.ColorFromHex("444444")
)

// CategoryColor is the color used for a category in every chart.
func CategoryColor(c models.Category) drawing.Color {
	if c == models.CategoryFemale {
		return colorFemale
	}
	return colorMale
}

const noDataMessage = "Sin datos suficientes"

// Renderer draws dashboard charts. The zero value uses 1024x512 images.
type Renderer struct {
	Width  int
	Height int
}

func NewRenderer(width, height int) *Renderer {
	return &Renderer{Width: width, Height: height}
}

func (r *Renderer) size() (int, int) {
	w, h := r.Width, r.Height
	if w <= 0 {
		w = 1024
	}
	if h <= 0 {
		h = 512
	}
	return w, h
}

func (r *Renderer) background() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}}
}

// Placeholder draws a grey ring carrying message, used for empty views.
func (r *Renderer) Placeholder(w io.Writer, f Format, title, message string) error {
	width, height := r.size()
	donut := chart.DonutChart{
		Title:      title,
		Width:      width,
		Height:     height,
		Background: r.background(),
		Values: []chart.Value{{
			Label: message,
			Value: 1,
			Style: chart.Style{FillColor: colorMuted, StrokeColor: drawing.ColorWhite},
		}},
	}
	if err := donut.Render(f.provider(), w); err != nil {
		return fmt.Errorf("charts: render placeholder: %w", err)
	}
	return nil
}

// Composition draws the share of listings per category as a donut.
func (r *Renderer) Composition(w io.Writer, f Format, shares []models.CategoryShare) error {
	const title = "Distribución de Productos por Género"

	var total int
	values := make([]chart.Value, 0, len(shares))
	for _, s := range shares {
		total += s.Count
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%d)", s.Label, s.Count),
			Value: float64(s.Count),
			Style: chart.Style{FillColor: CategoryColor(s.Category), StrokeColor: drawing.ColorWhite},
		})
	}
	if total == 0 {
		return r.Placeholder(w, f, title, noDataMessage)
	}

	width, height := r.size()
	donut := chart.DonutChart{
		Title:      title,
		Width:      width,
		Height:     height,
		Background: r.background(),
		Values:     values,
	}
	if err := donut.Render(f.provider(), w); err != nil {
		return fmt.Errorf("charts: render composition: %w", err)
	}
	return nil
}

// Ranking draws the brand ranking, or the product ranking of a drilled-down brand.
func (r *Renderer) Ranking(w io.Writer, f Format, view models.RankingView) error {
	title := "Top Marcas Más Vendidas"
	var bars []chart.Value
	if view.Brand == "" {
		for _, b := range view.Brands {
			bars = append(bars, r.bar(b.Brand, b.Sold))
		}
	} else {
		title = "Top Productos: " + view.Brand
		for _, p := range view.Products {
			bars = append(bars, r.bar(p.Title, p.Sold))
		}
	}
	if len(bars) == 0 {
		return r.Placeholder(w, f, title, noDataMessage)
	}

	maxSold := 0.0
	for _, b := range bars {
		maxSold = math.Max(maxSold, b.Value)
	}
	if maxSold == 0 {
		maxSold = 1
	}

	width, height := r.size()
	bc := chart.BarChart{
		Title:      title,
		Width:      width,
		Height:     height,
		Background: r.background(),
		BarWidth:   barWidthFor(width, len(bars)),
		XAxis:      chart.Style{FontSize: 7},
		YAxis: chart.YAxis{
			Name:  "Vendidos",
			Range: &chart.ContinuousRange{Min: 0, Max: maxSold * 1.1},
		},
		Bars: bars,
	}
	if err := bc.Render(f.provider(), w); err != nil {
		return fmt.Errorf("charts: render ranking: %w", err)
	}
	return nil
}

func (r *Renderer) bar(label string, sold int) chart.Value {
	return chart.Value{
		Label: truncate(label, 18),
		Value: float64(sold),
		Style: chart.Style{FillColor: colorBar, StrokeColor: colorBar},
	}
}

func barWidthFor(width, n int) int {
	bw := (width - 120) / (n * 2)
	if bw > 60 {
		bw = 60
	}
	if bw < 8 {
		bw = 8
	}
	return bw
}

func truncate(s string, max int) string {
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	return string(rs[:max-3]) + "..."
}
