package charts

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"perfume-dashboard/models"
)

// Group i of n is drawn centred on x = i+1; the axis spans 0..n+1 so a single
// group still has a non-zero x range.
func groupTicks(labels []string) []chart.Tick {
	ticks := make([]chart.Tick, 0, len(labels)+2)
	ticks = append(ticks, chart.Tick{Value: 0})
	for i, l := range labels {
		ticks = append(ticks, chart.Tick{Value: float64(i + 1), Label: truncate(l, 14)})
	}
	return append(ticks, chart.Tick{Value: float64(len(labels) + 1)})
}

// priceRange pads [lo, hi] by 5% and never returns an empty range.
func priceRange(lo, hi float64) *chart.ContinuousRange {
	if hi <= lo {
		hi = lo + 1
	}
	pad := (hi - lo) * 0.05
	return &chart.ContinuousRange{Min: math.Max(0, lo-pad), Max: hi + pad}
}

func lineStyle(c drawing.Color) chart.Style {
	return chart.Style{StrokeColor: c, StrokeWidth: 1.5}
}

func pointStyle(c drawing.Color, width float64) chart.Style {
	return chart.Style{StrokeWidth: chart.Disabled, DotWidth: width, DotColor: c}
}

func segment(name string, x0, y0, x1, y1 float64, style chart.Style) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		Name:    name,
		XValues: []float64{x0, x1},
		YValues: []float64{y0, y1},
		Style:   style,
	}
}

// boxSeries draws one box plot centred on x with the given half width.
func boxSeries(b models.BoxStats, x, half float64, c drawing.Color) []chart.Series {
	style := lineStyle(c)
	out := []chart.Series{
		chart.ContinuousSeries{
			Name:    b.Group,
			XValues: []float64{x - half, x + half, x + half, x - half, x - half},
			YValues: []float64{b.Q1, b.Q1, b.Q3, b.Q3, b.Q1},
			Style:   style,
		},
		segment(b.Group+" median", x-half, b.Median, x+half, b.Median, chart.Style{StrokeColor: c, StrokeWidth: 3}),
		segment(b.Group+" low", x, b.LowerWhisker, x, b.Q1, style),
		segment(b.Group+" high", x, b.Q3, x, b.UpperWhisker, style),
		segment(b.Group+" low cap", x-half/2, b.LowerWhisker, x+half/2, b.LowerWhisker, style),
		segment(b.Group+" high cap", x-half/2, b.UpperWhisker, x+half/2, b.UpperWhisker, style),
	}
	if len(b.Outliers) > 0 {
		xs := make([]float64, len(b.Outliers))
		for i := range xs {
			xs[i] = x
		}
		out = append(out, chart.ContinuousSeries{
			Name:    b.Group + " outliers",
			XValues: xs,
			YValues: b.Outliers,
			Style:   pointStyle(c, 3),
		})
	}
	return out
}

// Box draws one price box per brand, with outliers as points.
func (r *Renderer) Box(w io.Writer, f Format, boxes []models.BoxStats) error {
	const title = "Rangos de Precio por Marca"
	if len(boxes) == 0 {
		return r.Placeholder(w, f, title, noDataMessage)
	}

	labels := make([]string, len(boxes))
	lo, hi := math.Inf(1), math.Inf(-1)
	var series []chart.Series
	for i, b := range boxes {
		labels[i] = b.Group
		lo, hi = math.Min(lo, b.Min), math.Max(hi, b.Max)
		c := chart.GetDefaultColor(i)
		series = append(series, boxSeries(b, float64(i+1), 0.3, c)...)
	}

	width, height := r.size()
	ch := chart.Chart{
		Title:      title,
		Width:      width,
		Height:     height,
		Background: r.background(),
		XAxis:      chart.XAxis{Ticks: groupTicks(labels)},
		YAxis:      chart.YAxis{Name: "Precio", Range: priceRange(lo, hi)},
		Series:     series,
	}
	if err := ch.Render(f.provider(), w); err != nil {
		return fmt.Errorf("charts: render box: %w", err)
	}
	return nil
}

// Strip draws every listing of the selected brands as a point, coloured by
// category. Points of one brand are spread horizontally so they do not
// overlap completely.
func (r *Renderer) Strip(w io.Writer, f Format, points []models.StripPoint, brands []string) error {
	const title = "Precios por Marca"
	if len(points) == 0 {
		return r.Placeholder(w, f, title, noDataMessage)
	}

	index := make(map[string]int, len(brands))
	labels := make([]string, 0, len(brands))
	for _, b := range brands {
		if _, ok := index[b]; !ok {
			index[b] = len(labels)
			labels = append(labels, b)
		}
	}

	byCategory := map[models.Category]*chart.ContinuousSeries{}
	lo, hi := math.Inf(1), math.Inf(-1)
	seen := make(map[string]int)
	for _, p := range points {
		i, ok := index[p.Brand]
		if !ok {
			i = len(labels)
			index[p.Brand] = i
			labels = append(labels, p.Brand)
		}
		s := byCategory[p.Category]
		if s == nil {
			s = &chart.ContinuousSeries{Name: p.Category.Label(), Style: pointStyle(CategoryColor(p.Category), 3)}
			byCategory[p.Category] = s
		}
		s.XValues = append(s.XValues, float64(i+1)+jitter(seen[p.Brand]))
		s.YValues = append(s.YValues, p.Price)
		seen[p.Brand]++
		lo, hi = math.Min(lo, p.Price), math.Max(hi, p.Price)
	}

	var series []chart.Series
	for _, c := range []models.Category{models.CategoryMale, models.CategoryFemale} {
		if s := byCategory[c]; s != nil {
			series = append(series, *s)
		}
	}

	width, height := r.size()
	ch := chart.Chart{
		Title:      title,
		Width:      width,
		Height:     height,
		Background: r.background(),
		XAxis:      chart.XAxis{Ticks: groupTicks(labels)},
		YAxis:      chart.YAxis{Name: "Precio", Range: priceRange(lo, hi)},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	if err := ch.Render(f.provider(), w); err != nil {
		return fmt.Errorf("charts: render strip: %w", err)
	}
	return nil
}

// jitter spreads the k-th point of a group over [-0.3, 0.3] deterministically.
func jitter(k int) float64 {
	return float64(k%13-6) * 0.05
}

// Violin draws the mirrored price density of each category with its box.
func (r *Renderer) Violin(w io.Writer, f Format, view models.ViolinView) error {
	const title = "Densidad de Precios"
	if view.Insufficient || len(view.Groups) == 0 {
		return r.Placeholder(w, f, title, noDataMessage)
	}

	labels := make([]string, len(view.Groups))
	lo, hi := math.Inf(1), math.Inf(-1)
	var series []chart.Series
	for i, g := range view.Groups {
		labels[i] = g.Label
		x := float64(i + 1)
		c := CategoryColor(g.Category)

		peak := 0.0
		for _, p := range g.Density {
			peak = math.Max(peak, p.Density)
			lo, hi = math.Min(lo, p.Price), math.Max(hi, p.Price)
		}
		scale := 0.0
		if peak > 0 {
			scale = 0.4 / peak
		}

		n := len(g.Density)
		xs := make([]float64, 0, 2*n+1)
		ys := make([]float64, 0, 2*n+1)
		for _, p := range g.Density {
			xs = append(xs, x+p.Density*scale)
			ys = append(ys, p.Price)
		}
		for k := n - 1; k >= 0; k-- {
			xs = append(xs, x-g.Density[k].Density*scale)
			ys = append(ys, g.Density[k].Price)
		}
		if n > 0 {
			xs = append(xs, xs[0])
			ys = append(ys, ys[0])
		}
		series = append(series, chart.ContinuousSeries{Name: g.Label, XValues: xs, YValues: ys, Style: lineStyle(c)})
		series = append(series, boxSeries(g.Box, x, 0.05, colorOutline)...)
		lo, hi = math.Min(lo, g.Box.Min), math.Max(hi, g.Box.Max)
	}

	width, height := r.size()
	ch := chart.Chart{
		Title:      title,
		Width:      width,
		Height:     height,
		Background: r.background(),
		XAxis:      chart.XAxis{Ticks: groupTicks(labels)},
		YAxis:      chart.YAxis{Name: "Precio", Range: priceRange(lo, hi)},
		Series:     series,
	}
	if err := ch.Render(f.provider(), w); err != nil {
		return fmt.Errorf("charts: render violin: %w", err)
	}
	return nil
}
