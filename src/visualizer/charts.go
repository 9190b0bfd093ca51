// charts.go
package visualizer

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"CallQualityAnalysis/src/processor"
	"CallQualityAnalysis/src/utils"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

var (
	steelBlue = color.RGBA{R: 70, G: 130, B: 180, A: 128}
	red       = color.RGBA{R: 220, G: 20, B: 60, A: 255}
)

// Visualizer renders the survey charts as PNG files in OutDir.
type Visualizer struct {
	OutDir string
}

func NewVisualizer(outDir string) (*Visualizer, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create chart dir: %w", err)
	}
	return &Visualizer{OutDir: outDir}, nil
}

func (v *Visualizer) save(p *plot.Plot, w, h vg.Length, name string) error {
	path := filepath.Join(v.OutDir, name)
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	return nil
}

// RatingDistribution draws the count of responses per rating value.
func (v *Visualizer) RatingDistribution(df dataframe.DataFrame) error {
	counts := make(map[int]int)
	for _, r := range df.Col("rating").Float() {
		counts[int(r)]++
	}

	ratings := make([]int, 0, len(counts))
	for r := range counts {
		ratings = append(ratings, r)
	}
	sort.Ints(ratings)

	values := make(plotter.Values, len(ratings))
	labels := make([]string, len(ratings))
	for i, r := range ratings {
		values[i] = float64(counts[r])
		labels[i] = strconv.Itoa(r)
	}

	p := plot.New()
	p.Title.Text = "Rating Distribution"
	p.X.Label.Text = "Rating"
	p.Y.Label.Text = "Count"

	bars, err := plotter.NewBarChart(values, vg.Points(25))
	if err != nil {
		return fmt.Errorf("rating distribution bars: %w", err)
	}
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(labels...)

	return v.save(p, 8*vg.Inch, 5*vg.Inch, "rating_distribution.png")
}

// CallDropFrequency draws call-drop categories sorted by frequency.
func (v *Visualizer) CallDropFrequency(df dataframe.DataFrame) error {
	counts, err := processor.CategoryCounts(df, "calldrop_category")
	if err != nil {
		return err
	}

	values := make(plotter.Values, len(counts))
	labels := make([]string, len(counts))
	for i, c := range counts {
		values[i] = float64(c.Count)
		labels[i] = c.Key
	}

	p := plot.New()
	p.Title.Text = "Call Drop Category Frequency"
	p.X.Label.Text = "Call Drop Category"
	p.Y.Label.Text = "Count"

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return fmt.Errorf("calldrop frequency bars: %w", err)
	}
	bars.Color = plotutil.Color(1)
	p.Add(bars)
	p.NominalX(labels...)

	return v.save(p, 10*vg.Inch, 5*vg.Inch, "calldrop_frequency.png")
}

// OperatorAvgRating draws the mean rating per operator.
func (v *Visualizer) OperatorAvgRating(df dataframe.DataFrame) error {
	means, err := processor.GroupMeans(df, "operator", "rating")
	if err != nil {
		return err
	}

	values := make(plotter.Values, len(means))
	labels := make([]string, len(means))
	for i, m := range means {
		values[i] = m.Value
		labels[i] = m.Key
	}

	p := plot.New()
	p.Title.Text = "Operator-wise Average Rating"
	p.X.Label.Text = "Operator"
	p.Y.Label.Text = "Average Rating"

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return fmt.Errorf("operator rating bars: %w", err)
	}
	bars.Color = plotutil.Color(2)
	p.Add(bars)
	p.NominalX(labels...)

	return v.save(p, 10*vg.Inch, 5*vg.Inch, "operator_avg_rating.png")
}

// MonthlyTrend draws one mean-rating line per survey year.
func (v *Visualizer) MonthlyTrend(df dataframe.DataFrame) error {
	trend, years, err := processor.MonthlyTrend(df, "month", "year", "rating")
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "Monthly Trend of Ratings"
	p.X.Label.Text = "Month"
	p.Y.Label.Text = "Average Rating"

	for i, year := range years {
		pts := trend[year]
		xys := make(plotter.XYs, len(pts))
		for j, pt := range pts {
			xys[j].X = pt.Month
			xys[j].Y = pt.Mean
		}

		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return fmt.Errorf("trend line for %d: %w", year, err)
		}
		line.Color = plotutil.Color(i)
		points.Color = plotutil.Color(i)
		p.Add(line, points)
		p.Legend.Add(strconv.Itoa(year), line, points)
	}
	p.Legend.Top = true

	return v.save(p, 10*vg.Inch, 5*vg.Inch, "monthly_trend.png")
}

// StateAvgRating draws the mean rating for the configured focus states.
func (v *Visualizer) StateAvgRating(df dataframe.DataFrame, states []string) error {
	means, err := processor.GroupMeans(df, "state_name", "rating")
	if err != nil {
		return err
	}

	var values plotter.Values
	var labels []string
	for _, m := range means {
		if !utils.Contains(states, m.Key) {
			continue
		}
		values = append(values, m.Value)
		labels = append(labels, m.Key)
	}
	if len(values) == 0 {
		return fmt.Errorf("none of the focus states appear in the data")
	}

	p := plot.New()
	p.Title.Text = "Average User Rating by State"
	p.X.Label.Text = "State"
	p.Y.Label.Text = "Average Rating"
	p.Y.Min = 0
	p.Y.Max = 5

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return fmt.Errorf("state rating bars: %w", err)
	}
	bars.Color = plotutil.Color(3)
	p.Add(bars)
	p.NominalX(labels...)

	return v.save(p, 10*vg.Inch, 5*vg.Inch, "state_avg_rating.png")
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ.
type corrGrid struct {
	cols []string
	m    [][]float64
}

func (g corrGrid) Dims() (c, r int)   { return len(g.cols), len(g.cols) }
func (g corrGrid) Z(c, r int) float64 { return g.m[r][c] }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

// CorrelationHeatmap draws pairwise correlations of the numeric columns,
// annotated with the coefficient values.
func (v *Visualizer) CorrelationHeatmap(df dataframe.DataFrame, cols []string) error {
	m, err := processor.CorrelationMatrix(df, cols)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "Correlation Heatmap"

	hm := plotter.NewHeatMap(corrGrid{cols: cols, m: m}, palette.Heat(12, 1))
	hm.Min = -1
	hm.Max = 1
	p.Add(hm)

	ticks := make([]plot.Tick, len(cols))
	for i, c := range cols {
		ticks[i] = plot.Tick{Value: float64(i), Label: c}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)

	labels := plotter.XYLabels{}
	for i := range cols {
		for j := range cols {
			labels.XYs = append(labels.XYs, plotter.XY{X: float64(j), Y: float64(i)})
			labels.Labels = append(labels.Labels, fmt.Sprintf("%.2f", m[i][j]))
		}
	}
	annot, err := plotter.NewLabels(labels)
	if err != nil {
		return fmt.Errorf("heatmap annotations: %w", err)
	}
	p.Add(annot)

	return v.save(p, 6*vg.Inch, 4*vg.Inch, "correlation_heatmap.png")
}

// CallDropByOperator draws grouped bars: one bar group per operator, one
// bar per call-drop category.
func (v *Visualizer) CallDropByOperator(df dataframe.DataFrame) error {
	counts, operators, categories, err := processor.CrossCounts(df, "calldrop_category", "operator")
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "Call Drop Categories by Operator"
	p.X.Label.Text = "Operator"
	p.Y.Label.Text = "Count"

	width := vg.Points(36.0 / float64(len(categories)))
	for i, cat := range categories {
		values := make(plotter.Values, len(operators))
		for j, op := range operators {
			values[j] = float64(counts[op][cat])
		}

		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return fmt.Errorf("grouped bars for %s: %w", cat, err)
		}
		bars.Color = plotutil.Color(i)
		bars.Offset = width * (vg.Length(i) - vg.Length(len(categories)-1)/2)
		p.Add(bars)
		p.Legend.Add(cat, bars)
	}
	p.Legend.Top = true
	p.NominalX(operators...)

	return v.save(p, 10*vg.Inch, 5*vg.Inch, "calldrop_by_operator.png")
}

// LongitudeRatingScatter draws normalized longitude against normalized
// rating; call after scaling.
func (v *Visualizer) LongitudeRatingScatter(df dataframe.DataFrame) error {
	xys, err := longitudeRatingXYs(df)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "Scatterplot: Longitude vs Rating"
	p.X.Label.Text = "Longitude (Normalized)"
	p.Y.Label.Text = "Rating (Normalized)"

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("longitude scatter: %w", err)
	}
	scatter.GlyphStyle.Color = steelBlue
	scatter.GlyphStyle.Radius = vg.Points(2)
	p.Add(scatter, plotter.NewGrid())

	return v.save(p, 8*vg.Inch, 5*vg.Inch, "longitude_rating_scatter.png")
}

// RegressionFit overlays the fitted line on the normalized scatter.
func (v *Visualizer) RegressionFit(df dataframe.DataFrame, model processor.LinearModel) error {
	xys, err := longitudeRatingXYs(df)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "Linear Regression Fit: Longitude vs Rating"
	p.X.Label.Text = "Longitude (Normalized)"
	p.Y.Label.Text = "Rating (Normalized)"

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("regression scatter: %w", err)
	}
	scatter.GlyphStyle.Color = steelBlue
	scatter.GlyphStyle.Radius = vg.Points(2)

	fit := plotter.NewFunction(model.Predict)
	fit.Color = red
	fit.Width = vg.Points(2)

	p.Add(scatter, fit, plotter.NewGrid())

	return v.save(p, 8*vg.Inch, 5*vg.Inch, "regression_fit.png")
}

func longitudeRatingXYs(df dataframe.DataFrame) (plotter.XYs, error) {
	for _, c := range []string{"longitude", "rating"} {
		if !utils.HasColumn(df, c) {
			return nil, fmt.Errorf("missing column %s", c)
		}
	}

	lons := df.Col("longitude").Float()
	ratings := df.Col("rating").Float()

	xys := make(plotter.XYs, len(lons))
	for i := range lons {
		xys[i].X = lons[i]
		xys[i].Y = ratings[i]
	}
	return xys, nil
}
