package report

import (
	"fmt"
	"image/color"
	"log"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"ordersynth/internal/model"
)

// Output file names inside the report directory.
const (
	BestSellingFile = "best_selling_products.png"
	OrdersFile      = "number_of_orders.png"
	SalesFile       = "amount_of_sales.png"
)

var (
	purple = color.RGBA{R: 128, G: 0, B: 128, A: 255}
	red    = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	green  = color.RGBA{R: 0, G: 128, B: 0, A: 255}
)

type barChart struct {
	file          string
	title         string
	xLabel        string
	yLabel        string
	color         color.Color
	width, height vg.Length
	labels        []string
	values        plotter.Values
}

// Render draws the three report charts into dir and returns the paths
// written. A chart whose aggregate is empty is skipped, so an empty table
// yields no paths and no error.
func Render(dir string, rows []model.FlatRow) ([]string, error) {
	var paths []string
	for _, c := range charts(rows) {
		if len(c.values) == 0 {
			log.Printf("no data for %q, skipping %s", c.title, c.file)
			continue
		}
		path := filepath.Join(dir, c.file)
		if err := c.save(path); err != nil {
			return paths, fmt.Errorf("render %s: %w", c.file, err)
		}
		log.Printf("chart saved to %s", path)
		paths = append(paths, path)
	}
	return paths, nil
}

func charts(rows []model.FlatRow) []barChart {
	best := barChart{
		file: BestSellingFile, title: "Top 5 Best-Selling Products",
		xLabel: "Product Name", yLabel: "Total Quantity Sold",
		color: purple, width: 10 * vg.Inch, height: 5 * vg.Inch,
	}
	for _, p := range TopSellers(rows, TopN) {
		best.labels = append(best.labels, p.ProductName)
		best.values = append(best.values, float64(p.Quantity))
	}

	orders := barChart{
		file: OrdersFile, title: "Number of Orders in Each Month",
		xLabel: "Month", yLabel: "Number of Orders",
		color: red, width: 10 * vg.Inch, height: 5 * vg.Inch,
	}
	for _, m := range OrdersPerMonth(rows) {
		orders.labels = append(orders.labels, strconv.Itoa(m.Month))
		orders.values = append(orders.values, float64(m.Count))
	}

	sales := barChart{
		file: SalesFile, title: "Amount of Sales per Month",
		xLabel: "Month", yLabel: "Amount of Sales",
		color: green, width: 15 * vg.Inch, height: 10 * vg.Inch,
	}
	for _, m := range RevenuePerMonth(rows) {
		sales.labels = append(sales.labels, strconv.Itoa(m.Month))
		sales.values = append(sales.values, m.Revenue)
	}
	return []barChart{best, orders, sales}
}

func (c barChart) save(path string) error {
	p := plot.New()
	p.Title.Text = c.title
	p.X.Label.Text = c.xLabel
	p.Y.Label.Text = c.yLabel

	bars, err := plotter.NewBarChart(c.values, vg.Points(20))
	if err != nil {
		return err
	}
	bars.Color = c.color
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(c.labels...)
	p.Y.Min = 0
	p.Y.Tick.Marker = integerTicks{}

	return p.Save(c.width, c.height, path)
}

// integerTicks labels the value axis with whole numbers, truncating.
type integerTicks struct{}

func (integerTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label == "" {
			continue
		}
		ticks[i].Label = strconv.FormatInt(int64(ticks[i].Value), 10)
	}
	return ticks
}
