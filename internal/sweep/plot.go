package sweep

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Render writes an HTML page with one line per update strategy, time against
// row length.
func Render(w io.Writer, points []Point) error {
	if len(points) == 0 {
		return fmt.Errorf("sweep: nothing to plot")
	}
	pts := append([]Point(nil), points...)
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].M < pts[j].M })

	xs := make([]string, len(pts))
	series := map[string][]opts.LineData{}
	for i, pt := range pts {
		xs[i] = strconv.Itoa(pt.M)
		series["fresh commit"] = append(series["fresh commit"], opts.LineData{Value: pt.CommitUS})
		series["point update"] = append(series["point update"], opts.LineData{Value: pt.PointUpdateUS})
		series["row delta update"] = append(series["row delta update"], opts.LineData{Value: pt.RowUpdateUS})
		series["open"] = append(series["open"], opts.LineData{Value: pt.OpenUS})
	}

	page := components.NewPage().SetPageTitle("Row commitment update cost")
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Row commitment update cost",
			Subtitle: "time per operation (µs) against row length m",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "m"}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "µs",
			Type:      "log",
			AxisLabel: &opts.AxisLabel{Formatter: "{value}"},
		}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: opts.Bool(true),
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{Show: opts.Bool(true)},
				Restore:     &opts.ToolBoxFeatureRestore{Show: opts.Bool(true)},
			},
		}),
	)
	line.SetXAxis(xs)
	for _, name := range []string{"fresh commit", "row delta update", "open", "point update"} {
		line.AddSeries(name, series[name],
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}),
		)
	}
	page.AddCharts(line)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("sweep: render: %w", err)
	}
	return nil
}
