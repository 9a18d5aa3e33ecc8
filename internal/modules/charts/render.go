package charts

import (
	"fmt"

	charts "github.com/vicanso/go-charts/v2"
)

const (
	chartWidth  = 1000
	chartHeight = 500
)

// renderLines renders one or more aligned series as a PNG line chart.
func renderLines(values [][]float64, names, xLabels []string, title, subtitle string) ([]byte, error) {
	split := len(xLabels) / 10
	if split < 5 {
		split = 5
	}

	opts := []charts.OptionFunc{
		charts.TitleTextOptionFunc(title, subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels,
			BoundaryGap: charts.FalseFlag(),
			SplitNumber: split,
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{DivideCount: 5}),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
		charts.ThemeOptionFunc(charts.ThemeLight),
	}
	if len(names) > 1 {
		opts = append(opts, charts.LegendOptionFunc(charts.LegendOption{Data: names}))
	}

	painter, err := charts.LineRender(values, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	img, err := painter.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	return img, nil
}

// nullValue is the sentinel the renderer treats as a missing point.
func nullValue() float64 {
	return charts.GetNullValue()
}
