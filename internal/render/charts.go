// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package render

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/jaycherian/linkpreview-dashboard/internal/core/model"
)

// StackID groups every bar series into one stack.
const StackID = "total"

func legendOpts(legend model.LegendOptions) opts.Legend {
	out := opts.Legend{
		Show: opts.Bool(true),
		Type: "scroll",
	}
	if legend.FontSize > 0 || legend.FontFamily != "" {
		out.TextStyle = &opts.TextStyle{FontSize: legend.FontSize, FontFamily: legend.FontFamily}
	}
	switch legend.Position {
	case "right":
		out.Right = "10"
		out.Orient = "vertical"
	case "left":
		out.Left = "10"
		out.Orient = "vertical"
	case "bottom":
		out.Bottom = "10"
	default:
		out.Top = "10"
	}
	return out
}

func initOpts(chartID string, size Size) opts.Initialization {
	return opts.Initialization{
		ChartID: chartID,
		Width:   size.Width,
		Height:  size.Height,
	}
}

type doughnut struct {
	pie *charts.Pie
}

func newDoughnut(chartID string, size Size, options model.ChartOptions) *doughnut {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts(chartID, size)),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "item",
			Formatter: "{b}: {c} ({d}%)",
		}),
		charts.WithLegendOpts(legendOpts(options.Legend)),
	)
	return &doughnut{pie: pie}
}

func (d *doughnut) draw(data model.ChartData) {
	d.pie.MultiSeries = nil
	for _, ds := range data.Datasets {
		items := make([]opts.PieData, 0, len(ds.Data))
		for i, v := range ds.Data {
			name := ""
			if i < len(data.Labels) {
				name = data.Labels[i]
			}
			items = append(items, opts.PieData{Name: name, Value: v})
		}
		d.pie.AddSeries(ds.Label, items).
			SetSeriesOptions(
				charts.WithLabelOpts(opts.Label{
					Show: opts.Bool(false),
				}),
				charts.WithPieChartOpts(opts.PieChart{
					Radius: []string{"40%", "70%"},
					Center: []string{"40%", "50%"},
				}),
			)
	}
}

func (d *doughnut) charter() components.Charter {
	return d.pie
}

type stackedBar struct {
	bar     *charts.Bar
	stacked bool
}

func newStackedBar(chartID string, size Size, options model.ChartOptions) *stackedBar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts(chartID, size)),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(legendOpts(options.Legend)),
		charts.WithGridOpts(opts.Grid{
			Left:   "100",
			Right:  "200",
			Bottom: "60",
		}),
	)
	if options.IndexAxis == "y" {
		bar.XYReversal()
	}
	return &stackedBar{bar: bar, stacked: options.Stacked}
}

func (s *stackedBar) draw(data model.ChartData) {
	s.bar.MultiSeries = nil
	s.bar.SetXAxis(data.Labels)
	for _, ds := range data.Datasets {
		items := make([]opts.BarData, len(ds.Data))
		for i, v := range ds.Data {
			items[i] = opts.BarData{Value: v}
		}
		if s.stacked {
			s.bar.AddSeries(ds.Label, items, charts.WithBarChartOpts(opts.BarChart{Stack: StackID}))
		} else {
			s.bar.AddSeries(ds.Label, items)
		}
	}
}

func (s *stackedBar) charter() components.Charter {
	return s.bar
}
