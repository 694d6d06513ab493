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

// Package model defines the data structures shared across the dashboard chart
// loaders. This file describes the chart-library contract: the data shape a
// chart is fed with, the configuration used to construct one, and the two
// collaborator interfaces (a factory and a chart handle) that the loaders
// depend on. The concrete implementation lives in the render package.
package model

// ChartType identifies the kind of chart to construct.
type ChartType string

const (
	ChartTypeDoughnut ChartType = "doughnut"
	ChartTypeBar      ChartType = "bar"
)

// Dataset is one series of a chart. For a doughnut there is a single dataset
// holding one value per label; for a stacked bar there is one dataset per
// stacked segment, each holding one value per category label.
type Dataset struct {
	Label       string  `json:"label,omitempty"`
	Data        []int64 `json:"data"`
	BorderWidth int     `json:"borderWidth,omitempty"`
}

// ChartData is the data block handed to a chart: category labels plus the
// datasets aligned to them.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Clone returns a deep copy, so a chart handle never aliases a caller's slices.
func (d ChartData) Clone() ChartData {
	out := ChartData{
		Labels:   append([]string(nil), d.Labels...),
		Datasets: make([]Dataset, len(d.Datasets)),
	}
	for i, ds := range d.Datasets {
		out.Datasets[i] = Dataset{
			Label:       ds.Label,
			Data:        append([]int64(nil), ds.Data...),
			BorderWidth: ds.BorderWidth,
		}
	}
	return out
}

// LegendOptions controls the placement and typography of a chart legend.
type LegendOptions struct {
	Position   string `json:"position,omitempty"` // "top", "right", "bottom" or "left".
	FontSize   int    `json:"fontSize,omitempty"`
	FontFamily string `json:"fontFamily,omitempty"`
}

// ChartOptions are the rendering options of a chart.
type ChartOptions struct {
	Responsive bool          `json:"responsive"`
	IndexAxis  string        `json:"indexAxis,omitempty"` // "y" renders bars horizontally.
	Stacked    bool          `json:"stacked,omitempty"`
	Legend     LegendOptions `json:"legend"`
}

// ChartConfig is everything needed to construct a chart.
type ChartConfig struct {
	Type    ChartType    `json:"type"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`
}

// Canvas is a named drawing surface on the dashboard page.
type Canvas interface {
	ID() string
}

// Chart is a handle to a constructed chart. Its data may be replaced in place,
// after which Update must be called for the new data to be drawn.
type Chart interface {
	// ID identifies this chart instance; it never changes over the handle's life.
	ID() string
	// Config returns the configuration the chart was constructed with, carrying
	// the current data.
	Config() ChartConfig
	// Data returns a copy of the chart's current data.
	Data() ChartData
	// SetData replaces the chart's labels and datasets without redrawing.
	SetData(data ChartData)
	// Update redraws the chart from its current data.
	Update() error
}

// ChartFactory constructs charts bound to a canvas.
type ChartFactory interface {
	NewChart(canvas Canvas, config ChartConfig) (Chart, error)
}
