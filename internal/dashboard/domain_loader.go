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

package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/jaycherian/linkpreview-dashboard/internal/core/model"
)

// ChartWorkflow produces the chart data for one load.
type ChartWorkflow interface {
	Run(ctx context.Context, req model.ChartRequest) (*model.ChartData, error)
}

// DomainChartOptions are the doughnut's rendering options.
func DomainChartOptions(legendFontSize int, legendFontFamily string) model.ChartOptions {
	return model.ChartOptions{
		Responsive: true,
		Legend: model.LegendOptions{
			Position:   "right",
			FontSize:   legendFontSize,
			FontFamily: legendFontFamily,
		},
	}
}

// DomainChartLoader renders the per-domain doughnut. Loads are retried until
// one renders; there is no update path, so later loads are no-ops.
type DomainChartLoader struct {
	mu       sync.Mutex
	doc      Document
	canvasID string
	factory  model.ChartFactory
	workflow ChartWorkflow
	options  model.ChartOptions
	log      *slog.Logger
	chart    model.Chart
}

// NewDomainChartLoader creates a loader drawing into the canvas canvasID of doc.
func NewDomainChartLoader(doc Document, canvasID string, factory model.ChartFactory, workflow ChartWorkflow, options model.ChartOptions, log *slog.Logger) *DomainChartLoader {
	if log == nil {
		log = slog.Default()
	}
	return &DomainChartLoader{
		doc:      doc,
		canvasID: canvasID,
		factory:  factory,
		workflow: workflow,
		options:  options,
		log:      log.With("chart", "domains", "canvas", canvasID),
	}
}

// Load fetches the statistics and constructs the chart. Every failure is
// logged and leaves the page untouched.
func (l *DomainChartLoader) Load(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.chart != nil {
		l.log.DebugContext(ctx, "domain chart already rendered, ignoring load")
		return
	}
	canvas, ok := l.doc.Canvas(l.canvasID)
	if !ok {
		logLoadError(ctx, l.log, model.ErrMissingTarget)
		return
	}

	data, err := l.workflow.Run(ctx, model.ChartRequest{CanvasID: l.canvasID})
	if err != nil {
		logLoadError(ctx, l.log, err)
		return
	}

	chart, err := l.factory.NewChart(canvas, model.ChartConfig{
		Type:    model.ChartTypeDoughnut,
		Data:    *data,
		Options: l.options,
	})
	if err != nil {
		logLoadError(ctx, l.log, err)
		return
	}
	l.chart = chart
	l.log.InfoContext(ctx, "domain chart rendered", "chart_id", chart.ID(), "domains", len(data.Labels))
}

// Chart returns the rendered chart, or nil.
func (l *DomainChartLoader) Chart() model.Chart {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.chart
}

// DomainSnapshot is the observable state of the domain chart.
type DomainSnapshot struct {
	Rendered bool               `json:"rendered"`
	Chart    *model.ChartConfig `json:"chart"`
}

func (l *DomainChartLoader) Snapshot() DomainSnapshot {
	chart := l.Chart()
	if chart == nil {
		return DomainSnapshot{}
	}
	cfg := chart.Config()
	return DomainSnapshot{Rendered: true, Chart: &cfg}
}

// logLoadError logs a failed load. An empty payload is expected on a quiet
// dashboard and logs at Info; everything else logs at Error.
func logLoadError(ctx context.Context, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, model.ErrEmptyStats):
		log.InfoContext(ctx, "no link preview data available")
	case errors.Is(err, model.ErrStatus):
		log.ErrorContext(ctx, "failed to fetch link preview statistics", "error", err)
	case errors.Is(err, model.ErrMissingTarget):
		log.ErrorContext(ctx, "chart target not found on page", "error", err)
	default:
		log.ErrorContext(ctx, "error loading link preview chart", "error", err)
	}
}
