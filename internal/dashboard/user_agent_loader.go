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
	"fmt"
	"log/slog"
	"sync"

	"github.com/jaycherian/linkpreview-dashboard/internal/core/model"
)

// LoaderState is the lifecycle state of the user agent chart.
type LoaderState int

const (
	StateUninitialized LoaderState = iota
	StateLoading
	StateRendered
)

func (s LoaderState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateRendered:
		return "rendered"
	default:
		return fmt.Sprintf("LoaderState(%d)", int(s))
	}
}

func (s LoaderState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UserAgentChartOptions are the stacked horizontal bar's rendering options.
func UserAgentChartOptions(legendFontSize int, legendFontFamily string) model.ChartOptions {
	return model.ChartOptions{
		Responsive: true,
		IndexAxis:  "y",
		Stacked:    true,
		Legend: model.LegendOptions{
			Position:   "top",
			FontSize:   legendFontSize,
			FontFamily: legendFontFamily,
		},
	}
}

// UserAgentChartLoader renders the per-day user agent chart and re-renders it
// whenever the range changes. The chart is created by the first successful load
// and updated in place afterwards.
//
// Loads may overlap. Each one takes a sequence number and only the most recent
// is allowed to touch the chart; older responses are discarded.
type UserAgentChartLoader struct {
	doc             Document
	canvasID        string
	rangeSelectorID string
	factory         model.ChartFactory
	workflow        ChartWorkflow
	options         model.ChartOptions
	log             *slog.Logger

	mu           sync.Mutex
	canvas       model.Canvas
	buttons      []*RangeButton
	state        LoaderState
	days         int
	renderedDays int
	chart        model.Chart
	seq          uint64
}

// NewUserAgentChartLoader creates a loader drawing into canvasID, driven by
// the range selector rangeSelectorID when the page has one.
func NewUserAgentChartLoader(doc Document, canvasID, rangeSelectorID string, defaultDays int, factory model.ChartFactory, workflow ChartWorkflow, options model.ChartOptions, log *slog.Logger) *UserAgentChartLoader {
	if log == nil {
		log = slog.Default()
	}
	return &UserAgentChartLoader{
		doc:             doc,
		canvasID:        canvasID,
		rangeSelectorID: rangeSelectorID,
		factory:         factory,
		workflow:        workflow,
		options:         options,
		log:             log.With("chart", "user-agents", "canvas", canvasID),
		days:            defaultDays,
	}
}

// Init binds the loader to the page and performs the first load with the
// default range. Without the canvas nothing happens. Without the range
// selector the chart still loads, with no controls wired.
func (l *UserAgentChartLoader) Init(ctx context.Context) {
	l.mu.Lock()
	if l.canvas != nil {
		l.mu.Unlock()
		l.log.DebugContext(ctx, "user agent chart already initialized")
		return
	}
	canvas, ok := l.doc.Canvas(l.canvasID)
	if !ok {
		l.mu.Unlock()
		logLoadError(ctx, l.log, model.ErrMissingTarget)
		return
	}
	l.canvas = canvas

	if buttons, ok := l.doc.RangeControls(l.rangeSelectorID); ok {
		l.buttons = buttons
		for _, b := range buttons {
			days := b.Days()
			b.OnClick(func(ctx context.Context) { l.SetRange(ctx, days) })
		}
		MarkPressed(buttons, l.days)
	} else {
		l.log.DebugContext(ctx, "range selector not found, controls not wired", "range_selector", l.rangeSelectorID)
	}
	days := l.days
	l.mu.Unlock()

	l.load(ctx, days)
}

// SetRange makes days the active range, presses its button and reloads the
// chart. It does nothing before a successful Init.
func (l *UserAgentChartLoader) SetRange(ctx context.Context, days int) {
	if days <= 0 {
		l.log.WarnContext(ctx, "ignoring invalid range", "days", days)
		return
	}
	l.mu.Lock()
	if l.canvas == nil {
		l.mu.Unlock()
		l.log.DebugContext(ctx, "user agent chart not initialized, ignoring range change", "days", days)
		return
	}
	l.days = days
	MarkPressed(l.buttons, days)
	l.mu.Unlock()

	l.load(ctx, days)
}

// Reload repeats a page load. Before a successful Init it retries Init;
// afterwards it reloads the chart at the active range.
func (l *UserAgentChartLoader) Reload(ctx context.Context) {
	l.mu.Lock()
	if l.canvas == nil {
		l.mu.Unlock()
		l.Init(ctx)
		return
	}
	days := l.days
	l.mu.Unlock()

	l.load(ctx, days)
}

func (l *UserAgentChartLoader) load(ctx context.Context, days int) {
	l.mu.Lock()
	l.seq++
	req := model.ChartRequest{CanvasID: l.canvasID, Days: days, Sequence: l.seq}
	l.state = StateLoading
	l.mu.Unlock()

	data, err := l.workflow.Run(ctx, req)

	l.mu.Lock()
	defer l.mu.Unlock()

	if req.Sequence != l.seq {
		l.log.DebugContext(ctx, "discarding user agent stats",
			"error", model.ErrStaleResponse, "days", days, "sequence", req.Sequence, "latest", l.seq)
		return
	}
	if err != nil {
		l.settle()
		logLoadError(ctx, l.log, err)
		return
	}

	if l.chart == nil {
		chart, err := l.factory.NewChart(l.canvas, model.ChartConfig{
			Type:    model.ChartTypeBar,
			Data:    *data,
			Options: l.options,
		})
		if err != nil {
			l.settle()
			logLoadError(ctx, l.log, err)
			return
		}
		l.chart = chart
	} else {
		l.chart.SetData(*data)
		if err := l.chart.Update(); err != nil {
			l.settle()
			logLoadError(ctx, l.log, err)
			return
		}
	}
	l.state = StateRendered
	l.renderedDays = days
	l.log.InfoContext(ctx, "user agent chart rendered",
		"chart_id", l.chart.ID(), "days", days, "agents", len(data.Datasets))
}

// settle returns the state to the last rendered one after a failed load.
func (l *UserAgentChartLoader) settle() {
	if l.chart != nil {
		l.state = StateRendered
	} else {
		l.state = StateUninitialized
	}
}

func (l *UserAgentChartLoader) State() LoaderState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Days returns the active range.
func (l *UserAgentChartLoader) Days() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.days
}

// RenderedDays returns the range the chart currently shows, 0 before the
// first render.
func (l *UserAgentChartLoader) RenderedDays() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.renderedDays
}

// Chart returns the chart handle, or nil before the first render.
func (l *UserAgentChartLoader) Chart() model.Chart {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.chart
}

// Buttons returns the wired range buttons, nil if the page has no selector.
func (l *UserAgentChartLoader) Buttons() []*RangeButton {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*RangeButton(nil), l.buttons...)
}

// ControlState is the observable state of one range button.
type ControlState struct {
	Days    int  `json:"days"`
	Pressed bool `json:"pressed"`
}

// UserAgentSnapshot is the observable state of the user agent chart.
type UserAgentSnapshot struct {
	State        LoaderState        `json:"state"`
	Days         int                `json:"days"`
	RenderedDays int                `json:"rendered_days"`
	Controls     []ControlState     `json:"controls"`
	Chart        *model.ChartConfig `json:"chart"`
}

func (l *UserAgentChartLoader) Snapshot() UserAgentSnapshot {
	l.mu.Lock()
	out := UserAgentSnapshot{
		State:        l.state,
		Days:         l.days,
		RenderedDays: l.renderedDays,
		Controls:     make([]ControlState, 0, len(l.buttons)),
	}
	buttons := append([]*RangeButton(nil), l.buttons...)
	chart := l.chart
	l.mu.Unlock()

	for _, b := range buttons {
		out.Controls = append(out.Controls, ControlState{Days: b.Days(), Pressed: b.Pressed()})
	}
	if chart != nil {
		cfg := chart.Config()
		out.Chart = &cfg
	}
	return out
}
