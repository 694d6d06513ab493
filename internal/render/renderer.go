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

// Package render draws dashboard charts with go-echarts. Renderer is the
// model.ChartFactory the loaders construct charts through; every chart it
// hands out stays registered and is written by Render in construction order.
package render

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/google/uuid"
	"github.com/jaycherian/linkpreview-dashboard/internal/core/model"
)

// ErrCanvasInUse is returned when a chart is requested for a canvas that
// already carries one.
var ErrCanvasInUse = errors.New("canvas is already in use")

// Size is the pixel geometry charts are initialized with.
type Size struct {
	Width  string
	Height string
}

// Renderer constructs and draws charts. It is safe for concurrent use.
type Renderer struct {
	mu        sync.Mutex
	size      Size
	pageTitle string
	handles   []*handle
	byCanvas  map[string]*handle
}

// NewRenderer creates a renderer producing pages titled pageTitle.
//
// Inputs:
//   - pageTitle: The HTML title of the rendered page.
//   - size: The width and height every chart is initialized with.
func NewRenderer(pageTitle string, size Size) *Renderer {
	return &Renderer{
		size:      size,
		pageTitle: pageTitle,
		byCanvas:  make(map[string]*handle),
	}
}

// NewChart implements model.ChartFactory. The chart is drawn with
// config.Data straight away and is bound to the canvas for the renderer's
// lifetime.
//
// Inputs:
//   - canvas: The page canvas the chart is drawn in. The chart id is the
//     canvas id.
//   - config: The chart type, initial data and options.
//
// Outputs:
//   - model.Chart: The chart handle.
//   - error: model.ErrMissingTarget for a nil canvas, ErrCanvasInUse when the
//     canvas already carries a chart, or an error for an unsupported type.
func (r *Renderer) NewChart(canvas model.Canvas, config model.ChartConfig) (model.Chart, error) {
	if canvas == nil {
		return nil, model.ErrMissingTarget
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byCanvas[canvas.ID()]; ok {
		return nil, fmt.Errorf("%w: %s", ErrCanvasInUse, canvas.ID())
	}

	h := &handle{
		id:       uuid.NewString(),
		renderer: r,
		config:   config,
	}
	h.config.Data = config.Data.Clone()

	switch config.Type {
	case model.ChartTypeDoughnut:
		h.drawer = newDoughnut(canvas.ID(), r.size, config.Options)
	case model.ChartTypeBar:
		h.drawer = newStackedBar(canvas.ID(), r.size, config.Options)
	default:
		return nil, fmt.Errorf("unsupported chart type %q", config.Type)
	}
	h.drawer.draw(h.config.Data)

	r.handles = append(r.handles, h)
	r.byCanvas[canvas.ID()] = h
	return h, nil
}

// Chart returns the chart bound to canvasID, if one was constructed.
func (r *Renderer) Chart(canvasID string) (model.Chart, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.byCanvas[canvasID]
	if !ok {
		return nil, false
	}
	return h, true
}

// Len returns the number of charts constructed so far.
func (r *Renderer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// Render writes one HTML page holding every chart, as last drawn.
func (r *Renderer) Render(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	page := components.NewPage()
	page.PageTitle = r.pageTitle
	for _, h := range r.handles {
		page.AddCharts(h.drawer.charter())
	}
	return page.Render(w)
}

// handle is the model.Chart returned by NewChart. SetData stages data; only
// Update redraws the underlying go-echarts instance, which is never replaced.
type handle struct {
	id       string
	renderer *Renderer
	config   model.ChartConfig
	drawer   drawer
}

func (h *handle) ID() string {
	return h.id
}

func (h *handle) Config() model.ChartConfig {
	h.renderer.mu.Lock()
	defer h.renderer.mu.Unlock()
	out := h.config
	out.Data = h.config.Data.Clone()
	return out
}

func (h *handle) Data() model.ChartData {
	h.renderer.mu.Lock()
	defer h.renderer.mu.Unlock()
	return h.config.Data.Clone()
}

func (h *handle) SetData(data model.ChartData) {
	h.renderer.mu.Lock()
	defer h.renderer.mu.Unlock()
	h.config.Data = data.Clone()
}

func (h *handle) Update() error {
	h.renderer.mu.Lock()
	defer h.renderer.mu.Unlock()
	h.drawer.draw(h.config.Data)
	return nil
}

// drawer adapts one go-echarts chart type to model.ChartData.
type drawer interface {
	draw(data model.ChartData)
	charter() components.Charter
}
