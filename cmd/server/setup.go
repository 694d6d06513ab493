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

package main

import (
	"log/slog"

	"github.com/jaycherian/linkpreview-dashboard/internal/config"
	"github.com/jaycherian/linkpreview-dashboard/internal/core/workflow"
	"github.com/jaycherian/linkpreview-dashboard/internal/dashboard"
	"github.com/jaycherian/linkpreview-dashboard/internal/render"
	"github.com/jaycherian/linkpreview-dashboard/internal/stats"
)

// StateManager holds the shared components of the server.
type StateManager struct {
	config     *config.Config
	page       *dashboard.Page
	renderer   *render.Renderer
	domains    *dashboard.DomainChartLoader
	userAgents *dashboard.UserAgentChartLoader
}

var state = &StateManager{}

// GetConfig loads the application configuration once.
func GetConfig() (*config.Config, error) {
	if state.config == nil {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		state.config = cfg
	}
	return state.config, nil
}

// InitState wires the page, the renderer and both chart loaders.
func InitState(cfg *config.Config) {
	charts := cfg.Charts
	client := stats.NewClient(cfg.Upstream, slog.Default())

	page := dashboard.NewPage()
	page.AddCanvas(charts.DomainCanvasID)
	page.AddCanvas(charts.UserAgentCanvasID)
	if charts.RangeSelectorID != "" && len(charts.RangeOptions) > 0 {
		page.AddRangeSelector(charts.RangeSelectorID, charts.RangeOptions...)
	}

	renderer := render.NewRenderer("Link Previews", render.Size{Width: charts.Width, Height: charts.Height})

	state.page = page
	state.renderer = renderer
	state.domains = dashboard.NewDomainChartLoader(
		page,
		charts.DomainCanvasID,
		renderer,
		workflow.NewDomainChartWorkflow(client),
		dashboard.DomainChartOptions(charts.LegendFontSize, charts.LegendFontFamily),
		slog.Default(),
	)
	state.userAgents = dashboard.NewUserAgentChartLoader(
		page,
		charts.UserAgentCanvasID,
		charts.RangeSelectorID,
		charts.DefaultRangeDays,
		renderer,
		workflow.NewUserAgentChartWorkflow(client),
		dashboard.UserAgentChartOptions(charts.LegendFontSize, charts.LegendFontFamily),
		slog.Default(),
	)
}
