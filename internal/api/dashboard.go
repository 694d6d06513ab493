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

// Package api contains the HTTP routes of the dashboard server.
//
// Functions:
//   - LinkPreviewCharts: Mounts the "/dashboard/link-previews/charts" group,
//     serving the rendered page (each GET is a page load), the state of both charts, and the range
//     selector of the user agent chart.
//   - Health: Mounts the liveness probe.
package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jaycherian/linkpreview-dashboard/internal/dashboard"
	"github.com/jaycherian/linkpreview-dashboard/internal/render"
)

// ChartsPath is the route group the chart endpoints live under.
const ChartsPath = "/dashboard/link-previews/charts"

// Dashboard holds what the chart routes serve.
type Dashboard struct {
	Renderer   *render.Renderer
	Domains    *dashboard.DomainChartLoader
	UserAgents *dashboard.UserAgentChartLoader
	Log        *slog.Logger
}

// LinkPreviewCharts registers the chart endpoints on r.
//
// Inputs:
//   - r: The router group the "/dashboard/link-previews/charts" group is added to.
//   - d: The renderer and loaders backing the endpoints.
func LinkPreviewCharts(r *gin.RouterGroup, d *Dashboard) {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	charts := r.Group(ChartsPath)
	{
		charts.GET("", func(c *gin.Context) {
			dashboard.LoadPage(c.Request.Context(), d.Domains, d.UserAgents)

			var buf bytes.Buffer
			if err := d.Renderer.Render(&buf); err != nil {
				d.Log.ErrorContext(c.Request.Context(), "failed to render dashboard page", "error", err)
				c.Status(http.StatusInternalServerError)
				return
			}
			c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
		})

		charts.GET("/domains", func(c *gin.Context) {
			c.JSON(http.StatusOK, d.Domains.Snapshot())
		})

		charts.GET("/user-agents", func(c *gin.Context) {
			c.JSON(http.StatusOK, d.UserAgents.Snapshot())
		})

		charts.POST("/user-agents/range", func(c *gin.Context) {
			days, err := strconv.Atoi(c.Query("days"))
			if err != nil || days <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
				return
			}

			if buttons := d.UserAgents.Buttons(); len(buttons) > 0 {
				button, ok := dashboard.FindButton(buttons, days)
				if !ok {
					c.JSON(http.StatusNotFound, gin.H{"error": "no range button for " + strconv.Itoa(days) + " days"})
					return
				}
				button.Click(c.Request.Context())
			} else {
				d.UserAgents.SetRange(c.Request.Context(), days)
			}
			c.JSON(http.StatusOK, d.UserAgents.Snapshot())
		})
	}
}

// Health registers GET /healthz.
func Health(r gin.IRoutes) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
}
