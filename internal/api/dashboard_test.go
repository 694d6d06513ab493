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

package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jaycherian/linkpreview-dashboard/internal/api"
	"github.com/jaycherian/linkpreview-dashboard/internal/core/workflow"
	"github.com/jaycherian/linkpreview-dashboard/internal/dashboard"
	"github.com/jaycherian/linkpreview-dashboard/internal/render"
	"github.com/jaycherian/linkpreview-dashboard/internal/stats"
	test "github.com/jaycherian/linkpreview-dashboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userAgentBody struct {
	State        string `json:"state"`
	Days         int    `json:"days"`
	RenderedDays int    `json:"rendered_days"`
	Controls     []struct {
		Days    int  `json:"days"`
		Pressed bool `json:"pressed"`
	} `json:"controls"`
	Chart *struct {
		Type string `json:"type"`
		Data struct {
			Labels []string `json:"labels"`
		} `json:"data"`
	} `json:"chart"`
}

func setup(t *testing.T, withSelector bool) (*gin.Engine, *test.StubUpstream) {
	t.Helper()
	return setupWith(t, withSelector, nil)
}

// setupWith lets prepare adjust the upstream before the startup load runs.
func setupWith(t *testing.T, withSelector bool, prepare func(*test.StubUpstream)) (*gin.Engine, *test.StubUpstream) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := test.GetConfig()
	upstream := test.NewStubUpstream(t)
	if prepare != nil {
		prepare(upstream)
	}
	client := stats.NewClient(upstream.Upstream(), nil)

	page := dashboard.NewPage()
	page.AddCanvas(cfg.Charts.DomainCanvasID)
	page.AddCanvas(cfg.Charts.UserAgentCanvasID)
	if withSelector {
		page.AddRangeSelector(cfg.Charts.RangeSelectorID, cfg.Charts.RangeOptions...)
	}

	renderer := render.NewRenderer("Link previews", render.Size{Width: cfg.Charts.Width, Height: cfg.Charts.Height})
	domains := dashboard.NewDomainChartLoader(page, cfg.Charts.DomainCanvasID, renderer,
		workflow.NewDomainChartWorkflow(client), dashboard.DomainChartOptions(14, "Inter"), nil)
	agents := dashboard.NewUserAgentChartLoader(page, cfg.Charts.UserAgentCanvasID, cfg.Charts.RangeSelectorID,
		cfg.Charts.DefaultRangeDays, renderer, workflow.NewUserAgentChartWorkflow(client),
		dashboard.UserAgentChartOptions(14, "Inter"), nil)

	dashboard.LoadPage(context.Background(), domains, agents)

	r := gin.New()
	api.Health(r)
	api.LinkPreviewCharts(&r.RouterGroup, &api.Dashboard{Renderer: renderer, Domains: domains, UserAgents: agents})
	return r, upstream
}

func do(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := setup(t, true)
	w := do(r, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestPageRendersBothCharts(t *testing.T) {
	r, _ := setup(t, true)
	w := do(r, http.MethodGet, api.ChartsPath)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "news.example")
	assert.Contains(t, w.Body.String(), "Firefox")
}

func TestPageLoadRecoversFromStartupFailure(t *testing.T) {
	r, upstream := setupWith(t, true, func(u *test.StubUpstream) {
		u.SetDomainStats(http.StatusServiceUnavailable, nil)
		u.SetUserAgentStatus(http.StatusServiceUnavailable)
	})

	var domains struct {
		Rendered bool `json:"rendered"`
	}
	require.NoError(t, json.Unmarshal(do(r, http.MethodGet, api.ChartsPath+"/domains").Body.Bytes(), &domains))
	require.False(t, domains.Rendered)

	upstream.SetDomainStats(http.StatusOK, test.GetTestDomainStats())
	upstream.SetUserAgentStatus(http.StatusOK)

	w := do(r, http.MethodGet, api.ChartsPath)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "news.example")
	assert.Contains(t, w.Body.String(), "Firefox")

	require.NoError(t, json.Unmarshal(do(r, http.MethodGet, api.ChartsPath+"/domains").Body.Bytes(), &domains))
	assert.True(t, domains.Rendered)

	var agents userAgentBody
	require.NoError(t, json.Unmarshal(do(r, http.MethodGet, api.ChartsPath+"/user-agents").Body.Bytes(), &agents))
	assert.Equal(t, "rendered", agents.State)
	assert.Equal(t, 7, agents.RenderedDays)
}

func TestPageLoadRefreshesActiveRange(t *testing.T) {
	r, upstream := setup(t, true)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, api.ChartsPath+"/user-agents/range?days=30").Code)

	require.Equal(t, http.StatusOK, do(r, http.MethodGet, api.ChartsPath).Code)

	count := 0
	for _, uri := range upstream.Requests() {
		if uri == stats.UserAgentStatsPath+"?days=30" {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestDomainsSnapshot(t *testing.T) {
	r, _ := setup(t, true)
	w := do(r, http.MethodGet, api.ChartsPath+"/domains")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Rendered bool `json:"rendered"`
		Chart    struct {
			Type string `json:"type"`
			Data struct {
				Labels []string `json:"labels"`
			} `json:"data"`
		} `json:"chart"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Rendered)
	assert.Equal(t, "doughnut", body.Chart.Type)
	assert.Equal(t, []string{"news.example", "blog.example", "shop.example"}, body.Chart.Data.Labels)
}

func TestRangeChangeThroughButton(t *testing.T) {
	r, upstream := setup(t, true)

	w := do(r, http.MethodPost, api.ChartsPath+"/user-agents/range?days=30")
	require.Equal(t, http.StatusOK, w.Code)

	var body userAgentBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "rendered", body.State)
	assert.Equal(t, 30, body.Days)
	assert.Equal(t, 30, body.RenderedDays)
	pressed := 0
	for _, c := range body.Controls {
		if c.Pressed {
			pressed++
			assert.Equal(t, 30, c.Days)
		}
	}
	assert.Equal(t, 1, pressed)
	require.NotNil(t, body.Chart)
	assert.Equal(t, "bar", body.Chart.Type)
	assert.Contains(t, upstream.Requests(), stats.UserAgentStatsPath+"?days=30")
}

func TestRangeChangeErrors(t *testing.T) {
	r, _ := setup(t, true)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, api.ChartsPath+"/user-agents/range?days=abc").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, api.ChartsPath+"/user-agents/range?days=0").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, api.ChartsPath+"/user-agents/range").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, api.ChartsPath+"/user-agents/range?days=5").Code)
}

func TestRangeChangeWithoutSelector(t *testing.T) {
	r, _ := setup(t, false)

	w := do(r, http.MethodPost, api.ChartsPath+"/user-agents/range?days=5")
	require.Equal(t, http.StatusOK, w.Code)

	var body userAgentBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 5, body.RenderedDays)
	assert.Empty(t, body.Controls)
}

func TestUserAgentFailureKeepsChart(t *testing.T) {
	r, upstream := setup(t, true)
	upstream.SetUserAgentStatus(http.StatusServiceUnavailable)

	w := do(r, http.MethodPost, api.ChartsPath+"/user-agents/range?days=14")
	require.Equal(t, http.StatusOK, w.Code)

	var body userAgentBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "rendered", body.State)
	assert.Equal(t, 14, body.Days)
	assert.Equal(t, 7, body.RenderedDays)
	require.NotNil(t, body.Chart)
	assert.Equal(t, []string{"2024-01-02", "2024-01-01"}, body.Chart.Data.Labels)
}
