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

// Package stats is the HTTP client of the link preview statistics backend.
//
// Every request first waits on a token bucket limiter so that a burst of range
// changes cannot flood the backend, and goes out through an otelhttp transport
// so the call shows up as a child span of the chart load that issued it.
// Failures are classified with the sentinels of the model package.
package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jaycherian/linkpreview-dashboard/internal/config"
	"github.com/jaycherian/linkpreview-dashboard/internal/core/model"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// Statistics endpoints, relative to the upstream base URL.
const (
	DomainStatsPath    = "/dashboard/link-previews/stats"
	UserAgentStatsPath = "/dashboard/link-previews/user-agents"
)

const bodyPreviewLength = 200

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Client fetches statistics from the dashboard backend.
type Client struct {
	baseURL    string
	username   string
	password   string
	HTTPClient *http.Client
	RateLimit  *rate.Limiter
	Log        *slog.Logger
}

// NewClient creates a client for the upstream described by cfg.
func NewClient(cfg config.Upstream, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		username: cfg.Username,
		password: cfg.Password,
		HTTPClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.Timeout.Duration,
		},
		RateLimit: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		Log:       log,
	}
}

// DomainStats returns the per-domain access totals, in backend order.
func (c *Client) DomainStats(ctx context.Context) ([]model.DomainStat, error) {
	var out []model.DomainStat
	if err := c.getJSON(ctx, DomainStatsPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UserAgentStats returns the per-day, per-agent access totals of the trailing
// window of days.
func (c *Client) UserAgentStats(ctx context.Context, days int) ([]model.UserAgentStat, error) {
	var out []model.UserAgentStat
	query := url.Values{"days": []string{strconv.Itoa(days)}}
	if err := c.getJSON(ctx, UserAgentStatsPath, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, target interface{}) error {
	reqURL := c.baseURL + endpoint
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	if err := c.RateLimit.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %w", model.ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%w: building request for %s: %w", model.ErrTransport, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", model.ErrTransport, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %w", model.ErrTransport, endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.Log.DebugContext(ctx, "stats endpoint returned non-success status",
			"endpoint", endpoint,
			"status_code", resp.StatusCode,
			"body_preview", truncateString(string(body), bodyPreviewLength),
		)
		return &model.StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	if err := json.Unmarshal(body, target); err != nil {
		c.Log.DebugContext(ctx, "failed to unmarshal stats response",
			"endpoint", endpoint,
			"error", err,
			"body_preview", truncateString(string(body), bodyPreviewLength),
		)
		return fmt.Errorf("%w: %s: %w", model.ErrDecode, endpoint, err)
	}
	return nil
}
