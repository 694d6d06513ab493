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

// Package config defines the application configuration, loaded from TOML
// files, and the hierarchical loader that reads it.
//
// Structs:
//   - Application: Service name, project, listen port and logging settings.
//   - Upstream: Where the statistics backend lives and how hard it may be hit.
//   - Charts: Canvas ids, range selector and chart geometry of the dashboard page.
//   - Config: The top-level struct aggregating the others.
package config

import (
	"fmt"
	"time"
)

// Application holds general application settings.
type Application struct {
	Name            string `toml:"name"`              // The service name reported to telemetry.
	GoogleProjectId string `toml:"google_project_id"` // Enables the Cloud Trace / Monitoring exporters when set.
	Port            int    `toml:"port"`              // The HTTP listen port.
	LogFile         string `toml:"log_file"`          // Log file written next to stdout; empty disables it.
	Debug           bool   `toml:"debug"`             // Lowers the log level to Debug.
}

// Upstream describes the statistics backend.
type Upstream struct {
	BaseURL           string   `toml:"base_url"`            // Scheme and host of the dashboard backend.
	Username          string   `toml:"username"`            // Optional basic auth user.
	Password          string   `toml:"password"`            // Optional basic auth password.
	Timeout           Duration `toml:"timeout"`             // http.Client timeout, e.g. "10s".
	RequestsPerSecond float64  `toml:"requests_per_second"` // Outbound rate limit.
	Burst             int      `toml:"burst"`               // Outbound burst size.
}

// Charts describes the dashboard page the loaders render into.
type Charts struct {
	DomainCanvasID    string `toml:"domain_canvas_id"`
	UserAgentCanvasID string `toml:"user_agent_canvas_id"`
	RangeSelectorID   string `toml:"range_selector_id"` // Empty means the page has no range selector.
	DefaultRangeDays  int    `toml:"default_range_days"`
	RangeOptions      []int  `toml:"range_options"` // Day counts of the range buttons.
	Width             string `toml:"width"`
	Height            string `toml:"height"`
	LegendFontSize    int    `toml:"legend_font_size"`
	LegendFontFamily  string `toml:"legend_font_family"`
}

// Config represents the overall configuration for the application.
type Config struct {
	Application Application `toml:"application"`
	Upstream    Upstream    `toml:"upstream"`
	Charts      Charts      `toml:"charts"`
}

// NewConfig returns a Config holding the defaults. Values decoded from the TOML
// files overwrite them.
func NewConfig() *Config {
	return &Config{
		Application: Application{
			Name:    "linkpreview-dashboard",
			Port:    8080,
			LogFile: "app.log",
		},
		Upstream: Upstream{
			BaseURL:           "http://localhost:8000",
			Timeout:           Duration{10 * time.Second},
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Charts: Charts{
			DomainCanvasID:    "linkpreviews-domain-chart",
			UserAgentCanvasID: "linkpreviews-user-agent-chart",
			RangeSelectorID:   "linkpreviews-user-agent-range",
			DefaultRangeDays:  7,
			RangeOptions:      []int{7, 14, 30, 90},
			Width:             "900px",
			Height:            "500px",
			LegendFontSize:    14,
			LegendFontFamily:  "Inter",
		},
	}
}

// Validate reports the first setting the server cannot start with.
func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url must be set")
	}
	if c.Charts.DefaultRangeDays <= 0 {
		return fmt.Errorf("charts.default_range_days must be positive, got %d", c.Charts.DefaultRangeDays)
	}
	for _, days := range c.Charts.RangeOptions {
		if days <= 0 {
			return fmt.Errorf("charts.range_options must be positive, got %d", days)
		}
	}
	if c.Upstream.RequestsPerSecond <= 0 || c.Upstream.Burst <= 0 {
		return fmt.Errorf("upstream rate limit must be positive")
	}
	return nil
}

// Duration is a time.Duration decoded from a TOML string such as "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}
