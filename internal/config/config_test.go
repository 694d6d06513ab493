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

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jaycherian/linkpreview-dashboard/internal/config"
	"github.com/zeebo/assert"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaultsWithoutFiles(t *testing.T) {
	t.Setenv(config.EnvConfigFilePrefix, t.TempDir())
	t.Setenv(config.EnvConfigRuntime, "")

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, cfg.Application.Port, 8080)
	assert.Equal(t, cfg.Charts.DefaultRangeDays, 7)
	assert.DeepEqual(t, cfg.Charts.RangeOptions, []int{7, 14, 30, 90})
	assert.Equal(t, cfg.Upstream.Timeout.Duration, 10*time.Second)
	assert.Equal(t, cfg.Charts.DomainCanvasID, "linkpreviews-domain-chart")
}

func TestLoadRuntimeOverridesBase(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvConfigFilePrefix, dir)
	t.Setenv(config.EnvConfigRuntime, "local")

	writeFile(t, dir, ".env.toml", `
[application]
name = "base"
port = 9000

[upstream]
base_url = "http://stats.internal"
timeout = "3s"

[charts]
range_options = [1, 7]
`)
	writeFile(t, dir, ".env.local.toml", `
[application]
name = "local"
`)

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, cfg.Application.Name, "local")
	assert.Equal(t, cfg.Application.Port, 9000)
	assert.Equal(t, cfg.Upstream.BaseURL, "http://stats.internal")
	assert.Equal(t, cfg.Upstream.Timeout.Duration, 3*time.Second)
	assert.DeepEqual(t, cfg.Charts.RangeOptions, []int{1, 7})
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvConfigFilePrefix, dir)
	t.Setenv(config.EnvConfigRuntime, "test")
	writeFile(t, dir, ".env.test.toml", "[application\nport = ")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := config.NewConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Charts.RangeOptions = []int{7, 0}
	assert.Error(t, cfg.Validate())

	cfg = config.NewConfig()
	cfg.Upstream.BaseURL = ""
	assert.Error(t, cfg.Validate())
}
