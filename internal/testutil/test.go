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

// Package test provides helpers and sample data for the application's test
// suite: the test configuration, statistics fixtures and a stub of the
// statistics backend.
package test

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/jaycherian/linkpreview-dashboard/internal/config"
	"github.com/jaycherian/linkpreview-dashboard/internal/core/model"
)

// StateManager caches the test configuration so it is decoded once per run.
type StateManager struct {
	once   sync.Once
	config *config.Config
}

var state = &StateManager{}

// HandleErr fails the test if err is not nil.
func HandleErr(err error, t *testing.T) {
	t.Helper()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// ConfigDir returns the absolute path of the repository's configs directory.
func ConfigDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "configs")
}

// SetupOS points the configuration loader at the test configuration files.
func SetupOS() (err error) {
	err = os.Setenv(config.EnvConfigFilePrefix, ConfigDir())
	if err != nil {
		return err
	}
	return os.Setenv(config.EnvConfigRuntime, "test")
}

// GetConfig returns the cached test configuration.
func GetConfig() *config.Config {
	state.once.Do(func() {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("failed to load test configuration: %v\n", err)
		}
		state.config = cfg
	})
	return state.config
}

// GetTestDomainStats returns domain statistics in backend order.
func GetTestDomainStats() []model.DomainStat {
	return []model.DomainStat{
		{Domain: "news.example", TotalAccesses: 120},
		{Domain: "blog.example", TotalAccesses: 45},
		{Domain: "shop.example", TotalAccesses: 7},
	}
}

// GetTestUserAgentStats returns the canonical sparse sample: Firefox outranks
// Chrome and has no row for the most recent day.
func GetTestUserAgentStats() []model.UserAgentStat {
	return []model.UserAgentStat{
		{Day: "2024-01-02", CanonicalUserAgent: "Chrome", TotalAccesses: 5},
		{Day: "2024-01-01", CanonicalUserAgent: "Chrome", TotalAccesses: 3},
		{Day: "2024-01-01", CanonicalUserAgent: "Firefox", TotalAccesses: 10},
	}
}
