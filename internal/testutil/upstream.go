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

package test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/jaycherian/linkpreview-dashboard/internal/config"
	"github.com/jaycherian/linkpreview-dashboard/internal/core/model"
	"github.com/jaycherian/linkpreview-dashboard/internal/stats"
)

// StubUpstream is an in-process statistics backend. Responses can be changed
// between requests; every request is recorded.
type StubUpstream struct {
	*httptest.Server

	mu             sync.Mutex
	domainStatus   int
	domainStats    []model.DomainStat
	userAgentByDay map[int][]model.UserAgentStat
	userAgentCode  int
	requests       []string
}

// NewStubUpstream starts a stub serving the sample fixtures. It is closed when
// the test ends.
func NewStubUpstream(t *testing.T) *StubUpstream {
	t.Helper()
	s := &StubUpstream{
		domainStatus:   http.StatusOK,
		domainStats:    GetTestDomainStats(),
		userAgentByDay: make(map[int][]model.UserAgentStat),
		userAgentCode:  http.StatusOK,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+stats.DomainStatsPath, s.serveDomains)
	mux.HandleFunc("GET "+stats.UserAgentStatsPath, s.serveUserAgents)
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// Upstream returns an upstream configuration targeting the stub.
func (s *StubUpstream) Upstream() config.Upstream {
	cfg := config.NewConfig().Upstream
	cfg.BaseURL = s.URL
	cfg.Timeout = config.Duration{Duration: 2 * time.Second}
	cfg.RequestsPerSecond = 1000
	cfg.Burst = 100
	return cfg
}

// SetDomainStats replaces the domain response.
func (s *StubUpstream) SetDomainStats(status int, rows []model.DomainStat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.domainStatus = status
	s.domainStats = rows
}

// SetUserAgentStats sets the rows returned for a window of days.
func (s *StubUpstream) SetUserAgentStats(days int, rows []model.UserAgentStat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userAgentByDay[days] = rows
}

// SetUserAgentStatus sets the status of every user agent response.
func (s *StubUpstream) SetUserAgentStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userAgentCode = status
}

// Requests returns the request URIs received so far.
func (s *StubUpstream) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *StubUpstream) serveDomains(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.URL.RequestURI())
	status, rows := s.domainStatus, s.domainStats
	s.mu.Unlock()
	writeJSON(w, status, rows)
}

func (s *StubUpstream) serveUserAgents(w http.ResponseWriter, r *http.Request) {
	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil || days <= 0 {
		http.Error(w, "invalid days", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.requests = append(s.requests, r.URL.RequestURI())
	status := s.userAgentCode
	rows, ok := s.userAgentByDay[days]
	s.mu.Unlock()
	if !ok {
		rows = GetTestUserAgentStats()
	}
	writeJSON(w, status, rows)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status != http.StatusOK {
		return
	}
	if body == nil {
		body = []struct{}{}
	}
	_ = json.NewEncoder(w).Encode(body)
}
