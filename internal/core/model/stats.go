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

// Package model defines the data structures shared across the dashboard chart
// loaders. This file holds the statistics rows as they arrive from the
// link preview backend, and the request object that flows into a loading chain.
//
// The statistics are pre-aggregated upstream; nothing in this module computes
// or stores them. They are decoded, reshaped for a chart and then discarded.
package model

// DomainStat is one row of the per-domain access statistics returned by
// `GET /dashboard/link-previews/stats`. The backend emits one row per domain.
type DomainStat struct {
	Domain        string `json:"Domain"`        // The domain the link previews were generated for.
	TotalAccesses int64  `json:"TotalAccesses"` // The number of times previews for this domain were served.
}

// UserAgentStat is one row of the per-day, per-user-agent access statistics
// returned by `GET /dashboard/link-previews/user-agents?days={n}`.
// The backend normally emits at most one row per (Day, CanonicalUserAgent) pair,
// but consumers must tolerate duplicates.
type UserAgentStat struct {
	Day                string `json:"Day"`                // The day of the accesses, in "YYYY-MM-DD" format.
	CanonicalUserAgent string `json:"CanonicalUserAgent"` // The bucketed client family (e.g. "Chrome", "Googlebot").
	TotalAccesses      int64  `json:"TotalAccesses"`      // The number of accesses by this client family on this day.
}

// ChartRequest is the initial input of a chart loading chain. It names the
// canvas the result is bound to, the trailing window for windowed statistics,
// and the sequence number the loader assigned to this load.
type ChartRequest struct {
	CanvasID string // The page canvas the chart is rendered into.
	Days     int    // The trailing window in days; ignored by the domain chain.
	Sequence uint64 // Monotonic per-loader load number, used to discard stale responses.
}
