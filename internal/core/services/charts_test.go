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

// Package services_test contains unit tests for the chart data transforms.
package services_test

import (
	"fmt"
	"math/rand"
	"slices"
	"sort"
	"testing"

	"github.com/jaycherian/linkpreview-dashboard/internal/core/model"
	"github.com/jaycherian/linkpreview-dashboard/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPivotUserAgentStatsExample checks the canonical three-row example:
// Firefox (10) outranks Chrome (5+3), days are most recent first, and the
// missing (2024-01-02, Firefox) cell is filled with 0.
func TestPivotUserAgentStatsExample(t *testing.T) {
	rows := []model.UserAgentStat{
		{Day: "2024-01-02", CanonicalUserAgent: "Chrome", TotalAccesses: 5},
		{Day: "2024-01-01", CanonicalUserAgent: "Chrome", TotalAccesses: 3},
		{Day: "2024-01-01", CanonicalUserAgent: "Firefox", TotalAccesses: 10},
	}

	out := services.PivotUserAgentStats(rows)

	assert.Equal(t, []string{"2024-01-02", "2024-01-01"}, out.Labels)
	require.Len(t, out.Datasets, 2)
	assert.Equal(t, "Firefox", out.Datasets[0].Label)
	assert.Equal(t, []int64{0, 10}, out.Datasets[0].Data)
	assert.Equal(t, "Chrome", out.Datasets[1].Label)
	assert.Equal(t, []int64{5, 3}, out.Datasets[1].Data)
}

func TestPivotUserAgentStatsEmpty(t *testing.T) {
	out := services.PivotUserAgentStats(nil)
	assert.Empty(t, out.Labels)
	assert.Empty(t, out.Datasets)
}

// TestPivotUserAgentStatsDuplicates pins the duplicate handling: the agent
// total counts every row, but the cell keeps the last row's value.
func TestPivotUserAgentStatsDuplicates(t *testing.T) {
	rows := []model.UserAgentStat{
		{Day: "2024-03-01", CanonicalUserAgent: "Safari", TotalAccesses: 4},
		{Day: "2024-03-01", CanonicalUserAgent: "Edge", TotalAccesses: 7},
		{Day: "2024-03-01", CanonicalUserAgent: "Safari", TotalAccesses: 6},
	}

	m := services.BuildUserAgentMatrix(rows)

	assert.Equal(t, []string{"Safari", "Edge"}, m.Agents)
	assert.Equal(t, []int64{10, 7}, m.Totals)
	assert.Equal(t, [][]int64{{6, 7}}, m.Cells)
}

// TestPivotUserAgentStatsTiesAreStable checks that agents with equal totals
// keep the order of their first appearance.
func TestPivotUserAgentStatsTiesAreStable(t *testing.T) {
	rows := []model.UserAgentStat{
		{Day: "2024-03-01", CanonicalUserAgent: "curl", TotalAccesses: 2},
		{Day: "2024-03-02", CanonicalUserAgent: "wget", TotalAccesses: 2},
		{Day: "2024-03-02", CanonicalUserAgent: "Go", TotalAccesses: 2},
	}

	out := services.PivotUserAgentStats(rows)

	labels := make([]string, len(out.Datasets))
	for i, ds := range out.Datasets {
		labels[i] = ds.Label
	}
	assert.Equal(t, []string{"curl", "wget", "Go"}, labels)
}

// TestPivotUserAgentStatsProperties runs the ordering, density and zero-fill
// properties over randomly generated sparse rows.
func TestPivotUserAgentStatsProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	agentNames := []string{"Chrome", "Firefox", "Safari", "Edge", "Googlebot", "curl"}

	for iteration := 0; iteration < 50; iteration++ {
		t.Run(fmt.Sprintf("seed-%d", iteration), func(t *testing.T) {
			var rows []model.UserAgentStat
			present := make(map[[2]string]int64)
			for n := r.Intn(30); n > 0; n-- {
				row := model.UserAgentStat{
					Day:                fmt.Sprintf("2024-02-%02d", 1+r.Intn(14)),
					CanonicalUserAgent: agentNames[r.Intn(len(agentNames))],
					TotalAccesses:      int64(r.Intn(500)),
				}
				rows = append(rows, row)
				present[[2]string{row.Day, row.CanonicalUserAgent}] = row.TotalAccesses
			}

			out := services.PivotUserAgentStats(rows)

			assert.True(t, sort.IsSorted(sort.Reverse(sort.StringSlice(out.Labels))), "labels must be descending")
			assert.Equal(t, len(distinct(rows, func(s model.UserAgentStat) string { return s.Day })), len(out.Labels))
			assert.Equal(t, len(distinct(rows, func(s model.UserAgentStat) string { return s.CanonicalUserAgent })), len(out.Datasets))

			totals := make(map[string]int64)
			for _, row := range rows {
				totals[row.CanonicalUserAgent] += row.TotalAccesses
			}
			for i, ds := range out.Datasets {
				require.Len(t, ds.Data, len(out.Labels))
				if i > 0 {
					assert.GreaterOrEqual(t, totals[out.Datasets[i-1].Label], totals[ds.Label], "datasets must be descending by total volume")
				}
				for k, day := range out.Labels {
					want, ok := present[[2]string{day, ds.Label}]
					if !ok {
						want = 0
					}
					assert.Equal(t, want, ds.Data[k], "cell %s/%s", day, ds.Label)
				}
			}
		})
	}
}

func TestDomainChartDataPreservesOrder(t *testing.T) {
	stats := []model.DomainStat{
		{Domain: "b.example", TotalAccesses: 3},
		{Domain: "a.example", TotalAccesses: 30},
		{Domain: "c.example", TotalAccesses: 0},
	}

	out := services.DomainChartData(stats)

	assert.Equal(t, []string{"b.example", "a.example", "c.example"}, out.Labels)
	require.Len(t, out.Datasets, 1)
	assert.Equal(t, []int64{3, 30, 0}, out.Datasets[0].Data)
	assert.Equal(t, services.DomainBorderWidth, out.Datasets[0].BorderWidth)
}

func distinct(rows []model.UserAgentStat, key func(model.UserAgentStat) string) []string {
	var out []string
	for _, r := range rows {
		if k := key(r); !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}
