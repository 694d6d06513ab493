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

// Package services contains the business logic of the dashboard charts. This
// file reshapes statistics rows into chart data:
//
//   - DomainChartData maps per-domain rows to a single doughnut dataset,
//     preserving the backend's row order.
//   - BuildUserAgentMatrix pivots sparse (day, user agent, count) rows into a
//     dense grid, and ChartMatrix.ChartData turns that grid into one stacked
//     bar dataset per user agent.
package services

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"github.com/jaycherian/linkpreview-dashboard/internal/core/model"
)

// DomainBorderWidth is the segment border width of the domain doughnut.
const DomainBorderWidth = 1

// DomainChartData maps domain statistics to parallel label / value sequences.
// Input order is preserved; the backend already decides the ordering.
func DomainChartData(stats []model.DomainStat) model.ChartData {
	labels := make([]string, len(stats))
	values := make([]int64, len(stats))
	for i, s := range stats {
		labels[i] = s.Domain
		values[i] = s.TotalAccesses
	}
	return model.ChartData{
		Labels:   labels,
		Datasets: []model.Dataset{{Data: values, BorderWidth: DomainBorderWidth}},
	}
}

// ChartMatrix is the dense (day × user agent) grid derived from user agent
// statistics. Cells[i][j] holds the accesses of Agents[j] on Days[i]; a pair
// absent from the source rows is 0.
type ChartMatrix struct {
	Days   []string  // Distinct days, most recent first.
	Agents []string  // Distinct user agents, highest total volume first.
	Totals []int64   // Total volume per agent, aligned with Agents.
	Cells  [][]int64 // One row per day, one column per agent.
}

type cellKey struct {
	day   string
	agent string
}

// BuildUserAgentMatrix pivots user agent statistics into a ChartMatrix.
//
// Days are ordered descending lexicographically, which for ISO dates is most
// recent first. Agents are ordered descending by the sum of all their rows;
// agents with equal totals keep the order in which they first appear.
// When several rows share a (day, agent) pair the last one wins the cell, while
// the agent total still counts every row.
func BuildUserAgentMatrix(rows []model.UserAgentStat) ChartMatrix {
	days := lo.Uniq(lo.Map(rows, func(r model.UserAgentStat, _ int) string { return r.Day }))
	agents := lo.Uniq(lo.Map(rows, func(r model.UserAgentStat, _ int) string { return r.CanonicalUserAgent }))
	totals := lo.MapValues(
		lo.GroupBy(rows, func(r model.UserAgentStat) string { return r.CanonicalUserAgent }),
		func(group []model.UserAgentStat, _ string) int64 {
			return lo.SumBy(group, func(r model.UserAgentStat) int64 { return r.TotalAccesses })
		},
	)
	// SliceToMap assigns in row order, so a repeated pair keeps its last value.
	cells := lo.SliceToMap(rows, func(r model.UserAgentStat) (cellKey, int64) {
		return cellKey{day: r.Day, agent: r.CanonicalUserAgent}, r.TotalAccesses
	})

	slices.SortFunc(days, func(a, b string) int { return cmp.Compare(b, a) })
	slices.SortStableFunc(agents, func(a, b string) int { return cmp.Compare(totals[b], totals[a]) })

	return ChartMatrix{
		Days:   days,
		Agents: agents,
		Totals: lo.Map(agents, func(agent string, _ int) int64 { return totals[agent] }),
		Cells: lo.Map(days, func(day string, _ int) []int64 {
			return lo.Map(agents, func(agent string, _ int) int64 {
				return cells[cellKey{day: day, agent: agent}]
			})
		}),
	}
}

// ChartData emits one dataset per agent, in agent order, each aligned to the
// day labels.
func (m ChartMatrix) ChartData() model.ChartData {
	return model.ChartData{
		Labels: append([]string{}, m.Days...),
		Datasets: lo.Map(m.Agents, func(agent string, j int) model.Dataset {
			return model.Dataset{
				Label: agent,
				Data:  lo.Map(m.Cells, func(row []int64, _ int) int64 { return row[j] }),
			}
		}),
	}
}

// PivotUserAgentStats is BuildUserAgentMatrix followed by ChartData.
func PivotUserAgentStats(rows []model.UserAgentStat) model.ChartData {
	return BuildUserAgentMatrix(rows).ChartData()
}
