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

// Package commands provides the concrete Commands the chart loading chains are
// built from. This file holds the two fetch steps. Each reads a
// model.ChartRequest from the context, calls the statistics backend and leaves
// the decoded rows as its output for the transform step that follows.
package commands

import (
	"context"
	"fmt"

	"github.com/jaycherian/linkpreview-dashboard/internal/core/cor"
	"github.com/jaycherian/linkpreview-dashboard/internal/core/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DomainStatsSource returns the per-domain access statistics.
type DomainStatsSource interface {
	DomainStats(ctx context.Context) ([]model.DomainStat, error)
}

// UserAgentStatsSource returns the per-day, per-agent access statistics for
// the trailing window of days.
type UserAgentStatsSource interface {
	UserAgentStats(ctx context.Context, days int) ([]model.UserAgentStat, error)
}

// DomainStatsFetcher fetches the domain statistics.
type DomainStatsFetcher struct {
	cor.BaseCommand
	source DomainStatsSource
}

// NewDomainStatsFetcher creates the fetch step of the domain chart chain.
func NewDomainStatsFetcher(name string, source DomainStatsSource) *DomainStatsFetcher {
	return &DomainStatsFetcher{BaseCommand: *cor.NewBaseCommand(name), source: source}
}

// IsExecutable additionally requires the input to be a chart request.
func (f *DomainStatsFetcher) IsExecutable(context cor.Context) bool {
	if !f.BaseCommand.IsExecutable(context) {
		return false
	}
	_, ok := context.Get(f.GetInputParam()).(model.ChartRequest)
	return ok
}

func (f *DomainStatsFetcher) Execute(context cor.Context) {
	rows, err := f.source.DomainStats(context.GetContext())
	if err != nil {
		f.Fail(context, fmt.Errorf("failed to fetch domain stats: %w", err))
		return
	}
	trace.SpanFromContext(context.GetContext()).SetAttributes(attribute.Int("stats.rows", len(rows)))
	f.Succeed(context, rows)
}

// UserAgentStatsFetcher fetches the user agent statistics for the window
// carried by the request.
type UserAgentStatsFetcher struct {
	cor.BaseCommand
	source UserAgentStatsSource
}

// NewUserAgentStatsFetcher creates the fetch step of the user agent chart chain.
func NewUserAgentStatsFetcher(name string, source UserAgentStatsSource) *UserAgentStatsFetcher {
	return &UserAgentStatsFetcher{BaseCommand: *cor.NewBaseCommand(name), source: source}
}

// IsExecutable additionally requires a chart request with a positive window.
func (f *UserAgentStatsFetcher) IsExecutable(context cor.Context) bool {
	if !f.BaseCommand.IsExecutable(context) {
		return false
	}
	req, ok := context.Get(f.GetInputParam()).(model.ChartRequest)
	return ok && req.Days > 0
}

func (f *UserAgentStatsFetcher) Execute(context cor.Context) {
	req := context.Get(f.GetInputParam()).(model.ChartRequest)

	rows, err := f.source.UserAgentStats(context.GetContext(), req.Days)
	if err != nil {
		f.Fail(context, fmt.Errorf("failed to fetch user agent stats for %d days: %w", req.Days, err))
		return
	}
	trace.SpanFromContext(context.GetContext()).SetAttributes(
		attribute.Int("stats.days", req.Days),
		attribute.Int("stats.rows", len(rows)),
	)
	f.Succeed(context, rows)
}
