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

// Package workflow combines commands into the pipelines behind each chart.
// Both workflows take a model.ChartRequest under cor.CtxIn and, on success,
// leave a *model.ChartData under cor.CtxIn once the chain has finished.
package workflow

import (
	"context"
	"fmt"

	"github.com/jaycherian/linkpreview-dashboard/internal/core/commands"
	"github.com/jaycherian/linkpreview-dashboard/internal/core/cor"
	"github.com/jaycherian/linkpreview-dashboard/internal/core/model"
)

// DomainChartWorkflow fetches the domain statistics and maps them to the
// doughnut's labels and values.
type DomainChartWorkflow struct {
	cor.BaseCommand
	source commands.DomainStatsSource
	chain  cor.Chain
}

// NewDomainChartWorkflow creates the domain chart pipeline over source.
func NewDomainChartWorkflow(source commands.DomainStatsSource) *DomainChartWorkflow {
	w := &DomainChartWorkflow{
		BaseCommand: *cor.NewBaseCommand("domain-chart-workflow"),
		source:      source,
	}
	w.initializeChain()
	return w
}

func (w *DomainChartWorkflow) initializeChain() {
	out := cor.NewBaseChain(w.GetName())
	out.AddCommand(commands.NewDomainStatsFetcher("fetch-domain-stats", w.source))
	out.AddCommand(commands.NewDomainSeriesBuilder("build-domain-series"))
	w.chain = out
}

func (w *DomainChartWorkflow) IsExecutable(context cor.Context) bool {
	return w.chain.IsExecutable(context)
}

func (w *DomainChartWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// Run executes the pipeline for req and returns its chart data.
func (w *DomainChartWorkflow) Run(ctx context.Context, req model.ChartRequest) (*model.ChartData, error) {
	return run(ctx, w, req)
}

// UserAgentChartWorkflow fetches the user agent statistics for a window of
// days and pivots them into one stacked series per agent.
type UserAgentChartWorkflow struct {
	cor.BaseCommand
	source commands.UserAgentStatsSource
	chain  cor.Chain
}

// NewUserAgentChartWorkflow creates the user agent chart pipeline over source.
func NewUserAgentChartWorkflow(source commands.UserAgentStatsSource) *UserAgentChartWorkflow {
	w := &UserAgentChartWorkflow{
		BaseCommand: *cor.NewBaseCommand("user-agent-chart-workflow"),
		source:      source,
	}
	w.initializeChain()
	return w
}

func (w *UserAgentChartWorkflow) initializeChain() {
	out := cor.NewBaseChain(w.GetName())
	out.AddCommand(commands.NewUserAgentStatsFetcher("fetch-user-agent-stats", w.source))
	out.AddCommand(commands.NewUserAgentPivot("pivot-user-agent-stats"))
	w.chain = out
}

func (w *UserAgentChartWorkflow) IsExecutable(context cor.Context) bool {
	return w.chain.IsExecutable(context)
}

func (w *UserAgentChartWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// Run executes the pipeline for req and returns its chart data.
func (w *UserAgentChartWorkflow) Run(ctx context.Context, req model.ChartRequest) (*model.ChartData, error) {
	return run(ctx, w, req)
}

func run(ctx context.Context, cmd cor.Command, req model.ChartRequest) (*model.ChartData, error) {
	chCtx := cor.NewContext(ctx, req)
	cmd.Execute(chCtx)
	if err := chCtx.Err(); err != nil {
		return nil, err
	}
	data, ok := chCtx.Get(cor.CtxIn).(*model.ChartData)
	if !ok {
		return nil, fmt.Errorf("%s produced no chart data", cmd.GetName())
	}
	return data, nil
}
