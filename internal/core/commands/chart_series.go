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

package commands

import (
	"fmt"

	"github.com/jaycherian/linkpreview-dashboard/internal/core/cor"
	"github.com/jaycherian/linkpreview-dashboard/internal/core/model"
	"github.com/jaycherian/linkpreview-dashboard/internal/core/services"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DomainSeriesBuilder turns domain statistics into the doughnut's chart data.
// An empty list fails the chain with model.ErrEmptyStats.
type DomainSeriesBuilder struct {
	cor.BaseCommand
}

func NewDomainSeriesBuilder(name string) *DomainSeriesBuilder {
	return &DomainSeriesBuilder{BaseCommand: *cor.NewBaseCommand(name)}
}

func (b *DomainSeriesBuilder) IsExecutable(context cor.Context) bool {
	if !b.BaseCommand.IsExecutable(context) {
		return false
	}
	_, ok := context.Get(b.GetInputParam()).([]model.DomainStat)
	return ok
}

func (b *DomainSeriesBuilder) Execute(context cor.Context) {
	rows := context.Get(b.GetInputParam()).([]model.DomainStat)
	if len(rows) == 0 {
		b.Fail(context, fmt.Errorf("domain stats: %w", model.ErrEmptyStats))
		return
	}
	data := services.DomainChartData(rows)
	b.Succeed(context, &data)
}

// UserAgentPivot turns user agent statistics into one stacked series per agent.
// An empty list fails the chain with model.ErrEmptyStats.
type UserAgentPivot struct {
	cor.BaseCommand
}

func NewUserAgentPivot(name string) *UserAgentPivot {
	return &UserAgentPivot{BaseCommand: *cor.NewBaseCommand(name)}
}

func (p *UserAgentPivot) IsExecutable(context cor.Context) bool {
	if !p.BaseCommand.IsExecutable(context) {
		return false
	}
	_, ok := context.Get(p.GetInputParam()).([]model.UserAgentStat)
	return ok
}

func (p *UserAgentPivot) Execute(context cor.Context) {
	rows := context.Get(p.GetInputParam()).([]model.UserAgentStat)
	if len(rows) == 0 {
		p.Fail(context, fmt.Errorf("user agent stats: %w", model.ErrEmptyStats))
		return
	}
	matrix := services.BuildUserAgentMatrix(rows)
	trace.SpanFromContext(context.GetContext()).SetAttributes(
		attribute.Int("chart.days", len(matrix.Days)),
		attribute.Int("chart.agents", len(matrix.Agents)),
	)
	data := matrix.ChartData()
	p.Succeed(context, &data)
}
