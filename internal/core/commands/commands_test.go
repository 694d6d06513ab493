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

package commands_test

import (
	"context"
	"testing"

	"github.com/jaycherian/linkpreview-dashboard/internal/core/commands"
	"github.com/jaycherian/linkpreview-dashboard/internal/core/cor"
	"github.com/jaycherian/linkpreview-dashboard/internal/core/model"
	test "github.com/jaycherian/linkpreview-dashboard/internal/testutil"
	"github.com/zeebo/assert"
)

type fakeSource struct {
	domains  []model.DomainStat
	agents   []model.UserAgentStat
	err      error
	lastDays int
}

func (f *fakeSource) DomainStats(context.Context) ([]model.DomainStat, error) {
	return f.domains, f.err
}

func (f *fakeSource) UserAgentStats(_ context.Context, days int) ([]model.UserAgentStat, error) {
	f.lastDays = days
	return f.agents, f.err
}

func TestDomainStatsFetcher(t *testing.T) {
	src := &fakeSource{domains: test.GetTestDomainStats()}
	cmd := commands.NewDomainStatsFetcher("fetch-domain-stats", src)

	chCtx := cor.NewContext(context.Background(), model.ChartRequest{})
	assert.True(t, cmd.IsExecutable(chCtx))
	cmd.Execute(chCtx)

	assert.False(t, chCtx.HasErrors())
	assert.DeepEqual(t, chCtx.Get(cor.CtxOut), test.GetTestDomainStats())
}

func TestFetcherRejectsWrongInput(t *testing.T) {
	src := &fakeSource{}
	assert.False(t, commands.NewDomainStatsFetcher("f", src).IsExecutable(cor.NewContext(context.Background(), "not a request")))
	assert.False(t, commands.NewUserAgentStatsFetcher("f", src).IsExecutable(cor.NewContext(context.Background(), model.ChartRequest{Days: 0})))
}

func TestUserAgentStatsFetcherFailure(t *testing.T) {
	src := &fakeSource{err: model.ErrTransport}
	cmd := commands.NewUserAgentStatsFetcher("fetch-user-agent-stats", src)

	chCtx := cor.NewContext(context.Background(), model.ChartRequest{Days: 14})
	assert.True(t, cmd.IsExecutable(chCtx))
	cmd.Execute(chCtx)

	assert.Equal(t, src.lastDays, 14)
	assert.True(t, chCtx.HasErrors())
	assert.Nil(t, chCtx.Get(cor.CtxOut))
}

func TestUserAgentPivot(t *testing.T) {
	cmd := commands.NewUserAgentPivot("pivot-user-agent-stats")
	chCtx := cor.NewContext(context.Background(), test.GetTestUserAgentStats())
	assert.True(t, cmd.IsExecutable(chCtx))
	cmd.Execute(chCtx)

	data, ok := chCtx.Get(cor.CtxOut).(*model.ChartData)
	assert.True(t, ok)
	assert.DeepEqual(t, data.Labels, []string{"2024-01-02", "2024-01-01"})
	assert.Equal(t, data.Datasets[0].Label, "Firefox")
}

func TestSeriesBuildersRejectEmptyStats(t *testing.T) {
	pivot := commands.NewUserAgentPivot("pivot")
	chCtx := cor.NewContext(context.Background(), []model.UserAgentStat(nil))
	pivot.Execute(chCtx)
	assert.True(t, chCtx.HasErrors())

	domains := commands.NewDomainSeriesBuilder("domains")
	chCtx = cor.NewContext(context.Background(), []model.DomainStat{})
	domains.Execute(chCtx)
	assert.True(t, chCtx.HasErrors())
	assert.Nil(t, chCtx.Get(cor.CtxOut))
}
