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

package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// LoadPage performs one load of the dashboard page. The domain chart is
// drawn if no earlier load managed to, and the user agent chart is loaded
// at its active range. Both loads run concurrently and LoadPage waits for
// them.
//
// Inputs:
//   - ctx: The context of the page load, usually the incoming request's.
//   - domains: The loader of the domain doughnut.
//   - agents: The loader of the user agent stacked bar chart.
func LoadPage(ctx context.Context, domains *DomainChartLoader, agents *UserAgentChartLoader) {
	// The loaders log and absorb their own failures; the group only fans out.
	var g errgroup.Group
	g.Go(func() error {
		domains.Load(ctx)
		return nil
	})
	g.Go(func() error {
		agents.Reload(ctx)
		return nil
	})
	_ = g.Wait()
}
