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

// Package main contains the startup of the chart loaders. Each loader
// initializes independently; a failure in one leaves the other untouched.
package main

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"

	"github.com/jaycherian/linkpreview-dashboard/internal/dashboard"
)

// StartLoaders performs the first page load at startup, so the charts are
// ready before the first visit. Failures are logged by the loaders and are
// retried by the next page load.
//
// Inputs:
//   - ctx: The application's root context.
func StartLoaders(ctx context.Context) {
	ctx, span := otel.Tracer("linkpreview-dashboard/server").Start(ctx, "start-loaders")
	defer span.End()

	dashboard.LoadPage(ctx, state.domains, state.userAgents)

	slog.InfoContext(ctx, "chart loaders started",
		"domains_rendered", state.domains.Chart() != nil,
		"user_agents_state", state.userAgents.State().String())
}
