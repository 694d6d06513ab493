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

package dashboard_test

import (
	"context"
	"testing"

	"github.com/jaycherian/linkpreview-dashboard/internal/dashboard"
	"github.com/stretchr/testify/assert"
)

func TestMarkPressedAtMostOne(t *testing.T) {
	buttons := []*dashboard.RangeButton{
		dashboard.NewRangeButton(7),
		dashboard.NewRangeButton(14),
		dashboard.NewRangeButton(14),
		dashboard.NewRangeButton(30),
	}
	for _, days := range []int{7, 14, 30, 7} {
		dashboard.MarkPressed(buttons, days)
		assert.Equal(t, []int{days}, pressedDays(buttons))
	}
	assert.False(t, buttons[2].Pressed())

	dashboard.MarkPressed(buttons, 365)
	assert.Empty(t, pressedDays(buttons))
}

func TestRangeButtonClickRunsHandlers(t *testing.T) {
	b := dashboard.NewRangeButton(14)
	var got []int
	b.OnClick(func(context.Context) { got = append(got, 1) })
	b.OnClick(func(context.Context) { got = append(got, 2) })

	b.Click(context.Background())
	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, 14, b.Days())
}

func TestPageLookups(t *testing.T) {
	page := dashboard.NewPage()
	page.AddCanvas("chart")
	page.AddRangeSelector("range", 7, 30)

	c, ok := page.Canvas("chart")
	assert.True(t, ok)
	assert.Equal(t, "chart", c.ID())

	_, ok = page.Canvas("missing")
	assert.False(t, ok)

	buttons, ok := page.RangeControls("range")
	assert.True(t, ok)
	assert.Len(t, buttons, 2)

	_, ok = page.RangeControls("missing")
	assert.False(t, ok)
}

func TestLoaderStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", dashboard.StateUninitialized.String())
	assert.Equal(t, "loading", dashboard.StateLoading.String())
	assert.Equal(t, "rendered", dashboard.StateRendered.String())
}
