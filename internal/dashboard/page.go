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

// Package dashboard holds the link preview chart loaders and the page model
// they bind to: named canvases and the range selector of the user agent chart.
package dashboard

import (
	"context"
	"sync"

	"github.com/jaycherian/linkpreview-dashboard/internal/core/model"
)

// Document looks up the page elements a loader binds to.
type Document interface {
	// Canvas returns the canvas with the given id.
	Canvas(id string) (model.Canvas, bool)
	// RangeControls returns the buttons of the range selector with the given id.
	RangeControls(id string) ([]*RangeButton, bool)
}

type canvas struct {
	id string
}

func (c canvas) ID() string {
	return c.id
}

// Page is an in-memory Document.
type Page struct {
	mu        sync.RWMutex
	canvases  map[string]model.Canvas
	selectors map[string][]*RangeButton
}

func NewPage() *Page {
	return &Page{
		canvases:  make(map[string]model.Canvas),
		selectors: make(map[string][]*RangeButton),
	}
}

// AddCanvas places a canvas with the given id on the page.
func (p *Page) AddCanvas(id string) model.Canvas {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := canvas{id: id}
	p.canvases[id] = c
	return c
}

// AddRangeSelector places a range selector holding one button per day count.
func (p *Page) AddRangeSelector(id string, days ...int) []*RangeButton {
	buttons := make([]*RangeButton, len(days))
	for i, d := range days {
		buttons[i] = NewRangeButton(d)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selectors[id] = buttons
	return append([]*RangeButton(nil), buttons...)
}

func (p *Page) Canvas(id string) (model.Canvas, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.canvases[id]
	return c, ok
}

func (p *Page) RangeControls(id string) ([]*RangeButton, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	buttons, ok := p.selectors[id]
	if !ok {
		return nil, false
	}
	return append([]*RangeButton(nil), buttons...), true
}

// RangeButton is one control of the range selector. Click runs the registered
// handlers synchronously, in registration order.
type RangeButton struct {
	mu       sync.Mutex
	days     int
	pressed  bool
	handlers []func(ctx context.Context)
}

func NewRangeButton(days int) *RangeButton {
	return &RangeButton{days: days}
}

// Days returns the day count the button selects.
func (b *RangeButton) Days() int {
	return b.days
}

func (b *RangeButton) Pressed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pressed
}

func (b *RangeButton) SetPressed(pressed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pressed = pressed
}

// OnClick registers handler to run on every click.
func (b *RangeButton) OnClick(handler func(ctx context.Context)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

func (b *RangeButton) Click(ctx context.Context) {
	b.mu.Lock()
	handlers := append([]func(context.Context){}, b.handlers...)
	b.mu.Unlock()
	for _, h := range handlers {
		h(ctx)
	}
}

// MarkPressed presses the button carrying days and releases all others. If no
// button carries days, every button ends up released. With duplicate day
// counts only the first match is pressed.
func MarkPressed(buttons []*RangeButton, days int) {
	pressed := false
	for _, b := range buttons {
		match := !pressed && b.Days() == days
		b.SetPressed(match)
		pressed = pressed || match
	}
}

// FindButton returns the first button carrying days.
func FindButton(buttons []*RangeButton, days int) (*RangeButton, bool) {
	for _, b := range buttons {
		if b.Days() == days {
			return b, true
		}
	}
	return nil, false
}
