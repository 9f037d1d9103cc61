/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestFieldIDsPairwiseDistinct(t *testing.T) {
	seen := make(map[string]bool, 2000)
	for i := 0; i < 1000; i++ {
		f := NewTextField(TextConfig{})
		if seen[f.ID] {
			t.Fatalf("duplicate text field id %q after %d creations", f.ID, i)
		}
		seen[f.ID] = true
		g := NewImageField(ImageConfig{})
		if seen[g.ID] {
			t.Fatalf("duplicate image field id %q after %d creations", g.ID, i)
		}
		seen[g.ID] = true
	}
}

func TestNewFieldIDUniqueWhenClockStepsBack(t *testing.T) {
	idMu.Lock()
	saved := idLastTS
	future := time.Now().Add(time.Hour).UnixNano()
	idLastTS = future
	idMu.Unlock()
	t.Cleanup(func() {
		idMu.Lock()
		idLastTS = saved
		idMu.Unlock()
	})

	a := NewFieldID()
	b := NewFieldID()
	if a == b {
		t.Fatalf("duplicate id %q while the clock lags the last issued timestamp", a)
	}
	prefix := fmt.Sprintf("field_%d_", future)
	if !strings.HasPrefix(a, prefix) || !strings.HasPrefix(b, prefix) {
		t.Fatalf("ids must take the collision suffix path while the clock lags: %q %q", a, b)
	}
}

func TestTextFieldDefaults(t *testing.T) {
	f := NewTextField(TextConfig{X: 50, Y: 50})
	if f.Kind != KindText {
		t.Fatalf("kind = %q, want text", f.Kind)
	}
	if f.FontSize != DefaultFontSize {
		t.Fatalf("font size default = %d, want %d", f.FontSize, DefaultFontSize)
	}
	if f.Color != DefaultColor {
		t.Fatalf("color default = %q, want %q", f.Color, DefaultColor)
	}
	if f.Align != "left" {
		t.Fatalf("align default = %q, want left", f.Align)
	}
	if f.Name != f.ID {
		t.Fatalf("name should default to id, got %q vs %q", f.Name, f.ID)
	}
	if !f.Visible {
		t.Fatalf("new fields must be visible")
	}
}

func TestImageFieldDefaultsAndCircle(t *testing.T) {
	f := NewImageField(ImageConfig{Shape: "hexagon"})
	if f.Shape != ShapeRect {
		t.Fatalf("unknown shape should fall back to rect, got %q", f.Shape)
	}
	if f.Width != DefaultImageSize || f.Height != DefaultImageSize {
		t.Fatalf("default size = %dx%d, want %dx%d", f.Width, f.Height, DefaultImageSize, DefaultImageSize)
	}
	c := NewImageField(ImageConfig{Shape: ShapeCircle, Width: 120, Height: 80})
	if c.Width != c.Height {
		t.Fatalf("circle must have width == height (diameter), got %dx%d", c.Width, c.Height)
	}
}

func TestFontStackLookup(t *testing.T) {
	if FontStack("serif") == "" {
		t.Fatalf("serif stack missing")
	}
	if FontStack("no-such-family") != FontStacks[DefaultFontFamily] {
		t.Fatalf("unknown family should map to default stack")
	}
	if FontStack(" Mono ") != FontStacks["mono"] {
		t.Fatalf("lookup should trim and lowercase the token")
	}
}
