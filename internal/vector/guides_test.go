/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "testing"

func TestSnapToCanvasWithinTolerance(t *testing.T) {
	canvas := Size{W: 800, H: 600}
	// Center at (402, 300): 2px off the vertical center line, dead on horizontal.
	moving := R(402-50, 300-25, 100, 50)
	res := SnapToCanvas(moving, canvas, 6)
	if res.V == nil {
		t.Fatalf("expected a vertical guide for a 2px offset")
	}
	if res.Snapped.X != 400-50 {
		t.Fatalf("snapped X = %v, want %v (left == centerX - width/2)", res.Snapped.X, 400-50)
	}
	if res.V.From != (Pt{400, 0}) || res.V.To != (Pt{400, 600}) {
		t.Fatalf("vertical guide must span full canvas height, got %+v", res.V)
	}
	if res.H == nil || res.Snapped.Y != 300-25 {
		t.Fatalf("expected horizontal snap to hold center, got %+v", res)
	}
}

func TestSnapToCanvasOutsideTolerance(t *testing.T) {
	canvas := Size{W: 800, H: 600}
	moving := R(410-50, 100, 100, 50) // center x = 410, 10px off
	res := SnapToCanvas(moving, canvas, 6)
	if res.V != nil {
		t.Fatalf("no vertical guide expected at 10px offset")
	}
	if res.Snapped.X != moving.X || res.Snapped.Y != moving.Y {
		t.Fatalf("geometry must be unaffected outside tolerance: %+v", res.Snapped)
	}
}

func TestSnapToCanvasToleranceBoundary(t *testing.T) {
	canvas := Size{W: 800, H: 600}
	// Exactly 6px off: |cx - centerX| < tolerance is strict, so no snap.
	moving := R(406-50, 100, 100, 50)
	if res := SnapToCanvas(moving, canvas, 6); res.V != nil {
		t.Fatalf("6px offset with tolerance 6 must not snap")
	}
	moving = R(405-50, 100, 100, 50)
	if res := SnapToCanvas(moving, canvas, 6); res.V == nil {
		t.Fatalf("5px offset with tolerance 6 must snap")
	}
}

func TestSnapIdempotent(t *testing.T) {
	canvas := Size{W: 800, H: 600}
	moving := R(398-50, 299-25, 100, 50)
	first := SnapToCanvas(moving, canvas, 6)
	second := SnapToCanvas(first.Snapped, canvas, 6)
	if second.Snapped != first.Snapped {
		t.Fatalf("snapping an already snapped rect changed it: %+v -> %+v", first.Snapped, second.Snapped)
	}
}

func TestSnapToAnchors(t *testing.T) {
	anchors := []Anchor{{Rect: R(100, 100, 50, 50)}} // center (125,125)
	moving := R(123-20, 300, 40, 40)                 // center x = 123, 2px off anchor center
	res := SnapToAnchors(moving, anchors, 6)
	if res.V == nil || res.Snapped.X != 125-20 {
		t.Fatalf("expected object-to-object center snap, got %+v", res)
	}
	if res.H != nil {
		t.Fatalf("y axis far away, no horizontal guide expected")
	}
}

func TestRectClamp(t *testing.T) {
	bounds := R(0, 0, 100, 100)
	r := R(-10, 95, 20, 20).Clamp(bounds)
	if r.X != 0 || r.Y != 80 {
		t.Fatalf("clamp wrong: %+v", r)
	}
}
