/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Alignment guides and snapping for drag gestures. The helpers are
// UI-agnostic and deterministic so they can be unit tested and reused
// across frontends.

import "math"

// DefaultSnapThreshold is the drag distance, in canvas pixels, within which
// a moving object snaps to an alignment target.
const DefaultSnapThreshold float32 = 6

// Orientation of a guide line.
const (
	Vertical   = "vertical"
	Horizontal = "horizontal"
)

// GuideLine describes a visual alignment line produced during a snap.
// Position is the x (vertical) or y (horizontal) coordinate; From and To
// are the extents for rendering. At most one guide per orientation exists
// at a time; the scene removes (not hides) stale ones.
type GuideLine struct {
	Orientation string
	Position    float32
	From        Pt
	To          Pt
}

// SnapResult is the outcome of a snap computation for one drag frame.
// Snapped carries the possibly adjusted rect; V and H are nil when the
// corresponding axis did not snap.
type SnapResult struct {
	Snapped Rect
	V       *GuideLine
	H       *GuideLine
}

// SnapToCanvas compares the moving rect's center against the canvas center
// per axis. Within threshold the rect is forced onto the center line and a
// full-span guide is produced; otherwise the axis is left untouched and no
// guide exists for it.
func SnapToCanvas(moving Rect, canvas Size, threshold float32) SnapResult {
	if threshold <= 0 {
		threshold = DefaultSnapThreshold
	}
	res := SnapResult{Snapped: moving}
	cx, cy := canvas.W/2, canvas.H/2
	mc := moving.Center()

	if abs32(mc.X-cx) < threshold {
		res.Snapped.X = cx - moving.W/2
		res.V = &GuideLine{
			Orientation: Vertical,
			Position:    cx,
			From:        Pt{cx, 0},
			To:          Pt{cx, canvas.H},
		}
	}
	if abs32(mc.Y-cy) < threshold {
		res.Snapped.Y = cy - moving.H/2
		res.H = &GuideLine{
			Orientation: Horizontal,
			Position:    cy,
			From:        Pt{0, cy},
			To:          Pt{canvas.W, cy},
		}
	}
	return res
}

// Anchor is a static reference rect for object-to-object alignment.
type Anchor struct{ Rect Rect }

// SnapToAnchors extends the center-snap pattern to other objects: the
// moving rect's center is compared to each anchor's center per axis and the
// nearest in-threshold candidate wins. Guides span from the moving rect to
// the matched anchor.
func SnapToAnchors(moving Rect, anchors []Anchor, threshold float32) SnapResult {
	if threshold <= 0 {
		threshold = DefaultSnapThreshold
	}
	res := SnapResult{Snapped: moving}
	mc := moving.Center()

	bestDX, bestDY := threshold, threshold
	for _, a := range anchors {
		ac := a.Rect.Center()
		if d := abs32(mc.X - ac.X); d < bestDX {
			bestDX = d
			res.Snapped.X = ac.X - moving.W/2
			minY := min32(moving.Y, a.Rect.Y)
			maxY := max32(moving.Y+moving.H, a.Rect.Y+a.Rect.H)
			res.V = &GuideLine{Orientation: Vertical, Position: ac.X, From: Pt{ac.X, minY}, To: Pt{ac.X, maxY}}
		}
		if d := abs32(mc.Y - ac.Y); d < bestDY {
			bestDY = d
			res.Snapped.Y = ac.Y - moving.H/2
			minX := min32(moving.X, a.Rect.X)
			maxX := max32(moving.X+moving.W, a.Rect.X+a.Rect.W)
			res.H = &GuideLine{Orientation: Horizontal, Position: ac.Y, From: Pt{minX, ac.Y}, To: Pt{maxX, ac.Y}}
		}
	}
	return res
}

func abs32(v float32) float32 { return float32(math.Abs(float64(v))) }

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
