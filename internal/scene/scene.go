/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scene is the thin contract between the field model and the
// rendering surface. The scene owns the ordered field set and the single
// active field; the Renderer capability owns hit-testing, gestures and
// pixels. The two collections (fields here, visuals in the renderer) are
// kept 1:1 by construction: every Add attaches a visual, every Remove
// detaches it.
package scene

import (
	"fmt"
	"math"

	"gobanner/internal/domain"
	"gobanner/internal/vector"
)

// EventType enumerates the scene's typed notifications.
type EventType string

const (
	// Selected fires when a field becomes the active one.
	Selected EventType = "selected"
	// Cleared fires when the selection empties (click-away, delete, restore).
	Cleared EventType = "cleared"
	// Modified fires when a committed gesture or property edit changed a field.
	Modified EventType = "modified"
	// Added and Removed fire on field-set membership changes.
	Added   EventType = "added"
	Removed EventType = "removed"
)

// Event carries a notification. Field is nil for Cleared.
type Event struct {
	Type  EventType
	Field *domain.Field
}

// Renderer is the rendering capability the scene drives. Implementations
// create, move and destroy visual objects on a 2D surface; Render is
// idempotent and may be called once after a batch of mutations.
type Renderer interface {
	Attach(f *domain.Field)
	Detach(id string)
	Update(f *domain.Field)
	ShowGuide(g vector.GuideLine)
	ClearGuide(orientation string)
	Render()
}

// NullRenderer discards all drawing; used headless and in tests.
type NullRenderer struct{}

func (NullRenderer) Attach(*domain.Field)       {}
func (NullRenderer) Detach(string)              {}
func (NullRenderer) Update(*domain.Field)       {}
func (NullRenderer) ShowGuide(vector.GuideLine) {}
func (NullRenderer) ClearGuide(string)          {}
func (NullRenderer) Render()                    {}

// Scene tracks the ordered field set (z-order = list order) and selection.
type Scene struct {
	r      Renderer
	order  []*domain.Field
	byID   map[string]*domain.Field
	active *domain.Field
	subs   []func(Event)

	guideV, guideH bool
}

func New(r Renderer) *Scene {
	if r == nil {
		r = NullRenderer{}
	}
	return &Scene{r: r, byID: make(map[string]*domain.Field)}
}

// Subscribe registers a notification callback. Delivery order between
// subscribers is unspecified and must not be relied upon.
func (s *Scene) Subscribe(fn func(Event)) { s.subs = append(s.subs, fn) }

func (s *Scene) emit(e Event) {
	for _, fn := range s.subs {
		fn(e)
	}
}

// Add appends a field to the scene and attaches its visual. Duplicate IDs
// violate the model invariant and are rejected.
func (s *Scene) Add(f *domain.Field) error {
	if f == nil {
		return fmt.Errorf("add: nil field")
	}
	if _, exists := s.byID[f.ID]; exists {
		return fmt.Errorf("add: duplicate field id %q", f.ID)
	}
	s.order = append(s.order, f)
	s.byID[f.ID] = f
	s.r.Attach(f)
	s.emit(Event{Type: Added, Field: f})
	return nil
}

// Remove detaches and drops the field. Removing the active field clears the
// selection first.
func (s *Scene) Remove(id string) bool {
	f, ok := s.byID[id]
	if !ok {
		return false
	}
	if s.active == f {
		s.ClearActive()
	}
	delete(s.byID, id)
	for i, g := range s.order {
		if g == f {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.r.Detach(id)
	s.emit(Event{Type: Removed, Field: f})
	return true
}

// Fields returns the ordered field sequence. The slice is a copy; the
// fields themselves are live.
func (s *Scene) Fields() []*domain.Field {
	out := make([]*domain.Field, len(s.order))
	copy(out, s.order)
	return out
}

// Get looks a field up by id.
func (s *Scene) Get(id string) (*domain.Field, bool) {
	f, ok := s.byID[id]
	return f, ok
}

// Len returns the number of fields in the scene.
func (s *Scene) Len() int { return len(s.order) }

// Active returns the selected field or nil.
func (s *Scene) Active() *domain.Field { return s.active }

// SetActive selects a field by id and emits Selected. Selecting the already
// active field re-emits, which keeps the property panel repopulated.
func (s *Scene) SetActive(id string) bool {
	f, ok := s.byID[id]
	if !ok {
		return false
	}
	s.active = f
	s.emit(Event{Type: Selected, Field: f})
	return true
}

// ClearActive empties the selection and emits Cleared.
func (s *Scene) ClearActive() {
	if s.active == nil {
		return
	}
	s.active = nil
	s.emit(Event{Type: Cleared})
}

// ApplyFrame surfaces the result of a drag/resize gesture: the field's
// geometry is set to the rounded frame, the visual is updated, and a
// Modified notification goes out. The renderer owns the gesture itself.
func (s *Scene) ApplyFrame(id string, frame vector.Rect) bool {
	f, ok := s.byID[id]
	if !ok {
		return false
	}
	f.X = int(math.Round(float64(frame.X)))
	f.Y = int(math.Round(float64(frame.Y)))
	f.Width = int(math.Round(float64(frame.W)))
	f.Height = int(math.Round(float64(frame.H)))
	s.r.Update(f)
	s.emit(Event{Type: Modified, Field: f})
	return true
}

// Touch pushes a field's current attributes to its visual and notifies
// Modified. Used after property edits that do not change geometry.
func (s *Scene) Touch(id string) bool {
	f, ok := s.byID[id]
	if !ok {
		return false
	}
	s.r.Update(f)
	s.emit(Event{Type: Modified, Field: f})
	return true
}

// SwapVisual destroys and recreates the field's visual, preserving the
// field itself. Used when an image placeholder changes shape.
func (s *Scene) SwapVisual(id string) bool {
	f, ok := s.byID[id]
	if !ok {
		return false
	}
	s.r.Detach(id)
	s.r.Attach(f)
	return true
}

// SetGuides reconciles the singleton guide lines with a snap result:
// a present guide is shown, an absent one is removed (not hidden).
func (s *Scene) SetGuides(res vector.SnapResult) {
	if res.V != nil {
		s.r.ShowGuide(*res.V)
		s.guideV = true
	} else if s.guideV {
		s.r.ClearGuide(vector.Vertical)
		s.guideV = false
	}
	if res.H != nil {
		s.r.ShowGuide(*res.H)
		s.guideH = true
	} else if s.guideH {
		s.r.ClearGuide(vector.Horizontal)
		s.guideH = false
	}
}

// ClearGuides removes both guides.
func (s *Scene) ClearGuides() {
	s.SetGuides(vector.SnapResult{})
}

// HasGuide reports whether a guide with the given orientation is live.
func (s *Scene) HasGuide(orientation string) bool {
	switch orientation {
	case vector.Vertical:
		return s.guideV
	case vector.Horizontal:
		return s.guideH
	}
	return false
}

// Replace swaps the whole field set (undo/redo restore, hydration).
// Selection is cleared since object identity does not survive a reload.
func (s *Scene) Replace(fields []*domain.Field) {
	s.ClearActive()
	for _, f := range s.order {
		s.r.Detach(f.ID)
	}
	s.order = nil
	s.byID = make(map[string]*domain.Field, len(fields))
	for _, f := range fields {
		if _, dup := s.byID[f.ID]; dup {
			continue
		}
		s.order = append(s.order, f)
		s.byID[f.ID] = f
		s.r.Attach(f)
	}
	s.r.Render()
}

// Render asks the renderer to repaint. Idempotent; call once per batch.
func (s *Scene) Render() { s.r.Render() }
