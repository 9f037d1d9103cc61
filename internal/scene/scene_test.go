/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"testing"

	"gobanner/internal/domain"
	"gobanner/internal/vector"
)

// recorder counts renderer calls so tests can assert the field/visual
// collections stay in lockstep.
type recorder struct {
	attached map[string]int
	detached map[string]int
	updated  int
	guides   map[string]vector.GuideLine
	renders  int
}

func newRecorder() *recorder {
	return &recorder{
		attached: map[string]int{},
		detached: map[string]int{},
		guides:   map[string]vector.GuideLine{},
	}
}

func (r *recorder) Attach(f *domain.Field)       { r.attached[f.ID]++ }
func (r *recorder) Detach(id string)             { r.detached[id]++ }
func (r *recorder) Update(*domain.Field)         { r.updated++ }
func (r *recorder) ShowGuide(g vector.GuideLine) { r.guides[g.Orientation] = g }
func (r *recorder) ClearGuide(o string)          { delete(r.guides, o) }
func (r *recorder) Render()                      { r.renders++ }

func TestAddRejectsDuplicateID(t *testing.T) {
	s := New(newRecorder())
	f := domain.NewTextField(domain.TextConfig{Name: "a"})
	if err := s.Add(f); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := s.Add(f); err == nil {
		t.Fatalf("duplicate id must be rejected")
	}
}

func TestFieldVisualLockstep(t *testing.T) {
	r := newRecorder()
	s := New(r)
	a := domain.NewTextField(domain.TextConfig{Name: "a"})
	b := domain.NewImageField(domain.ImageConfig{Name: "b"})
	if err := s.Add(a); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(b); err != nil {
		t.Fatal(err)
	}
	if r.attached[a.ID] != 1 || r.attached[b.ID] != 1 {
		t.Fatalf("visuals not attached 1:1: %+v", r.attached)
	}
	s.Remove(a.ID)
	if r.detached[a.ID] != 1 {
		t.Fatalf("removing a field must detach its visual")
	}
	if s.Len() != 1 || s.Fields()[0] != b {
		t.Fatalf("scene order wrong after remove")
	}
}

func TestSelectionEvents(t *testing.T) {
	s := New(nil)
	var got []EventType
	s.Subscribe(func(e Event) { got = append(got, e.Type) })
	f := domain.NewTextField(domain.TextConfig{Name: "a"})
	if err := s.Add(f); err != nil {
		t.Fatal(err)
	}
	s.SetActive(f.ID)
	s.ClearActive()
	want := []EventType{Added, Selected, Cleared}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
}

func TestRemoveActiveClearsSelection(t *testing.T) {
	s := New(nil)
	f := domain.NewTextField(domain.TextConfig{Name: "a"})
	_ = s.Add(f)
	s.SetActive(f.ID)
	s.Remove(f.ID)
	if s.Active() != nil {
		t.Fatalf("deleting the active field must clear the selection")
	}
}

func TestApplyFrameRoundsToPixels(t *testing.T) {
	s := New(nil)
	f := domain.NewTextField(domain.TextConfig{Name: "a"})
	_ = s.Add(f)
	var modified int
	s.Subscribe(func(e Event) {
		if e.Type == Modified {
			modified++
		}
	})
	s.ApplyFrame(f.ID, vector.R(10.6, 19.4, 100.5, 50.2))
	if f.X != 11 || f.Y != 19 || f.Width != 101 || f.Height != 50 {
		t.Fatalf("rounded geometry wrong: %+v", f)
	}
	if modified != 1 {
		t.Fatalf("ApplyFrame must emit exactly one Modified, got %d", modified)
	}
}

func TestGuidesAreSingleton(t *testing.T) {
	r := newRecorder()
	s := New(r)
	v := &vector.GuideLine{Orientation: vector.Vertical, Position: 400}
	s.SetGuides(vector.SnapResult{V: v})
	s.SetGuides(vector.SnapResult{V: v})
	if len(r.guides) != 1 {
		t.Fatalf("at most one guide per orientation, got %d", len(r.guides))
	}
	if !s.HasGuide(vector.Vertical) {
		t.Fatalf("vertical guide should be live")
	}
	s.SetGuides(vector.SnapResult{})
	if len(r.guides) != 0 || s.HasGuide(vector.Vertical) {
		t.Fatalf("guides must be removed when no longer needed")
	}
}

func TestReplaceClearsSelectionAndSwapsSet(t *testing.T) {
	r := newRecorder()
	s := New(r)
	a := domain.NewTextField(domain.TextConfig{Name: "a"})
	_ = s.Add(a)
	s.SetActive(a.ID)

	b := domain.NewImageField(domain.ImageConfig{Name: "b"})
	c := domain.NewTextField(domain.TextConfig{Name: "c"})
	s.Replace([]*domain.Field{b, c})

	if s.Active() != nil {
		t.Fatalf("restore must clear the selection")
	}
	fields := s.Fields()
	if len(fields) != 2 || fields[0] != b || fields[1] != c {
		t.Fatalf("replaced set wrong: %+v", fields)
	}
	if r.detached[a.ID] != 1 {
		t.Fatalf("old visuals must be detached on replace")
	}
	if r.renders == 0 {
		t.Fatalf("replace should trigger a render")
	}
}
