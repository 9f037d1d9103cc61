/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package session

import (
	"strings"

	"gobanner/internal/domain"
)

// BindingState is the property panel's state machine: Idle (nothing
// selected, panel empty) or Selected (panel mirrors the active field).
type BindingState string

const (
	Idle          BindingState = "idle"
	SelectedState BindingState = "selected"
)

// Panel is the property panel's view of the active field. It is populated
// on selection and after every committed edit; it is never an independent
// source of truth.
type Panel struct {
	State   BindingState
	FieldID string
	Kind    domain.Kind

	Name string

	// Text sub-panel.
	Text       string
	FontSize   int
	Color      string
	FontFamily string
	Align      string

	// Image sub-panel.
	Width  int
	Height int
	Shape  domain.Shape

	Locked bool
}

func (p *Panel) populate(f *domain.Field) {
	if f == nil {
		p.clear()
		return
	}
	*p = Panel{
		State:      SelectedState,
		FieldID:    f.ID,
		Kind:       f.Kind,
		Name:       f.Name,
		Text:       f.Text,
		FontSize:   f.FontSize,
		Color:      f.Color,
		FontFamily: f.FontFamily,
		Align:      f.Align,
		Width:      f.Width,
		Height:     f.Height,
		Shape:      f.Shape,
		Locked:     f.Locked,
	}
}

func (p *Panel) clear() { *p = Panel{State: Idle} }

// Panel returns the current panel state.
func (s *Session) Panel() Panel { return s.panel }

// Every setter below is a one-way write: panel input -> active field ->
// render -> snapshot. Edits are applied immediately; there is no separate
// apply step. Kind-mismatched edits are silently ignored per the
// kind-mismatch guard.

// SetName renames the active field (any kind).
func (s *Session) SetName(name string) bool {
	f := s.scene.Active()
	name = strings.TrimSpace(name)
	if f == nil || name == "" || f.Name == name {
		return false
	}
	f.Name = name
	s.applyEdit(f)
	return true
}

// SetText changes the active text field's content. No-op on image fields.
func (s *Session) SetText(text string) bool {
	f := s.activeOfKind(domain.KindText)
	if f == nil || f.Text == text {
		return false
	}
	f.Text = text
	s.applyEdit(f)
	return true
}

// SetFontSize changes the active text field's font size. No-op on image
// fields or non-positive sizes.
func (s *Session) SetFontSize(size int) bool {
	f := s.activeOfKind(domain.KindText)
	if f == nil || size <= 0 || f.FontSize == size {
		return false
	}
	f.FontSize = size
	s.applyEdit(f)
	return true
}

// SetColor changes the active text field's fill color (hex string).
func (s *Session) SetColor(hex string) bool {
	f := s.activeOfKind(domain.KindText)
	hex = strings.TrimSpace(strings.ToLower(hex))
	if f == nil || !validHexColor(hex) || f.Color == hex {
		return false
	}
	f.Color = hex
	s.applyEdit(f)
	return true
}

// SetFontFamily changes the active text field's family token.
func (s *Session) SetFontFamily(family string) bool {
	f := s.activeOfKind(domain.KindText)
	family = strings.ToLower(strings.TrimSpace(family))
	if f == nil || family == "" || f.FontFamily == family {
		return false
	}
	f.FontFamily = family
	s.applyEdit(f)
	return true
}

// SetAlign changes the active text field's alignment.
func (s *Session) SetAlign(align string) bool {
	f := s.activeOfKind(domain.KindText)
	if f == nil || !domain.ValidAlign(align) || f.Align == align {
		return false
	}
	f.Align = align
	s.applyEdit(f)
	return true
}

// SetSize changes the active image placeholder's dimensions. Circles keep
// width == height. No-op on text fields, whose extent follows their text.
func (s *Session) SetSize(w, h int) bool {
	f := s.activeOfKind(domain.KindImage)
	if f == nil || w <= 0 || h <= 0 {
		return false
	}
	if f.Shape == domain.ShapeCircle {
		h = w
	}
	if f.Width == w && f.Height == h {
		return false
	}
	f.Width, f.Height = w, h
	s.applyEdit(f)
	return true
}

// SetShape swaps the active image placeholder's shape (delegates to the
// session-level ChangeShape so the visual swap stays one mutation).
func (s *Session) SetShape(shape domain.Shape) bool {
	f := s.activeOfKind(domain.KindImage)
	if f == nil {
		return false
	}
	return s.ChangeShape(f.ID, shape)
}

// SetLocked toggles move/resize suppression on the active field.
func (s *Session) SetLocked(locked bool) bool {
	f := s.scene.Active()
	if f == nil || f.Locked == locked {
		return false
	}
	f.Locked = locked
	s.applyEdit(f)
	return true
}

// SetVisible toggles visibility on the active field.
func (s *Session) SetVisible(visible bool) bool {
	f := s.scene.Active()
	if f == nil || f.Visible == visible {
		return false
	}
	f.Visible = visible
	s.applyEdit(f)
	return true
}

func (s *Session) activeOfKind(k domain.Kind) *domain.Field {
	f := s.scene.Active()
	if f == nil || f.Kind != k {
		return nil
	}
	return f
}

func (s *Session) applyEdit(f *domain.Field) {
	s.scene.Touch(f.ID)
	s.scene.Render()
	s.commit()
}

func validHexColor(s string) bool {
	if len(s) != 4 && len(s) != 7 {
		return false
	}
	if s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		default:
			return false
		}
	}
	return true
}
