/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package domain defines the core data model for the banner studio: the
// Field placed on the editing surface, its wire Record representation, and
// the banner (template) metadata. Geometry values are resolved pixels in
// canvas coordinate space; any presentation-time scale has already been
// multiplied in before a Field is serialized.
package domain

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Kind discriminates what a field holds. Fixed at creation.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Shape applies to image placeholder fields only.
type Shape string

const (
	ShapeRect   Shape = "rect"
	ShapeCircle Shape = "circle"
)

// Supported text alignments.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// Text attribute defaults applied when a creation config omits them.
const (
	DefaultFontSize   = 32
	DefaultColor      = "#ffffff"
	DefaultFontFamily = "sans"
	DefaultAlign      = AlignLeft

	DefaultImageSize = 150
)

// Fallback canvas dimensions for templates saved without an explicit size.
const (
	DefaultCanvasWidth  = 800
	DefaultCanvasHeight = 600
)

// FontStacks maps a font family token to a concrete font stack. Tokens not
// present here fall back to the "sans" stack.
var FontStacks = map[string]string{
	"sans":    "Helvetica, Arial, sans-serif",
	"serif":   "Georgia, 'Times New Roman', serif",
	"mono":    "'Courier New', Courier, monospace",
	"display": "'Arial Black', Impact, sans-serif",
	"script":  "'Brush Script MT', cursive",
}

// FontStack resolves a family token to its concrete stack.
func FontStack(family string) string {
	if s, ok := FontStacks[strings.ToLower(strings.TrimSpace(family))]; ok {
		return s
	}
	return FontStacks[DefaultFontFamily]
}

// Field is the unit of editable content placed on the canvas. ID is unique
// within a session and never reassigned; Name is the user-facing label and
// may change freely. Kind is immutable; Shape may be swapped on image fields
// via the session's shape-change operation (which replaces the visual but
// keeps the Field).
type Field struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Kind  Kind   `json:"kind"`
	Shape Shape  `json:"shape,omitempty"`

	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`

	// Text-only attributes.
	Text       string `json:"text,omitempty"`
	FontSize   int    `json:"fontSize,omitempty"`
	Color      string `json:"color,omitempty"`
	FontFamily string `json:"fontFamily,omitempty"`
	Align      string `json:"align,omitempty"`

	Locked  bool `json:"locked,omitempty"`
	Visible bool `json:"visible"`
}

// TextConfig carries optional creation parameters for a text field.
// Zero values take defaults.
type TextConfig struct {
	Name       string
	Text       string
	X, Y       int
	FontSize   int
	Color      string
	FontFamily string
	Align      string
}

// ImageConfig carries optional creation parameters for an image placeholder.
type ImageConfig struct {
	Name          string
	X, Y          int
	Width, Height int
	Shape         Shape
}

// idSeq disambiguates IDs created within the same nanosecond; timestamps
// alone are not unique at sub-millisecond creation rates.
var (
	idMu      sync.Mutex
	idLastTS  int64
	idCounter uint64
)

// NewFieldID returns a fresh identifier of the form "field_<unix-nano>",
// with a "_<n>" suffix appended on timestamp collision. idLastTS tracks the
// highest timestamp ever issued, so a wall clock stepping backwards cannot
// re-issue an earlier plain ID.
func NewFieldID() string {
	idMu.Lock()
	defer idMu.Unlock()
	ts := time.Now().UnixNano()
	if ts <= idLastTS {
		n := atomic.AddUint64(&idCounter, 1)
		return fmt.Sprintf("field_%d_%d", idLastTS, n)
	}
	idLastTS = ts
	return fmt.Sprintf("field_%d", ts)
}

// NewTextField creates a text field, assigning a fresh unique ID and
// applying defaults for omitted attributes.
func NewTextField(cfg TextConfig) *Field {
	f := &Field{
		ID:         NewFieldID(),
		Kind:       KindText,
		Name:       cfg.Name,
		Text:       cfg.Text,
		X:          cfg.X,
		Y:          cfg.Y,
		FontSize:   cfg.FontSize,
		Color:      cfg.Color,
		FontFamily: cfg.FontFamily,
		Align:      cfg.Align,
		Visible:    true,
	}
	if f.Name == "" {
		f.Name = f.ID
	}
	if f.Text == "" {
		f.Text = f.Name
	}
	if f.FontSize <= 0 {
		f.FontSize = DefaultFontSize
	}
	if f.Color == "" {
		f.Color = DefaultColor
	}
	if f.FontFamily == "" {
		f.FontFamily = DefaultFontFamily
	}
	if !ValidAlign(f.Align) {
		f.Align = DefaultAlign
	}
	return f
}

// NewImageField creates an image placeholder field. The placeholder carries
// no image bytes; it is a frame awaiting later fulfilment.
func NewImageField(cfg ImageConfig) *Field {
	f := &Field{
		ID:      NewFieldID(),
		Kind:    KindImage,
		Name:    cfg.Name,
		X:       cfg.X,
		Y:       cfg.Y,
		Width:   cfg.Width,
		Height:  cfg.Height,
		Shape:   cfg.Shape,
		Visible: true,
	}
	if f.Name == "" {
		f.Name = f.ID
	}
	if f.Width <= 0 {
		f.Width = DefaultImageSize
	}
	if f.Height <= 0 {
		f.Height = DefaultImageSize
	}
	if f.Shape != ShapeRect && f.Shape != ShapeCircle {
		f.Shape = ShapeRect
	}
	if f.Shape == ShapeCircle {
		// Circle geometry is diameter-based: width == height.
		if f.Width != f.Height {
			f.Height = f.Width
		}
	}
	return f
}

// ValidAlign reports whether s is a supported text alignment.
func ValidAlign(s string) bool {
	switch s {
	case AlignLeft, AlignCenter, AlignRight:
		return true
	}
	return false
}

// Clone returns a deep copy (Field has no reference-typed members, so the
// value copy suffices; kept as a method for call-site clarity).
func (f *Field) Clone() *Field {
	c := *f
	return &c
}
