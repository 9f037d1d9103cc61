/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Record is the wire representation of a single field, as exchanged with
// the persistence backend. field_name, field_type, x, y are always present;
// the remaining attributes depend on field_type.
type Record struct {
	FieldName string `json:"field_name"`
	FieldType string `json:"field_type"`
	X         int    `json:"x"`
	Y         int    `json:"y"`

	// Text attributes.
	FontSize   int    `json:"font_size,omitempty"`
	Color      string `json:"color,omitempty"`
	FontFamily string `json:"font_family,omitempty"`
	Align      string `json:"align,omitempty"`

	// Image attributes. Width/height also round-trip for text fields when
	// known, so a hydrated layout keeps its measured extents.
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Shape  string `json:"shape,omitempty"`
}

// ErrUnknownFieldType marks hydration records whose field_type is not
// recognized. Callers skip such records rather than aborting the load.
var ErrUnknownFieldType = errors.New("unknown field type")

// ToRecord serializes a field into its wire record. Geometry is emitted as
// resolved pixel values.
func (f *Field) ToRecord() Record {
	r := Record{
		FieldName: f.Name,
		FieldType: string(f.Kind),
		X:         f.X,
		Y:         f.Y,
		Width:     f.Width,
		Height:    f.Height,
	}
	switch f.Kind {
	case KindText:
		r.FontSize = f.FontSize
		r.Color = f.Color
		r.FontFamily = f.FontFamily
		r.Align = f.Align
	case KindImage:
		r.Shape = string(f.Shape)
	}
	return r
}

// FieldFromRecord reconstructs a field from a persisted record via the same
// creation paths as user-driven creation, so defaults and ID assignment stay
// consistent. Unknown field types return ErrUnknownFieldType.
func FieldFromRecord(r Record) (*Field, error) {
	name := strings.TrimSpace(r.FieldName)
	switch Kind(strings.ToLower(strings.TrimSpace(r.FieldType))) {
	case KindText:
		f := NewTextField(TextConfig{
			Name:       name,
			X:          r.X,
			Y:          r.Y,
			FontSize:   r.FontSize,
			Color:      r.Color,
			FontFamily: r.FontFamily,
			Align:      r.Align,
		})
		if r.Width > 0 {
			f.Width = r.Width
		}
		if r.Height > 0 {
			f.Height = r.Height
		}
		return f, nil
	case KindImage:
		return NewImageField(ImageConfig{
			Name:   name,
			X:      r.X,
			Y:      r.Y,
			Width:  r.Width,
			Height: r.Height,
			Shape:  Shape(strings.ToLower(strings.TrimSpace(r.Shape))),
		}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFieldType, r.FieldType)
	}
}

// Records serializes an ordered field set. Order is preserved; z-order on
// the canvas is list order.
func Records(fields []*Field) []Record {
	out := make([]Record, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.ToRecord())
	}
	return out
}

// FieldsFromRecords hydrates an ordered record set, skipping malformed
// records. The number of skipped records is returned for logging.
func FieldsFromRecords(records []Record) (fields []*Field, skipped int) {
	for _, r := range records {
		f, err := FieldFromRecord(r)
		if err != nil {
			skipped++
			continue
		}
		fields = append(fields, f)
	}
	return fields, skipped
}
