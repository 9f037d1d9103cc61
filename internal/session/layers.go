/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package session

import "gobanner/internal/domain"

// LayerEntry is one row of the derived layer list: scene order, name and
// kind. The list is a read-only projection, rebuilt whenever the field set
// changes; it is never an independent source of truth.
type LayerEntry struct {
	ID   string
	Name string
	Kind domain.Kind
}

// Layers returns the current projection, one entry per field in scene order.
func (s *Session) Layers() []LayerEntry {
	out := make([]LayerEntry, len(s.layers))
	copy(out, s.layers)
	return out
}

// SelectLayer activates the field behind a layer row (click-to-select).
func (s *Session) SelectLayer(id string) bool { return s.Select(id) }

// DeleteLayer removes the field behind a layer row (inline delete control).
func (s *Session) DeleteLayer(id string) bool { return s.Delete(id) }

func (s *Session) rebuildLayers() {
	fields := s.scene.Fields()
	s.layers = s.layers[:0]
	for _, f := range fields {
		s.layers = append(s.layers, LayerEntry{ID: f.ID, Name: f.Name, Kind: f.Kind})
	}
}
