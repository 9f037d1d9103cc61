/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package session wires the editor core together: one Session per opened
// banner holds the scene, the history stacks, the property binding state
// and the persistence gateway. All mutation happens on discrete UI
// callbacks; the pattern within one callback turn is apply mutation, then
// snapshot, then render.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"gobanner/internal/domain"
	applog "gobanner/internal/log"
	"gobanner/internal/scene"
	"gobanner/internal/undo"
	"gobanner/internal/vector"
)

// Gateway is the persistence boundary. Implementations transmit the record
// sequence to a backend and report success or failure; the session never
// mutates local state based on the outcome.
type Gateway interface {
	SaveFields(ctx context.Context, templateID string, records []domain.Record) error
	FetchFields(ctx context.Context, templateID string) ([]domain.Record, error)
}

// Config tunes per-session editor behavior.
type Config struct {
	SnapTolerance float32
	HistoryDepth  int
	// Coalesce merges snapshots committed within the interval (0 disables).
	Coalesce time.Duration
}

// Session is the process-wide editor state for one opened banner.
type Session struct {
	log      *slog.Logger
	template domain.Template
	scene    *scene.Scene
	history  *undo.History
	gateway  Gateway
	cfg      Config

	panel  Panel
	layers []LayerEntry
}

// New creates a session over a background template. The editable surface
// always matches the template's natural pixel dimensions.
func New(template domain.Template, r scene.Renderer, gw Gateway, cfg Config) *Session {
	if cfg.SnapTolerance <= 0 {
		cfg.SnapTolerance = vector.DefaultSnapThreshold
	}
	s := &Session{
		log:      applog.WithComponent("session"),
		template: template,
		scene:    scene.New(r),
		history:  undo.NewHistory(undo.Config{MaxDepth: cfg.HistoryDepth, MinInterval: cfg.Coalesce}),
		gateway:  gw,
		cfg:      cfg,
	}
	s.scene.Subscribe(s.onSceneEvent)
	s.history.Reset(s.encode())
	return s
}

// Scene exposes the scene graph adapter (the UI renderer needs it for
// selection clicks and gesture results).
func (s *Session) Scene() *scene.Scene { return s.scene }

// Template returns the background template reference.
func (s *Session) Template() domain.Template { return s.template }

// CanvasSize returns the editable surface dimensions.
func (s *Session) CanvasSize() vector.Size {
	return vector.Size{W: float32(s.template.Width), H: float32(s.template.Height)}
}

func (s *Session) onSceneEvent(e scene.Event) {
	switch e.Type {
	case scene.Selected:
		s.panel.populate(e.Field)
	case scene.Cleared:
		s.panel.clear()
	case scene.Modified:
		if s.panel.FieldID == fieldID(e.Field) {
			s.panel.populate(e.Field)
		}
	}
	switch e.Type {
	case scene.Added, scene.Removed, scene.Modified:
		s.rebuildLayers()
	}
}

func fieldID(f *domain.Field) string {
	if f == nil {
		return ""
	}
	return f.ID
}

// AddText places a new text field, selects it, and commits a snapshot.
func (s *Session) AddText(cfg domain.TextConfig) *domain.Field {
	f := domain.NewTextField(cfg)
	if f.Width == 0 {
		f.Width, f.Height = estimateTextExtent(f.Text, f.FontSize)
	}
	if err := s.scene.Add(f); err != nil {
		// IDs are unique by construction; reaching this is a bug upstream.
		s.log.Error("add text field", slog.Any("err", err))
		return nil
	}
	s.scene.SetActive(f.ID)
	s.commit()
	return f
}

// AddImage places a new image placeholder, selects it, and commits.
func (s *Session) AddImage(cfg domain.ImageConfig) *domain.Field {
	f := domain.NewImageField(cfg)
	if err := s.scene.Add(f); err != nil {
		s.log.Error("add image field", slog.Any("err", err))
		return nil
	}
	s.scene.SetActive(f.ID)
	s.commit()
	return f
}

// Delete removes a field and commits. Deleting the active field reverts the
// panel to its empty state via the Cleared notification.
func (s *Session) Delete(id string) bool {
	if !s.scene.Remove(id) {
		return false
	}
	s.commit()
	return true
}

// Select makes the field with the given id active.
func (s *Session) Select(id string) bool { return s.scene.SetActive(id) }

// ClearSelection empties the selection (click on empty canvas).
func (s *Session) ClearSelection() { s.scene.ClearActive() }

// DragUpdate is invoked on every move-gesture frame for the dragged field.
// The frame is snapped against the canvas center lines and guides are
// reconciled. Transient frames are never snapshotted.
func (s *Session) DragUpdate(id string, x, y float32) {
	f, ok := s.scene.Get(id)
	if !ok || f.Locked {
		return
	}
	moving := vector.R(x, y, float32(f.Width), float32(f.Height))
	res := vector.SnapToCanvas(moving, s.CanvasSize(), s.cfg.SnapTolerance)
	s.scene.SetGuides(res)
	// Round like scene.ApplyFrame does, so a snapped frame lands on the
	// exact center pixel on odd canvas sizes.
	f.X = int(math.Round(float64(res.Snapped.X)))
	f.Y = int(math.Round(float64(res.Snapped.Y)))
	s.scene.Render()
}

// DragEnd commits the gesture: guides are removed and a snapshot is taken.
// An abandoned drag may skip DragEnd; the field then simply keeps its
// last-known geometry.
func (s *Session) DragEnd(id string) {
	s.scene.ClearGuides()
	if _, ok := s.scene.Get(id); !ok {
		return
	}
	s.scene.Touch(id)
	s.commit()
}

// ResizeEnd surfaces the final geometry of a resize gesture. Width/height
// arrive with any presentation scale already multiplied in.
func (s *Session) ResizeEnd(id string, frame vector.Rect) {
	f, ok := s.scene.Get(id)
	if !ok || f.Locked {
		return
	}
	if f.Kind == domain.KindImage && f.Shape == domain.ShapeCircle {
		// Circles stay diameter-based.
		frame.H = frame.W
	}
	s.scene.ApplyFrame(id, frame)
	s.scene.Render()
	s.commit()
}

// ChangeShape swaps an image field's placeholder shape, preserving id, name
// and geometry. The visual is destroyed and recreated underneath, but the
// operation is a single observable mutation: one snapshot.
func (s *Session) ChangeShape(id string, shape domain.Shape) bool {
	f, ok := s.scene.Get(id)
	if !ok || f.Kind != domain.KindImage {
		return false
	}
	if shape != domain.ShapeRect && shape != domain.ShapeCircle {
		return false
	}
	if f.Shape == shape {
		return false
	}
	f.Shape = shape
	if shape == domain.ShapeCircle && f.Width != f.Height {
		f.Height = f.Width
	}
	s.scene.SwapVisual(id)
	s.scene.Touch(id)
	s.scene.Render()
	s.commit()
	return true
}

// Undo restores the previous committed field set. No-op at the baseline.
func (s *Session) Undo() bool {
	snap, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.restore(snap.Blob)
	return true
}

// Redo restores a previously undone field set. No-op when nothing was undone.
func (s *Session) Redo() bool {
	snap, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.restore(snap.Blob)
	return true
}

// Serialize emits the ordered wire records for the current field set.
func (s *Session) Serialize() []domain.Record {
	return domain.Records(s.scene.Fields())
}

// Save transmits the serialized field set through the gateway. Failure
// leaves session state untouched and is returned for a user-visible,
// retryable notification.
func (s *Session) Save(ctx context.Context) error {
	records := s.Serialize()
	if err := s.gateway.SaveFields(ctx, s.template.StableID, records); err != nil {
		s.log.Error("save failed", slog.Int("fields", len(records)), slog.Any("err", err))
		return fmt.Errorf("save banner: %w", err)
	}
	s.log.Info("saved", slog.Int("fields", len(records)))
	return nil
}

// Hydrate reconstructs the field set from persisted records through the
// normal creation paths and installs the result as the history baseline.
// Malformed records are skipped, not fatal.
func (s *Session) Hydrate(records []domain.Record) {
	fields, skipped := domain.FieldsFromRecords(records)
	if skipped > 0 {
		s.log.Warn("hydration skipped malformed records", slog.Int("skipped", skipped))
	}
	s.scene.Replace(fields)
	s.history.Reset(s.encode())
	s.rebuildLayers()
}

// Load pulls the persisted layout from the gateway and hydrates.
func (s *Session) Load(ctx context.Context) error {
	records, err := s.gateway.FetchFields(ctx, s.template.StableID)
	if err != nil {
		return fmt.Errorf("load banner: %w", err)
	}
	s.Hydrate(records)
	return nil
}

// History exposes undo/redo availability for toolbar state.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// commit captures the full ordered field set after a committed mutation.
func (s *Session) commit() {
	s.history.Push(s.encode())
}

// encode captures the complete field set by value, not the wire records:
// snapshots must round-trip attributes the backend never stores (text
// content, locked, visible) and keep field IDs stable across undo/redo.
func (s *Session) encode() []byte {
	live := s.scene.Fields()
	set := make([]domain.Field, 0, len(live))
	for _, f := range live {
		set = append(set, *f)
	}
	blob, err := json.Marshal(set)
	if err != nil {
		// Fields contain only plain values; marshal cannot realistically fail.
		s.log.Error("snapshot encode", slog.Any("err", err))
		return []byte("[]")
	}
	return blob
}

func (s *Session) restore(blob []byte) {
	var set []domain.Field
	if err := json.Unmarshal(blob, &set); err != nil {
		s.log.Error("snapshot decode", slog.Any("err", err))
		return
	}
	fields := make([]*domain.Field, 0, len(set))
	for i := range set {
		f := set[i]
		fields = append(fields, &f)
	}
	s.scene.Replace(fields)
	s.rebuildLayers()
}

// estimateTextExtent sizes a fresh text field before the renderer has
// measured it. The renderer replaces this with real metrics on first paint.
func estimateTextExtent(text string, fontSize int) (w, h int) {
	n := len([]rune(text))
	if n == 0 {
		n = 8
	}
	return n * fontSize * 6 / 10, fontSize * 12 / 10
}
