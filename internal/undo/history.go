/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package undo provides the bounded linear history for the editor session:
// two stacks of serialized field-set snapshots. Blob content is opaque to
// the manager.
package undo

import (
	"sync"
	"time"
)

// Snapshot is one history checkpoint. TS is when it was captured and is
// used only for optional coalescing.
type Snapshot struct {
	Blob []byte
	TS   time.Time
}

// Config controls depth cap and coalescing behavior.
type Config struct {
	// MaxDepth bounds the undo stack; the oldest entry is evicted from the
	// bottom on overflow. Zero means the default of 50.
	MaxDepth int
	// MinInterval, when positive, coalesces snapshots pushed within the
	// interval by replacing the previous top instead of growing the stack.
	MinInterval time.Duration
}

// DefaultMaxDepth is the history cap when Config.MaxDepth is zero.
const DefaultMaxDepth = 50

// History holds the undo and redo stacks. The bottom undo entry is the
// baseline state and is never popped: Undo is a no-op when only the
// baseline remains. It is safe for concurrent use, although the editor
// mutates on a single event loop.
type History struct {
	cfg  Config
	mu   sync.Mutex
	undo []Snapshot
	redo []Snapshot
}

func NewHistory(cfg Config) *History {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return &History{cfg: cfg}
}

// Push records a committed mutation. Any previously undone future is
// invalidated: the redo stack is cleared.
func (h *History) Push(blob []byte) { h.PushAt(blob, time.Now()) }

// PushAt is Push with an explicit timestamp, for coalescing and tests.
func (h *History) PushAt(blob []byte, ts time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n := len(h.undo); n > 1 && h.cfg.MinInterval > 0 {
		if ts.Sub(h.undo[n-1].TS) < h.cfg.MinInterval {
			h.undo[n-1] = Snapshot{Blob: blob, TS: ts}
			h.redo = nil
			return
		}
	}
	h.undo = append(h.undo, Snapshot{Blob: blob, TS: ts})
	h.redo = nil
	if len(h.undo) > h.cfg.MaxDepth {
		over := len(h.undo) - h.cfg.MaxDepth
		h.undo = append([]Snapshot{}, h.undo[over:]...)
	}
}

// Undo moves the current top onto the redo stack and returns the snapshot
// to restore (the new top). ok is false when only the baseline remains.
func (h *History) Undo() (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undo) <= 1 {
		return Snapshot{}, false
	}
	top := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, top)
	return h.undo[len(h.undo)-1], true
}

// Redo pops the redo stack, pushes the snapshot back onto undo, and returns
// it for restoring. ok is false when there is nothing to redo.
func (h *History) Redo() (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.redo) == 0 {
		return Snapshot{}, false
	}
	top := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, top)
	if len(h.undo) > h.cfg.MaxDepth {
		over := len(h.undo) - h.cfg.MaxDepth
		h.undo = append([]Snapshot{}, h.undo[over:]...)
	}
	return top, true
}

// CanUndo reports whether an Undo would restore anything.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo) > 1
}

// CanRedo reports whether a Redo would restore anything.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo) > 0
}

// Depth returns the current undo stack size (baseline included).
func (h *History) Depth() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo)
}

// Oldest returns the bottom (oldest surviving) snapshot, for diagnostics.
func (h *History) Oldest() (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undo) == 0 {
		return Snapshot{}, false
	}
	return h.undo[0], true
}

// Reset drops both stacks and installs blob as the new baseline.
func (h *History) Reset(blob []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo = []Snapshot{{Blob: blob, TS: time.Now()}}
	h.redo = nil
}
