/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"gobanner/internal/storage"
)

// PreviewFileName is the thumbnail written next to the draft manifest.
const PreviewFileName = "preview.png"

// DefaultPreviewWidth is the pixel width preview thumbnails are scaled to.
const DefaultPreviewWidth = 320

// WritePreview renders the draft at full size with placeholder frames, scales
// it down to maxWidth (DefaultPreviewWidth when <= 0) and writes it next to
// the manifest. Returns the path of the written file.
func WritePreview(dh *storage.DraftHandle, maxWidth int) (string, error) {
	if dh == nil {
		return "", fmt.Errorf("draft handle is nil")
	}
	if maxWidth <= 0 {
		maxWidth = DefaultPreviewWidth
	}
	full, err := composite(&dh.Banner, dh.Root, RenderOptions{IncludeFrames: true})
	if err != nil {
		return "", err
	}

	b := full.Bounds()
	out := full
	if b.Dx() > maxWidth {
		h := b.Dy() * maxWidth / b.Dx()
		if h < 1 {
			h = 1
		}
		out = image.NewRGBA(image.Rect(0, 0, maxWidth, h))
		xdraw.ApproxBiLinear.Scale(out, out.Bounds(), full, b, draw.Src, nil)
	}

	path := filepath.Join(dh.Root, PreviewFileName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, out); err != nil {
		return "", fmt.Errorf("encode preview: %w", err)
	}
	return path, nil
}
