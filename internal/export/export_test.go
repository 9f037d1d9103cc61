/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"gobanner/internal/domain"
	"gobanner/internal/storage"
)

func testBanner() domain.Banner {
	return domain.Banner{
		Template: domain.Template{Name: "Promo", Width: 400, Height: 300},
		Fields: []domain.Record{
			{
				FieldName:  "headline",
				FieldType:  "text",
				X:          200,
				Y:          40,
				FontSize:   36,
				Color:      "#ff0000",
				FontFamily: "sans",
				Align:      "center",
			},
			{
				FieldName: "logo",
				FieldType: "image",
				X:         50,
				Y:         120,
				Width:     100,
				Height:    100,
				Shape:     "circle",
			},
		},
	}
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	return img
}

func hasColor(img image.Image, want color.RGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			got := color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(bl >> 8), uint8(a >> 8)}
			if got == want {
				return true
			}
		}
	}
	return false
}

func TestRenderPNG_TextAndFrame(t *testing.T) {
	root := t.TempDir()
	b := testBanner()
	out := filepath.Join(root, "out", "banner.png")

	err := RenderPNG(&b, root, out, RenderOptions{
		Values:        map[string]string{"headline": "Hello"},
		IncludeFrames: true,
	})
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}

	img := decodePNG(t, out)
	if got := img.Bounds().Dx(); got != 400 {
		t.Fatalf("width = %d, want 400", got)
	}
	if got := img.Bounds().Dy(); got != 300 {
		t.Fatalf("height = %d, want 300", got)
	}

	// The headline leaves red pixels in its line box and the circle frame
	// leaves gray pixels on its outline.
	if !hasColor(img, color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("no text pixels found in output")
	}
	if !hasColor(img, color.RGBA{128, 128, 128, 255}) {
		t.Fatalf("no frame pixels found in output")
	}
}

func TestRenderPNG_PlaceholderTextWhenNoValue(t *testing.T) {
	root := t.TempDir()
	b := testBanner()
	out := filepath.Join(root, "banner.png")

	if err := RenderPNG(&b, root, out, RenderOptions{}); err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	// Field name renders as placeholder text.
	if !hasColor(decodePNG(t, out), color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("placeholder text not rendered")
	}
}

func TestRenderPDF_CreatesFile(t *testing.T) {
	root := t.TempDir()
	b := testBanner()
	out := filepath.Join(root, "banner.pdf")

	err := RenderPDF(&b, root, out, RenderOptions{
		Values:        map[string]string{"headline": "Hello"},
		IncludeFrames: true,
	})
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(data) < 4 || string(data[:4]) != "%PDF" {
		t.Fatalf("output is not a PDF")
	}
}

func TestBatchExport_ProofPreset(t *testing.T) {
	root := t.TempDir()
	dh, err := storage.InitDraft(root, testBanner())
	if err != nil {
		t.Fatalf("InitDraft: %v", err)
	}

	if err := BatchExport(dh, BatchOptions{Preset: PresetProof}); err != nil {
		t.Fatalf("BatchExport: %v", err)
	}
	for _, name := range []string{"banner.png", "banner.pdf"} {
		p := filepath.Join(dh.Root, "exports", "proof", name)
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
}

func TestWritePreview_ScalesDown(t *testing.T) {
	root := t.TempDir()
	dh, err := storage.InitDraft(root, testBanner())
	if err != nil {
		t.Fatalf("InitDraft: %v", err)
	}

	path, err := WritePreview(dh, 200)
	if err != nil {
		t.Fatalf("WritePreview: %v", err)
	}
	if path != filepath.Join(root, PreviewFileName) {
		t.Fatalf("preview written to %s", path)
	}
	img := decodePNG(t, path)
	b := img.Bounds()
	if b.Dx() != 200 || b.Dy() != 150 {
		t.Fatalf("preview size = %dx%d, want 200x150", b.Dx(), b.Dy())
	}
}

func TestBatchExport_RejectsUnknownFormat(t *testing.T) {
	root := t.TempDir()
	dh, err := storage.InitDraft(root, testBanner())
	if err != nil {
		t.Fatalf("InitDraft: %v", err)
	}
	if err := BatchExport(dh, BatchOptions{Preset: PresetWeb, Formats: []string{"svg"}}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestParseHexColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#ff0000", color.RGBA{255, 0, 0, 255}, true},
		{"#0f0", color.RGBA{0, 255, 0, 255}, true},
		{"#ABCDEF", color.RGBA{171, 205, 239, 255}, true},
		{"ff0000", color.RGBA{}, false},
		{"#ggg", color.RGBA{}, false},
		{"", color.RGBA{}, false},
	}
	for _, c := range cases {
		got, ok := parseHexColor(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("parseHexColor(%q) = %v,%v want %v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}
