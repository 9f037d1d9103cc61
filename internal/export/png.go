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
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	_ "image/gif"
	_ "image/jpeg"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"gobanner/internal/domain"
)

// RenderOptions controls banner rasterization.
//   - Values fills text fields by name; fields without an entry render their
//     designer placeholder text.
//   - IncludeFrames draws the outlines of image fields so proofs show where
//     uploads will land.
type RenderOptions struct {
	Values        map[string]string
	IncludeFrames bool
	FrameColor    color.RGBA
	Background    color.RGBA
}

// RenderPNG composites a banner into a PNG file at outPath. The template
// background image is resolved relative to assetRoot; when it is missing the
// canvas is filled with opt.Background (white by default).
func RenderPNG(b *domain.Banner, assetRoot, outPath string, opt RenderOptions) error {
	if b == nil {
		return fmt.Errorf("banner is nil")
	}
	img, err := composite(b, assetRoot, opt)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func composite(b *domain.Banner, assetRoot string, opt RenderOptions) (*image.RGBA, error) {
	w, h := b.Template.Width, b.Template.Height
	if w <= 0 {
		w = domain.DefaultCanvasWidth
	}
	if h <= 0 {
		h = domain.DefaultCanvasHeight
	}

	bg := opt.Background
	if bg.A == 0 {
		bg = color.RGBA{255, 255, 255, 255}
	}
	frameCol := opt.FrameColor
	if frameCol.A == 0 {
		frameCol = color.RGBA{128, 128, 128, 255}
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)

	if b.Template.ImagePath != "" {
		path := b.Template.ImagePath
		if !filepath.IsAbs(path) {
			path = filepath.Join(assetRoot, path)
		}
		if src, err := loadImage(path); err == nil {
			xdraw.ApproxBiLinear.Scale(img, img.Bounds(), src, src.Bounds(), draw.Over, nil)
		}
	}

	for _, rec := range b.Fields {
		switch domain.Kind(rec.FieldType) {
		case domain.KindText:
			if err := drawText(img, rec, opt.Values); err != nil {
				return nil, err
			}
		case domain.KindImage:
			if opt.IncludeFrames {
				drawFrame(img, rec, frameCol)
			}
		}
	}
	return img, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	return src, err
}

// drawText places a text field on the canvas. X/Y is the top-left of the
// line box; center and right alignment shift X back by the measured width,
// matching how the editor previews placement.
func drawText(img *image.RGBA, rec domain.Record, values map[string]string) error {
	text := rec.FieldName
	if v, ok := values[rec.FieldName]; ok {
		text = v
	}
	if text == "" {
		return nil
	}

	size := rec.FontSize
	if size <= 0 {
		size = domain.DefaultFontSize
	}
	face, err := faceFor(rec.FontFamily, float64(size))
	if err != nil {
		return err
	}
	defer face.Close()

	col, ok := parseHexColor(rec.Color)
	if !ok {
		col = color.RGBA{0, 0, 0, 255}
	}

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
	}
	width := d.MeasureString(text).Ceil()

	x := rec.X
	switch rec.Align {
	case domain.AlignCenter:
		x -= width / 2
	case domain.AlignRight:
		x -= width
	}

	metrics := face.Metrics()
	d.Dot = fixed.P(x, rec.Y+metrics.Ascent.Ceil())
	d.DrawString(text)
	return nil
}

func drawFrame(img *image.RGBA, rec domain.Record, col color.RGBA) {
	w, h := rec.Width, rec.Height
	if w <= 0 {
		w = domain.DefaultImageSize
	}
	if h <= 0 {
		h = w
	}
	if domain.Shape(rec.Shape) == domain.ShapeCircle {
		r := w / 2
		strokeCircle(img, rec.X+r, rec.Y+r, r, col)
		return
	}
	strokeRect(img, rec.X, rec.Y, rec.X+w-1, rec.Y+h-1, col)
}

func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		setPx(img, x, y0, col)
		setPx(img, x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		setPx(img, x0, y, col)
		setPx(img, x1, y, col)
	}
}

// strokeCircle draws a one pixel outline using the midpoint algorithm.
func strokeCircle(img *image.RGBA, cx, cy, r int, col color.RGBA) {
	if r <= 0 {
		return
	}
	x, y := r, 0
	e := 1 - r
	for x >= y {
		setPx(img, cx+x, cy+y, col)
		setPx(img, cx-x, cy+y, col)
		setPx(img, cx+x, cy-y, col)
		setPx(img, cx-x, cy-y, col)
		setPx(img, cx+y, cy+x, col)
		setPx(img, cx-y, cy+x, col)
		setPx(img, cx+y, cy-x, col)
		setPx(img, cx-y, cy-x, col)
		y++
		if e < 0 {
			e += 2*y + 1
		} else {
			x--
			e += 2*(y-x) + 1
		}
	}
}

func setPx(img *image.RGBA, x, y int, col color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, col)
	}
}

// parseHexColor accepts #rgb and #rrggbb strings.
func parseHexColor(s string) (color.RGBA, bool) {
	if len(s) != 4 && len(s) != 7 {
		return color.RGBA{}, false
	}
	if s[0] != '#' {
		return color.RGBA{}, false
	}
	hex := func(c byte) (int, bool) {
		switch {
		case c >= '0' && c <= '9':
			return int(c - '0'), true
		case c >= 'a' && c <= 'f':
			return int(c-'a') + 10, true
		case c >= 'A' && c <= 'F':
			return int(c-'A') + 10, true
		}
		return 0, false
	}
	var r, g, b int
	var ok bool
	if len(s) == 4 {
		var h [3]int
		for i := 0; i < 3; i++ {
			if h[i], ok = hex(s[i+1]); !ok {
				return color.RGBA{}, false
			}
		}
		r, g, b = h[0]*17, h[1]*17, h[2]*17
	} else {
		var h [6]int
		for i := 0; i < 6; i++ {
			if h[i], ok = hex(s[i+1]); !ok {
				return color.RGBA{}, false
			}
		}
		r, g, b = h[0]*16+h[1], h[2]*16+h[3], h[4]*16+h[5]
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}, true
}
