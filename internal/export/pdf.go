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
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"gobanner/internal/domain"
)

// Core PDF fonts standing in for the browser font stacks. Style suffixes:
// "" regular, "B" bold, "I" italic.
var pdfFonts = map[string][2]string{
	domain.DefaultFontFamily: {"Helvetica", ""},
	"serif":                  {"Times", ""},
	"mono":                   {"Courier", ""},
	"display":                {"Helvetica", "B"},
	"script":                 {"Times", "I"},
}

// RenderPDF writes a single-page vector proof of the banner to outPath.
// Page size matches the canvas at one point per pixel so coordinates carry
// over unchanged. Text stays selectable; only the background is rasterized.
func RenderPDF(b *domain.Banner, assetRoot, outPath string, opt RenderOptions) error {
	if b == nil {
		return fmt.Errorf("banner is nil")
	}
	w, h := b.Template.Width, b.Template.Height
	if w <= 0 {
		w = domain.DefaultCanvasWidth
	}
	if h <= 0 {
		h = domain.DefaultCanvasHeight
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: float64(w), Ht: float64(h)},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	if b.Template.ImagePath != "" {
		path := b.Template.ImagePath
		if !filepath.IsAbs(path) {
			path = filepath.Join(assetRoot, path)
		}
		if _, err := os.Stat(path); err == nil {
			pdf.ImageOptions(path, 0, 0, float64(w), float64(h), false,
				gofpdf.ImageOptions{ReadDpi: true}, 0, "")
		}
	}

	frameCol := opt.FrameColor
	if frameCol.A == 0 {
		frameCol.R, frameCol.G, frameCol.B = 128, 128, 128
	}

	for _, rec := range b.Fields {
		switch domain.Kind(rec.FieldType) {
		case domain.KindText:
			pdfText(pdf, rec, opt.Values)
		case domain.KindImage:
			if opt.IncludeFrames {
				pdfFrame(pdf, rec, frameCol.R, frameCol.G, frameCol.B)
			}
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("compose pdf: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return nil
}

func pdfText(pdf *gofpdf.Fpdf, rec domain.Record, values map[string]string) {
	text := rec.FieldName
	if v, ok := values[rec.FieldName]; ok {
		text = v
	}
	if text == "" {
		return
	}

	size := rec.FontSize
	if size <= 0 {
		size = domain.DefaultFontSize
	}
	fam, ok := pdfFonts[rec.FontFamily]
	if !ok {
		fam = pdfFonts[domain.DefaultFontFamily]
	}
	pdf.SetFont(fam[0], fam[1], float64(size))

	if col, ok := parseHexColor(rec.Color); ok {
		pdf.SetTextColor(int(col.R), int(col.G), int(col.B))
	} else {
		pdf.SetTextColor(0, 0, 0)
	}

	x := float64(rec.X)
	switch rec.Align {
	case domain.AlignCenter:
		x -= pdf.GetStringWidth(text) / 2
	case domain.AlignRight:
		x -= pdf.GetStringWidth(text)
	}

	// Text() expects the baseline; Y is the top of the line box.
	pdf.Text(x, float64(rec.Y)+float64(size)*0.8, text)
}

func pdfFrame(pdf *gofpdf.Fpdf, rec domain.Record, r, g, b uint8) {
	w, h := rec.Width, rec.Height
	if w <= 0 {
		w = domain.DefaultImageSize
	}
	if h <= 0 {
		h = w
	}
	pdf.SetDrawColor(int(r), int(g), int(b))
	pdf.SetLineWidth(1)
	if domain.Shape(rec.Shape) == domain.ShapeCircle {
		rad := float64(w) / 2
		pdf.Circle(float64(rec.X)+rad, float64(rec.Y)+rad, rad, "D")
		return
	}
	pdf.Rect(float64(rec.X), float64(rec.Y), float64(w), float64(h), "D")
}
