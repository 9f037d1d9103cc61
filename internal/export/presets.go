/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"gobanner/internal/storage"
)

// PresetName represents a named export preset.
type PresetName string

const (
	// PresetWeb produces the final flattened PNG for delivery.
	PresetWeb PresetName = "web"
	// PresetProof produces review artifacts with image frames visible.
	PresetProof PresetName = "proof"
)

// BatchOptions controls batch export across formats.
//
// Path semantics:
//   - If OutDir is empty or relative, outputs land under <draft>/exports/<preset>/.
//   - Files are named banner.png / banner.pdf in OutDir.
type BatchOptions struct {
	Preset  PresetName
	Formats []string // allowed: png, pdf; empty means preset defaults
	Values  map[string]string
	OutDir  string
}

// BatchExport renders the draft's banner according to the given preset.
func BatchExport(dh *storage.DraftHandle, opt BatchOptions) error {
	if dh == nil {
		return fmt.Errorf("draft handle is nil")
	}

	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}

	outDir := opt.OutDir
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(dh.Root, "exports", string(opt.Preset), outDir)
	}

	ropt := RenderOptions{
		Values:        opt.Values,
		IncludeFrames: opt.Preset == PresetProof,
	}

	for _, f := range formats {
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "png":
			if err := RenderPNG(&dh.Banner, dh.Root, filepath.Join(outDir, "banner.png"), ropt); err != nil {
				return fmt.Errorf("preset %s png: %w", opt.Preset, err)
			}
		case "pdf":
			if err := RenderPDF(&dh.Banner, dh.Root, filepath.Join(outDir, "banner.pdf"), ropt); err != nil {
				return fmt.Errorf("preset %s pdf: %w", opt.Preset, err)
			}
		default:
			return fmt.Errorf("unknown export format %q", f)
		}
	}
	return nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetProof:
		return []string{"png", "pdf"}
	default:
		return []string{"png"}
	}
}
