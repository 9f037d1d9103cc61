/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package stylepack

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gobanner/internal/domain"
	applog "gobanner/internal/log"
)

// Preset is a named bundle of text attributes that can be applied to a text
// field in one step. Presets live as individual JSON files under the draft's
// styles/ directory; the file stem is the preset name unless the file sets one.
type Preset struct {
	Name       string `json:"name,omitempty"`
	FontSize   int    `json:"font_size,omitempty"`
	Color      string `json:"color,omitempty"`
	FontFamily string `json:"font_family,omitempty"`
	Align      string `json:"align,omitempty"`
}

// Apply copies the preset's non-empty attributes onto a text field. Image
// fields are left untouched.
func (p Preset) Apply(f *domain.Field) bool {
	if f == nil || f.Kind != domain.KindText {
		return false
	}
	changed := false
	if p.FontSize > 0 && p.FontSize != f.FontSize {
		f.FontSize = p.FontSize
		changed = true
	}
	if p.Color != "" && p.Color != f.Color {
		f.Color = p.Color
		changed = true
	}
	if p.FontFamily != "" && p.FontFamily != f.FontFamily {
		f.FontFamily = p.FontFamily
		changed = true
	}
	if domain.ValidAlign(p.Align) && p.Align != f.Align {
		f.Align = p.Align
		changed = true
	}
	return changed
}

// LoadPresets reads every *.json preset under <draftRoot>/styles, sorted by
// name. Unparseable files are skipped with a warning so one bad preset does
// not hide the rest.
func LoadPresets(draftRoot string) ([]Preset, error) {
	l := applog.WithOperation(applog.WithComponent("stylepack"), "load").With(slog.String("draft", draftRoot))
	stylesDir := filepath.Join(draftRoot, "styles")
	entries, err := os.ReadDir(stylesDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read styles dir: %w", err)
	}
	var out []Preset
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(stylesDir, e.Name()))
		if err != nil {
			l.Warn("skip unreadable preset", slog.String("file", e.Name()), slog.Any("err", err))
			continue
		}
		var p Preset
		if err := json.Unmarshal(data, &p); err != nil {
			l.Warn("skip malformed preset", slog.String("file", e.Name()), slog.Any("err", err))
			continue
		}
		if p.Name == "" {
			p.Name = strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// SavePreset writes a preset as <draftRoot>/styles/<name>.json.
func SavePreset(draftRoot string, p Preset) error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("preset name is required")
	}
	stylesDir := filepath.Join(draftRoot, "styles")
	if err := os.MkdirAll(stylesDir, 0o755); err != nil {
		return fmt.Errorf("ensure styles dir: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(stylesDir, p.Name+".json"), data, 0o644)
}

// ExportStyles zips the draft's styles directory (<draft>/styles) into a single .zip file.
// The produced archive preserves the directory structure and adds a small manifest file at the root
// named stylepack.manifest.txt for quick human inspection.
// If the styles directory does not exist or is empty, it still creates the archive with only the manifest.
func ExportStyles(draftRoot string, destZipPath string) error {
	l := applog.WithOperation(applog.WithComponent("stylepack"), "export").With(slog.String("draft", draftRoot))
	if strings.TrimSpace(draftRoot) == "" {
		return errors.New("draftRoot is required")
	}
	if strings.TrimSpace(destZipPath) == "" {
		return errors.New("destZipPath is required")
	}
	stylesDir := filepath.Join(draftRoot, "styles")
	if _, err := os.Stat(stylesDir); os.IsNotExist(err) {
		if err := os.MkdirAll(stylesDir, 0o755); err != nil {
			return fmt.Errorf("ensure styles dir: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(destZipPath), 0o755); err != nil {
		return fmt.Errorf("ensure zip dir: %w", err)
	}
	// On Windows, remove destination if present before create
	_ = os.Remove(destZipPath)

	zf, err := os.Create(destZipPath)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}
	defer func() { _ = zf.Close() }()
	zw := zip.NewWriter(zf)
	defer func() { _ = zw.Close() }()

	manifest := fmt.Sprintf("gobanner Style Pack\nCreated: %s\nDraft: %s\n\nContents mirror the draft's /styles directory.\n",
		time.Now().Format(time.RFC3339), draftRoot)
	w, err := zw.Create("stylepack.manifest.txt")
	if err != nil {
		return fmt.Errorf("add manifest: %w", err)
	}
	if _, err := w.Write([]byte(manifest)); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	added := 0
	err = filepath.Walk(stylesDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(draftRoot, path)
		if err != nil {
			return err
		}
		// Forward slashes inside the archive
		fw, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		if _, err := io.Copy(fw, f); err != nil {
			return err
		}
		added++
		return nil
	})
	if err != nil {
		l.Error("zip build failed", slog.Any("err", err))
		return fmt.Errorf("build zip: %w", err)
	}
	l.Info("style pack exported", slog.Int("files", added), slog.String("zip", destZipPath))
	return nil
}

// InstallPack extracts the given .zip pack into the draft's styles directory.
// Existing files are not overwritten; if a file already exists, it is skipped.
// Returns the count of files installed (skipped files are not counted).
func InstallPack(draftRoot string, packZipPath string) (int, error) {
	l := applog.WithOperation(applog.WithComponent("stylepack"), "install").With(slog.String("draft", draftRoot))
	if strings.TrimSpace(draftRoot) == "" {
		return 0, errors.New("draftRoot is required")
	}
	if strings.TrimSpace(packZipPath) == "" {
		return 0, errors.New("packZipPath is required")
	}
	stylesDir := filepath.Join(draftRoot, "styles")
	if err := os.MkdirAll(stylesDir, 0o755); err != nil {
		return 0, fmt.Errorf("ensure styles dir: %w", err)
	}

	r, err := zip.OpenReader(packZipPath)
	if err != nil {
		return 0, fmt.Errorf("open pack: %w", err)
	}
	defer func() { _ = r.Close() }()

	installed := 0
	for _, f := range r.File {
		name := f.Name
		if name == "stylepack.manifest.txt" {
			continue
		}
		// Entries not already under styles/ are placed there, so packs built
		// from bare preset files install cleanly too.
		targetRel := name
		if !strings.HasPrefix(targetRel, "styles/") {
			targetRel = filepath.ToSlash(filepath.Join("styles", targetRel))
		}
		targetPath := filepath.Join(draftRoot, filepath.FromSlash(targetRel))
		if !strings.HasPrefix(targetPath, filepath.Clean(draftRoot)+string(os.PathSeparator)) {
			l.Warn("skip entry escaping draft root", slog.String("name", name))
			continue
		}
		if _, err := os.Stat(targetPath); err == nil {
			l.Warn("skip existing file", slog.String("path", targetPath))
			continue
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(targetPath, 0o755); err != nil {
				return installed, err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
			return installed, err
		}
		rc, err := f.Open()
		if err != nil {
			return installed, err
		}
		out, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			_ = rc.Close()
			return installed, err
		}
		if _, err := io.Copy(out, rc); err != nil {
			_ = out.Close()
			_ = rc.Close()
			return installed, err
		}
		_ = out.Close()
		_ = rc.Close()
		installed++
	}
	l.Info("style pack installed", slog.Int("files", installed))
	return installed, nil
}
