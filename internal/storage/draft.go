/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage persists banner drafts locally: a human-readable JSON
// manifest with timestamped backups and atomic replacement, plus an
// embedded SQLite catalog for templates and session recovery snapshots.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gobanner/internal/domain"
)

const (
	ManifestFileName = "banner.json"
	BackupsDirName   = "backups"
)

// Standard subfolders scaffolded under a draft root.
var standardSubDirs = []string{
	"assets",
	"exports",
	"styles",
	BackupsDirName,
}

// DraftHandle tracks a draft loaded from or saved to disk. Root is the
// draft directory containing banner.json and the subfolders.
type DraftHandle struct {
	Root         string
	ManifestPath string
	Banner       domain.Banner
}

// InitDraft creates a draft directory (scaffolding subfolders) and writes
// the manifest transactionally.
func InitDraft(root string, b domain.Banner) (*DraftHandle, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create draft root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, fmt.Errorf("create subdir %s: %w", d, err)
		}
	}
	dh := &DraftHandle{
		Root:         root,
		ManifestPath: filepath.Join(root, ManifestFileName),
		Banner:       b,
	}
	if err := Save(dh); err != nil {
		return nil, err
	}
	return dh, nil
}

// Open loads an existing draft. A manifest that cannot be read, parsed or
// validated falls back to the latest backup.
func Open(root string) (*DraftHandle, error) {
	mpath := filepath.Join(root, ManifestFileName)
	data, err := os.ReadFile(mpath)
	if err != nil {
		b, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("open manifest: %w; backup attempt: %v", err, berr)
		}
		return &DraftHandle{Root: root, ManifestPath: mpath, Banner: *b}, nil
	}
	b, verr := decodeManifest(data)
	if verr != nil {
		bb, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("parse manifest: %w; backup attempt: %v", verr, berr)
		}
		return &DraftHandle{Root: root, ManifestPath: mpath, Banner: *bb}, nil
	}
	return &DraftHandle{Root: root, ManifestPath: mpath, Banner: *b}, nil
}

func decodeManifest(data []byte) (*domain.Banner, error) {
	if err := ValidateManifest(data); err != nil {
		return nil, err
	}
	var b domain.Banner
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Save writes the manifest with transactional semantics and a timestamped
// backup of the previous version (if any).
func Save(dh *DraftHandle) error {
	if dh == nil {
		return errors.New("nil DraftHandle")
	}
	if dh.Root == "" || dh.ManifestPath == "" {
		return errors.New("invalid DraftHandle: missing paths")
	}
	data, err := json.MarshalIndent(dh.Banner, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')

	bdir := filepath.Join(dh.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}
	if _, statErr := os.Stat(dh.ManifestPath); statErr == nil {
		stamp := time.Now().Format("20060102-150405")
		bpath := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", ManifestFileName, stamp))
		if cerr := copyFile(dh.ManifestPath, bpath); cerr != nil {
			return fmt.Errorf("backup current manifest: %w", cerr)
		}
	}

	// Write to a temp file in the same directory, then rename over target.
	dir := filepath.Dir(dh.ManifestPath)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", ManifestFileName, os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp manifest: %w", werr)
	}
	if _, err := os.Stat(dh.ManifestPath); err == nil {
		// Windows cannot rename over an existing file.
		_ = os.Remove(dh.ManifestPath)
	}
	if rerr := os.Rename(temp, dh.ManifestPath); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace manifest: %w", rerr)
	}
	return nil
}

// AutosaveCrashSnapshot writes the in-memory banner to a timestamped crash
// file under backups/ without touching the manifest. Returns the path.
func AutosaveCrashSnapshot(dh *DraftHandle) (string, error) {
	if dh == nil {
		return "", errors.New("nil DraftHandle")
	}
	data, err := json.MarshalIndent(dh.Banner, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal crash snapshot: %w", err)
	}
	bdir := filepath.Join(dh.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(bdir, fmt.Sprintf("crash-autosave-%s.json", stamp))
	if err := writeFileSync(path, data); err != nil {
		return "", err
	}
	return path, nil
}

func openFromLatestBackup(root string) (*domain.Banner, error) {
	bdir := filepath.Join(root, BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	var candidates []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, ManifestFileName+".") && strings.HasSuffix(name, ".bak") {
			candidates = append(candidates, filepath.Join(bdir, name))
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("no backups found")
	}
	sort.Strings(candidates) // timestamps in names sort lexicographically
	latest := candidates[len(candidates)-1]
	data, err := os.ReadFile(latest)
	if err != nil {
		return nil, fmt.Errorf("read latest backup: %w", err)
	}
	b, err := decodeManifest(data)
	if err != nil {
		return nil, fmt.Errorf("parse latest backup: %w", err)
	}
	return b, nil
}

func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}
