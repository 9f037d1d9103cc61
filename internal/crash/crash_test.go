/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package crash

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gobanner/internal/domain"
	"gobanner/internal/storage"
)

func TestReportWrite_NoDraftGoesToTemp(t *testing.T) {
	rep := &report{when: time.Now(), panicVal: "boom", stack: []byte("stacktrace")}
	path, err := rep.write()
	if err != nil {
		t.Fatalf("write error: %v", err)
	}
	defer os.Remove(path)
	if filepath.Dir(path) != os.TempDir() {
		t.Fatalf("expected report in temp dir, got %s", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "gobanner Crash Report") {
		t.Fatalf("report header missing")
	}
	if !strings.Contains(s, "Panic: boom") {
		t.Fatalf("panic content missing: %s", s)
	}
}

func TestReportWrite_DraftGoesToBackups(t *testing.T) {
	root := t.TempDir()
	dh := &storage.DraftHandle{
		Root:         root,
		ManifestPath: filepath.Join(root, storage.ManifestFileName),
		Banner: domain.Banner{
			Template: domain.Template{Name: "Promo"},
			Fields:   []domain.Record{{FieldName: "headline", FieldType: "text"}},
		},
	}

	rep := &report{when: time.Now(), panicVal: "kaboom", stack: []byte("stack"), draft: dh}
	path, err := rep.write()
	if err != nil {
		t.Fatalf("write error: %v", err)
	}
	if filepath.Dir(path) != filepath.Join(root, storage.BackupsDirName) {
		t.Fatalf("expected crash report under backups dir, got %s", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "Template: Promo") || !strings.Contains(s, "Fields: 1") {
		t.Fatalf("draft details missing from report: %s", s)
	}
}

// Recover must intercept the panic, persist a report, and exit through the
// injected exit function instead of killing the process.
func TestRecover_InterceptsPanic(t *testing.T) {
	exitCode := -1
	oldExit := exitFn
	exitFn = func(code int) { exitCode = code }
	defer func() { exitFn = oldExit }()

	root := t.TempDir()
	dh := &storage.DraftHandle{Root: root, ManifestPath: filepath.Join(root, storage.ManifestFileName)}

	func() {
		defer Recover(dh)
		panic("boom")
	}()

	if exitCode != 2 {
		t.Fatalf("expected exit code 2, got %d", exitCode)
	}

	bdir := filepath.Join(root, storage.BackupsDirName)
	entries, err := os.ReadDir(bdir)
	if err != nil {
		t.Fatalf("read backups dir: %v", err)
	}
	var found string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "crash-") && strings.HasSuffix(e.Name(), ".log") {
			found = filepath.Join(bdir, e.Name())
		}
	}
	if found == "" {
		t.Fatalf("no crash report under %s", bdir)
	}
	b, err := os.ReadFile(found)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(b), "Panic: boom") {
		t.Fatalf("report does not contain panic: %s", b)
	}
}
