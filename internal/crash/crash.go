/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns panics into report files plus a draft autosave so a
// crash never loses unsaved editor work.
package crash

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	applog "gobanner/internal/log"
	"gobanner/internal/storage"
	"gobanner/internal/telemetry"
	"gobanner/internal/version"
)

// exitFn is swapped out in tests so Recover does not kill the test process.
var exitFn = os.Exit

// report collects everything the crash file carries.
type report struct {
	when     time.Time
	panicVal any
	stack    []byte
	draft    *storage.DraftHandle
}

func (r *report) render() []byte {
	var b strings.Builder
	b.WriteString("gobanner Crash Report\n")
	fmt.Fprintf(&b, "Timestamp: %s\n", r.when.Format(time.RFC3339))
	fmt.Fprintf(&b, "Version: %s\n", version.String())
	fmt.Fprintf(&b, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if r.draft != nil {
		fmt.Fprintf(&b, "DraftRoot: %s\n", r.draft.Root)
		fmt.Fprintf(&b, "Manifest: %s\n", r.draft.ManifestPath)
		fmt.Fprintf(&b, "Template: %s\n", r.draft.Banner.Template.Name)
		fmt.Fprintf(&b, "Fields: %d\n", len(r.draft.Banner.Fields))
	}
	fmt.Fprintf(&b, "\nPanic: %v\n\nStack:\n%s\n", r.panicVal, r.stack)
	return []byte(b.String())
}

// dir picks the draft's backups directory when a draft is open, the system
// temp dir otherwise.
func (r *report) dir() string {
	if r.draft != nil && r.draft.Root != "" {
		d := filepath.Join(r.draft.Root, storage.BackupsDirName)
		if err := os.MkdirAll(d, 0o755); err == nil {
			return d
		}
	}
	return os.TempDir()
}

// write persists the rendered report and returns its path.
func (r *report) write() (string, error) {
	path := filepath.Join(r.dir(), fmt.Sprintf("crash-%s.log", r.when.Format("20060102-150405")))
	if err := os.WriteFile(path, r.render(), 0o644); err != nil {
		return path, err
	}
	return path, nil
}

// Recover captures a panic, writes the crash report, autosaves the draft
// manifest when one is open, and exits with a non-zero code.
//
// Usage: defer func(){ crash.Recover(dh) }()
func Recover(dh *storage.DraftHandle) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	rep := &report{when: time.Now(), panicVal: r, stack: debug.Stack(), draft: dh}
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(rep.stack)))

	path, err := rep.write()
	if err != nil {
		l.Error("crash report write failed", slog.Any("err", err), slog.String("path", path))
	}
	telemetry.UploadCrash(rep.render())

	if dh != nil {
		if snap, err := storage.AutosaveCrashSnapshot(dh); err != nil {
			l.Error("autosave crash snapshot failed", slog.Any("err", err))
		} else {
			l.Info("autosave crash snapshot written", slog.String("path", snap))
		}
	}

	fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", path)
	fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH)
	exitFn(2)
}
