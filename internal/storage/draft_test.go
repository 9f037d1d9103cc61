/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"gobanner/internal/domain"
)

func testBanner() domain.Banner {
	return domain.Banner{
		Template: domain.Template{Name: "launch", ImagePath: "assets/bg.png", Width: 800, Height: 600},
		Fields: []domain.Record{
			{FieldName: "headline", FieldType: "text", X: 50, Y: 50, FontSize: 32, Color: "#ff0000", FontFamily: "sans", Align: "left"},
			{FieldName: "logo", FieldType: "image", X: 10, Y: 10, Width: 150, Height: 150, Shape: "circle"},
		},
	}
}

func TestInitOpenRoundTrip(t *testing.T) {
	root := t.TempDir()
	dh, err := InitDraft(root, testBanner())
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := os.Stat(dh.ManifestPath); err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
	got, err := Open(root)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got.Banner.Template.Name != "launch" || len(got.Banner.Fields) != 2 {
		t.Fatalf("round trip wrong: %+v", got.Banner)
	}
	if got.Banner.Fields[1].Shape != "circle" || got.Banner.Fields[1].Width != 150 {
		t.Fatalf("image record wrong after round trip: %+v", got.Banner.Fields[1])
	}
}

func TestSaveCreatesBackup(t *testing.T) {
	root := t.TempDir()
	dh, err := InitDraft(root, testBanner())
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	dh.Banner.Fields = dh.Banner.Fields[:1]
	if err := Save(dh); err != nil {
		t.Fatalf("save: %v", err)
	}
	ents, err := os.ReadDir(filepath.Join(root, BackupsDirName))
	if err != nil || len(ents) == 0 {
		t.Fatalf("expected a backup of the previous manifest, err=%v n=%d", err, len(ents))
	}
}

func TestOpenFallsBackToBackupOnCorruption(t *testing.T) {
	root := t.TempDir()
	dh, err := InitDraft(root, testBanner())
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	// Force a backup, then corrupt the live manifest.
	if err := Save(dh); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := os.WriteFile(dh.ManifestPath, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	got, err := Open(root)
	if err != nil {
		t.Fatalf("open with backup should succeed: %v", err)
	}
	if got.Banner.Template.Name != "launch" {
		t.Fatalf("backup content wrong: %+v", got.Banner)
	}
}

func TestValidateManifestRejectsBadRecords(t *testing.T) {
	bad := []byte(`{"template":{"name":"x","image_path":"a.png","width":10,"height":10},
		"fields":[{"field_name":"f","field_type":"video","x":0,"y":0}]}`)
	if err := ValidateManifest(bad); err == nil {
		t.Fatalf("schema must reject unknown field_type")
	}
	good := []byte(`{"template":{"name":"x","image_path":"a.png","width":10,"height":10},
		"fields":[{"field_name":"f","field_type":"text","x":0,"y":0,"color":"#a1b2c3"}]}`)
	if err := ValidateManifest(good); err != nil {
		t.Fatalf("valid manifest rejected: %v", err)
	}
}

func TestAutosaveCrashSnapshot(t *testing.T) {
	root := t.TempDir()
	dh, err := InitDraft(root, testBanner())
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	path, err := AutosaveCrashSnapshot(dh)
	if err != nil {
		t.Fatalf("autosave: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("crash snapshot missing: %v", err)
	}
}
