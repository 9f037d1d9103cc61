/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"testing"
	"time"

	"gobanner/internal/domain"
)

func TestCatalogTemplateFieldsRoundTrip(t *testing.T) {
	root := t.TempDir()
	db, err := InitOrOpenCatalog(root)
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	defer func() { _ = db.Close() }()
	ctx := context.Background()

	tpl := domain.Template{Name: "launch", ImagePath: "bg.png", Width: 800, Height: 600}
	id, err := UpsertTemplate(ctx, db, &tpl)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if id == "" || tpl.StableID != id {
		t.Fatalf("stable id not assigned: %q", id)
	}

	records := []domain.Record{
		{FieldName: "headline", FieldType: "text", X: 50, Y: 50, FontSize: 32, Color: "#ff0000"},
		{FieldName: "logo", FieldType: "image", Width: 150, Height: 150, Shape: "circle"},
	}
	if err := SaveTemplateFields(ctx, db, id, records); err != nil {
		t.Fatalf("save fields: %v", err)
	}
	got, err := LoadTemplateFields(ctx, db, id)
	if err != nil {
		t.Fatalf("load fields: %v", err)
	}
	if len(got) != 2 || got[0].FieldName != "headline" || got[1].Shape != "circle" {
		t.Fatalf("fields wrong: %+v", got)
	}

	// Delete-and-replace semantics.
	if err := SaveTemplateFields(ctx, db, id, records[:1]); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, err = LoadTemplateFields(ctx, db, id)
	if err != nil || len(got) != 1 {
		t.Fatalf("replace semantics wrong: %v %+v", err, got)
	}

	list, err := ListTemplates(ctx, db)
	if err != nil || len(list) != 1 || list[0].Name != "launch" {
		t.Fatalf("list wrong: %v %+v", err, list)
	}
}

func TestSessionSnapshotsLatestAndPrune(t *testing.T) {
	root := t.TempDir()
	db, err := InitOrOpenCatalog(root)
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	defer func() { _ = db.Close() }()
	ctx := context.Background()

	t0 := time.Now()
	for i, blob := range []string{"a", "b", "c"} {
		if err := SaveSessionSnapshot(ctx, db, "tpl", []byte(blob), t0.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("save snapshot: %v", err)
		}
	}
	blob, _, err := LatestSessionSnapshot(ctx, db, "tpl")
	if err != nil || string(blob) != "c" {
		t.Fatalf("latest = %q err=%v, want c", blob, err)
	}
	if err := PruneSessionSnapshots(ctx, db, "tpl", 1); err != nil {
		t.Fatalf("prune: %v", err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM session_snapshots WHERE template_id = 'tpl'`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("prune kept %d rows, want 1", n)
	}

	none, _, err := LatestSessionSnapshot(ctx, db, "other")
	if err != nil || none != nil {
		t.Fatalf("missing template should return nil, got %q err=%v", none, err)
	}
}
