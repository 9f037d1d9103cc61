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
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"gobanner/internal/domain"

	// Pure-Go SQLite driver (CGO-free).
	_ "modernc.org/sqlite"
)

const (
	// CatalogDirName stores per-draft ephemeral data under the draft root.
	CatalogDirName  = ".gbs"
	CatalogFileName = "catalog.sqlite"

	catalogSchemaVersion = 1
)

// CatalogPath returns the full path of the draft's embedded catalog database.
func CatalogPath(root string) string {
	return filepath.Join(root, CatalogDirName, CatalogFileName)
}

// InitOrOpenCatalog opens (creating if needed) the embedded SQLite catalog:
// locally known templates, their field layouts, and session recovery
// snapshots. WAL mode is enabled; the pool is capped for embedded usage.
func InitOrOpenCatalog(root string) (*sql.DB, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("draft root is required")
	}
	if err := os.MkdirAll(filepath.Join(root, CatalogDirName), 0o755); err != nil {
		return nil, fmt.Errorf("create %s dir: %w", CatalogDirName, err)
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(CatalogPath(root)))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureCatalogSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func ensureCatalogSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS templates (
			stable_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT,
			price REAL NOT NULL DEFAULT 0,
			image_path TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS template_fields (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			template_id TEXT NOT NULL REFERENCES templates(stable_id),
			ord INTEGER NOT NULL,
			record TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS session_snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			template_id TEXT NOT NULL,
			ts TEXT NOT NULL,
			blob BLOB NOT NULL
		)`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("catalog schema: %w", err)
		}
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO meta(key, value) VALUES ('schema_version', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		fmt.Sprintf("%d", catalogSchemaVersion))
	return err
}

// UpsertTemplate stores template metadata, assigning a fresh UUID stable id
// when the template has none yet. Returns the stable id.
func UpsertTemplate(ctx context.Context, db *sql.DB, t *domain.Template) (string, error) {
	if t.StableID == "" {
		t.StableID = uuid.NewString()
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO templates(stable_id, name, category, price, image_path, width, height, updated_at)
		 VALUES (?,?,?,?,?,?,?,?)
		 ON CONFLICT(stable_id) DO UPDATE SET
		   name = excluded.name, category = excluded.category, price = excluded.price,
		   image_path = excluded.image_path, width = excluded.width, height = excluded.height,
		   updated_at = excluded.updated_at`,
		t.StableID, t.Name, t.Category, t.Price, t.ImagePath, t.Width, t.Height,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("upsert template: %w", err)
	}
	return t.StableID, nil
}

// ListTemplates returns locally known templates ordered by name.
func ListTemplates(ctx context.Context, db *sql.DB) ([]domain.Template, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT stable_id, name, COALESCE(category,''), price, image_path, width, height
		 FROM templates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()
	var out []domain.Template
	for rows.Next() {
		var t domain.Template
		if err := rows.Scan(&t.StableID, &t.Name, &t.Category, &t.Price, &t.ImagePath, &t.Width, &t.Height); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SaveTemplateFields replaces a template's stored field layout
// (delete-and-replace, one transaction). Records are stored as JSON so the
// local schema never lags the wire format.
func SaveTemplateFields(ctx context.Context, db *sql.DB, templateID string, records []domain.Record) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM template_fields WHERE template_id = ?`, templateID); err != nil {
		return fmt.Errorf("clear fields: %w", err)
	}
	for i, r := range records {
		blob, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode record %d: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO template_fields(template_id, ord, record) VALUES (?,?,?)`,
			templateID, i, string(blob)); err != nil {
			return fmt.Errorf("insert field %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// LoadTemplateFields returns a template's stored layout in order.
func LoadTemplateFields(ctx context.Context, db *sql.DB, templateID string) ([]domain.Record, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT record FROM template_fields WHERE template_id = ? ORDER BY ord`, templateID)
	if err != nil {
		return nil, fmt.Errorf("load fields: %w", err)
	}
	defer rows.Close()
	var out []domain.Record
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scan field: %w", err)
		}
		var r domain.Record
		if err := json.Unmarshal([]byte(blob), &r); err != nil {
			// A single bad row must not abort the rest of the layout.
			continue
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveSessionSnapshot persists a serialized field-set blob for crash-safe
// session recovery.
func SaveSessionSnapshot(ctx context.Context, db *sql.DB, templateID string, blob []byte, ts time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO session_snapshots(template_id, ts, blob) VALUES (?,?,?)`,
		templateID, ts.UTC().Format(time.RFC3339Nano), blob)
	return err
}

// LatestSessionSnapshot returns the most recent recovery blob, or nil when
// none exists.
func LatestSessionSnapshot(ctx context.Context, db *sql.DB, templateID string) ([]byte, time.Time, error) {
	var tsStr string
	var blob []byte
	err := db.QueryRowContext(ctx,
		`SELECT ts, blob FROM session_snapshots WHERE template_id = ? ORDER BY ts DESC, id DESC LIMIT 1`,
		templateID).Scan(&tsStr, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	ts, perr := time.Parse(time.RFC3339Nano, tsStr)
	if perr != nil {
		return blob, time.Time{}, nil
	}
	return blob, ts, nil
}

// PruneSessionSnapshots keeps only the newest keep entries for a template.
func PruneSessionSnapshots(ctx context.Context, db *sql.DB, templateID string, keep int) error {
	if keep <= 0 {
		keep = 1
	}
	_, err := db.ExecContext(ctx,
		`DELETE FROM session_snapshots WHERE template_id = ? AND id NOT IN (
			SELECT id FROM session_snapshots WHERE template_id = ? ORDER BY ts DESC, id DESC LIMIT ?
		)`, templateID, templateID, keep)
	return err
}
