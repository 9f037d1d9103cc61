/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package backend

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PGStore writes template field layouts straight into the production
// Postgres schema, bypassing the HTTP tier. Used by admin tooling when
// GBS_PG_DSN (or DATABASE_URL) points at the database.
type PGStore struct {
	db *sql.DB
}

// PGDSNFromEnv returns the configured Postgres DSN, or "" when the direct
// path is not enabled.
func PGDSNFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("GBS_PG_DSN")); v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv("DATABASE_URL"))
}

// OpenPG connects via the pgx stdlib driver and verifies the connection.
func OpenPG(ctx context.Context, dsn string) (*PGStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("empty postgres dsn")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PGStore{db: db}, nil
}

// Close releases the connection pool.
func (s *PGStore) Close() error { return s.db.Close() }

const createFieldTableSQL = `CREATE TABLE IF NOT EXISTS template_field (
	id BIGSERIAL PRIMARY KEY,
	template_id TEXT NOT NULL,
	ord INT NOT NULL,
	field_name TEXT NOT NULL,
	field_type TEXT NOT NULL,
	x_position INT NOT NULL,
	y_position INT NOT NULL,
	font_size INT,
	font_color TEXT,
	font_family TEXT,
	align TEXT,
	width INT,
	height INT,
	shape TEXT
)`

// EnsureSchema creates the field table when absent.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, createFieldTableSQL)
	return err
}

// SaveFields replaces a template's field rows in one transaction
// (delete-and-replace, matching the backend's save semantics).
func (s *PGStore) SaveFields(ctx context.Context, templateID string, records []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM template_field WHERE template_id = $1`, templateID); err != nil {
		return fmt.Errorf("clear fields: %w", err)
	}
	const insertSQL = `INSERT INTO template_field
		(template_id, ord, field_name, field_type, x_position, y_position,
		 font_size, font_color, font_family, align, width, height, shape)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`
	for i, r := range records {
		_, err := tx.ExecContext(ctx, insertSQL,
			templateID, i, r.FieldName, r.FieldType, r.X, r.Y,
			nullInt(r.FontSize), nullStr(r.Color), nullStr(r.FontFamily), nullStr(r.Align),
			nullInt(r.Width), nullInt(r.Height), nullStr(r.Shape))
		if err != nil {
			return fmt.Errorf("insert field %q: %w", r.FieldName, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// FetchFields loads a template's field rows in layout order.
func (s *PGStore) FetchFields(ctx context.Context, templateID string) ([]Record, error) {
	const selectSQL = `SELECT field_name, field_type, x_position, y_position,
		COALESCE(font_size,0), COALESCE(font_color,''), COALESCE(font_family,''), COALESCE(align,''),
		COALESCE(width,0), COALESCE(height,0), COALESCE(shape,'')
		FROM template_field WHERE template_id = $1 ORDER BY ord`
	rows, err := s.db.QueryContext(ctx, selectSQL, templateID)
	if err != nil {
		return nil, fmt.Errorf("query fields: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.FieldName, &r.FieldType, &r.X, &r.Y,
			&r.FontSize, &r.Color, &r.FontFamily, &r.Align,
			&r.Width, &r.Height, &r.Shape); err != nil {
			return nil, fmt.Errorf("scan field: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullInt(v int) any {
	if v == 0 {
		return nil
	}
	return v
}

func nullStr(v string) any {
	if v == "" {
		return nil
	}
	return v
}
