/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"gobanner/internal/backend"
	"gobanner/internal/config"
	"gobanner/internal/crash"
	"gobanner/internal/domain"
	"gobanner/internal/export"
	applog "gobanner/internal/log"
	"gobanner/internal/storage"
	"gobanner/internal/ui"
	"gobanner/internal/version"
)

func usage() {
	fmt.Println("gobanner — banner template editor")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  gobanner version|-v|--version               Show version")
	fmt.Println("  gobanner init <dir> <name> [<w> <h>]         Create a new banner draft at <dir>")
	fmt.Println("  gobanner open <dir>                          Open draft at <dir> and print summary")
	fmt.Println("  gobanner save <dir>                          Save draft at <dir> (creates backup)")
	fmt.Println("  gobanner push <dir>                          Upload the draft's fields to the backend")
	fmt.Println("  gobanner pull <dir>                          Replace the draft's fields from the backend")
	fmt.Println("  gobanner render <dir> [web|proof]            Export the draft (PNG, plus PDF for proof)")
	fmt.Println("  gobanner catalog <dir>                       Cache the draft in its local catalog and list entries")
	fmt.Println("  gobanner ui [<dir>]                          Launch desktop editor (build with -tags fyne for full UI)")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var dh *storage.DraftHandle
	defer func() { crash.Recover(dh) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("gobanner — banner template editor")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 4 {
				fmt.Println("init requires <dir> and <name>")
				usage()
				os.Exit(2)
			}
			dir, name := args[2], args[3]
			width, height := domain.DefaultCanvasWidth, domain.DefaultCanvasHeight
			if len(args) >= 6 {
				if w, err := strconv.Atoi(args[4]); err == nil && w > 0 {
					width = w
				}
				if h, err := strconv.Atoi(args[5]); err == nil && h > 0 {
					height = h
				}
			}
			abs, _ := filepath.Abs(dir)
			l.Info("init draft", slog.String("root", abs), slog.String("name", name))
			b := domain.Banner{
				Template: domain.Template{
					StableID: uuid.NewString(),
					Name:     name,
					Width:    width,
					Height:   height,
				},
			}
			h, err := storage.InitDraft(abs, b)
			if err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			dh = h
			fmt.Println("Created draft at", abs)
			return
		case "open":
			h := mustOpen(l, args, "open")
			dh = h
			fmt.Printf("Opened draft: %s\n", h.Banner.Template.Name)
			fmt.Printf("Canvas: %dx%d\n", h.Banner.Template.Width, h.Banner.Template.Height)
			fmt.Printf("Fields: %d\n", len(h.Banner.Fields))
			fmt.Println("Root:", h.Root)
			return
		case "save":
			h := mustOpen(l, args, "save")
			dh = h
			if err := storage.Save(h); err != nil {
				l.Error("save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			if _, err := export.WritePreview(h, 0); err != nil {
				l.Warn("preview render failed", slog.Any("err", err))
			}
			fmt.Println("Saved draft and created a backup of previous manifest (if any).")
			return
		case "push":
			h := mustOpen(l, args, "push")
			dh = h
			cli, id := mustBackend(l, h)
			if err := cli.SaveFields(context.Background(), id, h.Banner.Fields); err != nil {
				l.Error("push failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Printf("Pushed %d fields for template %s\n", len(h.Banner.Fields), id)
			return
		case "pull":
			h := mustOpen(l, args, "pull")
			dh = h
			cli, id := mustBackend(l, h)
			records, err := cli.FetchFields(context.Background(), id)
			if err != nil {
				l.Error("pull failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h.Banner.Fields = records
			if err := storage.Save(h); err != nil {
				l.Error("save after pull failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Printf("Pulled %d fields for template %s\n", len(records), id)
			return
		case "render":
			h := mustOpen(l, args, "render")
			dh = h
			preset := export.PresetWeb
			if len(args) >= 4 && args[3] == string(export.PresetProof) {
				preset = export.PresetProof
			}
			if err := export.BatchExport(h, export.BatchOptions{Preset: preset}); err != nil {
				l.Error("render failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Printf("Rendered preset %q under %s\n", preset, filepath.Join(h.Root, "exports", string(preset)))
			return
		case "catalog":
			h := mustOpen(l, args, "catalog")
			dh = h
			ctx := context.Background()
			db, err := storage.InitOrOpenCatalog(h.Root)
			if err != nil {
				l.Error("open catalog failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			defer db.Close()
			id, err := storage.UpsertTemplate(ctx, db, &h.Banner.Template)
			if err == nil {
				err = storage.SaveTemplateFields(ctx, db, id, h.Banner.Fields)
			}
			if err == nil {
				var blob []byte
				blob, err = json.Marshal(h.Banner.Fields)
				if err == nil {
					err = storage.SaveSessionSnapshot(ctx, db, id, blob, time.Now())
				}
				if err == nil {
					err = storage.PruneSessionSnapshots(ctx, db, id, 10)
				}
			}
			if err != nil {
				l.Error("catalog update failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			templates, err := storage.ListTemplates(ctx, db)
			if err != nil {
				l.Error("catalog list failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			for _, t := range templates {
				line := fmt.Sprintf("%s  %s  %dx%d", t.StableID, t.Name, t.Width, t.Height)
				if _, ts, serr := storage.LatestSessionSnapshot(ctx, db, t.StableID); serr == nil && !ts.IsZero() {
					line += "  snapshot " + ts.Local().Format(time.DateTime)
				}
				fmt.Println(line)
			}
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			}
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}

func mustOpen(l *slog.Logger, args []string, cmd string) *storage.DraftHandle {
	if len(args) < 3 {
		fmt.Printf("%s requires <dir>\n", cmd)
		usage()
		os.Exit(2)
	}
	abs, _ := filepath.Abs(args[2])
	l.Info(cmd+" draft", slog.String("root", abs))
	h, err := storage.Open(abs)
	if err != nil {
		l.Error("open failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	return h
}

// fieldsGateway is satisfied by both the HTTP client and the direct
// Postgres store.
type fieldsGateway interface {
	SaveFields(ctx context.Context, templateID string, records []domain.Record) error
	FetchFields(ctx context.Context, templateID string) ([]domain.Record, error)
}

// mustBackend picks the transport for push/pull: the direct Postgres path
// when GBS_PG_DSN (or DATABASE_URL) is set, the HTTP backend otherwise.
func mustBackend(l *slog.Logger, h *storage.DraftHandle) (fieldsGateway, string) {
	id := h.Banner.Template.StableID
	if id == "" {
		fmt.Println("Error: draft template has no stable id; re-run init or set template.stable_id in banner.json")
		os.Exit(1)
	}
	if dsn := backend.PGDSNFromEnv(); dsn != "" {
		store, err := backend.OpenPG(context.Background(), dsn)
		if err != nil {
			l.Error("postgres connect failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		if err := store.EnsureSchema(context.Background()); err != nil {
			l.Error("postgres schema failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		l.Info("using direct postgres path")
		return store, id
	}
	cfg, token, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}
	return backend.NewClient(cfg.Backend.BaseURL, token, cfg.Backend.EffectiveTimeout()), id
}
