/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLineHandlerOutput(t *testing.T) {
	var sb strings.Builder
	h := &lineHandler{level: slog.LevelDebug, w: &sb}
	l := slog.New(h).With(slog.String("component", "test"))
	l.Info("hello", slog.Int("n", 7))
	out := sb.String()
	if !strings.Contains(out, "INF hello") {
		t.Fatalf("missing level/message in output: %q", out)
	}
	if !strings.Contains(out, "component=test") || !strings.Contains(out, "n=7") {
		t.Fatalf("missing attrs in output: %q", out)
	}
}

func TestLineHandlerGroups(t *testing.T) {
	var sb strings.Builder
	h := &lineHandler{level: slog.LevelDebug, w: &sb}
	l := slog.New(h).WithGroup("save")
	l.Warn("failed", slog.String("reason", "timeout"))
	if !strings.Contains(sb.String(), "save.reason=timeout") {
		t.Fatalf("group prefix missing: %q", sb.String())
	}
}

func TestFanoutEnabled(t *testing.T) {
	var sb strings.Builder
	quiet := &lineHandler{level: slog.LevelError, w: &sb}
	loud := &lineHandler{level: slog.LevelDebug, w: &sb}
	f := &fanout{hs: []slog.Handler{quiet, loud}}
	if !f.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("fanout should be enabled when any handler is")
	}
}

func TestInitAndL(t *testing.T) {
	Init(Options{Level: "debug", Format: "console"})
	if L() == nil {
		t.Fatalf("L() returned nil after Init")
	}
	WithComponent("editor").Debug("probe")
}
