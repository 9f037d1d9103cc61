/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package telemetry batches opt-in anonymous usage events and ships them to
// a configured endpoint. Everything is off by default; without an endpoint
// every call is a no-op.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	applog "gobanner/internal/log"
	"gobanner/internal/version"
)

// Config controls the sender. Read from the environment by FromEnv:
//   - GBS_TELEMETRY_OPT_IN: "1", "true", "yes", "on" to enable events
//   - GBS_TELEMETRY_URL: endpoint that accepts batch POSTs
//   - GBS_CRASH_UPLOAD_URL: endpoint for plain-text crash reports
//   - GBS_TELEMETRY_TIMEOUT_MS: request timeout (default 1500)
//   - GBS_TELEMETRY_BATCH: events per batch (default 16)
//   - GBS_TELEMETRY_DEBUG: log each send attempt
type Config struct {
	OptIn         bool
	EventsURL     string
	CrashURL      string
	Timeout       time.Duration
	FlushInterval time.Duration
	BatchSize     int
	Debug         bool
}

func FromEnv() Config {
	cfg := Config{
		OptIn:         truthy(os.Getenv("GBS_TELEMETRY_OPT_IN")),
		EventsURL:     strings.TrimSpace(os.Getenv("GBS_TELEMETRY_URL")),
		CrashURL:      strings.TrimSpace(os.Getenv("GBS_CRASH_UPLOAD_URL")),
		Timeout:       1500 * time.Millisecond,
		FlushInterval: 5 * time.Second,
		BatchSize:     16,
		Debug:         os.Getenv("GBS_TELEMETRY_DEBUG") != "",
	}
	if ms, err := strconv.Atoi(strings.TrimSpace(os.Getenv("GBS_TELEMETRY_TIMEOUT_MS"))); err == nil && ms > 0 {
		cfg.Timeout = time.Duration(ms) * time.Millisecond
	}
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("GBS_TELEMETRY_BATCH"))); err == nil && n > 0 {
		cfg.BatchSize = n
	}
	return cfg
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// event is one recorded metric. Props must never carry PII.
type event struct {
	Name  string         `json:"name"`
	TS    string         `json:"ts"`
	Props map[string]any `json:"props,omitempty"`
}

// envelope is the batch wire format. Session is a random per-process id so
// the backend can group events without identifying the machine.
type envelope struct {
	App     string  `json:"app"`
	Version string  `json:"version"`
	OS      string  `json:"os"`
	Arch    string  `json:"arch"`
	Session string  `json:"session"`
	Events  []event `json:"events"`
}

// Client buffers events and flushes them in batches. Recording never blocks;
// when the buffer is full the oldest events are dropped first.
type Client struct {
	cfg     Config
	log     *slog.Logger
	http    *http.Client
	session string

	mu   sync.Mutex
	buf  []event
	done chan struct{}
	stop sync.Once
}

var (
	defaultClient *Client
	defaultOnce   sync.Once
)

// InitDefault lazily builds the package-level client from the environment.
func InitDefault() {
	defaultOnce.Do(func() { NewDefault(FromEnv()) })
}

// NewDefault installs cfg as the package-level client. A later InitDefault
// will not replace it.
func NewDefault(cfg Config) {
	defaultOnce.Do(func() {})
	defaultClient = New(cfg)
}

func New(cfg Config) *Client {
	c := &Client{
		cfg:     cfg,
		log:     applog.WithComponent("telemetry"),
		http:    &http.Client{Timeout: cfg.Timeout},
		session: uuid.NewString(),
		done:    make(chan struct{}),
	}
	if c.Enabled() {
		go c.flushLoop()
	}
	return c
}

// Enabled reports whether events will actually be sent.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.EventsURL != "" }

func Enabled() bool {
	InitDefault()
	return defaultClient.Enabled()
}

// Record buffers one event. A full buffer sheds its oldest entry.
func (c *Client) Record(name string, props map[string]any) {
	if !c.Enabled() || name == "" {
		return
	}
	e := event{Name: name, TS: time.Now().UTC().Format(time.RFC3339Nano), Props: props}
	c.mu.Lock()
	if len(c.buf) >= c.cfg.BatchSize*4 {
		c.buf = c.buf[1:]
	}
	c.buf = append(c.buf, e)
	full := len(c.buf) >= c.cfg.BatchSize
	c.mu.Unlock()
	if full {
		go c.Flush(context.Background())
	}
}

// Event records on the default client.
func Event(name string, props map[string]any) {
	InitDefault()
	defaultClient.Record(name, props)
}

// Flush sends everything buffered so far. Failed batches are dropped, not
// retried; metrics are never worth blocking the editor for.
func (c *Client) Flush(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	c.mu.Lock()
	batch := c.buf
	c.buf = nil
	c.mu.Unlock()
	if len(batch) == 0 {
		return
	}
	env := envelope{
		App:     "gobanner",
		Version: version.String(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
		Session: c.session,
		Events:  batch,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.EventsURL, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		if c.cfg.Debug {
			c.log.Debug("batch send failed", slog.Any("err", err))
		}
		return
	}
	_ = resp.Body.Close()
	if c.cfg.Debug {
		c.log.Debug("batch sent", slog.Int("events", len(batch)))
	}
}

// Close flushes once and stops the background loop.
func (c *Client) Close() {
	c.stop.Do(func() {
		close(c.done)
		c.Flush(context.Background())
	})
}

func (c *Client) flushLoop() {
	interval := c.cfg.FlushInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-t.C:
			c.Flush(context.Background())
		}
	}
}

// UploadCrash posts a serialized crash report. Crash uploads only need the
// opt-in flag and the crash endpoint; they bypass the event buffer.
func (c *Client) UploadCrash(report []byte) {
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" {
		return
	}
	body := append([]byte(nil), report...)
	go func() {
		req, err := http.NewRequest(http.MethodPost, c.cfg.CrashURL, bytes.NewReader(body))
		if err != nil {
			return
		}
		req.Header.Set("Content-Type", "text/plain; charset=utf-8")
		resp, err := c.http.Do(req)
		if err != nil {
			if c.cfg.Debug {
				c.log.Debug("crash upload failed", slog.Any("err", err))
			}
			return
		}
		_ = resp.Body.Close()
	}()
}

// UploadCrash posts through the default client.
func UploadCrash(report []byte) {
	InitDefault()
	defaultClient.UploadCrash(report)
}
