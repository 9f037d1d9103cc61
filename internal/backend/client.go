/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package backend implements the persistence boundary: a thin HTTP client
// speaking the template-fields wire contract, and an optional direct
// Postgres store for deployments without the HTTP tier.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gobanner/internal/domain"
)

// Record is the wire record; aliased so call sites read naturally here.
type Record = domain.Record

// DefaultTimeout bounds save/fetch requests so a network failure resolves
// to an explicit error instead of hanging the editor.
const DefaultTimeout = 10 * time.Second

// Client is a minimal HTTP client for the template-fields API.
type Client struct {
	BaseURL string
	Token   string // bearer token, optional
	client  *http.Client
}

// NewClient creates a backend client. baseURL may include a trailing slash;
// it will be normalized. A non-positive timeout takes DefaultTimeout.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// savePayload is the save request body: {"fields": [...]}.
type savePayload struct {
	Fields []Record `json:"fields"`
}

// statusEnvelope is the response contract: {"status":"ok"} on success, any
// other shape is a failure.
type statusEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Saved   int    `json:"saved,omitempty"`
}

// fieldsEnvelope is the hydration response: {"fields": [...]}.
type fieldsEnvelope struct {
	Fields []Record `json:"fields"`
}

// SaveFields POSTs the ordered record sequence for a template. Any
// transport error, non-2xx status, or response without status "ok" is a
// save failure.
func (c *Client) SaveFields(ctx context.Context, templateID string, records []Record) error {
	body, err := json.Marshal(savePayload{Fields: append([]Record{}, records...)})
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}
	var env statusEnvelope
	if err := c.doJSON(ctx, http.MethodPost, c.fieldsPath(templateID), bytes.NewReader(body), &env); err != nil {
		return err
	}
	if env.Status != "ok" {
		if env.Message != "" {
			return fmt.Errorf("backend rejected save: %s", env.Message)
		}
		return fmt.Errorf("backend rejected save: status %q", env.Status)
	}
	return nil
}

// FetchFields GETs the persisted record sequence for a template, used for
// hydration at session start.
func (c *Client) FetchFields(ctx context.Context, templateID string) ([]Record, error) {
	var env fieldsEnvelope
	if err := c.doJSON(ctx, http.MethodGet, c.fieldsPath(templateID), nil, &env); err != nil {
		return nil, err
	}
	return env.Fields, nil
}

func (c *Client) fieldsPath(templateID string) string {
	return "/api/templates/" + url.PathEscape(templateID) + "/fields"
}

func (c *Client) doJSON(ctx context.Context, method, path string, body *bytes.Reader, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return fmt.Errorf("bad backend url: %w", err)
	}
	var req *http.Request
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, u.String(), body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, u.String(), nil)
	}
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("backend %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Try to surface the server's message before falling back to the status.
		var env statusEnvelope
		if json.NewDecoder(resp.Body).Decode(&env) == nil && env.Message != "" {
			return fmt.Errorf("backend %s %s: %s", method, u.Path, env.Message)
		}
		return fmt.Errorf("backend %s %s: %s", method, u.Path, resp.Status)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode backend response: %w", err)
	}
	return nil
}
