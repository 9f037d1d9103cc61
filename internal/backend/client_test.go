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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSaveFieldsOK(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody savePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "saved": len(gotBody.Fields)})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "tok123", time.Second)
	records := []Record{
		{FieldName: "headline", FieldType: "text", X: 50, Y: 50, FontSize: 32, Color: "#ff0000"},
		{FieldName: "logo", FieldType: "image", Width: 150, Height: 150, Shape: "circle"},
	}
	if err := c.SaveFields(context.Background(), "tpl-1", records); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if gotPath != "/api/templates/tpl-1/fields" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if len(gotBody.Fields) != 2 || gotBody.Fields[0].FieldName != "headline" {
		t.Fatalf("payload wrong: %+v", gotBody)
	}
}

func TestSaveFieldsRejectsNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": "missing coordinates"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	err := c.SaveFields(context.Background(), "tpl-1", nil)
	if err == nil {
		t.Fatalf("non-ok status must be a failure")
	}
}

func TestSaveFieldsSurfacesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": "fields must be a list"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	err := c.SaveFields(context.Background(), "tpl-1", nil)
	if err == nil {
		t.Fatalf("HTTP 400 must be a failure")
	}
}

func TestSaveFieldsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL, "", 500*time.Millisecond)
	if err := c.SaveFields(context.Background(), "tpl-1", nil); err == nil {
		t.Fatalf("network failure must resolve to an error")
	}
}

func TestFetchFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		_ = json.NewEncoder(w).Encode(fieldsEnvelope{Fields: []Record{
			{FieldName: "a", FieldType: "text", X: 1, Y: 2, FontSize: 24, Color: "#000000", Align: "left"},
		}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	got, err := c.FetchFields(context.Background(), "tpl-9")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(got) != 1 || got[0].FieldName != "a" || got[0].FontSize != 24 {
		t.Fatalf("records wrong: %+v", got)
	}
}
