// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"scolaris/internal/card"
)

// Preview composes in memory and persists nothing, so it needs no
// database or cache behind it.

func previewBody(t *testing.T, layout card.Layout) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(map[string]any{"layout": layout})
	if err != nil {
		t.Fatalf("marshal layout: %v", err)
	}
	return bytes.NewReader(body)
}

func TestTemplatePreview(t *testing.T) {
	h := NewTemplates(nil, nil, nil)
	layout := card.DefaultLayout("Preview High School")

	req := httptest.NewRequest(http.MethodPost, "/templates/preview", previewBody(t, layout))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Preview(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var desc card.PageDescription
	if err := json.Unmarshal(rec.Body.Bytes(), &desc); err != nil {
		t.Fatalf("decode page description: %v", err)
	}
	if desc.Width != layout.Width || desc.Height != layout.Height {
		t.Errorf("canvas %gx%g, want %gx%g", desc.Width, desc.Height, layout.Width, layout.Height)
	}
	if len(desc.Instructions) == 0 {
		t.Fatal("expected draw instructions")
	}
	// The sample record fills the name field, so its literal must appear.
	found := false
	for _, ins := range desc.Instructions {
		if ins.Content.Text == "Maria Popescu" {
			found = true
		}
	}
	if !found {
		t.Error("expected the sample student name among the instructions")
	}
}

func TestTemplatePreviewCustomRecord(t *testing.T) {
	h := NewTemplates(nil, nil, nil)
	layout := card.DefaultLayout("Preview High School")

	body, _ := json.Marshal(map[string]any{
		"layout": layout,
		"record": map[string]any{
			"ID":     "r1",
			"Fields": map[string]string{card.FieldName: "Ion Ionescu"},
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/templates/preview", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Preview(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var desc card.PageDescription
	if err := json.Unmarshal(rec.Body.Bytes(), &desc); err != nil {
		t.Fatalf("decode page description: %v", err)
	}
	found := false
	for _, ins := range desc.Instructions {
		if ins.Content.Text == "Ion Ionescu" {
			found = true
		}
	}
	if !found {
		t.Error("expected the supplied record name among the instructions")
	}
}

func TestTemplatePreviewInvalidLayout(t *testing.T) {
	h := NewTemplates(nil, nil, nil)
	layout := card.Layout{Width: -1, Height: 0}

	req := httptest.NewRequest(http.MethodPost, "/templates/preview", previewBody(t, layout))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Preview(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var resp struct {
		Error        string                 `json:"error"`
		LayoutErrors []card.ValidationError `json:"layout_errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if len(resp.LayoutErrors) == 0 {
		t.Error("expected validation errors in the response")
	}
}

func TestTemplatePreviewBadJSON(t *testing.T) {
	h := NewTemplates(nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/templates/preview", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Preview(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
