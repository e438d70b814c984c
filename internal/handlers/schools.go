// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"scolaris/internal/storage"
	"scolaris/internal/store"
)

// Schools groups school (tenant) management handlers. Admin only.
type Schools struct {
	schools *store.SchoolStore
	storage *storage.Client // nil when object storage is not configured
}

// NewSchools creates a new Schools handler group.
func NewSchools(schools *store.SchoolStore, storage *storage.Client) *Schools {
	return &Schools{schools: schools, storage: storage}
}

// List returns all schools.
func (h *Schools) List(w http.ResponseWriter, r *http.Request) {
	schools, err := h.schools.List()
	if err != nil {
		slog.Error("list schools failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, schools)
}

// Get returns one school by id.
func (h *Schools) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid school id")
		return
	}

	school, err := h.schools.FindByID(id)
	if err != nil {
		slog.Error("find school failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if school == nil {
		writeError(w, http.StatusNotFound, "school not found")
		return
	}
	writeJSON(w, http.StatusOK, school)
}

type schoolRequest struct {
	Name string `json:"name"`
}

// Create adds a new school.
func (h *Schools) Create(w http.ResponseWriter, r *http.Request) {
	var req schoolRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateName(req.Name); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	school, err := h.schools.Create(req.Name)
	if err != nil {
		slog.Error("create school failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, school)
}

// Update renames a school.
func (h *Schools) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid school id")
		return
	}

	var req schoolRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateName(req.Name); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	if err := h.schools.Update(id, req.Name); err != nil {
		slog.Error("update school failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// UploadLogo stores the school's logo in object storage and records its
// key. The logo is stamped onto ID cards via the schoolLogo binding.
func (h *Schools) UploadLogo(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid school id")
		return
	}

	school, err := h.schools.FindByID(id)
	if err != nil {
		slog.Error("find school failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if school == nil {
		writeError(w, http.StatusNotFound, "school not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes)
	file, _, err := r.FormFile("logo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "logo file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read upload")
		return
	}

	contentType := http.DetectContentType(data)
	if contentType != "image/png" && contentType != "image/jpeg" {
		writeError(w, http.StatusUnsupportedMediaType, "logo must be a PNG or JPEG image")
		return
	}

	key := storage.LogoKey(id)
	if err := h.storage.Upload(r.Context(), key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		slog.Error("logo upload failed", "error", err)
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	if err := h.schools.SetLogoKey(id, key); err != nil {
		slog.Error("save logo key failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"logo_key": key})
}
