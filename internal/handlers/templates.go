// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"scolaris/internal/cache"
	"scolaris/internal/card"
	"scolaris/internal/models"
	"scolaris/internal/store"
)

// Templates groups card template management handlers: CRUD, the
// one-active-per-scope activation switch, and the editor preview.
type Templates struct {
	templates *store.CardTemplateStore
	schools   *store.SchoolStore
	cardCache *cache.CardCache
}

// NewTemplates creates a new Templates handler group.
func NewTemplates(templates *store.CardTemplateStore, schools *store.SchoolStore, cardCache *cache.CardCache) *Templates {
	return &Templates{templates: templates, schools: schools, cardCache: cardCache}
}

// ListBySchool returns a school's templates across academic years.
func (h *Templates) ListBySchool(w http.ResponseWriter, r *http.Request) {
	schoolID, err := uuid.Parse(chi.URLParam(r, "schoolID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid school id")
		return
	}

	templates, err := h.templates.ListBySchool(schoolID)
	if err != nil {
		slog.Error("list templates failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

// Get returns one template with its full layout.
func (h *Templates) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid template id")
		return
	}

	tmpl, err := h.templates.FindByID(id)
	if err != nil {
		slog.Error("find template failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if tmpl == nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

type templateRequest struct {
	SchoolID     uuid.UUID   `json:"school_id"`
	AcademicYear int         `json:"academic_year"`
	Name         string      `json:"name"`
	Layout       card.Layout `json:"layout"`
}

// Create stores a new template, inactive. A layout that fails validation
// is rejected so unrenderable designs never reach the registry.
func (h *Templates) Create(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateName(req.Name); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if msg := validateAcademicYear(req.AcademicYear); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if errs := card.ValidateLayout(req.Layout); len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":         "layout is invalid",
			"layout_errors": errs,
		})
		return
	}

	school, err := h.schools.FindByID(req.SchoolID)
	if err != nil {
		slog.Error("find school failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if school == nil {
		writeError(w, http.StatusNotFound, "school not found")
		return
	}

	tmpl, err := h.templates.Create(&models.CardTemplate{
		SchoolID:     req.SchoolID,
		AcademicYear: req.AcademicYear,
		Name:         req.Name,
		Layout:       req.Layout,
	})
	if err != nil {
		slog.Error("create template failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, tmpl)
}

// Update replaces a template's name and layout. The store bumps the
// version, which retires all cached cards rendered from the old layout.
func (h *Templates) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid template id")
		return
	}

	tmpl, err := h.templates.FindByID(id)
	if err != nil {
		slog.Error("find template failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if tmpl == nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}

	var req templateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateName(req.Name); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if errs := card.ValidateLayout(req.Layout); len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":         "layout is invalid",
			"layout_errors": errs,
		})
		return
	}

	tmpl.Name = req.Name
	tmpl.Layout = req.Layout
	if err := h.templates.Update(tmpl); err != nil {
		slog.Error("update template failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	updated, err := h.templates.FindByID(id)
	if err != nil || updated == nil {
		slog.Error("reload template failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Activate makes a template the active one for its (school, academic
// year) scope, atomically deactivating the previous one.
func (h *Templates) Activate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid template id")
		return
	}

	tmpl, err := h.templates.FindByID(id)
	if err != nil {
		slog.Error("find template failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if tmpl == nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}

	if err := h.templates.Activate(id); err != nil {
		slog.Error("activate template failed", "error", err)
		writeError(w, http.StatusInternalServerError, "activation failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"active": true})
}

// Delete removes an inactive template and its cached renders.
func (h *Templates) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid template id")
		return
	}

	if err := h.templates.Delete(id); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	h.cardCache.InvalidateTemplate(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

type previewRequest struct {
	Layout card.Layout  `json:"layout"`
	Record *card.Record `json:"record,omitempty"`
}

// sampleRecord is the record previews compose against when the client
// does not supply one.
func sampleRecord() card.Record {
	return card.Record{
		ID: "preview",
		Fields: map[string]string{
			card.FieldName:               "Maria Popescu",
			card.FieldClass:              "9A",
			card.FieldRegistrationNumber: "2026-0001",
			card.FieldAcademicYear:       "2026",
		},
		PhotoRef: "preview/photo",
	}
}

// Preview validates a layout and composes it against a sample record,
// returning the draw instructions as JSON so the template editor can
// paint an exact on-screen replica. Nothing is persisted.
func (h *Templates) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := card.ValidateLayout(req.Layout); len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":         "layout is invalid",
			"layout_errors": errs,
		})
		return
	}

	rec := sampleRecord()
	if req.Record != nil {
		rec = *req.Record
	}

	rctx := card.RenderContext{
		LogoRef:   "preview/logo",
		QRPayload: card.DefaultQRPayload,
	}

	contents, err := card.ResolveAll(req.Layout, rec, rctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	desc, err := card.Compose(req.Layout, contents)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, desc)
}
