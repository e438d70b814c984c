package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"scolaris/internal/store"
)

// Classes groups class management handlers.
type Classes struct {
	classes *store.ClassStore
	schools *store.SchoolStore
}

// NewClasses creates a new Classes handler group.
func NewClasses(classes *store.ClassStore, schools *store.SchoolStore) *Classes {
	return &Classes{classes: classes, schools: schools}
}

// ListBySchool returns a school's classes.
func (h *Classes) ListBySchool(w http.ResponseWriter, r *http.Request) {
	schoolID, err := uuid.Parse(chi.URLParam(r, "schoolID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid school id")
		return
	}

	classes, err := h.classes.ListBySchool(schoolID)
	if err != nil {
		slog.Error("list classes failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, classes)
}

type classCreateRequest struct {
	SchoolID     uuid.UUID `json:"school_id"`
	Name         string    `json:"name"`
	AcademicYear int       `json:"academic_year"`
}

// Create adds a class to a school.
func (h *Classes) Create(w http.ResponseWriter, r *http.Request) {
	var req classCreateRequest
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

	class, err := h.classes.Create(req.SchoolID, req.Name, req.AcademicYear)
	if err != nil {
		slog.Error("create class failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, class)
}

type classUpdateRequest struct {
	Name string `json:"name"`
}

// Update renames a class.
func (h *Classes) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid class id")
		return
	}

	var req classUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateName(req.Name); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	if err := h.classes.Update(id, req.Name); err != nil {
		slog.Error("update class failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// Delete removes a class. The store refuses when students are still
// assigned to it.
func (h *Classes) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid class id")
		return
	}

	if err := h.classes.Delete(id); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
