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

	"scolaris/internal/cache"
	"scolaris/internal/models"
	"scolaris/internal/photo"
	"scolaris/internal/storage"
	"scolaris/internal/store"
)

// Students groups student management handlers, including photo upload.
type Students struct {
	students  *store.StudentStore
	classes   *store.ClassStore
	storage   *storage.Client // nil when object storage is not configured
	cardCache *cache.CardCache
}

// NewStudents creates a new Students handler group.
func NewStudents(students *store.StudentStore, classes *store.ClassStore, storage *storage.Client, cardCache *cache.CardCache) *Students {
	return &Students{
		students:  students,
		classes:   classes,
		storage:   storage,
		cardCache: cardCache,
	}
}

// ListByClass returns a class roster ordered by registration number, the
// same order batch card PDFs are paginated in.
func (h *Students) ListByClass(w http.ResponseWriter, r *http.Request) {
	classID, err := uuid.Parse(chi.URLParam(r, "classID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid class id")
		return
	}

	students, err := h.students.ListByClass(classID)
	if err != nil {
		slog.Error("list students failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, students)
}

// Get returns one student by id.
func (h *Students) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid student id")
		return
	}

	student, err := h.students.FindByID(id)
	if err != nil {
		slog.Error("find student failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if student == nil {
		writeError(w, http.StatusNotFound, "student not found")
		return
	}
	writeJSON(w, http.StatusOK, student)
}

type studentRequest struct {
	SchoolID           uuid.UUID         `json:"school_id"`
	ClassID            *uuid.UUID        `json:"class_id"`
	Name               string            `json:"name"`
	RegistrationNumber string            `json:"registration_number"`
	AcademicYear       int               `json:"academic_year"`
	Attributes         map[string]string `json:"attributes"`
}

// Create enrolls a student.
func (h *Students) Create(w http.ResponseWriter, r *http.Request) {
	var req studentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateStudent(req.Name, req.RegistrationNumber, req.AcademicYear, req.Attributes); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if req.ClassID != nil {
		class, err := h.classes.FindByID(*req.ClassID)
		if err != nil {
			slog.Error("find class failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if class == nil || class.SchoolID != req.SchoolID {
			writeError(w, http.StatusUnprocessableEntity, "class does not belong to the school")
			return
		}
	}

	student, err := h.students.Create(&models.Student{
		SchoolID:           req.SchoolID,
		ClassID:            req.ClassID,
		Name:               req.Name,
		RegistrationNumber: req.RegistrationNumber,
		AcademicYear:       req.AcademicYear,
		Attributes:         req.Attributes,
	})
	if err != nil {
		slog.Error("create student failed", "error", err)
		writeError(w, http.StatusConflict, "could not create student (duplicate registration number?)")
		return
	}
	writeJSON(w, http.StatusCreated, student)
}

// Update replaces a student's editable fields. Cached cards for the
// student are invalidated since the card content may have changed.
func (h *Students) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid student id")
		return
	}

	student, err := h.students.FindByID(id)
	if err != nil {
		slog.Error("find student failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if student == nil {
		writeError(w, http.StatusNotFound, "student not found")
		return
	}

	var req studentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateStudent(req.Name, req.RegistrationNumber, req.AcademicYear, req.Attributes); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	student.ClassID = req.ClassID
	student.Name = req.Name
	student.RegistrationNumber = req.RegistrationNumber
	student.AcademicYear = req.AcademicYear
	student.Attributes = req.Attributes

	if err := h.students.Update(student); err != nil {
		slog.Error("update student failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.cardCache.InvalidateStudent(r.Context(), id)
	writeJSON(w, http.StatusOK, student)
}

// Delete removes a student and their cached cards. Photo objects stay in
// storage; keys are content-addressed per student and orphaned objects
// are cheap.
func (h *Students) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid student id")
		return
	}

	if err := h.students.Delete(id); err != nil {
		slog.Error("delete student failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.cardCache.InvalidateStudent(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// UploadPhoto accepts a multipart photo upload, generates the card and
// thumbnail variants, stores them, and records the card variant key on
// the student record.
func (h *Students) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid student id")
		return
	}

	student, err := h.students.FindByID(id)
	if err != nil {
		slog.Error("find student failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if student == nil {
		writeError(w, http.StatusNotFound, "student not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes)
	file, _, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "photo file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read upload")
		return
	}

	variants, err := photo.Process(data, photo.CardVariants)
	if err != nil {
		writeError(w, http.StatusUnsupportedMediaType, "photo must be a valid PNG, JPEG, or GIF image")
		return
	}

	var cardKey string
	for _, v := range variants {
		key := storage.PhotoKey(id, v.Name)
		if err := h.storage.Upload(r.Context(), key, v.ContentType, bytes.NewReader(v.Data), int64(len(v.Data))); err != nil {
			slog.Error("photo upload failed", "variant", v.Name, "error", err)
			writeError(w, http.StatusInternalServerError, "upload failed")
			return
		}
		if v.Name == "card" || cardKey == "" {
			cardKey = key
		}
	}

	if err := h.students.SetPhotoKey(id, cardKey); err != nil {
		slog.Error("save photo key failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.cardCache.InvalidateStudent(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]string{"photo_key": cardKey})
}
