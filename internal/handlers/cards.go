// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"scolaris/internal/cache"
	"scolaris/internal/card"
	"scolaris/internal/models"
	"scolaris/internal/store"
)

// Cards serves rendered ID card PDFs: one student, a whole class, or an
// ad hoc selection. All three share one render path; single cards are
// additionally cached in Valkey since they are requested repeatedly from
// student detail pages.
type Cards struct {
	renderer  *card.Renderer
	templates *store.CardTemplateStore
	students  *store.StudentStore
	classes   *store.ClassStore
	schools   *store.SchoolStore
	cardCache *cache.CardCache
}

// NewCards creates a new Cards handler group.
func NewCards(
	renderer *card.Renderer,
	templates *store.CardTemplateStore,
	students *store.StudentStore,
	classes *store.ClassStore,
	schools *store.SchoolStore,
	cardCache *cache.CardCache,
) *Cards {
	return &Cards{
		renderer:  renderer,
		templates: templates,
		students:  students,
		classes:   classes,
		schools:   schools,
		cardCache: cardCache,
	}
}

// renderScope is everything needed to run one render: the active template
// for the (school, academic year) scope and the school's render context.
type renderScope struct {
	template *models.CardTemplate
	rctx     card.RenderContext
}

// scopeFor loads the active template and render context for one school
// and academic year. Returns a NotFoundError when no template is active.
func (h *Cards) scopeFor(schoolID uuid.UUID, academicYear int) (*renderScope, error) {
	tmpl, err := h.templates.FindActive(schoolID, academicYear)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, card.NotFoundError{
			Resource: "active card template",
			ID:       fmt.Sprintf("%s/%d", schoolID, academicYear),
		}
	}

	school, err := h.schools.FindByID(schoolID)
	if err != nil {
		return nil, err
	}
	if school == nil {
		return nil, card.NotFoundError{Resource: "school", ID: schoolID.String()}
	}

	return &renderScope{
		template: tmpl,
		rctx: card.RenderContext{
			LogoRef:   school.LogoRef(),
			QRPayload: card.DefaultQRPayload,
		},
	}, nil
}

// className resolves a student's class name for the card's class field.
// Unassigned students get an empty class line rather than an error.
func (h *Cards) className(classID *uuid.UUID) (string, error) {
	if classID == nil {
		return "", nil
	}
	class, err := h.classes.FindByID(*classID)
	if err != nil || class == nil {
		return "", err
	}
	return class.Name, nil
}

// writePDF sets the download headers. Must be called before body bytes.
func writePDF(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

// Student renders one student's ID card. Cache hit skips rendering
// entirely; the key carries the template version, so edits are never
// served stale.
func (h *Cards) Student(w http.ResponseWriter, r *http.Request) {
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

	scope, err := h.scopeFor(student.SchoolID, student.AcademicYear)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	filename := student.RegistrationNumber + "_id_card.pdf"
	key := cache.Key(scope.template.ID, scope.template.Version, student.ID)
	if pdf, ok := h.cardCache.Get(r.Context(), key); ok {
		writePDF(w, filename)
		w.Write(pdf)
		return
	}

	className, err := h.className(student.ClassID)
	if err != nil {
		slog.Error("class lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	job, err := h.renderer.RenderBatch(
		scope.template.Layout,
		[]card.Record{student.RenderRecord(className)},
		scope.rctx,
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := job.Run(r.Context(), &buf); err != nil {
		writeDomainError(w, err)
		return
	}

	h.cardCache.Set(r.Context(), key, buf.Bytes())
	writePDF(w, filename)
	w.Write(buf.Bytes())
}

// Class renders the whole class roster as one multi-page PDF, streamed
// to the response. Batches are not cached.
func (h *Cards) Class(w http.ResponseWriter, r *http.Request) {
	classID, err := uuid.Parse(chi.URLParam(r, "classID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid class id")
		return
	}

	class, err := h.classes.FindByID(classID)
	if err != nil {
		slog.Error("find class failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if class == nil {
		writeError(w, http.StatusNotFound, "class not found")
		return
	}

	students, err := h.students.ListByClass(classID)
	if err != nil {
		slog.Error("list students failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if len(students) == 0 {
		writeError(w, http.StatusNotFound, "class has no students")
		return
	}

	scope, err := h.scopeFor(class.SchoolID, class.AcademicYear)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	records := make([]card.Record, 0, len(students))
	for _, s := range students {
		records = append(records, s.RenderRecord(class.Name))
	}

	job, err := h.renderer.RenderBatch(scope.template.Layout, records, scope.rctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// Headers are buffered until the first body write, so a mid-batch
	// failure can still turn into a proper error response.
	writePDF(w, fmt.Sprintf("class_%s_id_cards.pdf", classID))
	if err := job.Run(r.Context(), w); err != nil {
		writeDomainError(w, err)
		return
	}
}

type selectedRequest struct {
	StudentIDs []uuid.UUID `json:"student_ids"`
}

// Selected renders an ad hoc set of students, one page per student, in
// the order the ids were submitted.
func (h *Cards) Selected(w http.ResponseWriter, r *http.Request) {
	var req selectedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.StudentIDs) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "student_ids is required")
		return
	}

	students, err := h.students.ListByIDs(req.StudentIDs)
	if err != nil {
		slog.Error("list students failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if len(students) == 0 {
		writeError(w, http.StatusNotFound, "no matching students")
		return
	}

	// One batch renders against one template scope, so every selected
	// student must share the first one's school and academic year.
	first := students[0]
	for _, s := range students[1:] {
		if s.SchoolID != first.SchoolID || s.AcademicYear != first.AcademicYear {
			writeError(w, http.StatusUnprocessableEntity,
				"selected students must belong to the same school and academic year")
			return
		}
	}

	scope, err := h.scopeFor(first.SchoolID, first.AcademicYear)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	records := make([]card.Record, 0, len(students))
	for _, s := range students {
		className, err := h.className(s.ClassID)
		if err != nil {
			slog.Error("class lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		records = append(records, s.RenderRecord(className))
	}

	job, err := h.renderer.RenderBatch(scope.template.Layout, records, scope.rctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writePDF(w, "selected_students_id_cards.pdf")
	if err := job.Run(r.Context(), w); err != nil {
		writeDomainError(w, err)
		return
	}
}
