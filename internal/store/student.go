// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"scolaris/internal/models"
)

// StudentStore handles all student database operations.
type StudentStore struct {
	db *sql.DB
}

// NewStudentStore creates a new StudentStore with the given database connection.
func NewStudentStore(db *sql.DB) *StudentStore {
	return &StudentStore{db: db}
}

const studentColumns = `id, school_id, class_id, name, registration_number, academic_year, photo_key, attributes, created_at, updated_at`

// scanStudent reads one student row, decoding the JSONB attribute column.
func scanStudent(scan func(...any) error) (*models.Student, error) {
	st := &models.Student{}
	var attrs []byte
	if err := scan(
		&st.ID, &st.SchoolID, &st.ClassID, &st.Name, &st.RegistrationNumber,
		&st.AcademicYear, &st.PhotoKey, &attrs, &st.CreatedAt, &st.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &st.Attributes); err != nil {
			return nil, fmt.Errorf("decode attributes: %w", err)
		}
	}
	return st, nil
}

// FindByID retrieves a student by UUID. Returns nil if not found.
func (s *StudentStore) FindByID(id uuid.UUID) (*models.Student, error) {
	row := s.db.QueryRow(`SELECT `+studentColumns+` FROM students WHERE id = $1`, id)
	st, err := scanStudent(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find student by id: %w", err)
	}
	return st, nil
}

// ListByClass returns a class's students ordered by registration number —
// the order their cards appear in a batch document.
func (s *StudentStore) ListByClass(classID uuid.UUID) ([]models.Student, error) {
	rows, err := s.db.Query(`
		SELECT `+studentColumns+` FROM students
		WHERE class_id = $1
		ORDER BY registration_number
	`, classID)
	if err != nil {
		return nil, fmt.Errorf("list students by class: %w", err)
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		st, err := scanStudent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, *st)
	}
	return students, rows.Err()
}

// ListByIDs fetches the given students, preserving the order of ids. Missing
// ids are simply absent from the result; callers decide whether that is an
// error.
func (s *StudentStore) ListByIDs(ids []uuid.UUID) ([]models.Student, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.db.Query(`
		SELECT `+studentColumns+` FROM students WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("list students by ids: %w", err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]models.Student, len(ids))
	for rows.Next() {
		st, err := scanStudent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		byID[st.ID] = *st
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// SQL IN loses caller order; restore it.
	students := make([]models.Student, 0, len(ids))
	for _, id := range ids {
		if st, ok := byID[id]; ok {
			students = append(students, st)
		}
	}
	return students, nil
}

// Create inserts a new student.
func (s *StudentStore) Create(st *models.Student) (*models.Student, error) {
	attrs, err := json.Marshal(st.Attributes)
	if err != nil {
		return nil, fmt.Errorf("encode attributes: %w", err)
	}

	row := s.db.QueryRow(`
		INSERT INTO students (school_id, class_id, name, registration_number, academic_year, attributes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+studentColumns+`
	`, st.SchoolID, st.ClassID, st.Name, st.RegistrationNumber, st.AcademicYear, attrs)

	created, err := scanStudent(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	return created, nil
}

// Update modifies a student's editable fields.
func (s *StudentStore) Update(st *models.Student) error {
	attrs, err := json.Marshal(st.Attributes)
	if err != nil {
		return fmt.Errorf("encode attributes: %w", err)
	}
	_, err = s.db.Exec(`
		UPDATE students SET
			class_id = $1, name = $2, registration_number = $3,
			academic_year = $4, attributes = $5, updated_at = NOW()
		WHERE id = $6
	`, st.ClassID, st.Name, st.RegistrationNumber, st.AcademicYear, attrs, st.ID)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// SetPhotoKey records the object-storage key of the student's card photo.
func (s *StudentStore) SetPhotoKey(id uuid.UUID, key string) error {
	_, err := s.db.Exec(`
		UPDATE students SET photo_key = $1, updated_at = NOW() WHERE id = $2
	`, key, id)
	if err != nil {
		return fmt.Errorf("set student photo: %w", err)
	}
	return nil
}

// Delete removes a student by ID.
func (s *StudentStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}
