// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"scolaris/internal/models"
)

// ClassStore handles all class database operations.
type ClassStore struct {
	db *sql.DB
}

// NewClassStore creates a new ClassStore with the given database connection.
func NewClassStore(db *sql.DB) *ClassStore {
	return &ClassStore{db: db}
}

// ListBySchool returns a school's classes ordered by academic year then name.
func (s *ClassStore) ListBySchool(schoolID uuid.UUID) ([]models.Class, error) {
	rows, err := s.db.Query(`
		SELECT id, school_id, name, academic_year, created_at, updated_at
		FROM classes WHERE school_id = $1
		ORDER BY academic_year DESC, name
	`, schoolID)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	defer rows.Close()

	var classes []models.Class
	for rows.Next() {
		var c models.Class
		if err := rows.Scan(&c.ID, &c.SchoolID, &c.Name, &c.AcademicYear, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// FindByID retrieves a class by its UUID. Returns nil if not found.
func (s *ClassStore) FindByID(id uuid.UUID) (*models.Class, error) {
	c := &models.Class{}
	err := s.db.QueryRow(`
		SELECT id, school_id, name, academic_year, created_at, updated_at
		FROM classes WHERE id = $1
	`, id).Scan(&c.ID, &c.SchoolID, &c.Name, &c.AcademicYear, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find class by id: %w", err)
	}
	return c, nil
}

// Create inserts a new class.
func (s *ClassStore) Create(schoolID uuid.UUID, name string, academicYear int) (*models.Class, error) {
	c := &models.Class{}
	err := s.db.QueryRow(`
		INSERT INTO classes (school_id, name, academic_year)
		VALUES ($1, $2, $3)
		RETURNING id, school_id, name, academic_year, created_at, updated_at
	`, schoolID, name, academicYear).Scan(
		&c.ID, &c.SchoolID, &c.Name, &c.AcademicYear, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create class: %w", err)
	}
	return c, nil
}

// Update renames a class.
func (s *ClassStore) Update(id uuid.UUID, name string) error {
	_, err := s.db.Exec(`
		UPDATE classes SET name = $1, updated_at = NOW() WHERE id = $2
	`, name, id)
	if err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

// Delete removes an empty class. Classes with enrolled students are kept.
func (s *ClassStore) Delete(id uuid.UUID) error {
	result, err := s.db.Exec(`
		DELETE FROM classes WHERE id = $1
		AND NOT EXISTS (SELECT 1 FROM students WHERE class_id = $1)
	`, id)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("cannot delete: class has students or not found")
	}
	return nil
}
