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

// SchoolStore handles all school (tenant) database operations.
type SchoolStore struct {
	db *sql.DB
}

// NewSchoolStore creates a new SchoolStore with the given database connection.
func NewSchoolStore(db *sql.DB) *SchoolStore {
	return &SchoolStore{db: db}
}

// List returns all schools ordered by name.
func (s *SchoolStore) List() ([]models.School, error) {
	rows, err := s.db.Query(`
		SELECT id, name, logo_key, created_at, updated_at
		FROM schools ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	defer rows.Close()

	var schools []models.School
	for rows.Next() {
		var sc models.School
		if err := rows.Scan(&sc.ID, &sc.Name, &sc.LogoKey, &sc.CreatedAt, &sc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan school: %w", err)
		}
		schools = append(schools, sc)
	}
	return schools, rows.Err()
}

// FindByID retrieves a school by its UUID. Returns nil if not found.
func (s *SchoolStore) FindByID(id uuid.UUID) (*models.School, error) {
	sc := &models.School{}
	err := s.db.QueryRow(`
		SELECT id, name, logo_key, created_at, updated_at
		FROM schools WHERE id = $1
	`, id).Scan(&sc.ID, &sc.Name, &sc.LogoKey, &sc.CreatedAt, &sc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find school by id: %w", err)
	}
	return sc, nil
}

// Create inserts a new school.
func (s *SchoolStore) Create(name string) (*models.School, error) {
	sc := &models.School{}
	err := s.db.QueryRow(`
		INSERT INTO schools (name) VALUES ($1)
		RETURNING id, name, logo_key, created_at, updated_at
	`, name).Scan(&sc.ID, &sc.Name, &sc.LogoKey, &sc.CreatedAt, &sc.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create school: %w", err)
	}
	return sc, nil
}

// Update renames a school.
func (s *SchoolStore) Update(id uuid.UUID, name string) error {
	_, err := s.db.Exec(`
		UPDATE schools SET name = $1, updated_at = NOW() WHERE id = $2
	`, name, id)
	if err != nil {
		return fmt.Errorf("update school: %w", err)
	}
	return nil
}

// SetLogoKey records the object-storage key of the school's logo.
func (s *SchoolStore) SetLogoKey(id uuid.UUID, key string) error {
	_, err := s.db.Exec(`
		UPDATE schools SET logo_key = $1, updated_at = NOW() WHERE id = $2
	`, key, id)
	if err != nil {
		return fmt.Errorf("set school logo: %w", err)
	}
	return nil
}
