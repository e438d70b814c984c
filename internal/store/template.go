// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"scolaris/internal/card"
	"scolaris/internal/models"
)

// CardTemplateStore handles all card template database operations,
// including the at-most-one-active-per-scope activation rule.
type CardTemplateStore struct {
	db *sql.DB
}

// NewCardTemplateStore creates a new CardTemplateStore with the given
// database connection.
func NewCardTemplateStore(db *sql.DB) *CardTemplateStore {
	return &CardTemplateStore{db: db}
}

const templateColumns = `id, school_id, academic_year, name, layout, version, is_active, created_at, updated_at`

func scanTemplate(scan func(...any) error) (*models.CardTemplate, error) {
	t := &models.CardTemplate{}
	var layout []byte
	if err := scan(
		&t.ID, &t.SchoolID, &t.AcademicYear, &t.Name, &layout,
		&t.Version, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(layout, &t.Layout); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	return t, nil
}

// ListBySchool returns a school's templates, newest scope first.
func (s *CardTemplateStore) ListBySchool(schoolID uuid.UUID) ([]models.CardTemplate, error) {
	rows, err := s.db.Query(`
		SELECT `+templateColumns+` FROM card_templates
		WHERE school_id = $1
		ORDER BY academic_year DESC, name
	`, schoolID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []models.CardTemplate
	for rows.Next() {
		t, err := scanTemplate(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// FindByID retrieves a template by its UUID. Returns nil if not found.
func (s *CardTemplateStore) FindByID(id uuid.UUID) (*models.CardTemplate, error) {
	row := s.db.QueryRow(`SELECT `+templateColumns+` FROM card_templates WHERE id = $1`, id)
	t, err := scanTemplate(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find template by id: %w", err)
	}
	return t, nil
}

// FindActive returns the active template for a (school, academic year)
// scope, or nil when none is active. This is a plain committed read —
// a slightly stale answer is acceptable for rendering.
func (s *CardTemplateStore) FindActive(schoolID uuid.UUID, academicYear int) (*models.CardTemplate, error) {
	row := s.db.QueryRow(`
		SELECT `+templateColumns+` FROM card_templates
		WHERE school_id = $1 AND academic_year = $2 AND is_active = TRUE
		LIMIT 1
	`, schoolID, academicYear)
	t, err := scanTemplate(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active template: %w", err)
	}
	return t, nil
}

// Create inserts a new template. Does NOT activate it automatically.
func (s *CardTemplateStore) Create(t *models.CardTemplate) (*models.CardTemplate, error) {
	layout, err := json.Marshal(t.Layout)
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}

	row := s.db.QueryRow(`
		INSERT INTO card_templates (school_id, academic_year, name, layout, version, is_active)
		VALUES ($1, $2, $3, $4, 1, FALSE)
		RETURNING `+templateColumns+`
	`, t.SchoolID, t.AcademicYear, t.Name, layout)

	created, err := scanTemplate(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	return created, nil
}

// CreateDefault inserts the built-in bootstrap design for a scope. The
// school name is baked into the layout as a literal.
func (s *CardTemplateStore) CreateDefault(schoolID uuid.UUID, academicYear int, schoolName string) (*models.CardTemplate, error) {
	return s.Create(&models.CardTemplate{
		SchoolID:     schoolID,
		AcademicYear: academicYear,
		Name:         "Default ID Card",
		Layout:       card.DefaultLayout(schoolName),
	})
}

// Update replaces a template's name and layout and increments its version.
// The version bump invalidates compiled/rendered caches keyed on it.
func (s *CardTemplateStore) Update(t *models.CardTemplate) error {
	layout, err := json.Marshal(t.Layout)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	_, err = s.db.Exec(`
		UPDATE card_templates SET
			name = $1, layout = $2, version = version + 1, updated_at = NOW()
		WHERE id = $3
	`, t.Name, layout, t.ID)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return nil
}

// Activate makes a template the active one for its (school, academic year)
// scope, deactivating any other template of the same scope in the same
// transaction. The template row is locked first so concurrent activations
// on the same scope serialize; the partial unique index on
// (school_id, academic_year) WHERE is_active makes a two-active state
// unrepresentable even if a competing write slips through. A loser of the
// index race retries once.
func (s *CardTemplateStore) Activate(id uuid.UUID) error {
	err := s.activateOnce(id)
	if isUniqueViolation(err) {
		err = s.activateOnce(id)
	}
	return err
}

func (s *CardTemplateStore) activateOnce(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Lock the target row and learn its scope.
	var schoolID uuid.UUID
	var academicYear int
	err = tx.QueryRow(`
		SELECT school_id, academic_year FROM card_templates
		WHERE id = $1 FOR UPDATE
	`, id).Scan(&schoolID, &academicYear)
	if err == sql.ErrNoRows {
		return fmt.Errorf("activate: template %s not found", id)
	}
	if err != nil {
		return fmt.Errorf("get template scope: %w", err)
	}

	// Deactivate the scope, then activate the target. Readers in other
	// sessions never observe the intermediate zero-active state.
	_, err = tx.Exec(`
		UPDATE card_templates SET is_active = FALSE
		WHERE school_id = $1 AND academic_year = $2 AND is_active = TRUE
	`, schoolID, academicYear)
	if err != nil {
		return fmt.Errorf("deactivate templates: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE card_templates SET is_active = TRUE, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("activate template: %w", err)
	}

	return tx.Commit()
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// failure (two concurrent activations hitting the partial active index).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Delete removes a template by ID. Cannot delete an active template.
func (s *CardTemplateStore) Delete(id uuid.UUID) error {
	result, err := s.db.Exec(`DELETE FROM card_templates WHERE id = $1 AND is_active = FALSE`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("cannot delete: template is active or not found")
	}
	return nil
}
