package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"scolaris/internal/card"
)

// Seed populates the database with initial development data.
// It creates a default admin user if none exists. The admin will be
// prompted to set up 2FA on first login (totp_enabled = false).
// A demo school with one class, two students, and an active default
// card template is created when no schools exist yet.
func Seed(db *sql.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	return seedDemoSchool(db)
}

func seedAdmin(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("users already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// 2FA is not enabled — the admin must set it up on first login.
	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
	`, "admin@scolaris.local", string(hash), "Admin", "admin", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@scolaris.local",
		"password", "admin",
	)
	return nil
}

func seedDemoSchool(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schools").Scan(&count); err != nil {
		return fmt.Errorf("seed check schools: %w", err)
	}
	if count > 0 {
		slog.Info("schools already seeded, skipping")
		return nil
	}

	const schoolName = "Demo High School"
	const year = 2026

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	var schoolID string
	err = tx.QueryRow(`INSERT INTO schools (name) VALUES ($1) RETURNING id`, schoolName).Scan(&schoolID)
	if err != nil {
		return fmt.Errorf("seed insert school: %w", err)
	}

	var classID string
	err = tx.QueryRow(`
		INSERT INTO classes (school_id, name, academic_year) VALUES ($1, $2, $3) RETURNING id
	`, schoolID, "9A", year).Scan(&classID)
	if err != nil {
		return fmt.Errorf("seed insert class: %w", err)
	}

	students := []struct {
		name, reg, attrs string
	}{
		{"Maria Popescu", "2026-0001", `{"bloodGroup":"0+"}`},
		{"Andrei Radu", "2026-0002", `{"bloodGroup":"A-"}`},
	}
	for _, st := range students {
		_, err = tx.Exec(`
			INSERT INTO students (school_id, class_id, name, registration_number, academic_year, attributes)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, schoolID, classID, st.name, st.reg, year, st.attrs)
		if err != nil {
			return fmt.Errorf("seed insert student %s: %w", st.reg, err)
		}
	}

	layout, err := json.Marshal(card.DefaultLayout(schoolName))
	if err != nil {
		return fmt.Errorf("seed encode layout: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO card_templates (school_id, academic_year, name, layout, version, is_active)
		VALUES ($1, $2, $3, $4, 1, TRUE)
	`, schoolID, year, "Default ID Card", layout)
	if err != nil {
		return fmt.Errorf("seed insert template: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with demo school", "school", schoolName)
	return nil
}
