package database

import (
	"testing"
)

func TestSeedIdempotent(t *testing.T) {
	db, err := Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Seed should be callable safely — it creates data only when tables are
	// empty. We call it twice to verify idempotency. We don't clear the
	// database first because other test packages may be running
	// concurrently against the same database.
	if err := Seed(db); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	// Verify admin user exists.
	var userCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE email = 'admin@scolaris.local'").Scan(&userCount); err != nil {
		t.Fatalf("count admin users: %v", err)
	}
	if userCount < 1 {
		t.Errorf("expected at least 1 admin user, got %d", userCount)
	}

	// Verify a school exists.
	var schoolCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM schools").Scan(&schoolCount); err != nil {
		t.Fatalf("count schools: %v", err)
	}
	if schoolCount < 1 {
		t.Errorf("expected at least 1 school, got %d", schoolCount)
	}

	// Every seeded school scope should end with exactly one active template.
	var activeCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM card_templates WHERE is_active").Scan(&activeCount); err != nil {
		t.Fatalf("count active templates: %v", err)
	}
	if activeCount < 1 {
		t.Errorf("expected at least 1 active template, got %d", activeCount)
	}
}
