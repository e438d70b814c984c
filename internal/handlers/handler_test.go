// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL or Valkey are
// unavailable.
package handlers

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"scolaris/internal/cache"
	"scolaris/internal/database"
	"scolaris/internal/models"
	"scolaris/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "scolaris")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "scolaris")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkey returns a Redis client on the test DB index, skipping when
// Valkey is unreachable.
func testValkey(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"card:*", "session:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})
	return client
}

// testCardCache builds a short-TTL card cache over the test Valkey.
func testCardCache(t *testing.T) *cache.CardCache {
	t.Helper()
	return cache.NewCardCache(testValkey(t), time.Minute)
}

// fixture is a fully populated render scope: a school with one class,
// students on its roster, and an activated default template.
type fixture struct {
	school   *models.School
	class    *models.Class
	students []*models.Student
	template *models.CardTemplate
}

// newFixture seeds the database with a disposable school scope. Cleanup
// cascades through the school FK.
func newFixture(t *testing.T, db *sql.DB, studentCount int) *fixture {
	t.Helper()

	const year = 2026

	school, err := store.NewSchoolStore(db).Create("Handler Test School " + uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("create school: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM schools WHERE id = $1", school.ID)
	})

	class, err := store.NewClassStore(db).Create(school.ID, "7C", year)
	if err != nil {
		t.Fatalf("create class: %v", err)
	}

	students := make([]*models.Student, 0, studentCount)
	studentStore := store.NewStudentStore(db)
	for i := 0; i < studentCount; i++ {
		st, err := studentStore.Create(&models.Student{
			SchoolID:           school.ID,
			ClassID:            &class.ID,
			Name:               "Student " + uuid.NewString()[:8],
			RegistrationNumber: uuid.NewString()[:13],
			AcademicYear:       year,
		})
		if err != nil {
			t.Fatalf("create student %d: %v", i, err)
		}
		students = append(students, st)
	}

	templates := store.NewCardTemplateStore(db)
	tmpl, err := templates.CreateDefault(school.ID, year, school.Name)
	if err != nil {
		t.Fatalf("create default template: %v", err)
	}
	if err := templates.Activate(tmpl.ID); err != nil {
		t.Fatalf("activate template: %v", err)
	}
	tmpl, err = templates.FindByID(tmpl.ID)
	if err != nil {
		t.Fatalf("reload template: %v", err)
	}

	return &fixture{school: school, class: class, students: students, template: tmpl}
}
