// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"scolaris/internal/models"
)

func TestClassStoreListOrdered(t *testing.T) {
	db := testDB(t)
	school := testSchool(t, db)
	s := NewClassStore(db)

	// Inserted out of order; the list must come back newest year first,
	// names alphabetical within a year.
	for _, c := range []struct {
		name string
		year int
	}{
		{"9B", 2026},
		{"10A", 2027},
		{"9A", 2026},
	} {
		if _, err := s.Create(school.ID, c.name, c.year); err != nil {
			t.Fatalf("Create %s: %v", c.name, err)
		}
	}

	classes, err := s.ListBySchool(school.ID)
	if err != nil {
		t.Fatalf("ListBySchool: %v", err)
	}
	if len(classes) != 3 {
		t.Fatalf("expected 3 classes, got %d", len(classes))
	}
	want := []string{"10A", "9A", "9B"}
	for i, name := range want {
		if classes[i].Name != name {
			t.Errorf("position %d: got %q, want %q", i, classes[i].Name, name)
		}
	}
}

func TestClassStoreDuplicateNameRejected(t *testing.T) {
	db := testDB(t)
	school := testSchool(t, db)
	s := NewClassStore(db)

	if _, err := s.Create(school.ID, "9A", 2026); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.Create(school.ID, "9A", 2026); err == nil {
		t.Error("duplicate (school, year, name) should be rejected")
	}
	// Same name in a different year is a different class.
	if _, err := s.Create(school.ID, "9A", 2027); err != nil {
		t.Errorf("same name in another year should be allowed: %v", err)
	}
}

func TestClassStoreDeleteGuardsEnrollment(t *testing.T) {
	db := testDB(t)
	school := testSchool(t, db)
	classes := NewClassStore(db)
	students := NewStudentStore(db)

	class, err := classes.Create(school.ID, "12C", 2026)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	student, err := students.Create(&models.Student{
		SchoolID:           school.ID,
		ClassID:            &class.ID,
		Name:               "Enrolled Kid",
		RegistrationNumber: "2026-9001",
		AcademicYear:       2026,
	})
	if err != nil {
		t.Fatalf("create student: %v", err)
	}

	if err := classes.Delete(class.ID); err == nil {
		t.Error("deleting a class with students should fail")
	}

	if err := students.Delete(student.ID); err != nil {
		t.Fatalf("delete student: %v", err)
	}
	if err := classes.Delete(class.ID); err != nil {
		t.Errorf("deleting an empty class should succeed: %v", err)
	}
}
