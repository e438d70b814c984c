// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"scolaris/internal/card"
)

// Student is one enrolled learner. RegistrationNumber is unique per school
// and is the public identifier printed on ID cards. Attributes holds
// school-specific extra fields (blood group, guardian phone, ...) stored as
// JSONB and exposed to card templates by name.
type Student struct {
	ID                 uuid.UUID         `json:"id"`
	SchoolID           uuid.UUID         `json:"school_id"`
	ClassID            *uuid.UUID        `json:"class_id,omitempty"`
	Name               string            `json:"name"`
	RegistrationNumber string            `json:"registration_number"`
	AcademicYear       int               `json:"academic_year"`
	PhotoKey           *string           `json:"photo_key,omitempty"`
	Attributes         map[string]string `json:"attributes,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// RenderRecord flattens the student into the read-only record shape the
// card compositor binds template fields against. className may be empty
// when the student is unassigned. Custom attributes are merged in but can
// never shadow the built-in field names.
func (s *Student) RenderRecord(className string) card.Record {
	fields := make(map[string]string, len(s.Attributes)+4)
	for k, v := range s.Attributes {
		fields[k] = v
	}
	fields[card.FieldName] = s.Name
	fields[card.FieldRegistrationNumber] = s.RegistrationNumber
	fields[card.FieldAcademicYear] = strconv.Itoa(s.AcademicYear)
	fields[card.FieldClass] = className

	rec := card.Record{
		ID:     s.ID.String(),
		Fields: fields,
	}
	if s.PhotoKey != nil {
		rec.PhotoRef = *s.PhotoKey
	}
	return rec
}
