// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"

	"scolaris/internal/card"
)

// CardTemplate is a reusable ID card design scoped to one school and one
// academic year. The layout is stored as JSONB and compiled to draw
// instructions at render time.
//
// Within a (school, academic year) scope at most one template is active;
// the store enforces this both transactionally and with a partial unique
// index. Version is bumped on every layout edit, which also keys the
// rendered-card cache.
type CardTemplate struct {
	ID           uuid.UUID   `json:"id"`
	SchoolID     uuid.UUID   `json:"school_id"`
	AcademicYear int         `json:"academic_year"`
	Name         string      `json:"name"`
	Layout       card.Layout `json:"layout"`
	Version      int         `json:"version"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
