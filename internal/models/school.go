// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// School is the tenant. Every class, student, and card template belongs to
// exactly one school.
type School struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	LogoKey   *string   `json:"logo_key,omitempty"` // object-storage key, nil until uploaded
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LogoRef returns the logo image reference for card rendering, or "" when
// the school has no logo yet.
func (s *School) LogoRef() string {
	if s.LogoKey == nil {
		return ""
	}
	return *s.LogoKey
}
