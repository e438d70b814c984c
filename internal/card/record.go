// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package card

// Reserved binding field names. These never exist in a record's flat field
// map — they resolve to image references via the render context or the
// record's photo reference instead.
const (
	FieldSchoolLogo   = "schoolLogo"
	FieldProfileImage = "profileImage"
)

// Common (non-reserved) field names populated by Student.RenderRecord.
const (
	FieldName               = "name"
	FieldClass              = "class"
	FieldRegistrationNumber = "registrationNumber"
	FieldAcademicYear       = "academicYear"
)

// Record is the flat, read-only view of one student supplied per render
// call. Fields maps field name to display value; PhotoRef is an opaque
// image reference (an object-storage key) resolved by the backend.
type Record struct {
	ID       string
	Fields   map[string]string
	PhotoRef string
}

// Field returns the value for a field name, and whether it is present and
// non-empty. Lookup is case-sensitive with no path traversal.
func (r Record) Field(name string) (string, bool) {
	v, ok := r.Fields[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// RenderContext carries per-job data that is not part of any single record:
// the tenant's logo reference and the QR payload generator.
type RenderContext struct {
	// LogoRef is the image reference for the schoolLogo reserved field.
	LogoRef string

	// QRPayload produces the payload encoded into qrcode elements for a
	// record. When nil the paginator substitutes DefaultQRPayload.
	QRPayload func(Record) string
}

// DefaultQRPayload encodes the record id as a card URI. Used when the
// caller supplies no generator so QR elements never render empty.
func DefaultQRPayload(r Record) string {
	return "card://student/" + r.ID
}
