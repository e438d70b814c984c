package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for administrative inputs.
const (
	maxNameLen         = 200
	maxRegNumberLen    = 50
	maxAttributeKeyLen = 100
	maxAttributeValLen = 500
	maxAttributes      = 30
	minAcademicYear    = 2000
	maxAcademicYear    = 2100
	maxPhotoBytes      = 10 << 20 // 10 MB upload cap
)

// validateName checks a person/school/class/template display name and
// returns the first error found, or "".
func validateName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 200 characters)."
	}
	return ""
}

// validateAcademicYear bounds the year to a sane calendar range.
func validateAcademicYear(year int) string {
	if year < minAcademicYear || year > maxAcademicYear {
		return "Academic year is out of range."
	}
	return ""
}

// validateStudent checks student form inputs and returns the first error found.
func validateStudent(name, registrationNumber string, academicYear int, attributes map[string]string) string {
	if msg := validateName(name); msg != "" {
		return msg
	}
	reg := strings.TrimSpace(registrationNumber)
	if reg == "" {
		return "Registration number is required."
	}
	if utf8.RuneCountInString(reg) > maxRegNumberLen {
		return "Registration number is too long (max 50 characters)."
	}
	if msg := validateAcademicYear(academicYear); msg != "" {
		return msg
	}
	if len(attributes) > maxAttributes {
		return "Too many custom attributes (max 30)."
	}
	for k, v := range attributes {
		if strings.TrimSpace(k) == "" {
			return "Attribute names cannot be empty."
		}
		if utf8.RuneCountInString(k) > maxAttributeKeyLen {
			return "Attribute name is too long (max 100 characters)."
		}
		if utf8.RuneCountInString(v) > maxAttributeValLen {
			return "Attribute value is too long (max 500 characters)."
		}
	}
	return ""
}
