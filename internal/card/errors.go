// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package card

import "fmt"

// ValidationError reports one malformed aspect of a layout. Raised at
// template save time, never during rendering. ElementIndex is -1 for
// canvas-level problems.
type ValidationError struct {
	ElementIndex int
	Field        string
	Message      string
}

func (e ValidationError) Error() string {
	if e.ElementIndex < 0 {
		return fmt.Sprintf("layout %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("element %d %s: %s", e.ElementIndex, e.Field, e.Message)
}

// ResolutionError reports an unrecoverable binding condition. An ordinary
// missing field is NOT a resolution error — it resolves to empty content.
type ResolutionError struct {
	ElementIndex int
	Message      string
}

func (e ResolutionError) Error() string {
	return fmt.Sprintf("resolve element %d: %s", e.ElementIndex, e.Message)
}

// LayoutError reports a composition failure (unsized raster element,
// negative geometry). It aborts the current record and the whole batch.
// RecordID is filled in by the paginator; it is empty when Compose is
// called directly.
type LayoutError struct {
	RecordID     string
	ElementIndex int
	Message      string
}

func (e LayoutError) Error() string {
	if e.RecordID != "" {
		return fmt.Sprintf("record %s: element %d: %s", e.RecordID, e.ElementIndex, e.Message)
	}
	return fmt.Sprintf("element %d: %s", e.ElementIndex, e.Message)
}

// BackendError wraps a rendering-backend failure. The paginator guarantees
// the backend session has been released before one propagates.
type BackendError struct {
	Op  string
	Err error
}

func (e BackendError) Error() string {
	return fmt.Sprintf("render backend %s: %v", e.Op, e.Err)
}

func (e BackendError) Unwrap() error { return e.Err }

// NotFoundError reports a missing template or record for a render request.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}
