// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package card

import "fmt"

// ValidateLayout checks a layout for structural problems and returns every
// error found (not just the first). Called before a template is saved so
// malformed layouts never reach the renderer.
//
// Overlapping elements are deliberately allowed — a photo frame drawn over
// a photo is a valid design, and paint order settles who wins.
func ValidateLayout(layout Layout) []ValidationError {
	var errs []ValidationError

	if layout.Width <= 0 {
		errs = append(errs, ValidationError{ElementIndex: -1, Field: "width", Message: "must be positive"})
	}
	if layout.Height <= 0 {
		errs = append(errs, ValidationError{ElementIndex: -1, Field: "height", Message: "must be positive"})
	}

	for i, el := range layout.Elements {
		switch el.Kind {
		case KindText, KindImage, KindQRCode:
		default:
			errs = append(errs, ValidationError{
				ElementIndex: i, Field: "kind",
				Message: fmt.Sprintf("unknown kind %q", el.Kind),
			})
		}

		if el.Position.X < 0 || el.Position.Y < 0 {
			errs = append(errs, ValidationError{
				ElementIndex: i, Field: "position",
				Message: "must be non-negative",
			})
		}

		if el.Size != nil && (el.Size.Width <= 0 || el.Size.Height <= 0) {
			errs = append(errs, ValidationError{
				ElementIndex: i, Field: "size",
				Message: "must be positive when present",
			})
		}

		// Raster elements cannot be intrinsically sized; require an
		// explicit box at save time rather than failing mid-batch.
		if (el.Kind == KindImage || el.Kind == KindQRCode) && el.Size == nil {
			errs = append(errs, ValidationError{
				ElementIndex: i, Field: "size",
				Message: fmt.Sprintf("required for %s elements", el.Kind),
			})
		}

		// QR payloads come from the render context, never from a binding.
		if el.Kind == KindQRCode {
			if el.Binding.Field != "" || el.Binding.Value != "" {
				errs = append(errs, ValidationError{
					ElementIndex: i, Field: "binding",
					Message: "qrcode elements carry no binding",
				})
			}
			continue
		}

		if el.Binding.Field == "" && el.Binding.Value == "" {
			errs = append(errs, ValidationError{
				ElementIndex: i, Field: "binding",
				Message: "requires a field or a literal value",
			})
		}
	}

	return errs
}
