// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package card

import "fmt"

// Content is the resolved, renderable value of one element. Exactly one of
// Text, ImageRef, or QRPayload is meaningful, per Kind. Empty marks content
// that resolved to nothing and is rendered as nothing.
type Content struct {
	Kind      Kind   `json:"kind"`
	Text      string `json:"text,omitempty"`
	ImageRef  string `json:"image_ref,omitempty"`
	QRPayload string `json:"qr_payload,omitempty"`
	Empty     bool   `json:"empty,omitempty"`
}

// Resolve binds one element to a record and render context, producing its
// concrete content. It is a pure function of its inputs.
//
// Resolution rules:
//   - qrcode elements take their payload entirely from ctx.QRPayload.
//   - The reserved fields schoolLogo and profileImage resolve to image
//     references from the context and record, never from the field map.
//   - A bound field is looked up in the record's flat map, case-sensitive.
//   - A failed lookup falls back to the literal value when one is present;
//     with no literal the element resolves to explicit empty content. A
//     record missing an optional field must never abort a batch.
func Resolve(idx int, el Element, rec Record, ctx RenderContext) (Content, error) {
	switch el.Kind {
	case KindQRCode:
		gen := ctx.QRPayload
		if gen == nil {
			gen = DefaultQRPayload
		}
		payload := gen(rec)
		return Content{Kind: KindQRCode, QRPayload: payload, Empty: payload == ""}, nil

	case KindText, KindImage:
		// fall through to binding resolution below

	default:
		return Content{}, ResolutionError{
			ElementIndex: idx,
			Message:      fmt.Sprintf("unknown element kind %q", el.Kind),
		}
	}

	value, ok := resolveBinding(el.Binding, rec, ctx)
	if !ok {
		return Content{Kind: el.Kind, Empty: true}, nil
	}

	if el.Kind == KindImage {
		return Content{Kind: KindImage, ImageRef: value}, nil
	}
	return Content{Kind: KindText, Text: value}, nil
}

// resolveBinding applies the field-then-literal fallback rule. The second
// return is false when neither source yields a non-empty value.
func resolveBinding(b Binding, rec Record, ctx RenderContext) (string, bool) {
	if b.Field != "" {
		switch b.Field {
		case FieldSchoolLogo:
			if ctx.LogoRef != "" {
				return ctx.LogoRef, true
			}
		case FieldProfileImage:
			if rec.PhotoRef != "" {
				return rec.PhotoRef, true
			}
		default:
			if v, ok := rec.Field(b.Field); ok {
				return v, true
			}
		}
	}

	if b.Value != "" {
		return b.Value, true
	}
	return "", false
}

// ResolveAll resolves every element of a layout in order. The returned
// slice is index-aligned with layout.Elements.
func ResolveAll(layout Layout, rec Record, ctx RenderContext) ([]Content, error) {
	contents := make([]Content, len(layout.Elements))
	for i, el := range layout.Elements {
		c, err := Resolve(i, el, rec, ctx)
		if err != nil {
			return nil, err
		}
		contents[i] = c
	}
	return contents, nil
}
