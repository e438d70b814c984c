// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package card implements the template-driven ID card compositor: the
// declarative layout model, the field resolver that binds template elements
// to student record values, the layout compositor that produces absolute
// draw instructions, and the batch paginator that turns many records into
// one multi-page document through a single rendering-backend session.
package card

// Kind identifies the visual type of a layout element.
type Kind string

const (
	KindText   Kind = "text"
	KindImage  Kind = "image"
	KindQRCode Kind = "qrcode"
)

// Default text styling applied when an element carries no explicit style.
const (
	DefaultFontFamily = "Helvetica"
	DefaultFontSize   = 10.0
	DefaultAlign      = "L"
)

// Position is the top-left corner of an element in layout points.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is an explicit element box size in layout points. Optional for text
// elements (intrinsic sizing applies); required for image and QR elements.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RGB is a 24-bit text color.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Style carries rendering hints for text elements. All fields are optional;
// zero values fall back to the package defaults. Non-text elements ignore it.
type Style struct {
	FontFamily string  `json:"font_family,omitempty"`
	FontSize   float64 `json:"font_size,omitempty"`
	FontStyle  string  `json:"font_style,omitempty"` // "", "B", "I", "BI"
	Color      *RGB    `json:"color,omitempty"`
	Align      string  `json:"align,omitempty"` // "L", "C", "R"
}

// effective returns a fully-populated copy with defaults applied. It is
// deterministic so composed output stays bit-identical for equal input.
func (s *Style) effective() Style {
	out := Style{
		FontFamily: DefaultFontFamily,
		FontSize:   DefaultFontSize,
		Align:      DefaultAlign,
	}
	if s == nil {
		return out
	}
	if s.FontFamily != "" {
		out.FontFamily = s.FontFamily
	}
	if s.FontSize > 0 {
		out.FontSize = s.FontSize
	}
	out.FontStyle = s.FontStyle
	if s.Color != nil {
		c := *s.Color
		out.Color = &c
	}
	if s.Align != "" {
		out.Align = s.Align
	}
	return out
}

// Binding maps an element to its content source: a record field looked up
// at render time, a literal value, or both (field wins when it resolves).
// QR elements carry no binding — their payload comes from the render context.
type Binding struct {
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
}

// Element is one positioned visual unit within a layout. Slice order in
// Layout.Elements is paint order: later elements draw over earlier ones.
type Element struct {
	Kind     Kind     `json:"kind"`
	Position Position `json:"position"`
	Size     *Size    `json:"size,omitempty"`
	Style    *Style   `json:"style,omitempty"`
	Binding  Binding  `json:"binding,omitempty"`
}

// Layout is a reusable card design: a canvas plus an ordered element list.
// Stored as JSONB on card_templates and never mutated during rendering.
type Layout struct {
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Elements []Element `json:"elements"`
}
