// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package card

// Canonical card canvas, CR80 landscape in layout points.
const (
	DefaultCanvasWidth  = 350.0
	DefaultCanvasHeight = 220.0
)

// DefaultLayout returns the built-in bootstrap card design: school logo and
// name across the top, photo on the left, identity fields beside it, and a
// QR code in the lower right. The school name is baked in as a literal so
// the layout renders correctly even for records missing every field.
//
// Used when a school gets its first template; not edited at creation time.
func DefaultLayout(schoolName string) Layout {
	labelGray := &RGB{R: 90, G: 90, B: 90}

	return Layout{
		Width:  DefaultCanvasWidth,
		Height: DefaultCanvasHeight,
		Elements: []Element{
			{
				Kind:     KindImage,
				Position: Position{X: 20, Y: 15},
				Size:     &Size{Width: 40, Height: 40},
				Binding:  Binding{Field: FieldSchoolLogo},
			},
			{
				Kind:     KindText,
				Position: Position{X: 70, Y: 25},
				Size:     &Size{Width: 260, Height: 20},
				Style:    &Style{FontSize: 14, FontStyle: "B"},
				Binding:  Binding{Value: schoolName},
			},
			{
				Kind:     KindImage,
				Position: Position{X: 20, Y: 70},
				Size:     &Size{Width: 100, Height: 120},
				Binding:  Binding{Field: FieldProfileImage},
			},
			{
				Kind:     KindText,
				Position: Position{X: 135, Y: 80},
				Size:     &Size{Width: 195, Height: 16},
				Style:    &Style{FontSize: 12, FontStyle: "B"},
				Binding:  Binding{Field: FieldName},
			},
			{
				Kind:     KindText,
				Position: Position{X: 135, Y: 105},
				Size:     &Size{Width: 130, Height: 14},
				Style:    &Style{FontSize: 9, Color: labelGray},
				Binding:  Binding{Field: FieldRegistrationNumber},
			},
			{
				Kind:     KindText,
				Position: Position{X: 135, Y: 125},
				Size:     &Size{Width: 130, Height: 14},
				Style:    &Style{FontSize: 9, Color: labelGray},
				Binding:  Binding{Field: FieldClass},
			},
			{
				Kind:     KindText,
				Position: Position{X: 135, Y: 145},
				Size:     &Size{Width: 130, Height: 14},
				Style:    &Style{FontSize: 9, Color: labelGray},
				Binding:  Binding{Field: FieldAcademicYear},
			},
			{
				Kind:     KindQRCode,
				Position: Position{X: 275, Y: 145},
				Size:     &Size{Width: 55, Height: 55},
			},
		},
	}
}
