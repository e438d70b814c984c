// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package card

import (
	"fmt"
	"unicode/utf8"
)

// Text intrinsic sizing constants. Width approximates the average glyph
// advance of the built-in core fonts as a fraction of the font size; height
// is a standard single-line leading. Both are fixed so that composition of
// equal input is always bit-identical.
const (
	glyphAdvanceEm = 0.5
	lineHeightEm   = 1.2
)

// Box is an absolute element rectangle in layout points.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DrawInstruction is one absolutely-positioned paint operation. Style is
// the fully-defaulted text style; non-text kinds carry it unused.
type DrawInstruction struct {
	Kind    Kind    `json:"kind"`
	Box     Box     `json:"box"`
	Content Content `json:"content"`
	Style   Style   `json:"style"`
}

// PageDescription is the resolved draw list for one rendered card. It lives
// only for the duration of one render and is never persisted.
type PageDescription struct {
	Width        float64           `json:"width"`
	Height       float64           `json:"height"`
	Instructions []DrawInstruction `json:"instructions"`
}

// Compose converts a layout plus resolved contents into a page description.
// Instruction order equals element order — that is the paint order, and
// preserving it exactly is a correctness requirement, not a convenience.
//
// Boxes are not clipped to the canvas; overflow handling belongs to the
// rendering backend. Unsized image and QR elements cannot be laid out and
// fail with a LayoutError naming the element index. Text elements without
// an explicit size get deterministic intrinsic dimensions from the font
// metrics approximation above.
func Compose(layout Layout, contents []Content) (*PageDescription, error) {
	if len(contents) != len(layout.Elements) {
		return nil, fmt.Errorf("compose: %d contents for %d elements", len(contents), len(layout.Elements))
	}

	desc := &PageDescription{
		Width:        layout.Width,
		Height:       layout.Height,
		Instructions: make([]DrawInstruction, 0, len(layout.Elements)),
	}

	for i, el := range layout.Elements {
		// Negative positions are rejected at save time; this is a
		// defensive re-check for layouts that bypassed validation.
		if el.Position.X < 0 || el.Position.Y < 0 {
			return nil, LayoutError{
				ElementIndex: i,
				Message:      fmt.Sprintf("negative position (%g, %g)", el.Position.X, el.Position.Y),
			}
		}

		style := el.Style.effective()
		box := Box{X: el.Position.X, Y: el.Position.Y}

		switch {
		case el.Size != nil:
			box.Width = el.Size.Width
			box.Height = el.Size.Height
		case el.Kind == KindText:
			box.Width = intrinsicTextWidth(contents[i].Text, style.FontSize)
			box.Height = style.FontSize * lineHeightEm
		default:
			// Unsized raster content has no intrinsic dimensions.
			return nil, LayoutError{
				ElementIndex: i,
				Message:      fmt.Sprintf("%s element has no size", el.Kind),
			}
		}

		desc.Instructions = append(desc.Instructions, DrawInstruction{
			Kind:    el.Kind,
			Box:     box,
			Content: contents[i],
			Style:   style,
		})
	}

	return desc, nil
}

// intrinsicTextWidth estimates the advance width of a single text line.
// Implementation-defined per the compositor contract; the only requirement
// is determinism for a given (font size, string) pair.
func intrinsicTextWidth(text string, fontSize float64) float64 {
	return float64(utf8.RuneCountInString(text)) * fontSize * glyphAdvanceEm
}
