// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package photo normalizes uploaded student photos into the sizes the
// system needs: a print-resolution variant stamped onto ID cards and a
// small thumbnail for admin listings. Variants wider than the original
// are skipped to avoid upscaling, except that at least one variant is
// always produced.
package photo

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// Variant describes a single output size.
type Variant struct {
	Name    string // e.g., "card", "thumb"
	Width   int    // Target width in pixels
	Quality int    // JPEG quality 1-100
}

// CardVariants defines the standard sizes generated for every upload.
var CardVariants = []Variant{
	{Name: "card", Width: 300, Quality: 85},
	{Name: "thumb", Width: 120, Quality: 75},
}

// Processed holds one generated variant ready for upload.
type Processed struct {
	Name        string // Variant name (e.g., "card")
	Width       int    // Actual output width
	Height      int    // Actual output height
	Data        []byte // JPEG-encoded image bytes
	ContentType string // Always "image/jpeg"
}

// Process decodes the uploaded image and produces a JPEG variant per
// configured size. PNG, JPEG, and GIF inputs are accepted.
func Process(original []byte, variants []Variant) ([]Processed, error) {
	if len(variants) == 0 {
		variants = CardVariants
	}

	src, _, err := image.Decode(bytes.NewReader(original))
	if err != nil {
		return nil, fmt.Errorf("photo: decode failed: %w", err)
	}
	origWidth := src.Bounds().Dx()

	var results []Processed
	for _, v := range variants {
		targetWidth := v.Width
		if targetWidth > origWidth {
			// Never upscale, but make sure something is produced even for
			// tiny originals.
			if len(results) > 0 {
				continue
			}
			targetWidth = origWidth
		}

		resized := imaging.Resize(src, targetWidth, 0, imaging.Lanczos)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: v.Quality}); err != nil {
			return nil, fmt.Errorf("photo: encode %s failed: %w", v.Name, err)
		}

		results = append(results, Processed{
			Name:        v.Name,
			Width:       resized.Bounds().Dx(),
			Height:      resized.Bounds().Dy(),
			Data:        buf.Bytes(),
			ContentType: "image/jpeg",
		})
	}

	return results, nil
}
