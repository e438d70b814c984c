// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pdf implements the card rendering backend on top of go-pdf/fpdf.
// One Engine.Open call creates one fpdf document reused for every page of a
// batch; the paginator owns the page sequencing protocol.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"scolaris/internal/card"
)

// qrPixels is the raster size QR payloads are encoded at before placement.
// Large enough that a 55pt box on the card stays sharp in print.
const qrPixels = 256

// ImageLoader fetches the bytes behind an opaque image reference (an
// object-storage key). The engine registers each reference once per
// session, so repeated refs (the school logo on every card) load once.
type ImageLoader func(ctx context.Context, ref string) ([]byte, error)

// Engine implements card.Backend. Safe for concurrent Open calls; each
// session is single-threaded as the paginator requires.
type Engine struct {
	loader ImageLoader
}

func New(loader ImageLoader) *Engine {
	return &Engine{loader: loader}
}

// Open creates a document with a custom page format matching the card
// canvas, in points and margin-free. The fixed creation date and sorted
// catalog keep repeated renders reproducible: font objects are emitted in
// a stable order, and the output is byte-identical unless the document
// embeds multiple images of equal pixel width, which fpdf orders
// arbitrarily. Full bit-identity is the compositor's guarantee, at the
// PageDescription level; the serialized PDF is best-effort stable.
func (e *Engine) Open(_ context.Context, width, height float64) (card.Session, error) {
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetCellMargin(0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCatalogSort(true)
	doc.SetCreationDate(time.Unix(0, 0).UTC())
	doc.SetModificationDate(time.Unix(0, 0).UTC())
	doc.AddPage()

	if doc.Err() {
		return nil, doc.Error()
	}

	return &session{
		doc:        doc,
		loader:     e.loader,
		size:       fpdf.SizeType{Wd: width, Ht: height},
		translate:  doc.UnicodeTranslatorFromDescriptor(""),
		registered: make(map[string]bool),
	}, nil
}

type session struct {
	doc       *fpdf.Fpdf
	loader    ImageLoader
	size      fpdf.SizeType
	translate func(string) string

	// registered tracks fpdf image names already fed to the document so
	// each logo/photo/QR raster is decoded and embedded once.
	registered map[string]bool
}

func (s *session) BreakPage() error {
	s.doc.AddPageFormat("P", s.size)
	if s.doc.Err() {
		return s.doc.Error()
	}
	return nil
}

func (s *session) Draw(ctx context.Context, desc *card.PageDescription) error {
	for i, ins := range desc.Instructions {
		if ins.Content.Empty {
			continue
		}

		var err error
		switch ins.Kind {
		case card.KindText:
			err = s.drawText(ins)
		case card.KindImage:
			err = s.drawImage(ctx, ins.Content.ImageRef, ins.Box)
		case card.KindQRCode:
			err = s.drawQR(ins.Content.QRPayload, ins.Box)
		}
		if err != nil {
			return fmt.Errorf("instruction %d: %w", i, err)
		}
	}
	return nil
}

func (s *session) drawText(ins card.DrawInstruction) error {
	st := ins.Style
	s.doc.SetFont(st.FontFamily, st.FontStyle, st.FontSize)
	if st.Color != nil {
		s.doc.SetTextColor(int(st.Color.R), int(st.Color.G), int(st.Color.B))
	} else {
		s.doc.SetTextColor(0, 0, 0)
	}

	s.doc.SetXY(ins.Box.X, ins.Box.Y)
	s.doc.CellFormat(ins.Box.Width, ins.Box.Height, s.translate(ins.Content.Text), "", 0, st.Align+"M", false, 0, "")

	if s.doc.Err() {
		return s.doc.Error()
	}
	return nil
}

func (s *session) drawImage(ctx context.Context, ref string, box card.Box) error {
	if !s.registered[ref] {
		if s.loader == nil {
			return fmt.Errorf("image %q: no loader configured", ref)
		}
		data, err := s.loader(ctx, ref)
		if err != nil {
			return fmt.Errorf("load image %q: %w", ref, err)
		}
		opts := fpdf.ImageOptions{ImageType: imageType(data)}
		s.doc.RegisterImageOptionsReader(ref, opts, bytes.NewReader(data))
		if s.doc.Err() {
			return s.doc.Error()
		}
		s.registered[ref] = true
	}

	s.doc.ImageOptions(ref, box.X, box.Y, box.Width, box.Height, false, fpdf.ImageOptions{}, 0, "")
	if s.doc.Err() {
		return s.doc.Error()
	}
	return nil
}

func (s *session) drawQR(payload string, box card.Box) error {
	name := "qr\x00" + payload
	if !s.registered[name] {
		png, err := qrcode.Encode(payload, qrcode.Medium, qrPixels)
		if err != nil {
			return fmt.Errorf("encode qr: %w", err)
		}
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		s.doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
		if s.doc.Err() {
			return s.doc.Error()
		}
		s.registered[name] = true
	}

	s.doc.ImageOptions(name, box.X, box.Y, box.Width, box.Height, false, fpdf.ImageOptions{}, 0, "")
	if s.doc.Err() {
		return s.doc.Error()
	}
	return nil
}

func (s *session) Finalize(w io.Writer) error {
	if err := s.doc.Output(w); err != nil {
		return err
	}
	return nil
}

func (s *session) Close() {
	s.doc.Close()
}

// imageType sniffs the fpdf image type string from raw bytes.
func imageType(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return "PNG"
	case "image/jpeg":
		return "JPG"
	case "image/gif":
		return "GIF"
	default:
		// fpdf falls back to extension-based detection and errors on
		// formats it cannot place.
		return ""
	}
}
