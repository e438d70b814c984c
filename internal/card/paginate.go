// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package card

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Backend is the rendering engine boundary. Open starts one engine session
// sized to the card canvas with the first page ready for drawing. Sessions
// are expensive; the paginator opens exactly one per batch.
type Backend interface {
	Open(ctx context.Context, width, height float64) (Session, error)
}

// Session is one open backend session. It is not safe for concurrent use —
// pages must be submitted sequentially, in order. Close releases the
// session and must be safe to call after any failure and after Finalize.
type Session interface {
	// BreakPage starts a new page. The paginator calls it before every
	// record except the first.
	BreakPage() error

	// Draw paints one page description onto the current page.
	Draw(ctx context.Context, desc *PageDescription) error

	// Finalize flushes the document and writes the combined bytes.
	Finalize(w io.Writer) error

	Close()
}

// Renderer runs batch render jobs against a backend. Independent jobs may
// run concurrently; each gets its own session and shares no mutable state.
type Renderer struct {
	backend Backend
}

func NewRenderer(backend Backend) *Renderer {
	return &Renderer{backend: backend}
}

// Job states. One job moves Idle → Opened → (Composing → PageEmitted)* →
// Closed; Run enforces single use.
type jobState int

const (
	stateIdle jobState = iota
	stateOpened
	stateComposing
	statePageEmitted
	stateClosed
)

// Job is one batch render: a layout bound to an ordered record list. It is
// a drainable handle — pages are composed and submitted one at a time while
// Run streams, so peak memory stays flat for large classes.
type Job struct {
	renderer *Renderer
	layout   Layout
	records  []Record
	rctx     RenderContext
	state    jobState
}

// RenderBatch prepares a job rendering records onto the layout, one page
// per record, in input order. A single-record render is the N=1 case of
// the same path — single and batch output can never diverge.
func (r *Renderer) RenderBatch(layout Layout, records []Record, rctx RenderContext) (*Job, error) {
	if len(records) == 0 {
		return nil, errors.New("render batch: no records")
	}
	if rctx.QRPayload == nil {
		rctx.QRPayload = DefaultQRPayload
	}
	return &Job{
		renderer: r,
		layout:   layout,
		records:  records,
		rctx:     rctx,
	}, nil
}

// Run drives the job to completion, writing the finalized document bytes
// to w. The backend session is opened once, reused for every record, and
// released unconditionally — on success, on a mid-batch composition error,
// and on backend failure alike.
//
// A LayoutError on any record aborts the whole batch: a partially rendered
// card batch with silently missing entries is a worse outcome than a clear
// failure naming the offending record. Cancellation is checked between
// records so very large batches abort promptly.
func (j *Job) Run(ctx context.Context, w io.Writer) error {
	if j.state != stateIdle {
		return errors.New("render job already run")
	}

	sess, err := j.renderer.backend.Open(ctx, j.layout.Width, j.layout.Height)
	if err != nil {
		j.state = stateClosed
		return BackendError{Op: "open", Err: err}
	}
	j.state = stateOpened
	defer func() {
		sess.Close()
		j.state = stateClosed
	}()

	for i, rec := range j.records {
		if err := ctx.Err(); err != nil {
			return err
		}

		if i > 0 {
			if err := sess.BreakPage(); err != nil {
				return BackendError{Op: "page break", Err: err}
			}
		}

		j.state = stateComposing
		desc, err := j.composeRecord(rec)
		if err != nil {
			return err
		}

		if err := sess.Draw(ctx, desc); err != nil {
			return BackendError{Op: fmt.Sprintf("draw record %s", rec.ID), Err: err}
		}
		j.state = statePageEmitted
	}

	if err := sess.Finalize(w); err != nil {
		return BackendError{Op: "finalize", Err: err}
	}
	return nil
}

// composeRecord runs the resolve + compose pipeline for one record,
// stamping the record id onto any layout failure.
func (j *Job) composeRecord(rec Record) (*PageDescription, error) {
	contents, err := ResolveAll(j.layout, rec, j.rctx)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", rec.ID, err)
	}

	desc, err := Compose(j.layout, contents)
	if err != nil {
		var le LayoutError
		if errors.As(err, &le) {
			le.RecordID = rec.ID
			return nil, le
		}
		return nil, fmt.Errorf("record %s: %w", rec.ID, err)
	}
	return desc, nil
}
