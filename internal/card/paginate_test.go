// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package card

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

// fakeBackend records session lifecycle so tests can assert the one-session
// invariant and the page sequencing protocol.
type fakeBackend struct {
	opens    int
	sessions []*fakeSession

	openErr error
	drawErr error
}

func (b *fakeBackend) Open(_ context.Context, w, h float64) (Session, error) {
	b.opens++
	if b.openErr != nil {
		return nil, b.openErr
	}
	s := &fakeSession{backend: b, width: w, height: h}
	b.sessions = append(b.sessions, s)
	return s, nil
}

type fakeSession struct {
	backend *fakeBackend
	width   float64
	height  float64

	breaks    int
	pages     []*PageDescription
	finalized bool
	closed    bool
}

func (s *fakeSession) BreakPage() error {
	s.breaks++
	return nil
}

func (s *fakeSession) Draw(_ context.Context, desc *PageDescription) error {
	if s.backend.drawErr != nil {
		return s.backend.drawErr
	}
	s.pages = append(s.pages, desc)
	return nil
}

func (s *fakeSession) Finalize(w io.Writer) error {
	s.finalized = true
	_, err := fmt.Fprintf(w, "doc:%d pages", len(s.pages))
	return err
}

func (s *fakeSession) Close() { s.closed = true }

func makeRecords(n int) []Record {
	records := make([]Record, n)
	for i := range records {
		records[i] = Record{
			ID:     fmt.Sprintf("stu-%03d", i),
			Fields: map[string]string{"name": fmt.Sprintf("Student %03d", i)},
		}
	}
	return records
}

func TestRenderBatchSingleSession(t *testing.T) {
	layout := scenarioLayout()

	for _, n := range []int{1, 5, 500} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			backend := &fakeBackend{}
			r := NewRenderer(backend)

			job, err := r.RenderBatch(layout, makeRecords(n), RenderContext{})
			if err != nil {
				t.Fatalf("RenderBatch: %v", err)
			}
			var buf strings.Builder
			if err := job.Run(context.Background(), &buf); err != nil {
				t.Fatalf("Run: %v", err)
			}

			if backend.opens != 1 {
				t.Errorf("backend opens: got %d, want 1", backend.opens)
			}
			sess := backend.sessions[0]
			if len(sess.pages) != n {
				t.Errorf("pages: got %d, want %d", len(sess.pages), n)
			}
			if sess.breaks != n-1 {
				t.Errorf("page breaks: got %d, want %d", sess.breaks, n-1)
			}
			if !sess.finalized || !sess.closed {
				t.Errorf("session finalized=%v closed=%v, want both true", sess.finalized, sess.closed)
			}
		})
	}
}

func TestRenderBatchPreservesRecordOrder(t *testing.T) {
	backend := &fakeBackend{}
	r := NewRenderer(backend)

	records := makeRecords(10)
	job, _ := r.RenderBatch(scenarioLayout(), records, RenderContext{})
	if err := job.Run(context.Background(), io.Discard); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for i, page := range backend.sessions[0].pages {
		want := records[i].Fields["name"]
		if got := page.Instructions[0].Content.Text; got != want {
			t.Fatalf("page %d: got %q, want %q", i, got, want)
		}
	}
}

func TestRenderBatchEmptyRecords(t *testing.T) {
	r := NewRenderer(&fakeBackend{})
	if _, err := r.RenderBatch(scenarioLayout(), nil, RenderContext{}); err == nil {
		t.Fatal("expected error for empty batch")
	}
}

func TestRenderBatchLayoutErrorAbortsWholeBatch(t *testing.T) {
	// An unsized image slips past save-time validation; composition of
	// every record fails, and the job must fail naming the first record
	// rather than emitting a partial document.
	layout := Layout{
		Width: 350, Height: 220,
		Elements: []Element{
			{Kind: KindImage, Position: Position{X: 0, Y: 0}, Binding: Binding{Field: FieldProfileImage}},
		},
	}
	backend := &fakeBackend{}
	r := NewRenderer(backend)

	records := makeRecords(3)
	records[0].PhotoRef = "photos/a.jpg"

	job, _ := r.RenderBatch(layout, records, RenderContext{})
	err := job.Run(context.Background(), io.Discard)
	if err == nil {
		t.Fatal("expected layout error")
	}

	var le LayoutError
	if !errors.As(err, &le) {
		t.Fatalf("expected LayoutError, got %T: %v", err, err)
	}
	if le.RecordID != "stu-000" {
		t.Errorf("record id: got %q, want %q", le.RecordID, "stu-000")
	}
	if le.ElementIndex != 0 {
		t.Errorf("element index: got %d, want 0", le.ElementIndex)
	}

	sess := backend.sessions[0]
	if sess.finalized {
		t.Error("session must not be finalized after abort")
	}
	if !sess.closed {
		t.Error("session must be released after abort")
	}
}

func TestRenderBatchBackendErrors(t *testing.T) {
	t.Run("open failure", func(t *testing.T) {
		backend := &fakeBackend{openErr: errors.New("engine startup failed")}
		r := NewRenderer(backend)
		job, _ := r.RenderBatch(scenarioLayout(), makeRecords(2), RenderContext{})

		err := job.Run(context.Background(), io.Discard)
		var be BackendError
		if !errors.As(err, &be) {
			t.Fatalf("expected BackendError, got %T: %v", err, err)
		}
	})

	t.Run("draw failure releases session", func(t *testing.T) {
		backend := &fakeBackend{drawErr: errors.New("engine crashed")}
		r := NewRenderer(backend)
		job, _ := r.RenderBatch(scenarioLayout(), makeRecords(2), RenderContext{})

		err := job.Run(context.Background(), io.Discard)
		var be BackendError
		if !errors.As(err, &be) {
			t.Fatalf("expected BackendError, got %T: %v", err, err)
		}
		if !backend.sessions[0].closed {
			t.Error("session must be released after backend failure")
		}
	})
}

func TestRenderBatchCancellation(t *testing.T) {
	backend := &fakeBackend{}
	r := NewRenderer(backend)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job, _ := r.RenderBatch(scenarioLayout(), makeRecords(100), RenderContext{})
	err := job.Run(ctx, io.Discard)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !backend.sessions[0].closed {
		t.Error("session must be released after cancellation")
	}
	if backend.sessions[0].finalized {
		t.Error("canceled job must not finalize")
	}
}

func TestRenderBatchSingleUse(t *testing.T) {
	r := NewRenderer(&fakeBackend{})
	job, _ := r.RenderBatch(scenarioLayout(), makeRecords(1), RenderContext{})

	if err := job.Run(context.Background(), io.Discard); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := job.Run(context.Background(), io.Discard); err == nil {
		t.Fatal("second run must fail")
	}
}
